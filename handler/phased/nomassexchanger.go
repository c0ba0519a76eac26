// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phased

import (
	"math"

	"github.com/hartrusion/phxnetmod/netgraph"
)

// NoMassExchanger mirrors heat.NoMassExchanger's NTU/ε model
// over heat-energy slots instead of temperature slots; CP converts the
// energy quantities to an equivalent temperature purely for the
// effectiveness computation.
type NoMassExchanger struct {
	ports []port
	NTU   float64
	CP    float64
	other *NoMassExchanger
}

func NewNoMassExchanger(ntu, cp float64) *NoMassExchanger {
	return &NoMassExchanger{NTU: ntu, CP: cp}
}

func (h *NoMassExchanger) SetOtherSide(other *NoMassExchanger) {
	h.other = other
	other.other = h
}

func (h *NoMassExchanger) RegisterNode(n *netgraph.Node, slot int) error {
	h.ports = append(h.ports, port{node: n, slot: slot})
	return nil
}

func (h *NoMassExchanger) Prepare() {}

func (h *NoMassExchanger) inlet() (port, bool) {
	for _, p := range h.ports {
		if p.incoming() {
			return p, true
		}
	}
	return port{}, false
}

func (h *NoMassExchanger) outlet() (port, bool) {
	for _, p := range h.ports {
		if p.outgoing() {
			return p, true
		}
	}
	return port{}, false
}

func (h *NoMassExchanger) inletReady() (flow, he float64, ok bool) {
	in, has := h.inlet()
	if !has || !in.heUpdated() || in.heNoValue() {
		return 0, 0, false
	}
	return in.flow(), in.heValue(), true
}

func effectiveness(ntu, cRel float64) float64 {
	if math.Abs(cRel-1) < 1e-40 {
		return ntu / (1 + ntu)
	}
	return (1 - math.Exp(-ntu*(1-cRel))) / (1 - cRel*math.Exp(-ntu*(1-cRel)))
}

// allOwnFlowsZero mirrors heat.NoMassExchanger.allOwnFlowsZero: the
// incoming()/outgoing() sign test never matches a numerically-zero flow, so
// the zero-flow degeneracy needs its own direct check over this side's own
// ports rather than going through the inlet/outlet lookup.
func (h *NoMassExchanger) allOwnFlowsZero() bool {
	if len(h.ports) == 0 {
		return false
	}
	for _, p := range h.ports {
		if !p.flowUpdated() || !p.isZero() {
			return false
		}
	}
	return true
}

func (h *NoMassExchanger) DoCalculation() (bool, error) {
	if h.other == nil {
		return false, nil
	}
	progressed := false
	if h.allOwnFlowsZero() {
		for _, p := range h.ports {
			if !p.heUpdated() {
				p.setNoHE()
				progressed = true
			}
		}
	}
	if h.other.allOwnFlowsZero() {
		for _, p := range h.other.ports {
			if !p.heUpdated() {
				p.setNoHE()
				progressed = true
			}
		}
	}
	if progressed {
		return true, nil
	}
	selfOut, hasSelfOut := h.outlet()
	otherOut, hasOtherOut := h.other.outlet()
	selfDone := !hasSelfOut || selfOut.heUpdated()
	otherDone := !hasOtherOut || otherOut.heUpdated()
	if selfDone && otherDone {
		return false, nil
	}
	selfFlow, selfHE, selfOK := h.inletReady()
	if !selfOK {
		return false, nil
	}
	otherFlow, otherHE, otherOK := h.other.inletReady()
	if !otherOK {
		return false, nil
	}
	cSelf, cOther := absf(selfFlow)*h.CP, absf(otherFlow)*h.other.CP
	progressed = false
	if cSelf <= ZeroFlowTolerance || cOther <= ZeroFlowTolerance {
		if hasSelfOut && !selfOut.heUpdated() {
			selfOut.setNoHE()
			progressed = true
		}
		if hasOtherOut && !otherOut.heUpdated() {
			otherOut.setNoHE()
			progressed = true
		}
		return progressed, nil
	}
	tSelf, tOther := selfHE/h.CP, otherHE/h.other.CP
	cMin, cMax := cSelf, cOther
	if cOther < cSelf {
		cMin, cMax = cOther, cSelf
	}
	eps := effectiveness(h.NTU, cMin/cMax)
	q := eps * cMin * (tSelf - tOther)
	if hasSelfOut && !selfOut.heUpdated() {
		selfOut.setHE(selfHE - q/absf(selfFlow))
		progressed = true
	}
	if hasOtherOut && !otherOut.heUpdated() {
		otherOut.setHE(otherHE + q/absf(otherFlow))
		progressed = true
	}
	return progressed, nil
}

func (h *NoMassExchanger) IsFinished() bool {
	for _, p := range h.ports {
		if !p.heUpdated() {
			return false
		}
	}
	return true
}

func (h *NoMassExchanger) SetInitial(float64) error        { return errNoCapacity("no_mass_exchanger") }
func (h *NoMassExchanger) GetValue() (float64, error)      { return 0, errNoCapacity("no_mass_exchanger") }
func (h *NoMassExchanger) SetMassOrCapacity(float64) error { return errNoCapacity("no_mass_exchanger") }
func (h *NoMassExchanger) SetFromConverter(float64) error  { return errNotConnection("no_mass_exchanger") }
