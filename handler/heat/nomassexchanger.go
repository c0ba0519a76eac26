// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heat

import (
	"math"

	"github.com/hartrusion/phxnetmod/netgraph"
)

// NoMassExchanger is one stream-side of a two-stream NTU/effectiveness heat
// exchanger: it carries no thermal mass of its own and derives both
// outlet temperatures in a single invocation once its own inlet and its
// peer's inlet are both known, via the closed-form NTU/ε relation. Two
// instances are linked with SetOtherSide to form one exchanger. Built with
// NewNoMassExchanger; it is not in the name registry.
type NoMassExchanger struct {
	ports []port // exactly 2: inlet, outlet, distinguished by flow sign
	NTU   float64
	CP    float64 // specific heat, J/(kg·K)
	other *NoMassExchanger
}

func NewNoMassExchanger(ntu, cp float64) *NoMassExchanger {
	return &NoMassExchanger{NTU: ntu, CP: cp}
}

// SetOtherSide links the two stream handlers that together form one
// exchanger; must be called once, symmetrically, before the first sweep.
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

func (h *NoMassExchanger) inletReady() (flow, temp float64, ok bool) {
	in, has := h.inlet()
	if !has || !in.tempUpdated() || in.tempNoValue() {
		return 0, 0, false
	}
	return in.flow(), in.tempValue(), true
}

// effectiveness implements the closed-form NTU/ε relation.
func effectiveness(ntu, cRel float64) float64 {
	if math.Abs(cRel-1) < 1e-40 {
		return ntu / (1 + ntu)
	}
	return (1 - math.Exp(-ntu*(1-cRel))) / (1 - cRel*math.Exp(-ntu*(1-cRel)))
}

// allOwnFlowsZero reports whether every one of this side's own ports has a
// known flow and all of them are numerically zero within ZeroFlowTolerance,
// independent of which port the sign convention would call inlet vs outlet.
// Needed because incoming()/outgoing() never match a port whose flow is
// exactly (numerically) zero, so the ordinary inlet/ outlet lookup can never
// resolve the zero-flow degeneracy on its own.
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

// DoCalculation derives both sides' outlet temperatures in a single call,
// the first side whose prerequisites are satisfied does the work for both
// via the peer link. The zero-flow degeneracy is handled per side,
// independent of the peer: a side with no flow at all carries no temperature
// regardless of what the other stream is doing.
func (h *NoMassExchanger) DoCalculation() (bool, error) {
	if h.other == nil {
		return false, nil
	}
	progressed := false
	if h.allOwnFlowsZero() {
		for _, p := range h.ports {
			if !p.tempUpdated() {
				p.setNoTemp()
				progressed = true
			}
		}
	}
	if h.other.allOwnFlowsZero() {
		for _, p := range h.other.ports {
			if !p.tempUpdated() {
				p.setNoTemp()
				progressed = true
			}
		}
	}
	if progressed {
		return true, nil
	}
	selfOut, hasSelfOut := h.outlet()
	otherOut, hasOtherOut := h.other.outlet()
	selfDone := !hasSelfOut || selfOut.tempUpdated()
	otherDone := !hasOtherOut || otherOut.tempUpdated()
	if selfDone && otherDone {
		return false, nil
	}
	selfFlow, selfTemp, selfOK := h.inletReady()
	if !selfOK {
		return false, nil
	}
	otherFlow, otherTemp, otherOK := h.other.inletReady()
	if !otherOK {
		return false, nil
	}
	cSelf, cOther := absf(selfFlow)*h.CP, absf(otherFlow)*h.other.CP
	progressed = false
	if cSelf <= ZeroFlowTolerance || cOther <= ZeroFlowTolerance {
		if hasSelfOut && !selfOut.tempUpdated() {
			selfOut.setNoTemp()
			progressed = true
		}
		if hasOtherOut && !otherOut.tempUpdated() {
			otherOut.setNoTemp()
			progressed = true
		}
		return progressed, nil
	}
	cMin, cMax := cSelf, cOther
	if cOther < cSelf {
		cMin, cMax = cOther, cSelf
	}
	eps := effectiveness(h.NTU, cMin/cMax)
	q := eps * cMin * (selfTemp - otherTemp)
	if hasSelfOut && !selfOut.tempUpdated() {
		selfOut.setTemp(selfTemp - q/cSelf)
		progressed = true
	}
	if hasOtherOut && !otherOut.tempUpdated() {
		otherOut.setTemp(otherTemp + q/cOther)
		progressed = true
	}
	return progressed, nil
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func (h *NoMassExchanger) IsFinished() bool {
	for _, p := range h.ports {
		if !p.tempUpdated() {
			return false
		}
	}
	return true
}

func (h *NoMassExchanger) SetInitial(float64) error        { return errNoCapacity("no_mass_exchanger") }
func (h *NoMassExchanger) GetValue() (float64, error)      { return 0, errNoCapacity("no_mass_exchanger") }
func (h *NoMassExchanger) SetMassOrCapacity(float64) error { return errNoCapacity("no_mass_exchanger") }
func (h *NoMassExchanger) SetFromConverter(float64) error  { return errNotConnection("no_mass_exchanger") }
