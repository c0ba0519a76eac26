// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phased

import (
	"github.com/hartrusion/phxnetmod/handler/xcouple"
	"github.com/hartrusion/phxnetmod/netgraph"
)

// NoMassEnergyExchanger is the phased-side of a phased↔heat coupling
//, implementing xcouple.EnergySide so it can pair with a
// heat.NoMassEnergyExchanger without either package importing the other.
type NoMassEnergyExchanger struct {
	ports         []port
	CP            float64
	Effectiveness float64
	Other         xcouple.EnergySide
}

func NewNoMassEnergyExchanger(cp float64) *NoMassEnergyExchanger {
	return &NoMassEnergyExchanger{CP: cp, Effectiveness: xcouple.DefaultEffectiveness}
}

func (h *NoMassEnergyExchanger) RegisterNode(n *netgraph.Node, slot int) error {
	h.ports = append(h.ports, port{node: n, slot: slot})
	return nil
}

func (h *NoMassEnergyExchanger) Prepare() {}

func (h *NoMassEnergyExchanger) inlet() (port, bool) {
	for _, p := range h.ports {
		if p.incoming() {
			return p, true
		}
	}
	return port{}, false
}

func (h *NoMassEnergyExchanger) outlet() (port, bool) {
	for _, p := range h.ports {
		if p.outgoing() {
			return p, true
		}
	}
	return port{}, false
}

func (h *NoMassEnergyExchanger) mdot() (float64, bool) {
	in, has := h.inlet()
	if !has || !in.flowUpdated() {
		return 0, false
	}
	return absf(in.flow()), true
}

// InletTemp implements xcouple.EnergySide by converting heat-energy to an
// equivalent temperature via CP.
func (h *NoMassEnergyExchanger) InletTemp() (float64, bool) {
	in, has := h.inlet()
	if !has || !in.heUpdated() || in.heNoValue() {
		return 0, false
	}
	return in.heValue() / h.CP, true
}

func (h *NoMassEnergyExchanger) MaxEnergyDelta(tOther float64) (float64, bool) {
	tIn, ok := h.InletTemp()
	if !ok {
		return 0, false
	}
	m, ok := h.mdot()
	if !ok {
		return 0, false
	}
	return (tOther - tIn) * h.CP * m, true
}

func (h *NoMassEnergyExchanger) SetPowerTransfer(watts float64) bool {
	out, has := h.outlet()
	if !has || out.heUpdated() {
		return false
	}
	in, _ := h.inlet()
	m, ok := h.mdot()
	if !ok || m <= ZeroFlowTolerance {
		out.setNoHE()
		return true
	}
	out.setHE(in.heValue() + watts/m)
	return true
}

func (h *NoMassEnergyExchanger) SetNoPowerTransfer() bool {
	out, has := h.outlet()
	if !has || out.heUpdated() {
		return false
	}
	out.setNoHE()
	return true
}

// allOwnFlowsZero mirrors NoMassExchanger.allOwnFlowsZero.
func (h *NoMassEnergyExchanger) allOwnFlowsZero() bool {
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

// MarkZeroFlow implements xcouple.EnergySide.
func (h *NoMassEnergyExchanger) MarkZeroFlow() bool {
	if !h.allOwnFlowsZero() {
		return false
	}
	progressed := false
	for _, p := range h.ports {
		if !p.heUpdated() {
			p.setNoHE()
			progressed = true
		}
	}
	return progressed
}

func (h *NoMassEnergyExchanger) DoCalculation() (bool, error) {
	if h.Other == nil {
		return false, nil
	}
	selfZero := h.MarkZeroFlow()
	otherZero := h.Other.MarkZeroFlow()
	if selfZero || otherZero {
		return true, nil
	}
	out, hasOut := h.outlet()
	if hasOut && out.heUpdated() {
		return false, nil
	}
	tIn, ok := h.InletTemp()
	if !ok {
		return false, nil
	}
	tOther, ok := h.Other.InletTemp()
	if !ok {
		return false, nil
	}
	dThis, ok := h.MaxEnergyDelta(tOther)
	if !ok {
		return false, nil
	}
	dOther, ok := h.Other.MaxEnergyDelta(tIn)
	if !ok {
		return false, nil
	}
	if dThis == 0 && dOther == 0 {
		h.SetNoPowerTransfer()
		h.Other.SetNoPowerTransfer()
		return true, nil
	}
	aThis, aOther := absf(dThis), absf(dOther)
	q := h.Effectiveness * aThis
	if aOther < aThis {
		q = h.Effectiveness * aOther
	}
	if dThis < 0 {
		q = -q
	}
	h.SetPowerTransfer(q)
	h.Other.SetPowerTransfer(-q)
	return true, nil
}

func (h *NoMassEnergyExchanger) IsFinished() bool {
	for _, p := range h.ports {
		if !p.heUpdated() {
			return false
		}
	}
	return true
}

func (h *NoMassEnergyExchanger) SetInitial(float64) error   { return errNoCapacity("no_mass_energy_exchanger") }
func (h *NoMassEnergyExchanger) GetValue() (float64, error) { return 0, errNoCapacity("no_mass_energy_exchanger") }
func (h *NoMassEnergyExchanger) SetMassOrCapacity(float64) error {
	return errNoCapacity("no_mass_energy_exchanger")
}
func (h *NoMassEnergyExchanger) SetFromConverter(float64) error {
	return errNotConnection("no_mass_energy_exchanger")
}
