// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phased

import "github.com/hartrusion/phxnetmod/netgraph"

// ExpandingThermalExchanger is the phased-fluid analogue of the steam
// isobaric-isochoric evaporator: a fixed-capacity reservoir
// whose held heat-energy evolves against a fixed inner mass, tracking negative_mass,
// delayed_in_heat_energy and inner_heated_mass. Unlike the steam variant it
// has no specific-volume equation of state to invert, so its mass/energy
// coupling is the simpler blended-reservoir rule below rather than a
// pressure-driven volume split; ported in the same spirit as the steam
// evaporator's deliberately coarse reverse-flow path,
// not a literal translation of it.
type ExpandingThermalExchanger struct {
	ports               []port
	InnerHeatedMass     float64
	current             float64
	NegativeMass        float64
	DelayedInHeatEnergy float64
	hasDelayed          bool
	hasInit             bool
	StepTime            float64
}

func NewExpandingThermalExchanger(innerMass float64) *ExpandingThermalExchanger {
	return &ExpandingThermalExchanger{InnerHeatedMass: innerMass}
}

func (h *ExpandingThermalExchanger) RegisterNode(n *netgraph.Node, slot int) error {
	h.ports = append(h.ports, port{node: n, slot: slot})
	return nil
}

// SetStepTime cascades the model's step time onto this handler.
func (h *ExpandingThermalExchanger) SetStepTime(dt float64) { h.StepTime = dt }

func (h *ExpandingThermalExchanger) Prepare() {}

func (h *ExpandingThermalExchanger) DoCalculation() (bool, error) {
	for _, p := range h.ports {
		if !p.flowUpdated() {
			return false, nil
		}
	}
	allZero := true
	for _, p := range h.ports {
		if !p.isZero() {
			allZero = false
			break
		}
	}
	if allZero {
		progressed := false
		for _, p := range h.ports {
			if !p.heUpdated() {
				if h.hasInit {
					p.setHE(h.current)
				} else {
					p.setNoHE()
				}
				progressed = true
			}
		}
		return progressed, nil
	}

	var num, den float64
	inflowReady := true
	for _, p := range h.ports {
		if p.incoming() {
			if !p.heUpdated() {
				inflowReady = false
				continue
			}
			if !p.heNoValue() {
				num += p.flow() * p.heValue()
				den += p.flow()
			}
		}
	}
	if !inflowReady {
		return false, nil
	}

	var inHE float64
	if den > 0 {
		inHE = num / den
		h.DelayedInHeatEnergy = inHE
		h.hasDelayed = true
	} else if h.hasDelayed {
		// No inflow resolved this sweep (e.g. all incoming are no_value):
		// fall back to the previous sweep's recorded inflow, the one-step
		// delay the steam variant's reverse path also relies on.
		inHE = h.DelayedInHeatEnergy
	} else {
		inHE = h.current
	}

	outflowMagnitude := 0.0
	for _, p := range h.ports {
		if p.outgoing() {
			outflowMagnitude += -p.flow()
		}
	}

	deficit := (outflowMagnitude - den) * h.StepTime
	if deficit > 0 {
		h.NegativeMass += deficit
	} else if h.NegativeMass > 0 {
		drain := -deficit
		if drain > h.NegativeMass {
			drain = h.NegativeMass
		}
		h.NegativeMass -= drain
	}

	next := inHE
	if h.InnerHeatedMass > 0 {
		scaledIn := den * h.StepTime
		next = (h.InnerHeatedMass*h.current + scaledIn*inHE) / (h.InnerHeatedMass + scaledIn)
	}

	progressed := false
	for _, p := range h.ports {
		if p.outgoing() && !p.heUpdated() {
			p.setHE(next)
			progressed = true
		}
	}
	if progressed {
		h.current = next
		h.hasInit = true
	}
	return progressed, nil
}

func (h *ExpandingThermalExchanger) IsFinished() bool {
	for _, p := range h.ports {
		if !p.heUpdated() {
			return false
		}
	}
	return true
}

func (h *ExpandingThermalExchanger) SetInitial(v float64) error {
	h.current = v
	h.hasInit = true
	return nil
}

func (h *ExpandingThermalExchanger) GetValue() (float64, error) { return h.current, nil }

func (h *ExpandingThermalExchanger) SetMassOrCapacity(v float64) error {
	h.InnerHeatedMass = v
	return nil
}

func (h *ExpandingThermalExchanger) SetFromConverter(float64) error {
	return errNotConnection("expanding_thermal_exchanger")
}

// GetExtraState implements netgraph.ExtraStateCarrier.
func (h *ExpandingThermalExchanger) GetExtraState() map[string]float64 {
	return map[string]float64{
		"negative_mass":          h.NegativeMass,
		"delayed_in_heat_energy": h.DelayedInHeatEnergy,
	}
}

func (h *ExpandingThermalExchanger) SetExtraState(m map[string]float64) error {
	if v, ok := m["negative_mass"]; ok {
		h.NegativeMass = v
	}
	if v, ok := m["delayed_in_heat_energy"]; ok {
		h.DelayedInHeatEnergy = v
		h.hasDelayed = true
	}
	return nil
}
