// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heat

import "github.com/hartrusion/phxnetmod/netgraph"

// Volumized is the delayed-mixing variant: the element carries its
// own thermal mass, so every outgoing slot receives the temperature the
// element is already holding, immediately, before any inflow temperature
// is known (this is what lets closed loops converge), while the blended
// next temperature is computed once the inflow side resolves and committed
// at the next Prepare. Registered under "volumized".
type Volumized struct {
	ports     []port
	mass      float64 // inner thermal mass, set by SetMassOrCapacity
	current   float64 // temperature the element is holding this cycle
	next      float64
	nextReady bool
	StepTime  float64 // Δt; cascaded by the assembler's SetStepTime

	// extraHeat, when non-nil, contributes a conductive term to the blend:
	// the returned value is Q̇/c_p (kg·K/s), subtracted from the inflow
	// energy sum; ok=false delays the next-temperature computation until
	// the coupled quantity is resolved. Used by ThermalCoupledVolumized.
	extraHeat func() (qOverCp float64, ok bool)
}

// SetStepTime cascades the model's step time onto this handler.
func (h *Volumized) SetStepTime(dt float64) { h.StepTime = dt }

func NewVolumized() *Volumized { return &Volumized{} }

func (h *Volumized) RegisterNode(n *netgraph.Node, slot int) error {
	h.ports = append(h.ports, port{node: n, slot: slot})
	return nil
}

// Prepare commits the blended next temperature into the held one, the same
// storage swap Capacitance uses, expressed on the handler's own scalar.
func (h *Volumized) Prepare() {
	if h.nextReady {
		h.current = h.next
		h.nextReady = false
	}
}

// mixedInflowTemp computes the instantaneous flow-weighted inflow
// temperature the same way SimpleMix does, returning ok=false if an
// incoming port's temperature is not yet resolved.
func (h *Volumized) mixedInflowTemp() (t float64, totalIn float64, ok bool) {
	for _, p := range h.ports {
		if p.incoming() && !p.tempUpdated() {
			return 0, 0, false
		}
	}
	var num, den float64
	for _, p := range h.ports {
		if p.incoming() && !p.tempNoValue() {
			num += p.flow() * p.tempValue()
			den += p.flow()
		}
	}
	if den <= 0 {
		return h.current, 0, true
	}
	return num / den, den, true
}

// DoCalculation assigns the held temperature to every outgoing slot, marks
// zero-flow slots no_temperature, and once every inflow temperature is
// resolved computes next_T = (m·T + Σṁ_in·Δt·T_in) / (m + Σṁ_in·Δt)
// for the next cycle's Prepare to commit.
func (h *Volumized) DoCalculation() (bool, error) {
	for _, p := range h.ports {
		if !p.flowUpdated() {
			return false, nil
		}
	}
	progressed := false
	for _, p := range h.ports {
		if p.tempUpdated() {
			continue
		}
		if p.outgoing() {
			p.setTemp(h.current)
			progressed = true
		} else if p.isZero() {
			p.setNoTemp()
			progressed = true
		}
	}
	if h.nextReady {
		return progressed, nil
	}
	tin, totalIn, ok := h.mixedInflowTemp()
	if !ok {
		return progressed, nil
	}
	var qOverCp float64
	if h.extraHeat != nil {
		q, qok := h.extraHeat()
		if !qok {
			return progressed, nil
		}
		qOverCp = q
	}
	h.next = tin
	if h.mass > 0 {
		scaledIn := totalIn * h.StepTime
		h.next = (h.mass*h.current + scaledIn*tin - qOverCp*h.StepTime) / (h.mass + scaledIn)
	}
	h.nextReady = true
	return true, nil
}

func (h *Volumized) IsFinished() bool {
	if !h.nextReady {
		return false
	}
	for _, p := range h.ports {
		if !p.tempUpdated() {
			return false
		}
	}
	return true
}

func (h *Volumized) SetInitial(t float64) error {
	h.current = t
	return nil
}

func (h *Volumized) GetValue() (float64, error) { return h.current, nil }

func (h *Volumized) SetMassOrCapacity(v float64) error {
	h.mass = v
	return nil
}

func (h *Volumized) SetFromConverter(float64) error { return errNotConnection("volumized") }
