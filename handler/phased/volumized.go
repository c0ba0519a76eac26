// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phased

import "github.com/hartrusion/phxnetmod/netgraph"

// Volumized mirrors heat.Volumized for the heat-energy carrier:
// outgoing slots receive the held heat-energy immediately, and the blended
// next value is computed once the inflow side resolves and committed at
// the next Prepare.
type Volumized struct {
	ports     []port
	mass      float64
	current   float64
	next      float64
	nextReady bool
	StepTime  float64

	// extraHeat mirrors heat.Volumized's conductive hook; here the
	// returned value is Q̇ itself (W), since the carrier is already in
	// J/kg. Used by ThermalCoupledVolumized.
	extraHeat func() (qdot float64, ok bool)
}

// SetStepTime cascades the model's step time onto this handler.
func (h *Volumized) SetStepTime(dt float64) { h.StepTime = dt }

func NewVolumized() *Volumized { return &Volumized{} }

func (h *Volumized) RegisterNode(n *netgraph.Node, slot int) error {
	h.ports = append(h.ports, port{node: n, slot: slot})
	return nil
}

// Prepare commits the blended next value into the held one.
func (h *Volumized) Prepare() {
	if h.nextReady {
		h.current = h.next
		h.nextReady = false
	}
}

func (h *Volumized) mixedInflow() (he float64, totalIn float64, ok bool) {
	for _, p := range h.ports {
		if p.incoming() && !p.heUpdated() {
			return 0, 0, false
		}
	}
	var num, den float64
	for _, p := range h.ports {
		if p.incoming() && !p.heNoValue() {
			num += p.flow() * p.heValue()
			den += p.flow()
		}
	}
	if den <= 0 {
		return h.current, 0, true
	}
	return num / den, den, true
}

func (h *Volumized) DoCalculation() (bool, error) {
	for _, p := range h.ports {
		if !p.flowUpdated() {
			return false, nil
		}
	}
	progressed := false
	for _, p := range h.ports {
		if p.heUpdated() {
			continue
		}
		if p.outgoing() {
			p.setHE(h.current)
			progressed = true
		} else if p.isZero() {
			p.setNoHE()
			progressed = true
		}
	}
	if h.nextReady {
		return progressed, nil
	}
	hin, totalIn, ok := h.mixedInflow()
	if !ok {
		return progressed, nil
	}
	var qdot float64
	if h.extraHeat != nil {
		q, qok := h.extraHeat()
		if !qok {
			return progressed, nil
		}
		qdot = q
	}
	h.next = hin
	if h.mass > 0 {
		scaledIn := totalIn * h.StepTime
		h.next = (h.mass*h.current + scaledIn*hin - qdot*h.StepTime) / (h.mass + scaledIn)
	}
	h.nextReady = true
	return true, nil
}

func (h *Volumized) IsFinished() bool {
	if !h.nextReady {
		return false
	}
	for _, p := range h.ports {
		if !p.heUpdated() {
			return false
		}
	}
	return true
}

func (h *Volumized) SetInitial(v float64) error {
	h.current = v
	return nil
}

func (h *Volumized) GetValue() (float64, error) { return h.current, nil }

func (h *Volumized) SetMassOrCapacity(v float64) error {
	h.mass = v
	return nil
}

func (h *Volumized) SetFromConverter(float64) error { return errNotConnection("volumized") }
