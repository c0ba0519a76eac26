// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heat

import "github.com/hartrusion/phxnetmod/netgraph"

// SimpleMix is the flow-weighted instantaneous mixing rule: every
// outgoing port receives the flow-weighted average temperature of the
// incoming ports, with no thermal inertia. Registered under name "simple_mix".
type SimpleMix struct {
	ports []port
}

// NewSimpleMix allocates a handler with no ports yet; RegisterNode appends
// them in the same order the owning element connects its nodes.
func NewSimpleMix() *SimpleMix { return &SimpleMix{} }

func (h *SimpleMix) RegisterNode(n *netgraph.Node, slot int) error {
	h.ports = append(h.ports, port{node: n, slot: slot})
	return nil
}

func (h *SimpleMix) Prepare() {}

func (h *SimpleMix) DoCalculation() (bool, error) {
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
			if !p.tempUpdated() {
				p.setNoTemp()
				progressed = true
			}
		}
		return progressed, nil
	}
	for _, p := range h.ports {
		if p.incoming() && !p.tempUpdated() {
			return false, nil
		}
	}
	var num, den float64
	for _, p := range h.ports {
		if p.incoming() && !p.tempNoValue() {
			num += p.flow() * p.tempValue()
			den += p.flow()
		}
	}
	progressed := false
	for _, p := range h.ports {
		if p.tempUpdated() {
			continue
		}
		if !p.outgoing() {
			p.setNoTemp()
			progressed = true
			continue
		}
		if den > 0 {
			p.setTemp(num / den)
			progressed = true
		}
	}
	return progressed, nil
}

func (h *SimpleMix) IsFinished() bool {
	for _, p := range h.ports {
		if !p.tempUpdated() {
			return false
		}
	}
	return true
}

func (h *SimpleMix) SetInitial(float64) error        { return errNoCapacity("simple_mix") }
func (h *SimpleMix) GetValue() (float64, error)       { return 0, errNoCapacity("simple_mix") }
func (h *SimpleMix) SetMassOrCapacity(float64) error { return errNoCapacity("simple_mix") }
func (h *SimpleMix) SetFromConverter(float64) error  { return errNotConnection("simple_mix") }
