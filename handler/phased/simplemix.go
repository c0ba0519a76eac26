// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phased

import "github.com/hartrusion/phxnetmod/netgraph"

// SimpleMix mirrors heat.SimpleMix but mixes heat_energy.
type SimpleMix struct {
	ports []port
}

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
			if !p.heUpdated() {
				p.setNoHE()
				progressed = true
			}
		}
		return progressed, nil
	}
	for _, p := range h.ports {
		if p.incoming() && !p.heUpdated() {
			return false, nil
		}
	}
	var num, den float64
	for _, p := range h.ports {
		if p.incoming() && !p.heNoValue() {
			num += p.flow() * p.heValue()
			den += p.flow()
		}
	}
	progressed := false
	for _, p := range h.ports {
		if p.heUpdated() {
			continue
		}
		if !p.outgoing() {
			p.setNoHE()
			progressed = true
			continue
		}
		if den > 0 {
			p.setHE(num / den)
			progressed = true
		}
	}
	return progressed, nil
}

func (h *SimpleMix) IsFinished() bool {
	for _, p := range h.ports {
		if !p.heUpdated() {
			return false
		}
	}
	return true
}

func (h *SimpleMix) SetInitial(float64) error        { return errNoCapacity("simple_mix") }
func (h *SimpleMix) GetValue() (float64, error)      { return 0, errNoCapacity("simple_mix") }
func (h *SimpleMix) SetMassOrCapacity(float64) error { return errNoCapacity("simple_mix") }
func (h *SimpleMix) SetFromConverter(float64) error  { return errNotConnection("simple_mix") }
