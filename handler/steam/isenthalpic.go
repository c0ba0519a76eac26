// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package steam

import (
	"github.com/hartrusion/phxnetmod/netgraph"
	"github.com/hartrusion/phxnetmod/steamtable"
)

// IsenthalpicExpansion is the two-node pass-through for valves/resistors:
// specific enthalpy is conserved across the throttle, so whichever
// side already has a 4-tuple has its h copied to the other side, then T, s,
// x are recomputed at the new pressure. Built with NewIsenthalpicExpansion;
// the steam package has no name registry.
type IsenthalpicExpansion struct {
	ports  [2]port
	oracle steamtable.Oracle
}

func NewIsenthalpicExpansion(oracle steamtable.Oracle) *IsenthalpicExpansion {
	return &IsenthalpicExpansion{oracle: oracle}
}

func (h *IsenthalpicExpansion) RegisterNode(n *netgraph.Node, slot int) error {
	if h.oracle == nil {
		h.oracle = n.Oracle
	}
	if !h.ports[0].has() {
		h.ports[0] = port{node: n, slot: slot}
		return nil
	}
	h.ports[1] = port{node: n, slot: slot}
	return nil
}

func (p port) has() bool { return p.node != nil }

func (h *IsenthalpicExpansion) Prepare() {}

func (h *IsenthalpicExpansion) DoCalculation() (bool, error) {
	a, b := h.ports[0], h.ports[1]
	if !a.flowUpdated() || !b.flowUpdated() || !a.effortUpdated() || !b.effortUpdated() {
		return false, nil
	}
	if a.propsUpdated() && b.propsUpdated() {
		return false, nil
	}
	if a.isZero() || b.isZero() {
		progressed := false
		if !a.propsUpdated() {
			a.setNoProps()
			progressed = true
		}
		if !b.propsUpdated() {
			b.setNoProps()
			progressed = true
		}
		return progressed, nil
	}
	var known, unknown port
	switch {
	case a.propsUpdated() && !a.propsNoValue():
		known, unknown = a, b
	case b.propsUpdated() && !b.propsNoValue():
		known, unknown = b, a
	default:
		return false, nil
	}
	hIn := known.propsValue()[netgraph.PropH]
	pOut := unknown.effort()
	t, err := lookup(h.oracle, steamtable.TpH, pOut, hIn)
	if err != nil {
		return false, err
	}
	s, err := lookup(h.oracle, steamtable.SpH, pOut, hIn)
	if err != nil {
		return false, err
	}
	x, err := lookup(h.oracle, steamtable.XpH, pOut, hIn)
	if err != nil {
		return false, err
	}
	unknown.setProps(netgraph.SteamProps{t, hIn, s, x})
	return true, nil
}

func (h *IsenthalpicExpansion) IsFinished() bool {
	return h.ports[0].propsUpdated() && h.ports[1].propsUpdated()
}

func (h *IsenthalpicExpansion) SetInitial(netgraph.SteamProps) error {
	return errNoCapacity("isenthalpic")
}
func (h *IsenthalpicExpansion) GetValue() (netgraph.SteamProps, error) {
	return netgraph.SteamProps{}, errNoCapacity("isenthalpic")
}
func (h *IsenthalpicExpansion) SetMassOrCapacity(float64) error { return errNoCapacity("isenthalpic") }
func (h *IsenthalpicExpansion) SetFromConverter(float64, float64) error {
	return errNotConnection("isenthalpic")
}
