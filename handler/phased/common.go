// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package phased implements the phased-fluid extension handler variants,
// symmetric to handler/heat but the transported scalar is
// heat_energy (J/kg) instead of temperature.
package phased

import (
	"math"

	"github.com/hartrusion/phxnetmod/engerr"
	"github.com/hartrusion/phxnetmod/netgraph"
)

// ZeroFlowTolerance mirrors handler/heat.ZeroFlowTolerance, the shared
// numerical-residual guard.
const ZeroFlowTolerance = 1e-10

type port struct {
	node *netgraph.Node
	slot int
}

func (p port) flow() float64      { return p.node.Flows[p.slot].Value }
func (p port) flowUpdated() bool  { return p.node.Flows[p.slot].Updated }
func (p port) heUpdated() bool    { return p.node.Heats[p.slot].Updated }
func (p port) heNoValue() bool    { return p.node.Heats[p.slot].NoValue }
func (p port) heValue() float64   { return p.node.Heats[p.slot].Value }
func (p port) setHE(v float64)    { _ = p.node.SetHeatEnergy(p.slot, v) }
func (p port) setNoHE()           { _ = p.node.SetNoHeatEnergy(p.slot) }
func (p port) incoming() bool     { return p.flow() > ZeroFlowTolerance }
func (p port) outgoing() bool     { return p.flow() < -ZeroFlowTolerance }
func (p port) isZero() bool       { return math.Abs(p.flow()) <= ZeroFlowTolerance }

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func errNoCapacity(variant string) error {
	return engerr.NewNonexistingStateVariable("phased handler %q has no intrinsic heat-energy state", variant)
}

func errNotConnection(variant string) error {
	return engerr.NewNonexistingStateVariable("phased handler %q is not a Connection variant; SetFromConverter is unsupported", variant)
}
