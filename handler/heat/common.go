// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package heat implements the heat-extension handler variants:
// simple mix, volumized, thermal-coupled volumized, no-mass exchanger,
// no-mass energy exchanger (phased coupling) and connection. Each variant
// satisfies netgraph.HeatHandler and is composed into a netgraph.Element
// whose domain requires temperature transport.
package heat

import (
	"math"

	"github.com/hartrusion/phxnetmod/engerr"
	"github.com/hartrusion/phxnetmod/netgraph"
)

// ZeroFlowTolerance is the named numerical-residual guard below which a
// flow is treated as exactly zero for the purpose of the no_temperature
// degeneracy; a named constant rather than a magic number scattered
// through the handlers.
const ZeroFlowTolerance = 1e-10

// DefaultCP is the specific heat assumed for the carrier fluid when a model
// author does not configure one (water, J/(kg·K)).
const DefaultCP = 4186.0

// port is the shared (node, slot) addressing unit every heat handler variant
// uses to read/write its temperature slots, mirroring netgraph.NodeRef but
// kept local so handler code never needs netgraph's flow/effort accessors.
type port struct {
	node *netgraph.Node
	slot int
}

func (p port) flow() float64        { return p.node.Flows[p.slot].Value }
func (p port) flowUpdated() bool    { return p.node.Flows[p.slot].Updated }
func (p port) tempUpdated() bool    { return p.node.Temps[p.slot].Updated }
func (p port) tempNoValue() bool    { return p.node.Temps[p.slot].NoValue }
func (p port) tempValue() float64   { return p.node.Temps[p.slot].Value }
func (p port) setTemp(v float64)    { _ = p.node.SetTemperature(p.slot, v) }
func (p port) setNoTemp()           { _ = p.node.SetNoTemperature(p.slot) }
func (p port) incoming() bool       { return p.flow() > ZeroFlowTolerance }
func (p port) outgoing() bool       { return p.flow() < -ZeroFlowTolerance }
func (p port) isZero() bool         { return math.Abs(p.flow()) <= ZeroFlowTolerance }

// errNoCapacity is the NonexistingStateVariableError every variant without
// intrinsic thermal mass returns from SetInitial/GetValue/SetMassOrCapacity.
func errNoCapacity(variant string) error {
	return engerr.NewNonexistingStateVariable("heat handler %q has no intrinsic temperature state", variant)
}

// errNotConnection is returned by SetFromConverter on every variant except
// Connection.
func errNotConnection(variant string) error {
	return engerr.NewNonexistingStateVariable("heat handler %q is not a Connection variant; SetFromConverter is unsupported", variant)
}
