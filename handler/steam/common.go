// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package steam implements the steam-extension handler variants:
// connection, isenthalpic expansion, saturated separation and
// isobaric-isochoric thermal transfer (evaporator).
package steam

import (
	"math"

	"github.com/hartrusion/phxnetmod/engerr"
	"github.com/hartrusion/phxnetmod/netgraph"
	"github.com/hartrusion/phxnetmod/steamtable"
)

// ZeroFlowTolerance mirrors handler/heat.ZeroFlowTolerance, the shared
// numerical-residual guard.
const ZeroFlowTolerance = 1e-10

type port struct {
	node *netgraph.Node
	slot int
}

func (p port) flow() float64                      { return p.node.Flows[p.slot].Value }
func (p port) flowUpdated() bool                  { return p.node.Flows[p.slot].Updated }
func (p port) effort() float64                    { return p.node.Effort }
func (p port) effortUpdated() bool                { return p.node.EffortUpdated }
func (p port) propsUpdated() bool                 { return p.node.Steam[p.slot].Updated }
func (p port) propsNoValue() bool                 { return p.node.Steam[p.slot].NoValue }
func (p port) propsValue() netgraph.SteamProps     { return p.node.Steam[p.slot].Props }
func (p port) setProps(v netgraph.SteamProps)      { _ = p.node.SetSteamProps(p.slot, v) }
func (p port) setNoProps()                        { _ = p.node.SetNoSteamProps(p.slot) }
func (p port) incoming() bool                     { return p.flow() > ZeroFlowTolerance }
func (p port) outgoing() bool                     { return p.flow() < -ZeroFlowTolerance }
func (p port) isZero() bool                       { return math.Abs(p.flow()) <= ZeroFlowTolerance }

func errNoCapacity(variant string) error {
	return engerr.NewNonexistingStateVariable("steam handler %q has no intrinsic state", variant)
}

func errNotConnection(variant string) error {
	return engerr.NewNonexistingStateVariable("steam handler %q is not a Connection variant; SetFromConverter is unsupported", variant)
}

// lookup is a thin convenience wrapper turning an oracle error into a
// CalculationError: the oracle itself is opaque, but a failed query
// mid-sweep is the handler's own derivation failing.
func lookup(o steamtable.Oracle, key string, args ...float64) (float64, error) {
	v, err := o.Query(key, args...)
	if err != nil {
		return 0, engerr.NewCalculation("steam-table query %q failed: %v", key, err)
	}
	return v, nil
}
