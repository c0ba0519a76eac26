// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netgraph

import (
	"math"

	"github.com/hartrusion/phxnetmod/steamtable"
)

// ZeroFlowTolerance is the named numerical-residual guard below which a
// slot flow is treated as exactly zero for the purpose of the no_value
// degeneracies on node-side distribution. The
// handler packages carry their own equal-valued copy so they stay
// independent of this package's policy constant.
const ZeroFlowTolerance = 1e-10

// DoCalculate runs every node-side derivation rule once: Kirchhoff flow
// completion first, then whichever scalar distribution the node's domain
// carries. The solver interleaves this with the element sweeps; each rule
// only ever fills slots that are still un-updated, so repeating it is safe
// and progress stays monotonic.
func (n *Node) DoCalculate() (bool, error) {
	progressed, err := n.DoCalculateFlows()
	if err != nil {
		return false, err
	}
	var did bool
	switch {
	case n.Domain.HasTemperatureExtension():
		did, err = n.DoCalculateTemperature()
	case n.Domain.HasHeatEnergyExtension():
		did, err = n.DoCalculateHeatEnergy()
	case n.Domain.HasSteamExtension():
		did, err = n.DoCalculateSteamProps()
	}
	if err != nil {
		return false, err
	}
	return progressed || did, nil
}

// DoCalculateFlows completes the one missing flow slot from the others
// (Kirchhoff at the node): the signed sum over every slot
// of a conservative node is zero, so once all but one slot carry a value
// the last is determined. A single-slot node degenerates to the same rule
// with an empty "rest": a dead end carries no flow unless an element
// (Enforcer) already claimed otherwise this sweep.
func (n *Node) DoCalculateFlows() (bool, error) {
	all, numUpdated := n.AllFlowsUpdated()
	if all || numUpdated != len(n.Flows)-1 {
		return false, nil
	}
	missing := -1
	for i, f := range n.Flows {
		if !f.Updated {
			missing = i
			break
		}
	}
	if err := n.SetFlow(missing, -n.FlowSum()); err != nil {
		return false, err
	}
	return true, nil
}

// DoCalculateTemperature distributes temperatures across the node's slots:
// slots whose flow feeds the node supply temperatures, slots drawing from
// the node receive the flow-weighted mix. Zero-flow slots are left to the
// owning element's handler, which decides between no_temperature and a held
// temperature. Waits until every flow is known and every feeding slot's
// temperature has been resolved (value or no_temperature) by its element.
func (n *Node) DoCalculateTemperature() (bool, error) {
	if all, _ := n.AllFlowsUpdated(); !all {
		return false, nil
	}
	for i := range n.Temps {
		if nodeFeeder(n.Flows[i]) && !n.Temps[i].Updated {
			return false, nil
		}
	}
	var num, den float64
	for i, t := range n.Temps {
		if nodeFeeder(n.Flows[i]) && !t.NoValue {
			w := -n.Flows[i].Value
			num += w * t.Value
			den += w
		}
	}
	progressed := false
	for i := range n.Temps {
		if n.Temps[i].Updated || !nodeDrawer(n.Flows[i]) {
			continue
		}
		if den > 0 {
			if err := n.SetTemperature(i, num/den); err != nil {
				return false, err
			}
		} else {
			// only residual (no_temperature) feeders: nothing real to hand on
			if err := n.SetNoTemperature(i); err != nil {
				return false, err
			}
		}
		progressed = true
	}
	return progressed, nil
}

// DoCalculateHeatEnergy mirrors DoCalculateTemperature for the phased-fluid
// extension's heat-energy scalar.
func (n *Node) DoCalculateHeatEnergy() (bool, error) {
	if all, _ := n.AllFlowsUpdated(); !all {
		return false, nil
	}
	for i := range n.Heats {
		if nodeFeeder(n.Flows[i]) && !n.Heats[i].Updated {
			return false, nil
		}
	}
	var num, den float64
	for i, h := range n.Heats {
		if nodeFeeder(n.Flows[i]) && !h.NoValue {
			w := -n.Flows[i].Value
			num += w * h.Value
			den += w
		}
	}
	progressed := false
	for i := range n.Heats {
		if n.Heats[i].Updated || !nodeDrawer(n.Flows[i]) {
			continue
		}
		if den > 0 {
			if err := n.SetHeatEnergy(i, num/den); err != nil {
				return false, err
			}
		} else {
			if err := n.SetNoHeatEnergy(i); err != nil {
				return false, err
			}
		}
		progressed = true
	}
	return progressed, nil
}

// DoCalculateSteamProps distributes steam 4-tuples across the node's slots.
// A single feeding slot passes its tuple through verbatim; with several, the
// specific enthalpies are mass-weighted and T, s, x are re-derived from
// (p, h_mix) through the node's oracle (pressure is the node's own effort).
// Without an oracle or a known pressure the whole tuple is mass-weighted
// componentwise, a coarse but defined fallback.
func (n *Node) DoCalculateSteamProps() (bool, error) {
	if all, _ := n.AllFlowsUpdated(); !all {
		return false, nil
	}
	for i := range n.Steam {
		if nodeFeeder(n.Flows[i]) && !n.Steam[i].Updated {
			return false, nil
		}
	}
	var feeders []int
	var den float64
	for i, s := range n.Steam {
		if nodeFeeder(n.Flows[i]) && !s.NoValue {
			feeders = append(feeders, i)
			den += -n.Flows[i].Value
		}
	}
	var mix SteamProps
	haveMix := false
	switch {
	case len(feeders) == 1:
		mix = n.Steam[feeders[0]].Props
		haveMix = true
	case len(feeders) > 1 && den > 0:
		var err error
		mix, err = n.mixSteamFeeders(feeders, den)
		if err != nil {
			return false, err
		}
		haveMix = true
	}
	progressed := false
	for i := range n.Steam {
		if n.Steam[i].Updated || !nodeDrawer(n.Flows[i]) {
			continue
		}
		if haveMix {
			if err := n.SetSteamProps(i, mix); err != nil {
				return false, err
			}
		} else {
			if err := n.SetNoSteamProps(i); err != nil {
				return false, err
			}
		}
		progressed = true
	}
	return progressed, nil
}

func (n *Node) mixSteamFeeders(feeders []int, den float64) (SteamProps, error) {
	var hMix float64
	for _, i := range feeders {
		hMix += -n.Flows[i].Value * n.Steam[i].Props[PropH]
	}
	hMix /= den
	if n.Oracle != nil && n.EffortUpdated {
		p := n.Effort
		t, err := n.Oracle.Query(steamtable.TpH, p, hMix)
		if err != nil {
			return SteamProps{}, err
		}
		s, err := n.Oracle.Query(steamtable.SpH, p, hMix)
		if err != nil {
			return SteamProps{}, err
		}
		x, err := n.Oracle.Query(steamtable.XpH, p, hMix)
		if err != nil {
			return SteamProps{}, err
		}
		return SteamProps{t, hMix, s, x}, nil
	}
	var mix SteamProps
	for _, i := range feeders {
		w := -n.Flows[i].Value / den
		for k := range mix {
			mix[k] += w * n.Steam[i].Props[k]
		}
	}
	mix[PropH] = hMix
	return mix, nil
}

// nodeFeeder reports whether the slot's element feeds the node this cycle
// (slot values are signed node-into-element, so a feeding element shows a
// negative value).
func nodeFeeder(f FlowSlot) bool {
	return f.Updated && f.Value < -ZeroFlowTolerance
}

// nodeDrawer reports whether the slot's element draws from the node.
func nodeDrawer(f FlowSlot) bool {
	return f.Updated && f.Value > ZeroFlowTolerance
}

// IsZeroFlow reports whether a known flow is numerically zero under the
// shared residual guard.
func IsZeroFlow(v float64) bool {
	return math.Abs(v) <= ZeroFlowTolerance
}
