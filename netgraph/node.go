// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package netgraph implements the core data model of the network solver:
// nodes, elements, their incidence, and the per-slot "updated" protocol that
// drives the fixed-point.
package netgraph

import (
	"math"

	"github.com/hartrusion/phxnetmod/domain"
	"github.com/hartrusion/phxnetmod/engerr"
	"github.com/hartrusion/phxnetmod/steamtable"
)

// Node holds a single effort scalar and one flow slot per connected element,
// plus whichever scalar extension its domain requires. Node is polymorphic
// over the extension purely by which of Temps/Heats/Steam is populated;
// there is no separate HeatNode/PhasedNode/SteamNode Go type.
type Node struct {
	Domain domain.PhysicalDomain

	Effort        float64
	EffortUpdated bool

	Flows []FlowSlot

	// extension slots; only the slice matching Domain's extension is ever
	// populated (see domain.PhysicalDomain.Has*Extension).
	Temps []TemperatureSlot
	Heats []HeatEnergySlot
	Steam []SteamSlot

	// AvgOutTemperature is HeatNode's cached average outgoing temperature,
	// refreshed whenever a new outgoing temperature slot is assigned.
	AvgOutTemperature float64

	// Oracle is the shared steam-table reference for SteamNode; nil
	// otherwise.
	Oracle steamtable.Oracle
}

// NewNode allocates an empty node for the given domain. Connections are
// added later via AddSlot as elements attach to it.
func NewNode(d domain.PhysicalDomain) *Node {
	return &Node{Domain: d}
}

// NewSteamNode allocates a SteamNode sharing the given oracle.
func NewSteamNode(oracle steamtable.Oracle) *Node {
	return &Node{Domain: domain.Steam, Oracle: oracle}
}

// AddSlot grows the node by one connection and returns the local slot index
// the newly-connected element should address from then on. This is the only
// supported way to acquire a slot index: elements must never infer their
// slot from pointer identity or search order.
func (n *Node) AddSlot() int {
	idx := len(n.Flows)
	n.Flows = append(n.Flows, FlowSlot{})
	if n.Domain.HasTemperatureExtension() {
		n.Temps = append(n.Temps, TemperatureSlot{})
	}
	if n.Domain.HasHeatEnergyExtension() {
		n.Heats = append(n.Heats, HeatEnergySlot{})
	}
	if n.Domain.HasSteamExtension() {
		n.Steam = append(n.Steam, SteamSlot{})
	}
	return idx
}

// Prepare resets every "updated" mark on this node for the next sweep cycle.
// NoValue bits are cleared along with Updated since invariant (b) requires
// NoValue to only ever be set after Updated is true within a cycle.
func (n *Node) Prepare() {
	n.EffortUpdated = false
	for i := range n.Flows {
		n.Flows[i] = FlowSlot{}
	}
	for i := range n.Temps {
		n.Temps[i] = TemperatureSlot{}
	}
	for i := range n.Heats {
		n.Heats[i] = HeatEnergySlot{}
	}
	for i := range n.Steam {
		n.Steam[i] = SteamSlot{}
	}
	n.AvgOutTemperature = 0
}

// --- effort -----------------------------------------------------------

// EffortValue returns the node's effort, failing with a CalculationError if
// it has not yet been derived this cycle.
func (n *Node) EffortValue() (float64, error) {
	if !n.EffortUpdated {
		return 0, engerr.NewCalculation("node effort read before it was updated")
	}
	return n.Effort, nil
}

// SetEffort assigns the node's effort. It is an error to overwrite an
// already-updated effort (the monotonic-updated-bit contract) or to
// assign a non-finite value.
func (n *Node) SetEffort(v float64) error {
	if n.EffortUpdated {
		return engerr.NewCalculation("node effort already updated; refusing overwrite (value=%v, new=%v)", n.Effort, v)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return engerr.NewCalculation("node effort derivation produced a non-finite value: %v", v)
	}
	n.Effort = v
	n.EffortUpdated = true
	return nil
}

// --- flow ---------------------------------------------------------------

// FlowValue returns the flow at the given slot, failing if not yet updated.
func (n *Node) FlowValue(slot int) (float64, error) {
	if slot < 0 || slot >= len(n.Flows) {
		return 0, engerr.NewModel("flow slot %d out of range (node has %d)", slot, len(n.Flows))
	}
	if !n.Flows[slot].Updated {
		return 0, engerr.NewCalculation("node flow slot %d read before it was updated", slot)
	}
	return n.Flows[slot].Value, nil
}

// SetFlow assigns the flow at the given slot.
func (n *Node) SetFlow(slot int, v float64) error {
	if slot < 0 || slot >= len(n.Flows) {
		return engerr.NewModel("flow slot %d out of range (node has %d)", slot, len(n.Flows))
	}
	if n.Flows[slot].Updated {
		return engerr.NewCalculation("node flow slot %d already updated; refusing overwrite (value=%v, new=%v)", slot, n.Flows[slot].Value, v)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return engerr.NewCalculation("node flow derivation produced a non-finite value: %v", v)
	}
	n.Flows[slot].Value = v
	n.Flows[slot].Updated = true
	return nil
}

// AllFlowsUpdated reports whether every flow slot on the node carries a
// value, and the count of updated slots (used by Bridged/Kirchhoff rules to
// detect the "all but one" case).
func (n *Node) AllFlowsUpdated() (all bool, numUpdated int) {
	for _, f := range n.Flows {
		if f.Updated {
			numUpdated++
		}
	}
	return numUpdated == len(n.Flows), numUpdated
}

// FlowSum returns the signed sum of every updated flow slot; used to verify
// the Kirchhoff invariant and to derive a missing flow from
// the rest.
func (n *Node) FlowSum() float64 {
	var sum float64
	for _, f := range n.Flows {
		if f.Updated {
			sum += f.Value
		}
	}
	return sum
}

// --- temperature (HeatNode) ----------------------------------------------

// TemperatureValue returns the temperature at slot, honoring the
// updated/no_value protocol.
func (n *Node) TemperatureValue(slot int) (float64, error) {
	if slot < 0 || slot >= len(n.Temps) {
		return 0, engerr.NewModel("temperature slot %d out of range on non-HeatNode or bad index (have %d)", slot, len(n.Temps))
	}
	s := n.Temps[slot]
	if !s.Updated {
		return 0, engerr.NewCalculation("temperature slot %d read before it was updated", slot)
	}
	if s.NoValue {
		return 0, engerr.NewCalculation("temperature slot %d read while no_temperature held", slot)
	}
	return s.Value, nil
}

// SetTemperature assigns a real temperature value to slot.
func (n *Node) SetTemperature(slot int, v float64) error {
	if slot < 0 || slot >= len(n.Temps) {
		return engerr.NewModel("temperature slot %d out of range (have %d)", slot, len(n.Temps))
	}
	if n.Temps[slot].Updated {
		return engerr.NewCalculation("temperature slot %d already updated; refusing overwrite", slot)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return engerr.NewCalculation("temperature derivation produced a non-finite value: %v", v)
	}
	n.Temps[slot] = TemperatureSlot{Value: v, Updated: true}
	n.refreshAvgOutTemperature()
	return nil
}

// SetNoTemperature marks slot as carrying no scalar because its flow is
// (numerically) zero.
func (n *Node) SetNoTemperature(slot int) error {
	if slot < 0 || slot >= len(n.Temps) {
		return engerr.NewModel("temperature slot %d out of range (have %d)", slot, len(n.Temps))
	}
	if n.Temps[slot].Updated {
		return engerr.NewCalculation("temperature slot %d already updated; refusing overwrite", slot)
	}
	n.Temps[slot] = TemperatureSlot{Updated: true, NoValue: true}
	return nil
}

func (n *Node) refreshAvgOutTemperature() {
	var sum float64
	var count int
	for i, t := range n.Temps {
		if !t.Updated || t.NoValue {
			continue
		}
		if i < len(n.Flows) && n.Flows[i].Updated && n.Flows[i].Value < 0 {
			sum += t.Value
			count++
		}
	}
	if count > 0 {
		n.AvgOutTemperature = sum / float64(count)
	}
}

// --- heat-energy (PhasedNode) ---------------------------------------------

// HeatEnergyValue returns the heat-energy at slot.
func (n *Node) HeatEnergyValue(slot int) (float64, error) {
	if slot < 0 || slot >= len(n.Heats) {
		return 0, engerr.NewModel("heat-energy slot %d out of range (have %d)", slot, len(n.Heats))
	}
	s := n.Heats[slot]
	if !s.Updated {
		return 0, engerr.NewCalculation("heat-energy slot %d read before it was updated", slot)
	}
	if s.NoValue {
		return 0, engerr.NewCalculation("heat-energy slot %d read while no_heat_energy held", slot)
	}
	return s.Value, nil
}

// SetHeatEnergy assigns a real heat-energy value to slot.
func (n *Node) SetHeatEnergy(slot int, v float64) error {
	if slot < 0 || slot >= len(n.Heats) {
		return engerr.NewModel("heat-energy slot %d out of range (have %d)", slot, len(n.Heats))
	}
	if n.Heats[slot].Updated {
		return engerr.NewCalculation("heat-energy slot %d already updated; refusing overwrite", slot)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return engerr.NewCalculation("heat-energy derivation produced a non-finite value: %v", v)
	}
	n.Heats[slot] = HeatEnergySlot{Value: v, Updated: true}
	return nil
}

// SetNoHeatEnergy marks slot as carrying no scalar because its flow is zero.
func (n *Node) SetNoHeatEnergy(slot int) error {
	if slot < 0 || slot >= len(n.Heats) {
		return engerr.NewModel("heat-energy slot %d out of range (have %d)", slot, len(n.Heats))
	}
	if n.Heats[slot].Updated {
		return engerr.NewCalculation("heat-energy slot %d already updated; refusing overwrite", slot)
	}
	n.Heats[slot] = HeatEnergySlot{Updated: true, NoValue: true}
	return nil
}

// --- steam (SteamNode) -----------------------------------------------------

// SteamPropsValue returns the 4-tuple at slot.
func (n *Node) SteamPropsValue(slot int) (SteamProps, error) {
	if slot < 0 || slot >= len(n.Steam) {
		return SteamProps{}, engerr.NewModel("steam slot %d out of range (have %d)", slot, len(n.Steam))
	}
	s := n.Steam[slot]
	if !s.Updated {
		return SteamProps{}, engerr.NewCalculation("steam slot %d read before it was updated", slot)
	}
	if s.NoValue {
		return SteamProps{}, engerr.NewCalculation("steam slot %d read while no_steam_properties held", slot)
	}
	return s.Props, nil
}

// SetSteamProps assigns the full 4-tuple to slot.
func (n *Node) SetSteamProps(slot int, props SteamProps) error {
	if slot < 0 || slot >= len(n.Steam) {
		return engerr.NewModel("steam slot %d out of range (have %d)", slot, len(n.Steam))
	}
	if n.Steam[slot].Updated {
		return engerr.NewCalculation("steam slot %d already updated; refusing overwrite", slot)
	}
	for _, v := range props {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return engerr.NewCalculation("steam property derivation produced a non-finite value: %v", props)
		}
	}
	n.Steam[slot] = SteamSlot{Props: props, Updated: true}
	return nil
}

// SetNoSteamProps marks slot as carrying no properties because its flow is
// zero.
func (n *Node) SetNoSteamProps(slot int) error {
	if slot < 0 || slot >= len(n.Steam) {
		return engerr.NewModel("steam slot %d out of range (have %d)", slot, len(n.Steam))
	}
	if n.Steam[slot].Updated {
		return engerr.NewCalculation("steam slot %d already updated; refusing overwrite", slot)
	}
	n.Steam[slot] = SteamSlot{Updated: true, NoValue: true}
	return nil
}
