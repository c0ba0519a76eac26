// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package domain defines the closed set of physical domains and element
// categories that the network solver dispatches on.
package domain

import "github.com/cpmech/gosl/chk"

// PhysicalDomain fixes the semantic unit of effort and flow carried by a node.
type PhysicalDomain int

// available physical domains
const (
	Electrical PhysicalDomain = iota
	Mechanical
	Hydraulic
	Pneumatic
	Thermal
	HeatFluid
	PhasedFluid
	Steam
	Multidomain
)

// String returns the domain name, e.g. for diagnostics and panics.
func (d PhysicalDomain) String() string {
	switch d {
	case Electrical:
		return "Electrical"
	case Mechanical:
		return "Mechanical"
	case Hydraulic:
		return "Hydraulic"
	case Pneumatic:
		return "Pneumatic"
	case Thermal:
		return "Thermal"
	case HeatFluid:
		return "HeatFluid"
	case PhasedFluid:
		return "PhasedFluid"
	case Steam:
		return "Steam"
	case Multidomain:
		return "Multidomain"
	}
	return "Unknown"
}

// HasTemperatureExtension reports whether nodes of this domain carry a
// per-connection temperature slot (HeatNode).
func (d PhysicalDomain) HasTemperatureExtension() bool {
	return d == HeatFluid
}

// HasHeatEnergyExtension reports whether nodes of this domain carry a
// per-connection heat-energy slot (PhasedNode).
func (d PhysicalDomain) HasHeatEnergyExtension() bool {
	return d == PhasedFluid
}

// HasSteamExtension reports whether nodes of this domain carry a
// per-connection 4-tuple steam-property slot (SteamNode).
func (d PhysicalDomain) HasSteamExtension() bool {
	return d == Steam
}

// ElementCategory is the closed set of abstract behavioral shapes an element
// may take. Only the categories explicitly marked "valid on user-built
// elements" may be selected by a model author; Inductance exists solely for
// the electrical/mechanical domains and is not user-selectable elsewhere.
type ElementCategory int

const (
	None ElementCategory = iota
	Open
	Bridged
	Dissipator
	Capacitance
	Inductance
	FlowSource
	EffortSource
	Enforcer
	Origin
)

// String returns the category name.
func (c ElementCategory) String() string {
	switch c {
	case None:
		return "None"
	case Open:
		return "Open"
	case Bridged:
		return "Bridged"
	case Dissipator:
		return "Dissipator"
	case Capacitance:
		return "Capacitance"
	case Inductance:
		return "Inductance"
	case FlowSource:
		return "FlowSource"
	case EffortSource:
		return "EffortSource"
	case Enforcer:
		return "Enforcer"
	case Origin:
		return "Origin"
	}
	return "Unknown"
}

// NodeArity returns the fixed number of incident nodes a category requires,
// or -1 when the category accepts any arity ≥ 1 (Bridged elements may have
// more than two ports; e.g. a three-way manifold).
func (c ElementCategory) NodeArity() int {
	switch c {
	case Enforcer, Origin:
		return 1
	case Dissipator, Capacitance, Inductance, FlowSource, EffortSource:
		return 2
	case Open, Bridged:
		return -1
	}
	return -1
}

// IsUserSelectable reports whether a model author may directly pick this
// category when authoring an element. Inductance is reserved for the
// electrical/mechanical domains and is normally produced by a concrete
// element shape, not chosen generically.
func (c ElementCategory) IsUserSelectable() bool {
	switch c {
	case Open, Bridged, Dissipator, Capacitance, FlowSource, EffortSource, Enforcer, Origin:
		return true
	}
	return false
}

// ValidateArity returns a ModelError-flavored error (via chk.Err; wrapped by
// callers into engerr.ModelError) if n does not match the category's
// required arity.
func (c ElementCategory) ValidateArity(n int) error {
	want := c.NodeArity()
	if want < 0 {
		if n < 1 {
			return chk.Err("category %s requires at least one incident node, got %d", c, n)
		}
		return nil
	}
	if n != want {
		return chk.Err("category %s requires exactly %d incident node(s), got %d", c, want, n)
	}
	return nil
}
