// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netgraph

// HeatHandler is implemented by every heat-extension variant: simple
// mix, volumized, thermal-coupled volumized, no-mass exchanger, no-mass
// energy exchanger and connection. It is defined here (not in the handler
// package) so Element can hold one without an import cycle: concrete
// variants live in handler/heat and import netgraph, not the reverse.
type HeatHandler interface {
	// RegisterNode attaches the handler to one of the element's incident
	// (temperature-bearing) nodes at the given slot.
	RegisterNode(node *Node, slot int) error

	// Prepare resets the handler's own "did work" bookkeeping for the next
	// sweep and, for thermal-coupled variants, pushes the handler's current
	// temperature onto its thermal effort-source counterpart.
	Prepare()

	// DoCalculation attempts to derive any outstanding temperature slot;
	// returns whether it changed anything.
	DoCalculation() (bool, error)

	// IsFinished reports whether every slot the handler owns has been
	// resolved this cycle.
	IsFinished() bool

	// SetInitial seeds the handler's intrinsic temperature, if it has one.
	// Returns NonexistingStateVariableError for handlers without capacity.
	SetInitial(temperature float64) error

	// GetValue returns the handler's intrinsic temperature.
	// Returns NonexistingStateVariableError for handlers without capacity.
	GetValue() (float64, error)

	// SetMassOrCapacity sets the handler's inner thermal mass/capacity.
	// Returns NonexistingStateVariableError for handlers without one.
	SetMassOrCapacity(v float64) error

	// SetFromConverter is the single extra method a Connection handler
	// supports: writing an externally-derived temperature onto its port.
	// Returns NonexistingStateVariableError on every other variant.
	SetFromConverter(value float64) error
}

// PhasedHandler mirrors HeatHandler for the phased-fluid extension,
// transporting heat-energy (J/kg) instead of temperature.
type PhasedHandler interface {
	RegisterNode(node *Node, slot int) error
	Prepare()
	DoCalculation() (bool, error)
	IsFinished() bool
	SetInitial(heatEnergy float64) error
	GetValue() (float64, error)
	SetMassOrCapacity(v float64) error
	SetFromConverter(value float64) error
}

// ExtraStateCarrier is implemented, optionally, by handler variants that
// hold persistent fields beyond the single scalar SetInitial/GetValue pair
// the three handler interfaces above expose: the evaporator's negative-mass
// buffer and pending reverse-flow correction, the expanding exchanger's
// delayed inflow, a saturated-reservoir's ambient-pressure anchor. The
// initial-condition glue (netgraph/initialcondition.go) checks for this
// interface via a type assertion rather than growing the core handler
// interfaces, the same optional-capability pattern stdlib uses for
// io.ReaderFrom/WriterTo.
type ExtraStateCarrier interface {
	GetExtraState() map[string]float64
	SetExtraState(map[string]float64) error
}

// FlowDeriver is implemented, optionally, by handler variants that derive
// the element's own flow slots themselves (the fixed-volume evaporator,
// whose volume constraint rather than the surrounding network fixes how
// much mass must leave or enter each step). Bridged's element-level
// flow pass-through checks for it and leaves both slots to the handler;
// without this the "what comes in goes out" rule would overwrite the
// volume-derived outflow before the handler ever ran.
type FlowDeriver interface {
	DerivesOwnFlow() bool
}

// CycleCloser is implemented, optionally, by handler variants that need a
// completion callback once the whole network has converged for the cycle;
// the solver invokes it after every element reports finished. The
// evaporator uses it to size its reverse-direction correction, which needs
// the true inlet enthalpy that only exists at convergence.
type CycleCloser interface {
	CloseCycle() error
}

// SteamHandler is implemented by every steam-extension variant:
// connection, isenthalpic expansion, saturated separation and
// isobaric-isochoric thermal transfer.
type SteamHandler interface {
	RegisterNode(node *Node, slot int) error
	Prepare()
	DoCalculation() (bool, error)
	IsFinished() bool
	SetInitial(props SteamProps) error
	GetValue() (SteamProps, error)
	SetMassOrCapacity(v float64) error

	// SetFromConverter is the Connection handler's external-input path:
	// translating an externally-known (pressure, temperature) pair from
	// the heat domain into a full steam 4-tuple via the oracle.
	SetFromConverter(pressure, temperature float64) error
}
