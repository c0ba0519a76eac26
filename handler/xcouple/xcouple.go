// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xcouple defines the single shared interface the heat-side and
// phased-side "no-mass energy exchanger" handlers use to pair
// up across the heat/phased package boundary without either package
// importing the other, the same import-cycle avoidance netgraph already
// uses for HeatHandler/PhasedHandler/SteamHandler.
package xcouple

// EnergySide is implemented by both heat.NoMassEnergyExchanger and
// phased.NoMassEnergyExchanger. Every quantity crossing the interface is
// expressed in watts or kelvin so either side can convert to its own native
// scalar (temperature or heat-energy) using its own specific heat.
type EnergySide interface {
	// InletTemp returns this side's current inlet temperature and whether
	// it is ready (inflow and its temperature both resolved).
	InletTemp() (t float64, ok bool)

	// MaxEnergyDelta returns (tOther - T_in) * cp * mdot for this side, the
	// maximum power this side could absorb or give up this step.
	MaxEnergyDelta(tOther float64) (watts float64, ok bool)

	// SetPowerTransfer commits the actually-transferred power (signed, from
	// this side's point of view) onto this side's outbound slot.
	SetPowerTransfer(watts float64) bool

	// SetNoPowerTransfer marks this side's outbound slot as a degenerate
	// zero-flow case.
	SetNoPowerTransfer() bool

	// MarkZeroFlow marks every one of this side's own unset slots as the
	// zero-flow degeneracy if and only if every one of
	// this side's own flows is known and numerically zero, independent of
	// whatever the other side is doing. Reports whether it changed
	// anything.
	MarkZeroFlow() bool
}

// Effectiveness is the shared η applied by whichever side runs first; a
// package-level default used when the assembler does not override it per-pair.
const DefaultEffectiveness = 0.85
