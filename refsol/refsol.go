// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package refsol provides independent closed-form and ODE-integrated
// reference trajectories for the engine's integration tests: a stirred
// tank's exponential approach to its inlet temperature, and a fixed-mass
// reservoir's linear heat-up under constant heat input. Both pair a
// closed-form Calc with a gosl/ode-integrated CalcNum that a test can
// cross-check the engine's own Euler-stepped result against, independently
// of the engine's own code.
package refsol

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/ode"
)

// StirredTankTemperature is the reference solution for a fixed-mass,
// continuously-stirred tank fed by a constant inflow at a constant inlet
// temperature:
//
//	dT/dT̂ = (ṁ/m)・(Tin - T)
//
// where T̂ is the dimensionless integration variable running 0 to t. The
// closed form is the standard first-order exponential approach to Tin.
type StirredTankTemperature struct {
	T0   float64 // initial tank temperature
	Tin  float64 // inlet temperature
	Mdot float64 // inflow mass rate, kg/s
	M    float64 // tank held mass, kg
	sol  ode.ODE
}

// Init configures the reference model; withNum also sets up the ODE solver
// for CalcNum.
func (o *StirredTankTemperature) Init(T0, Tin, mdot, m float64, withNum bool) {
	o.T0 = T0
	o.Tin = Tin
	o.Mdot = mdot
	o.M = m
	if withNum {
		silent := true
		o.sol.Init("Radau5", 1, func(f []float64, dt, t float64, ξ []float64, args ...interface{}) error {
			f[0] = (o.Mdot / o.M) * (o.Tin - ξ[0])
			return nil
		}, nil, nil, nil, silent)
		o.sol.Distr = false
	}
}

// Calc returns the tank temperature at time t via the closed-form solution.
func (o StirredTankTemperature) Calc(t float64) (T float64) {
	k := o.Mdot / o.M
	return o.Tin + (o.T0-o.Tin)*math.Exp(-k*t)
}

// CalcNum returns the tank temperature at time t via direct ODE
// integration, independent of Calc's closed form.
func (o StirredTankTemperature) CalcNum(t float64) (T float64) {
	ξ := []float64{o.T0}
	if err := o.sol.Solve(ξ, 0, t, t, false); err != nil {
		chk.Panic("StirredTankTemperature failed integrating the reference ODE: %v", err)
	}
	return ξ[0]
}

// EvaporatorHeatup is the reference solution for a fixed-mass reservoir
// accumulating heat-energy under a constant heat input with no mechanical
// inflow:
//
//	dh/dT̂ = Q̇/m
//
// a constant rate of change, so the closed form is simply linear in t; the
// ODE integration exists purely as a structural cross-check that the
// engine's own Euler stepping tracks the same line, the same role
// CalcNum plays for StirredTankTemperature.
type EvaporatorHeatup struct {
	H0  float64 // initial specific enthalpy, J/kg
	Q   float64 // heat input, W
	M   float64 // reservoir mass, kg
	sol ode.ODE
}

// Init configures the reference model; withNum also sets up the ODE solver
// for CalcNum.
func (o *EvaporatorHeatup) Init(h0, q, m float64, withNum bool) {
	o.H0 = h0
	o.Q = q
	o.M = m
	if withNum {
		silent := true
		o.sol.Init("Radau5", 1, func(f []float64, dt, t float64, ξ []float64, args ...interface{}) error {
			f[0] = o.Q / o.M
			return nil
		}, nil, nil, nil, silent)
		o.sol.Distr = false
	}
}

// Calc returns the specific enthalpy at time t via the closed-form
// solution.
func (o EvaporatorHeatup) Calc(t float64) (h float64) {
	return o.H0 + (o.Q/o.M)*t
}

// CalcNum returns the specific enthalpy at time t via direct ODE
// integration.
func (o EvaporatorHeatup) CalcNum(t float64) (h float64) {
	ξ := []float64{o.H0}
	if err := o.sol.Solve(ξ, 0, t, t, false); err != nil {
		chk.Panic("EvaporatorHeatup failed integrating the reference ODE: %v", err)
	}
	return ξ[0]
}
