// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assembler

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/hartrusion/phxnetmod/domain"
	"github.com/hartrusion/phxnetmod/netgraph"
	"github.com/hartrusion/phxnetmod/steamtable"
)

// steamFixtureOracle mirrors the synthetic table the steam handler tests
// use: specific volume linear in enthalpy around a fixed saturation point,
// enough to drive the evaporator through a sane trajectory without a real
// IAPWS-IF97 implementation.
const steamFixtureHSat = 700000.0

func steamFixtureOracle() steamtable.Oracle {
	return steamtable.Func(func(key string, args ...float64) (float64, error) {
		switch key {
		case steamtable.VpH:
			h := args[1]
			return 0.1 + (h-steamFixtureHSat)*1e-7, nil
		case steamtable.HLiqP:
			return steamFixtureHSat, nil
		case steamtable.TpH:
			h := args[1]
			return h / 2000, nil
		case steamtable.SpH:
			h := args[1]
			return h / 500000, nil
		case steamtable.XpH:
			return 1.0, nil
		}
		return 0, steamtable.ErrUnknownKey(key)
	})
}

// buildEvaporatorModel wires the evaporator the way a model author would:
// a two-port Bridged element carrying the handler, an Open
// element standing in for the shut inlet line, and an EffortSource holding
// the outlet at 1e5 Pa; the Bridged rule carries that pressure across to
// the inlet, and the handler derives both flow slots itself.
func buildEvaporatorModel(tst *testing.T, heatWatts float64) (a *Assembler, evap *netgraph.Element, nOut *netgraph.Node) {
	a = New()
	a.SetSteamOracle(steamFixtureOracle())

	nIn := a.NewNode(domain.Steam)
	nOut = a.NewNode(domain.Steam)
	nRef := a.NewNode(domain.Steam)

	evap, err := a.NewElement("evap", domain.Steam, domain.Bridged)
	if err != nil {
		tst.Fatal(err)
	}
	h := a.AttachIsobaricIsochoricEvaporator(evap, 1.0)
	if err := a.ConnectBetween(evap, nIn, nOut); err != nil {
		tst.Fatal(err)
	}
	if err := h.SetInitial(netgraph.SteamProps{0, 750000, 0, 1}); err != nil {
		tst.Fatal(err)
	}
	if heatWatts != 0 {
		h.HeatInputWatts = func(float64) float64 { return heatWatts }
	}

	inlet, err := a.NewElement("inlet", domain.Steam, domain.Open)
	if err != nil {
		tst.Fatal(err)
	}
	if err := a.Connect(inlet, nIn); err != nil {
		tst.Fatal(err)
	}

	press, err := a.NewElement("press", domain.Steam, domain.EffortSource)
	if err != nil {
		tst.Fatal(err)
	}
	press.SourceValue = netgraph.FuncFromClosure(func(float64, []float64) float64 { return 1e5 })
	if err := a.ConnectBetween(press, nOut, nRef); err != nil {
		tst.Fatal(err)
	}

	a.SetStepTime(1.0)
	return a, evap, nOut
}

// Test_steamloop01 runs an idle evaporator end to end through
// Build()/StepOnce: a fixed-volume evaporator with a shut inlet and zero
// thermal input emits no outflow and holds its state over ten cycles.
func Test_steamloop01(tst *testing.T) {

	chk.PrintTitle("steamloop01. S4 evaporator idle through the solver")

	a, evap, nOut := buildEvaporatorModel(tst, 0)
	net, err := a.Build()
	if err != nil {
		tst.Fatal(err)
	}

	for step := 0; step < 10; step++ {
		if err := net.Prepare(); err != nil {
			tst.Fatalf("step %d prepare: %v", step, err)
		}
		if err := net.StepOnce(); err != nil {
			tst.Fatalf("step %d: %v", step, err)
		}
		mdotOut, err := nOut.FlowValue(evap.Nodes[1].Slot)
		if err != nil {
			tst.Fatal(err)
		}
		if mdotOut < -1e-5 || mdotOut > 1e-5 {
			tst.Fatalf("step %d: idle evaporator must emit no flow, got %v", step, mdotOut)
		}
	}

	state, err := evap.SteamHandler.GetValue()
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "idle held h", 1e-6, state[netgraph.PropH], 750000)
}

// Test_steamloop02 runs a heated evaporator end to end through
// Build()/StepOnce: the same model heated at 10 kW shows a small-magnitude
// outflow on every cycle and a monotonically increasing held heat-energy.
func Test_steamloop02(tst *testing.T) {

	chk.PrintTitle("steamloop02. S5 heated evaporator through the solver")

	a, evap, nOut := buildEvaporatorModel(tst, 10000)
	net, err := a.Build()
	if err != nil {
		tst.Fatal(err)
	}

	prevH := 750000.0
	for step := 0; step < 3; step++ {
		if err := net.Prepare(); err != nil {
			tst.Fatalf("step %d prepare: %v", step, err)
		}
		if err := net.StepOnce(); err != nil {
			tst.Fatalf("step %d: %v", step, err)
		}

		mdotOut, err := nOut.FlowValue(evap.Nodes[1].Slot)
		if err != nil {
			tst.Fatal(err)
		}
		if mdotOut >= 0 {
			tst.Fatalf("step %d: expected an outflow (negative), got %v", step, mdotOut)
		}
		mag := -mdotOut
		if mag < 0.002 || mag > 0.02 {
			tst.Fatalf("step %d: outflow magnitude %v outside expected small range", step, mag)
		}

		state, err := evap.SteamHandler.GetValue()
		if err != nil {
			tst.Fatal(err)
		}
		if state[netgraph.PropH] <= prevH {
			tst.Fatalf("step %d: heat-energy must increase monotonically (was %v, now %v)", step, prevH, state[netgraph.PropH])
		}
		prevH = state[netgraph.PropH]
	}
}
