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

// Test_converterHeatSteam01 wires a Heat<->Steam inter-domain converter
// directly and drives it with a forward (heat->steam) flow: pressure
// passes through by the ordinary Bridged rule and the heat side's
// temperature is translated into a full steam 4-tuple via the oracle.
func Test_converterHeatSteam01(tst *testing.T) {

	chk.PrintTitle("converterHeatSteam01. forward heat->steam conversion")

	const tSat = 372.76
	const hLiq = 417000.0
	oracle := steamtable.Func(func(key string, args ...float64) (float64, error) {
		switch key {
		case steamtable.TSatP:
			return tSat, nil
		case steamtable.HLiqP:
			return hLiq, nil
		case steamtable.SpH:
			return 1.3, nil
		case steamtable.XpH:
			return 0.0, nil
		}
		return 0, steamtable.ErrUnknownKey(key)
	})

	a := New()
	a.SetSteamOracle(oracle)
	heatNode := a.NewNode(domain.HeatFluid)
	steamNode := a.NewNode(domain.Steam)

	e, _, _, err := a.AttachConverterHeatSteam("htos", heatNode, steamNode)
	if err != nil {
		tst.Fatal(err)
	}

	if err := heatNode.SetFlow(0, 2.0); err != nil {
		tst.Fatal(err)
	}
	if err := steamNode.SetFlow(0, -2.0); err != nil {
		tst.Fatal(err)
	}
	if err := heatNode.SetEffort(1e5); err != nil {
		tst.Fatal(err)
	}
	if err := heatNode.SetTemperature(0, tSat); err != nil {
		tst.Fatal(err)
	}

	if _, err := e.Step(); err != nil {
		tst.Fatal(err)
	}
	if !e.IsFinished() {
		tst.Fatal("converter should be finished after one step with both prerequisites known")
	}

	steamEffort, err := steamNode.EffortValue()
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "pressure passed through", 1e-9, steamEffort, 1e5)

	props, err := steamNode.SteamPropsValue(0)
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "steam T", 1e-9, props[netgraph.PropT], tSat)
	chk.Scalar(tst, "steam h at saturation", 1e-6, props[netgraph.PropH], hLiq)
}

// Test_converterHeatSteam02 checks the zero-flow degeneracy: with both ports
// at exactly zero flow, both sides are marked no-value rather than
// converted.
func Test_converterHeatSteam02(tst *testing.T) {

	chk.PrintTitle("converterHeatSteam02. zero-flow degeneracy")

	a := New()
	heatNode := a.NewNode(domain.HeatFluid)
	steamNode := a.NewNode(domain.Steam)

	e, _, _, err := a.AttachConverterHeatSteam("htos", heatNode, steamNode)
	if err != nil {
		tst.Fatal(err)
	}

	if err := heatNode.SetFlow(0, 0); err != nil {
		tst.Fatal(err)
	}
	if err := steamNode.SetFlow(0, 0); err != nil {
		tst.Fatal(err)
	}

	progressed, err := e.Step()
	if err != nil {
		tst.Fatal(err)
	}
	if !progressed {
		tst.Fatal("expected progress marking both sides no-value")
	}
	if !e.IsFinished() {
		tst.Fatal("converter should be finished once both extension slots are no-value")
	}

	if _, err := heatNode.TemperatureValue(0); err == nil {
		tst.Fatal("expected reading a no_temperature slot to fail")
	}
	if _, err := steamNode.SteamPropsValue(0); err == nil {
		tst.Fatal("expected reading a no_steam_properties slot to fail")
	}
}

// Test_converterHeatSteam03 checks that inconsistent flow directions (both
// sides showing inflow) surface as a ModelError rather than being silently
// resolved.
func Test_converterHeatSteam03(tst *testing.T) {

	chk.PrintTitle("converterHeatSteam03. inconsistent flow direction rejected")

	a := New()
	heatNode := a.NewNode(domain.HeatFluid)
	steamNode := a.NewNode(domain.Steam)

	e, _, _, err := a.AttachConverterHeatSteam("htos", heatNode, steamNode)
	if err != nil {
		tst.Fatal(err)
	}

	if err := heatNode.SetFlow(0, 2.0); err != nil {
		tst.Fatal(err)
	}
	if err := steamNode.SetFlow(0, 2.0); err != nil {
		tst.Fatal(err)
	}
	if err := heatNode.SetEffort(1e5); err != nil {
		tst.Fatal(err)
	}
	if err := heatNode.SetTemperature(0, 373); err != nil {
		tst.Fatal(err)
	}

	if _, err := e.Step(); err == nil {
		tst.Fatal("expected a ModelError for both sides showing inflow")
	}
}
