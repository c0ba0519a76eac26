// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assembler

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/hartrusion/phxnetmod/domain"
	"github.com/hartrusion/phxnetmod/netgraph"
)

// Test_heatloop01 runs a stirred-tank loop through the full public surface: a
// 100 kg tank (Capacitance with a volumized heat handler) on a closed loop
// with a 10 kg/s circulation pump (FlowSource with a simple-mix handler).
// Temperature travels tank → node → pump → node → tank purely via the
// node-side distribution rules, and a loop fed back at the tank's own
// temperature holds steady to 1e-8 K over ten 0.1 s steps.
func Test_heatloop01(tst *testing.T) {

	chk.PrintTitle("heatloop01. S3 closed loop through the solver")

	a := New()
	nHot := a.NewNode(domain.HeatFluid)
	nRet := a.NewNode(domain.HeatFluid)

	tank, err := a.NewElement("tank", domain.HeatFluid, domain.Capacitance)
	if err != nil {
		tst.Fatal(err)
	}
	tank.Tau = 1
	if err := a.AttachHeat(tank, "volumized"); err != nil {
		tst.Fatal(err)
	}
	if err := a.ConnectBetween(tank, nRet, nHot); err != nil {
		tst.Fatal(err)
	}
	if err := tank.SetInitialState(2e5); err != nil {
		tst.Fatal(err)
	}
	if err := tank.HeatHandler.SetMassOrCapacity(100); err != nil {
		tst.Fatal(err)
	}
	if err := tank.HeatHandler.SetInitial(298.15); err != nil {
		tst.Fatal(err)
	}

	pump, err := a.NewElement("pump", domain.HeatFluid, domain.FlowSource)
	if err != nil {
		tst.Fatal(err)
	}
	pump.SourceValue = netgraph.FuncFromClosure(func(float64, []float64) float64 { return 10 })
	if err := a.AttachHeat(pump, "simple_mix"); err != nil {
		tst.Fatal(err)
	}
	if err := a.ConnectBetween(pump, nHot, nRet); err != nil {
		tst.Fatal(err)
	}

	a.SetStepTime(0.1)

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
	}

	tankT, err := tank.HeatHandler.GetValue()
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "tank T after 10 steps", 1e-8, tankT, 298.15)

	// the tank's outflow side carries the held temperature; the pump's
	// return side received the same value through the node distribution.
	outT, err := nHot.TemperatureValue(tank.Nodes[1].Slot)
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "loop temperature", 1e-8, outT, 298.15)

	// Kirchhoff closes on both nodes
	chk.Scalar(tst, "nHot flow sum", 1e-12, nHot.FlowSum(), 0)
	chk.Scalar(tst, "nRet flow sum", 1e-12, nRet.FlowSum(), 0)
}
