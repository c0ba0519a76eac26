// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package steam

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/hartrusion/phxnetmod/domain"
	"github.com/hartrusion/phxnetmod/netgraph"
	"github.com/hartrusion/phxnetmod/steamtable"
)

// fixtureOracle is a small synthetic steam table, linear in enthalpy around
// a fixed saturation point, good enough to drive the evaporator's forward
// path through a physically sane monotonic trajectory without depending on
// a real IAPWS-IF97 implementation.
const fixtureHSat = 700000.0

func fixtureOracle() steamtable.Oracle {
	return steamtable.Func(func(key string, args ...float64) (float64, error) {
		switch key {
		case steamtable.VpH:
			h := args[1]
			return 0.1 + (h-fixtureHSat)*1e-7, nil
		case steamtable.HLiqP:
			return fixtureHSat, nil
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

// Test_evaporator01 heats an evaporator held at a fixed
// volume, initialized above the fixture's saturation enthalpy, heated at a
// constant rate with zero mechanical inflow. Every step's outflow should be
// a small-magnitude outflow (ṁ_out < 0) and the held heat-energy should
// increase monotonically.
func Test_evaporator01(tst *testing.T) {

	chk.PrintTitle("evaporator01. S5 evaporator at saturation")

	oracle := fixtureOracle()
	h := NewIsobaricIsochoricEvaporator(oracle, 1.0, 1.0)
	h.HeatInputWatts = func(float64) float64 { return 10000 } // 10 kW
	if err := h.SetInitial(netgraph.SteamProps{0, 750000, 0, 1}); err != nil {
		tst.Fatal(err)
	}

	nIn := netgraph.NewNode(domain.Steam)
	nOut := netgraph.NewNode(domain.Steam)
	sIn := nIn.AddSlot()
	sOut := nOut.AddSlot()
	if err := h.RegisterNode(nIn, sIn); err != nil {
		tst.Fatal(err)
	}
	if err := h.RegisterNode(nOut, sOut); err != nil {
		tst.Fatal(err)
	}

	prevH := 750000.0
	for step := 0; step < 3; step++ {
		nIn.Prepare()
		nOut.Prepare()
		if err := nIn.SetEffort(1e5); err != nil {
			tst.Fatal(err)
		}
		if err := nOut.SetEffort(1e5); err != nil {
			tst.Fatal(err)
		}
		if err := nIn.SetFlow(sIn, 0); err != nil {
			tst.Fatal(err)
		}

		if _, err := h.DoCalculation(); err != nil {
			tst.Fatalf("step %d: %v", step, err)
		}
		if !h.IsFinished() {
			tst.Fatalf("step %d: evaporator should be finished after forward()", step)
		}

		mdotOut, err := nOut.FlowValue(sOut)
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

		v, err := h.GetValue()
		if err != nil {
			tst.Fatal(err)
		}
		if v[netgraph.PropH] <= prevH {
			tst.Fatalf("step %d: heat-energy must increase monotonically (was %v, now %v)", step, prevH, v[netgraph.PropH])
		}
		prevH = v[netgraph.PropH]
	}
}

// Test_evaporator02 holds the same fixed-volume
// evaporator with zero in-flow and zero thermal input must emit no outflow
// and hold its internal state unchanged over ten steps.
func Test_evaporator02(tst *testing.T) {

	chk.PrintTitle("evaporator02. S4 evaporator idle")

	oracle := fixtureOracle()
	h := NewIsobaricIsochoricEvaporator(oracle, 1.0, 1.0)
	initial := netgraph.SteamProps{0, 750000, 0, 1}
	if err := h.SetInitial(initial); err != nil {
		tst.Fatal(err)
	}

	nIn := netgraph.NewNode(domain.Steam)
	nOut := netgraph.NewNode(domain.Steam)
	sIn := nIn.AddSlot()
	sOut := nOut.AddSlot()
	if err := h.RegisterNode(nIn, sIn); err != nil {
		tst.Fatal(err)
	}
	if err := h.RegisterNode(nOut, sOut); err != nil {
		tst.Fatal(err)
	}

	for step := 0; step < 10; step++ {
		nIn.Prepare()
		nOut.Prepare()
		if err := nIn.SetEffort(1e5); err != nil {
			tst.Fatal(err)
		}
		if err := nOut.SetEffort(1e5); err != nil {
			tst.Fatal(err)
		}
		if err := nIn.SetFlow(sIn, 0); err != nil {
			tst.Fatal(err)
		}

		if _, err := h.DoCalculation(); err != nil {
			tst.Fatalf("step %d: %v", step, err)
		}
		if !h.IsFinished() {
			tst.Fatalf("step %d: idle evaporator should still finish", step)
		}

		mdotOut, err := nOut.FlowValue(sOut)
		if err != nil {
			tst.Fatal(err)
		}
		if mdotOut < -1e-5 || mdotOut > 1e-5 {
			tst.Fatalf("step %d: idle evaporator must emit no flow, got %v", step, mdotOut)
		}
	}

	v, err := h.GetValue()
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "idle held h", 1e-6, v[netgraph.PropH], initial[netgraph.PropH])
	chk.Scalar(tst, "idle negative-mass buffer", 1e-6, h.NegativeMass, 0)
}

// Test_evaporator03 exercises the reverse-direction two-step path: the
// outlet flow arrives first, the handler induces a matching inlet flow
// assuming its held enthalpy, CloseCycle sizes the correction once the true
// inlet enthalpy exists, and the next forward cycle applies it. Deliberately
// coarse, carried over unfixed.
func Test_evaporator03(tst *testing.T) {

	chk.PrintTitle("evaporator03. reverse path and next-cycle correction")

	oracle := fixtureOracle()
	h := NewIsobaricIsochoricEvaporator(oracle, 1.0, 1.0)
	if err := h.SetInitial(netgraph.SteamProps{0, 750000, 0, 1}); err != nil {
		tst.Fatal(err)
	}

	nIn := netgraph.NewNode(domain.Steam)
	nOut := netgraph.NewNode(domain.Steam)
	sIn := nIn.AddSlot()
	sOut := nOut.AddSlot()
	if err := h.RegisterNode(nIn, sIn); err != nil {
		tst.Fatal(err)
	}
	if err := h.RegisterNode(nOut, sOut); err != nil {
		tst.Fatal(err)
	}

	// cycle 1: the network fixes the outlet first
	if err := nIn.SetEffort(1e5); err != nil {
		tst.Fatal(err)
	}
	if err := nOut.SetEffort(1e5); err != nil {
		tst.Fatal(err)
	}
	if err := nOut.SetFlow(sOut, -0.5); err != nil {
		tst.Fatal(err)
	}
	did, err := h.DoCalculation()
	if err != nil {
		tst.Fatal(err)
	}
	if !did {
		tst.Fatal("reverse path should have run")
	}
	induced, err := nIn.FlowValue(sIn)
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "induced inlet flow", 1e-12, induced, 0.5)

	// the true inlet state arrives on a later sweep; CloseCycle (invoked
	// by the solver after convergence) sizes the correction from it
	if err := nIn.SetSteamProps(sIn, netgraph.SteamProps{450, 900000, 1.8, 1}); err != nil {
		tst.Fatal(err)
	}
	if !h.IsFinished() {
		tst.Fatal("evaporator should be finished before CloseCycle runs")
	}
	if err := h.CloseCycle(); err != nil {
		tst.Fatal(err)
	}
	extra := h.GetExtraState()
	// 0.5 kg/s induced at h=750e3 vs a true 900e3: true rate 0.6, so +0.1
	chk.Scalar(tst, "sized correction", 1e-12, extra["reverse_out_mass_correction"], 0.1)

	// cycle 2: an otherwise-idle forward cycle drains the correction
	nIn.Prepare()
	nOut.Prepare()
	if err := nIn.SetEffort(1e5); err != nil {
		tst.Fatal(err)
	}
	if err := nOut.SetEffort(1e5); err != nil {
		tst.Fatal(err)
	}
	if err := nIn.SetFlow(sIn, 0); err != nil {
		tst.Fatal(err)
	}
	if _, err := h.DoCalculation(); err != nil {
		tst.Fatal(err)
	}
	mdotOut, err := nOut.FlowValue(sOut)
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "corrected outflow", 1e-9, mdotOut, -0.1)
	chk.Scalar(tst, "correction consumed", 1e-15, h.ReverseOutMassCorrection, 0)
}
