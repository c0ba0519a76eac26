// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phased

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_expanding01 checks the idle case: with every flow at exactly zero an
// initialized exchanger hands its held heat-energy through unchanged and
// accumulates no negative mass.
func Test_expanding01(tst *testing.T) {

	chk.PrintTitle("expanding01. idle exchanger holds state")

	nIn, nOut, sIn, sOut := newPhasedPair()

	h := NewExpandingThermalExchanger(10)
	h.SetStepTime(0.1)
	if err := h.SetInitial(500e3); err != nil {
		tst.Fatal(err)
	}
	if err := h.RegisterNode(nIn, sIn); err != nil {
		tst.Fatal(err)
	}
	if err := h.RegisterNode(nOut, sOut); err != nil {
		tst.Fatal(err)
	}

	for step := 0; step < 10; step++ {
		nIn.Prepare()
		nOut.Prepare()
		if err := nIn.SetFlow(sIn, 0); err != nil {
			tst.Fatal(err)
		}
		if err := nOut.SetFlow(sOut, 0); err != nil {
			tst.Fatal(err)
		}
		h.Prepare()
		if _, err := h.DoCalculation(); err != nil {
			tst.Fatalf("step %d: %v", step, err)
		}
		if !h.IsFinished() {
			tst.Fatalf("step %d: handler should be finished", step)
		}
	}

	v, err := h.GetValue()
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "held he after 10 idle steps", 1e-12, v, 500e3)
	chk.Scalar(tst, "negative mass", 1e-15, h.NegativeMass, 0)

	he, err := nOut.HeatEnergyValue(sOut)
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "idle out he", 1e-12, he, 500e3)
}

// Test_expanding02 pins the inner-mass blend and the negative-mass buffer:
// an outflow exceeding the inflow by 1 kg/s over a 1 s step books
// 1 kg into the buffer, and a later surplus inflow drains it again.
func Test_expanding02(tst *testing.T) {

	chk.PrintTitle("expanding02. blend and negative-mass buffer")

	nIn, nOut, sIn, sOut := newPhasedPair()

	h := NewExpandingThermalExchanger(10)
	h.SetStepTime(1)
	if err := h.SetInitial(500e3); err != nil {
		tst.Fatal(err)
	}
	if err := h.RegisterNode(nIn, sIn); err != nil {
		tst.Fatal(err)
	}
	if err := h.RegisterNode(nOut, sOut); err != nil {
		tst.Fatal(err)
	}

	// cycle 1: 2 kg/s in at 600e3 J/kg, 3 kg/s out
	if err := nIn.SetFlow(sIn, 2); err != nil {
		tst.Fatal(err)
	}
	if err := nOut.SetFlow(sOut, -3); err != nil {
		tst.Fatal(err)
	}
	if err := nIn.SetHeatEnergy(sIn, 600e3); err != nil {
		tst.Fatal(err)
	}
	h.Prepare()
	if _, err := h.DoCalculation(); err != nil {
		tst.Fatal(err)
	}

	v, err := h.GetValue()
	if err != nil {
		tst.Fatal(err)
	}
	// (10·500e3 + 2·1·600e3) / (10 + 2)
	chk.Scalar(tst, "blended he", 1e-9, v, (10*500e3+2*600e3)/12.0)
	chk.Scalar(tst, "booked negative mass", 1e-12, h.NegativeMass, 1)

	extra := h.GetExtraState()
	chk.Scalar(tst, "delayed inflow he", 1e-12, extra["delayed_in_heat_energy"], 600e3)

	// cycle 2: surplus inflow drains the buffer
	nIn.Prepare()
	nOut.Prepare()
	if err := nIn.SetFlow(sIn, 3); err != nil {
		tst.Fatal(err)
	}
	if err := nOut.SetFlow(sOut, -2); err != nil {
		tst.Fatal(err)
	}
	if err := nIn.SetHeatEnergy(sIn, 600e3); err != nil {
		tst.Fatal(err)
	}
	h.Prepare()
	if _, err := h.DoCalculation(); err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "drained negative mass", 1e-12, h.NegativeMass, 0)
}
