// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heat

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/hartrusion/phxnetmod/domain"
	"github.com/hartrusion/phxnetmod/handler/phased"
	"github.com/hartrusion/phxnetmod/netgraph"
)

// Test_nomassenergyexchanger01 pairs a heat.NoMassEnergyExchanger with a
// phased.NoMassEnergyExchanger across the xcouple boundary and
// checks the power bound in its cross-domain form: the
// transferred power never exceeds effectiveness times the tighter side's
// max deliverable power.
func Test_nomassenergyexchanger01(tst *testing.T) {

	chk.PrintTitle("nomassenergyexchanger01. heat<->phased power bound")

	heatSide := NewNoMassEnergyExchanger(4000)
	phasedSide := phased.NewNoMassEnergyExchanger(2000)
	heatSide.Other = phasedSide
	phasedSide.Other = heatSide

	hIn := netgraph.NewNode(domain.HeatFluid)
	hOut := netgraph.NewNode(domain.HeatFluid)
	hSIn := hIn.AddSlot()
	hSOut := hOut.AddSlot()
	if err := heatSide.RegisterNode(hIn, hSIn); err != nil {
		tst.Fatal(err)
	}
	if err := heatSide.RegisterNode(hOut, hSOut); err != nil {
		tst.Fatal(err)
	}

	pIn := netgraph.NewNode(domain.PhasedFluid)
	pOut := netgraph.NewNode(domain.PhasedFluid)
	pSIn := pIn.AddSlot()
	pSOut := pOut.AddSlot()
	if err := phasedSide.RegisterNode(pIn, pSIn); err != nil {
		tst.Fatal(err)
	}
	if err := phasedSide.RegisterNode(pOut, pSOut); err != nil {
		tst.Fatal(err)
	}

	if err := hIn.SetFlow(hSIn, 1.0); err != nil {
		tst.Fatal(err)
	}
	if err := hOut.SetFlow(hSOut, -1.0); err != nil {
		tst.Fatal(err)
	}
	if err := pIn.SetFlow(pSIn, 1.0); err != nil {
		tst.Fatal(err)
	}
	if err := pOut.SetFlow(pSOut, -1.0); err != nil {
		tst.Fatal(err)
	}
	if err := hIn.SetTemperature(hSIn, 400); err != nil {
		tst.Fatal(err)
	}
	// phased side carries a heat-energy of cp*T = 2000*300 = 600000 J/kg.
	if err := pIn.SetHeatEnergy(pSIn, 600000); err != nil {
		tst.Fatal(err)
	}

	if _, err := heatSide.DoCalculation(); err != nil {
		tst.Fatal(err)
	}
	if !heatSide.IsFinished() || !phasedSide.IsFinished() {
		tst.Fatal("both sides should be finished after one invocation")
	}

	hOutT, err := hOut.TemperatureValue(hSOut)
	if err != nil {
		tst.Fatal(err)
	}
	cMin := 1.0 * 2000.0 // phased side's C is the limiting one (smaller cp)
	q := 1.0 * 4000.0 * (400 - hOutT)
	bound := cMin * (400 - 300)
	if q < -1e-6 || q > bound+1e-6 {
		tst.Fatalf("exchanged power %v outside [0, %v]", q, bound)
	}
}
