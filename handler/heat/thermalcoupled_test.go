// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heat

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/hartrusion/phxnetmod/domain"
	"github.com/hartrusion/phxnetmod/netgraph"
)

// Test_thermalcoupled01 pins the conductive blend: next_T =
// (m·T + Σṁ_in·Δt·T_in − Q̇·Δt/c_p) / (m + Σṁ_in·Δt), with Q̇ read from
// the coupled thermal source's derived flow, and checks that Prepare
// mirrors the held temperature onto that source's imposed effort.
func Test_thermalcoupled01(tst *testing.T) {

	chk.PrintTitle("thermalcoupled01. conductive blend from coupled flow")

	tA := netgraph.NewNode(domain.Thermal)
	tB := netgraph.NewNode(domain.Thermal)
	skin := netgraph.NewElement("skin", domain.Thermal, domain.EffortSource)
	if err := skin.Connect(tA); err != nil {
		tst.Fatal(err)
	}
	if err := skin.Connect(tB); err != nil {
		tst.Fatal(err)
	}

	nIn, nOut, sIn, sOut := newHeatPair(tst)

	h := NewThermalCoupledVolumized(skin)
	h.CP = 2
	h.SetStepTime(1)
	if err := h.SetMassOrCapacity(10); err != nil {
		tst.Fatal(err)
	}
	if err := h.SetInitial(300); err != nil {
		tst.Fatal(err)
	}
	if err := h.RegisterNode(nIn, sIn); err != nil {
		tst.Fatal(err)
	}
	if err := h.RegisterNode(nOut, sOut); err != nil {
		tst.Fatal(err)
	}

	h.Prepare()
	if skin.SourceValue == nil {
		tst.Fatal("Prepare must mirror the held temperature onto the coupled source")
	}
	chk.Scalar(tst, "mirrored effort", 1e-15, skin.SourceValue.F(0, nil), 300)

	if err := nIn.SetFlow(sIn, 2); err != nil {
		tst.Fatal(err)
	}
	if err := nOut.SetFlow(sOut, -2); err != nil {
		tst.Fatal(err)
	}
	if err := nIn.SetTemperature(sIn, 320); err != nil {
		tst.Fatal(err)
	}

	// the blend must wait for the thermal side's flow
	if _, err := h.DoCalculation(); err != nil {
		tst.Fatal(err)
	}
	if h.IsFinished() {
		tst.Fatal("blend must not commit before the coupled flow is known")
	}

	// thermal network extracts 40 W: the source pushes 40 into its node
	if err := tA.SetFlow(skin.Nodes[0].Slot, -40); err != nil {
		tst.Fatal(err)
	}
	if _, err := h.DoCalculation(); err != nil {
		tst.Fatal(err)
	}
	if !h.IsFinished() {
		tst.Fatal("handler should be finished once the coupled flow arrived")
	}

	h.Prepare()
	v, err := h.GetValue()
	if err != nil {
		tst.Fatal(err)
	}
	// (10·300 + 2·1·320 − 40·1/2) / (10 + 2)
	chk.Scalar(tst, "conductive blend", 1e-12, v, 3620.0/12.0)
	chk.Scalar(tst, "re-mirrored effort", 1e-12, skin.SourceValue.F(0, nil), 3620.0/12.0)
}
