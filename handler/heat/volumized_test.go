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

func newHeatPair(tst *testing.T) (in, out *netgraph.Node, slotIn, slotOut int) {
	in = netgraph.NewNode(domain.HeatFluid)
	out = netgraph.NewNode(domain.HeatFluid)
	slotIn = in.AddSlot()
	slotOut = out.AddSlot()
	return
}

// Test_volumized01 runs a 100 kg tank fed at 10 kg/s by
// an inlet already at the tank's own held temperature holds steady to
// within 1e-8 K over ten 0.1 s steps, and its outflow carries that same
// temperature.
func Test_volumized01(tst *testing.T) {

	chk.PrintTitle("volumized01. S3 heat fluid tank steady state")

	nIn, nOut, sIn, sOut := newHeatPair(tst)

	h := NewVolumized()
	if err := h.SetMassOrCapacity(100); err != nil {
		tst.Fatal(err)
	}
	if err := h.SetInitial(298.15); err != nil {
		tst.Fatal(err)
	}
	h.SetStepTime(0.1)
	if err := h.RegisterNode(nIn, sIn); err != nil {
		tst.Fatal(err)
	}
	if err := h.RegisterNode(nOut, sOut); err != nil {
		tst.Fatal(err)
	}

	for step := 0; step < 10; step++ {
		nIn.Prepare()
		nOut.Prepare()
		if err := nIn.SetFlow(sIn, 10); err != nil {
			tst.Fatal(err)
		}
		if err := nOut.SetFlow(sOut, -10); err != nil {
			tst.Fatal(err)
		}
		if err := nIn.SetTemperature(sIn, 298.15); err != nil {
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
	chk.Scalar(tst, "tank T after 10 steps", 1e-8, v, 298.15)

	outT, err := nOut.TemperatureValue(sOut)
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "outflow T", 1e-8, outT, 298.15)
}

// Test_volumized02 pins down the Δt-scaled blend formula itself: next_T =
// (m·T + ṁ·Δt·Tin) / (m + ṁ·Δt). With m=10 kg, ṁ=2 kg/s, Δt=5 s, T=300 K,
// Tin=350 K, the expected blend is 325 K; an unscaled (Δt-less) blend would
// instead give ≈308.33 K, so this test fails loudly if the Δt factor is ever
// dropped again.
func Test_volumized02(tst *testing.T) {

	chk.PrintTitle("volumized02. Δt-scaled blend formula")

	nIn, nOut, sIn, sOut := newHeatPair(tst)

	h := NewVolumized()
	if err := h.SetMassOrCapacity(10); err != nil {
		tst.Fatal(err)
	}
	if err := h.SetInitial(300); err != nil {
		tst.Fatal(err)
	}
	h.SetStepTime(5)
	if err := h.RegisterNode(nIn, sIn); err != nil {
		tst.Fatal(err)
	}
	if err := h.RegisterNode(nOut, sOut); err != nil {
		tst.Fatal(err)
	}

	if err := nIn.SetFlow(sIn, 2); err != nil {
		tst.Fatal(err)
	}
	if err := nOut.SetFlow(sOut, -2); err != nil {
		tst.Fatal(err)
	}
	if err := nIn.SetTemperature(sIn, 350); err != nil {
		tst.Fatal(err)
	}
	h.Prepare()
	if _, err := h.DoCalculation(); err != nil {
		tst.Fatal(err)
	}

	// the outflow this cycle carries the held (pre-blend) temperature: the
	// delayed out-temperature is the point of the volumized variant
	outT, err := nOut.TemperatureValue(sOut)
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "delayed out T", 1e-9, outT, 300.0)

	// the blend lands in the held temperature at the next Prepare
	h.Prepare()
	v, err := h.GetValue()
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "Δt-scaled blend", 1e-9, v, 325.0)
}
