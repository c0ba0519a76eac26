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

// sepOracle is a synthetic table with saturation enthalpy linear in
// temperature (hLiq = 1000·T via pSat = 1000·T and hLiq_p = p), so the
// reservoir's linear T(h) fit is exact: m = 1/1000, b = 0.
func sepOracle() steamtable.Oracle {
	const latent = 2.0e6
	return steamtable.Func(func(key string, args ...float64) (float64, error) {
		switch key {
		case steamtable.PSatT:
			return 1000 * args[0], nil
		case steamtable.HLiqP:
			return args[0], nil
		case steamtable.HSteamP:
			return args[0] + latent, nil
		case steamtable.SLiqP:
			return 1.0, nil
		case steamtable.SSteamP:
			return 7.0, nil
		case steamtable.SpH:
			return 3.0, nil
		case steamtable.XpH:
			return 0.5, nil
		}
		return 0, steamtable.ErrUnknownKey(key)
	})
}

// Test_saturatedsep01 drives the reservoir through one balanced cycle: a
// saturated-liquid inflow against one liquid and one vapor outflow. The
// liquid port must draw the saturated-liquid branch (x=0), the vapor port
// the saturated-vapor branch (x=1), and the held temperature must follow
// the enthalpy balance through the linear T(h) fit.
func Test_saturatedsep01(tst *testing.T) {

	chk.PrintTitle("saturatedsep01. liquid/vapor branch separation")

	oracle := sepOracle()
	h, err := NewSaturatedSeparation(oracle, 1e5, 300, 400, 0.1)
	if err != nil {
		tst.Fatal(err)
	}

	nIn := netgraph.NewNode(domain.Steam)
	nLiq := netgraph.NewNode(domain.Steam)
	nVap := netgraph.NewNode(domain.Steam)
	sIn, sLiq, sVap := nIn.AddSlot(), nLiq.AddSlot(), nVap.AddSlot()
	if err := h.RegisterNode(nIn, sIn); err != nil {
		tst.Fatal(err)
	}
	if err := h.RegisterNode(nLiq, sLiq); err != nil {
		tst.Fatal(err)
	}
	if err := h.RegisterNode(nVap, sVap); err != nil {
		tst.Fatal(err)
	}
	h.SetPortIsLiquid(sLiq, true)
	h.SetPortIsLiquid(sVap, false)

	if err := h.SetInitial(netgraph.SteamProps{350, 350000, 1.0, 0}); err != nil {
		tst.Fatal(err)
	}
	if err := h.SetMassOrCapacity(1000); err != nil {
		tst.Fatal(err)
	}

	if err := nIn.SetFlow(sIn, 2); err != nil {
		tst.Fatal(err)
	}
	if err := nLiq.SetFlow(sLiq, -1.5); err != nil {
		tst.Fatal(err)
	}
	if err := nVap.SetFlow(sVap, -0.5); err != nil {
		tst.Fatal(err)
	}
	if err := nIn.SetSteamProps(sIn, netgraph.SteamProps{350, 350000, 1.0, 0}); err != nil {
		tst.Fatal(err)
	}

	did, err := h.DoCalculation()
	if err != nil {
		tst.Fatal(err)
	}
	if !did || !h.IsFinished() {
		tst.Fatal("reservoir should resolve both outflow ports in one call")
	}

	// energy balance: net enthalpy rate 2·350e3 − 1.5·350e3 − 0.5·2350e3 =
	// −1.0e6 W over 0.1 s on 1000 kg held at 350e3 J/kg → 349900 J/kg,
	// T = 349.9 K through the exact linear fit.
	state, err := h.GetValue()
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "held T", 1e-9, state[netgraph.PropT], 349.9)
	chk.Scalar(tst, "held h", 1e-6, state[netgraph.PropH], 349900)
	chk.Scalar(tst, "held mass", 1e-12, h.StoredMass, 1000)

	liq, err := nLiq.SteamPropsValue(sLiq)
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "liquid branch x", 1e-15, liq[netgraph.PropX], 0)
	chk.Scalar(tst, "liquid branch h", 1e-6, liq[netgraph.PropH], 349900)

	vap, err := nVap.SteamPropsValue(sVap)
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "vapor branch x", 1e-15, vap[netgraph.PropX], 1)
	chk.Scalar(tst, "vapor branch h", 1e-6, vap[netgraph.PropH], 2349900)
}

// Test_saturatedsep02 checks the ambient-pressure floor and the zero-flow
// port degeneracy: a cold reservoir whose saturation pressure sits below
// ambient reports ambient-derived branches, and a port with no flow is
// marked no_steam_properties.
func Test_saturatedsep02(tst *testing.T) {

	chk.PrintTitle("saturatedsep02. ambient floor and zero-flow port")

	oracle := sepOracle()
	// ambient 1e6 sits above pSat(any T < 1000)
	h, err := NewSaturatedSeparation(oracle, 1e6, 300, 400, 0.1)
	if err != nil {
		tst.Fatal(err)
	}

	nIn := netgraph.NewNode(domain.Steam)
	nOut := netgraph.NewNode(domain.Steam)
	sIn, sOut := nIn.AddSlot(), nOut.AddSlot()
	if err := h.RegisterNode(nIn, sIn); err != nil {
		tst.Fatal(err)
	}
	if err := h.RegisterNode(nOut, sOut); err != nil {
		tst.Fatal(err)
	}
	h.SetPortIsLiquid(sOut, true)

	if err := h.SetInitial(netgraph.SteamProps{310, 310000, 1.0, 0}); err != nil {
		tst.Fatal(err)
	}
	if err := h.SetMassOrCapacity(500); err != nil {
		tst.Fatal(err)
	}

	if err := nIn.SetFlow(sIn, 0); err != nil {
		tst.Fatal(err)
	}
	if err := nOut.SetFlow(sOut, -1); err != nil {
		tst.Fatal(err)
	}

	did, err := h.DoCalculation()
	if err != nil {
		tst.Fatal(err)
	}
	if !did || !h.IsFinished() {
		tst.Fatal("reservoir should resolve both ports")
	}

	if _, err := nIn.SteamPropsValue(sIn); err == nil {
		tst.Fatal("a zero-flow port must be no_steam_properties")
	}
	out, err := nOut.SteamPropsValue(sOut)
	if err != nil {
		tst.Fatal(err)
	}
	// the liquid branch is drawn at the ambient floor, not at pSat(T)
	chk.Scalar(tst, "liquid h at ambient floor", 1e-6, out[netgraph.PropH], 1e6)
}
