// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refsol

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_refsol01 cross-checks StirredTankTemperature's closed form against
// its own independent ODE integration.
func Test_refsol01(tst *testing.T) {

	chk.PrintTitle("refsol01. stirred tank: closed form vs ODE")

	var o StirredTankTemperature
	o.Init(298.15, 350.0, 2.0, 10.0, true)

	for _, t := range []float64{0, 1, 2.5, 5, 10} {
		ana := o.Calc(t)
		num := o.CalcNum(t)
		chk.AnaNum(tst, "T", 1e-6, ana, num, chk.Verbose)
	}
}

// Test_refsol02 cross-checks EvaporatorHeatup's closed form against its own
// independent ODE integration.
func Test_refsol02(tst *testing.T) {

	chk.PrintTitle("refsol02. evaporator heatup: closed form vs ODE")

	var o EvaporatorHeatup
	o.Init(750000.0, 10000.0, 1.0, true)

	for _, t := range []float64{0, 0.5, 1, 2, 5} {
		ana := o.Calc(t)
		num := o.CalcNum(t)
		chk.AnaNum(tst, "h", 1e-6, ana, num, chk.Verbose)
	}
}
