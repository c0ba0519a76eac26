// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netgraph

import "math"

// stepDissipator implements the Dissipator category. With a linear
// resistance (NonlinearFn == nil): once both incident efforts are known,
// flow = (e0-e1)/R, imposed with opposite sign on each side; if instead one
// flow is already known, the neighbor's effort is derived from it. With a
// nonlinear law (NonlinearFn != nil), flow is computed from both efforts via
// the element's own formula (see DissipatorLogGradient /
// DissipatorInflowAdjusted) and likewise imposed with opposite signs; the
// reverse derivation (effort from flow) is not attempted for nonlinear
// dissipators since the law is not generally invertible.
func (e *Element) stepDissipator() (bool, error) {
	n0, n1 := e.Nodes[0].Node, e.Nodes[1].Node

	if n0.EffortUpdated && n1.EffortUpdated {
		var flow float64
		if e.NonlinearFn != nil {
			f, err := e.NonlinearFn(n0.Effort, n1.Effort)
			if err != nil {
				return false, err
			}
			flow = f
		} else {
			flow = (n0.Effort - n1.Effort) / e.Resistance
		}
		var progressed bool
		did, err := e.trySetFlow(0, flow)
		if err != nil {
			return false, err
		}
		progressed = progressed || did
		did, err = e.trySetFlow(1, -flow)
		if err != nil {
			return false, err
		}
		progressed = progressed || did
		return progressed, nil
	}

	if e.NonlinearFn != nil {
		return false, nil
	}

	// one flow known -> derive the neighbor's effort
	if n0.Flows[e.Nodes[0].Slot].Updated && !n1.EffortUpdated && n0.EffortUpdated {
		flow := n0.Flows[e.Nodes[0].Slot].Value
		did, err := e.trySetEffort(1, n0.Effort-e.Resistance*flow)
		return did, err
	}
	if n1.Flows[e.Nodes[1].Slot].Updated && !n0.EffortUpdated && n1.EffortUpdated {
		flow := n1.Flows[e.Nodes[1].Slot].Value
		did, err := e.trySetEffort(0, n1.Effort+e.Resistance*flow)
		return did, err
	}
	return false, nil
}

// DissipatorLogGradient implements the log-mean-temperature-difference law:
// flow = k·A·ΔT_lm. This form diverges when ΔT1 == ΔT2 and is only valid
// near the calibrated operating point; it is not recommended for dynamic
// simulation. Prefer DissipatorInflowAdjusted unless a caller specifically
// needs this law for fidelity with a reference calculation.
func DissipatorLogGradient(kA float64, deltaT1, deltaT2 func() float64) NonlinearFlowFunc {
	return func(e0, e1 float64) (float64, error) {
		dt1, dt2 := deltaT1(), deltaT2()
		if dt1 == dt2 {
			// the calibrated operating point; the log-mean collapses to the
			// arithmetic mean in the limit.
			return kA * dt1, nil
		}
		lm := (dt1 - dt2) / math.Log(dt1/dt2)
		return kA * lm, nil
	}
}

// DissipatorInflowAdjusted implements the inflow-adjusted correction law:
// flow = k·A·(ΔT_D + ΔT_F·counterFactor·0.5) where
// counterFactor = 1 − |(ṁ0+ṁ1)/(|ṁ0|+|ṁ1|)|. This is the default
// recommendation over the log-gradient law for dynamic
// simulation.
func DissipatorInflowAdjusted(kA float64, deltaTD, deltaTF func() float64, m0, m1 func() float64) NonlinearFlowFunc {
	return func(e0, e1 float64) (float64, error) {
		dtd, dtf := deltaTD(), deltaTF()
		ṁ0, ṁ1 := m0(), m1()
		denom := math.Abs(ṁ0) + math.Abs(ṁ1)
		var counterFactor float64
		if denom > 0 {
			counterFactor = 1 - math.Abs((ṁ0+ṁ1)/denom)
		}
		return kA * (dtd + dtf*counterFactor*0.5), nil
	}
}
