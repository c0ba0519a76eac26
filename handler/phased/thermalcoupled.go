// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phased

import "github.com/hartrusion/phxnetmod/netgraph"

// ThermalCoupledVolumized mirrors heat.ThermalCoupledVolumized for the
// heat-energy carrier: Prepare pushes the held heat-energy,
// converted to a temperature through CP, onto the coupled thermal
// EffortSource, and the next-value blend subtracts the thermal side's
// derived heat flow directly; the carrier is already in J/kg, so no c_p
// division is needed in the blend itself:
// next_he = (m·he + Σṁ_in·Δt·he_in − Q̇·Δt) / (m + Σṁ_in·Δt).
type ThermalCoupledVolumized struct {
	Volumized
	Coupled *netgraph.Element
	CP      float64 // converts held heat-energy to the mirrored temperature
}

func NewThermalCoupledVolumized(coupled *netgraph.Element, cp float64) *ThermalCoupledVolumized {
	h := &ThermalCoupledVolumized{Coupled: coupled, CP: cp}
	h.extraHeat = h.heatFlow
	return h
}

func (h *ThermalCoupledVolumized) Prepare() {
	h.Volumized.Prepare()
	if h.Coupled != nil && h.CP > 0 {
		h.Coupled.SourceValue = netgraph.FuncFromClosure(func(float64, []float64) float64 { return h.current / h.CP })
	}
}

// heatFlow reads the coupled source's derived heat flow; not ok until the
// thermal network has resolved it this cycle. Negated to the same Q̇ > 0 =
// extraction convention heat.ThermalCoupledVolumized uses.
func (h *ThermalCoupledVolumized) heatFlow() (float64, bool) {
	if h.Coupled == nil || len(h.Coupled.Nodes) == 0 {
		return 0, true
	}
	ref := h.Coupled.Nodes[0]
	if !ref.Node.Flows[ref.Slot].Updated {
		return 0, false
	}
	return -ref.Node.Flows[ref.Slot].Value, true
}
