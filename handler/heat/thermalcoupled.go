// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heat

import "github.com/hartrusion/phxnetmod/netgraph"

// ThermalCoupledVolumized extends Volumized with a conductive link to a
// same-instance thermal-domain EffortSource counterpart: every
// Prepare pushes the handler's held temperature onto the counterpart's
// imposed effort, and the next-temperature blend gains the conductive term
// next_T = (m·T + Σṁ_in·Δt·T_in − Q̇·Δt/c_p) / (m + Σṁ_in·Δt), where Q̇
// is whatever flow the thermal network has derived at the counterpart's
// first node this cycle, positive when the thermal side draws heat out of
// the fluid.
type ThermalCoupledVolumized struct {
	Volumized
	Coupled *netgraph.Element // inner thermal EffortSource mirroring the held T
	CP      float64           // specific heat, J/(kg·K)
}

func NewThermalCoupledVolumized(coupled *netgraph.Element) *ThermalCoupledVolumized {
	h := &ThermalCoupledVolumized{Coupled: coupled, CP: DefaultCP}
	h.extraHeat = h.heatOverCP
	return h
}

// Prepare commits the blended next temperature, then mirrors it onto the
// coupled thermal source so the thermal-domain side sees a consistent
// boundary value for this cycle.
func (h *ThermalCoupledVolumized) Prepare() {
	h.Volumized.Prepare()
	if h.Coupled != nil {
		h.Coupled.SourceValue = netgraph.FuncFromClosure(func(float64, []float64) float64 { return h.current })
	}
}

// heatOverCP reads the coupled source's derived heat flow and converts it
// to the blend's Q̇/c_p term; not ok until the thermal network has resolved
// that flow this cycle. Slot values are node-into-element, so heat the
// thermal network draws out of the fluid shows up as a negative slot value
// on the source, negated here so Q̇ > 0 means extraction.
func (h *ThermalCoupledVolumized) heatOverCP() (float64, bool) {
	if h.Coupled == nil || len(h.Coupled.Nodes) == 0 || h.CP <= 0 {
		return 0, true
	}
	ref := h.Coupled.Nodes[0]
	if !ref.Node.Flows[ref.Slot].Updated {
		return 0, false
	}
	return -ref.Node.Flows[ref.Slot].Value / h.CP, true
}

// InboundSums exposes the inflow mass-rate sum and the coupled heat flow
// for counterparts that need the conductive balance.
func (h *ThermalCoupledVolumized) InboundSums() (massIn, heatFlow float64) {
	for _, p := range h.ports {
		if p.incoming() {
			massIn += p.flow()
		}
	}
	if q, ok := h.heatOverCP(); ok {
		heatFlow = q * h.CP
	}
	return
}
