// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package steam

import (
	"github.com/hartrusion/phxnetmod/netgraph"
	"github.com/hartrusion/phxnetmod/steamtable"
)

// IsobaricIsochoricEvaporator is the fixed-volume, expanding reservoir
// variant. Unlike every other handler it derives flow itself (via
// the node's exported SetFlow) rather than just the scalar extension,
// because the element's volume constraint, not an external Capacitance,
// is what fixes how much mass must leave or enter each step.
//
// The reverse-flow path (outlet already set by something else, so the
// handler must induce an inlet flow instead) is deliberately coarse: it
// assumes the current held enthalpy for the induced inflow and corrects
// the discrepancy one cycle later via ReverseOutMassCorrection, exactly the
// "very inaccurate" two-step approximation described for this handler.
// This is carried over on purpose, not silently fixed up.
type IsobaricIsochoricEvaporator struct {
	ports    [2]port
	oracle   steamtable.Oracle
	V        float64
	StepTime float64

	HeatInputWatts func(t float64) float64
	SourceTime     float64

	current netgraph.SteamProps
	hasInit bool

	NegativeMass             float64
	ReverseOutMassCorrection float64
	reversePending           bool
	reverseAssumedH          float64
	reverseInducedMdot       float64
	reverseRan               bool
	reverseIn                port
}

// DerivesOwnFlow implements netgraph.FlowDeriver: the owning element's
// Bridged step leaves both flow slots to this handler, whose volume
// constraint is what fixes them.
func (h *IsobaricIsochoricEvaporator) DerivesOwnFlow() bool { return true }

func NewIsobaricIsochoricEvaporator(oracle steamtable.Oracle, volume, stepTime float64) *IsobaricIsochoricEvaporator {
	return &IsobaricIsochoricEvaporator{oracle: oracle, V: volume, StepTime: stepTime}
}

func (h *IsobaricIsochoricEvaporator) RegisterNode(n *netgraph.Node, slot int) error {
	if h.oracle == nil {
		h.oracle = n.Oracle
	}
	if h.ports[0].node == nil {
		h.ports[0] = port{node: n, slot: slot}
		return nil
	}
	h.ports[1] = port{node: n, slot: slot}
	return nil
}

func (h *IsobaricIsochoricEvaporator) Prepare() {}

// SetStepTime cascades the model's step time onto this handler.
func (h *IsobaricIsochoricEvaporator) SetStepTime(dt float64) { h.StepTime = dt }

func (h *IsobaricIsochoricEvaporator) heatInput() float64 {
	if h.HeatInputWatts == nil {
		return 0
	}
	return h.HeatInputWatts(h.SourceTime)
}

func (h *IsobaricIsochoricEvaporator) DoCalculation() (bool, error) {
	a, b := h.ports[0], h.ports[1]
	if a.propsUpdated() && b.propsUpdated() {
		return false, nil
	}
	if !h.hasInit {
		return false, nil
	}
	if !a.effortUpdated() || !b.effortUpdated() {
		return false, nil
	}
	p := a.effort()

	aReadyAsIn := a.isZero() || (a.incoming() && a.propsUpdated() && !a.propsNoValue())
	bReadyAsIn := b.isZero() || (b.incoming() && b.propsUpdated() && !b.propsNoValue())

	switch {
	case a.flowUpdated() && aReadyAsIn && !b.flowUpdated():
		return h.forward(a, b, p)
	case b.flowUpdated() && bReadyAsIn && !a.flowUpdated():
		return h.forward(b, a, p)
	case a.flowUpdated() && a.outgoing() && !b.flowUpdated():
		return h.reverse(b, a, p)
	case b.flowUpdated() && b.outgoing() && !a.flowUpdated():
		return h.reverse(a, b, p)
	default:
		return false, nil
	}
}

// forward implements the normal-direction calculation: in-flow and
// its steam state are known, so the handler derives the outlet's flow and
// both ports' next steam state from the fixed-volume energy balance.
func (h *IsobaricIsochoricEvaporator) forward(in, out port, p float64) (bool, error) {
	q := h.heatInput()
	mdotIn := in.flow()
	hIn := h.current[netgraph.PropH]
	if !in.isZero() && in.propsUpdated() && !in.propsNoValue() {
		hIn = in.propsValue()[netgraph.PropH]
	}

	vCurrent, err := lookup(h.oracle, steamtable.VpH, p, h.current[netgraph.PropH])
	if err != nil {
		return false, err
	}
	mMix := h.V / vCurrent
	hAbs := mMix * h.current[netgraph.PropH]
	hAbsNext := hAbs + (mdotIn*hIn+q)*h.StepTime
	hNext := hAbsNext / mMix

	vNext, err := lookup(h.oracle, steamtable.VpH, p, hNext)
	if err != nil {
		return false, err
	}
	hSat, err := lookup(h.oracle, steamtable.HLiqP, p)
	if err != nil {
		return false, err
	}

	var deltaM float64
	if hNext != hIn && (hSat-hIn)*(hSat-hNext) <= 0 {
		frac := (hSat - hIn) / (hNext - hIn)
		vLiqZone := frac * h.V
		vVapZone := h.V - vLiqZone
		vAtIn, err := lookup(h.oracle, steamtable.VpH, p, hIn)
		if err != nil {
			return false, err
		}
		mLiq := vLiqZone / vAtIn
		mVap := vVapZone / vNext
		deltaM = mMix - mLiq - mVap
	} else {
		deltaM = (mMix*vNext - h.V) / vNext
	}

	if h.reversePending {
		deltaM += h.ReverseOutMassCorrection
		h.ReverseOutMassCorrection = 0
		h.reversePending = false
	}

	if deltaM < 0 {
		h.NegativeMass += -deltaM
		deltaM = 0
	} else if h.NegativeMass > 0 {
		drain := deltaM
		if drain > h.NegativeMass {
			drain = h.NegativeMass
		}
		h.NegativeMass -= drain
		deltaM -= drain
	}
	mdotOut := deltaM / h.StepTime

	progressed := false
	if !out.flowUpdated() {
		if err := out.node.SetFlow(out.slot, -mdotOut); err != nil {
			return false, err
		}
		progressed = true
	}

	tNext, err := lookup(h.oracle, steamtable.TpH, p, hNext)
	if err != nil {
		return false, err
	}
	sNext, err := lookup(h.oracle, steamtable.SpH, p, hNext)
	if err != nil {
		return false, err
	}
	xNext, err := lookup(h.oracle, steamtable.XpH, p, hNext)
	if err != nil {
		return false, err
	}
	h.current = netgraph.SteamProps{tNext, hNext, sNext, xNext}

	if !out.propsUpdated() {
		out.setProps(h.current)
		progressed = true
	}
	if !in.propsUpdated() && in.isZero() {
		in.setNoProps()
		progressed = true
	}
	return progressed, nil
}

// reverse implements the lossy, coarse reverse-direction path: the outlet
// flow is already fixed by the rest of the network, so the handler induces a
// matching inlet flow assuming this step's held enthalpy, then corrects the
// discrepancy one cycle later in forward() once the true inlet enthalpy
// becomes known.
func (h *IsobaricIsochoricEvaporator) reverse(in, out port, p float64) (bool, error) {
	outMass := -out.flow() * h.StepTime // positive: mass leaving this step
	mdotIn := outMass / h.StepTime

	if err := in.node.SetFlow(in.slot, mdotIn); err != nil {
		return false, err
	}
	h.reverseAssumedH = h.current[netgraph.PropH]
	h.reverseInducedMdot = mdotIn
	h.reverseRan = true
	h.reverseIn = in

	if !out.propsUpdated() {
		out.setProps(h.current)
	}
	return true, nil
}

// CloseCycle implements netgraph.CycleCloser: the solver invokes it once
// every element has reported finished, which is the earliest point the
// inlet's true steam state exists after a reverse-direction cycle. It
// sizes next cycle's correction from that true enthalpy; on cycles where
// the reverse path did not run it is a no-op.
func (h *IsobaricIsochoricEvaporator) CloseCycle() error {
	if !h.reverseRan {
		return nil
	}
	h.reverseRan = false
	if !h.reverseIn.propsUpdated() || h.reverseIn.propsNoValue() {
		return nil
	}
	h.CloseReverseCorrection(h.reverseIn.propsValue()[netgraph.PropH])
	return nil
}

// CloseReverseCorrection sizes next cycle's reverse-flow correction from
// the inlet's true enthalpy, once it is known; invoked from CloseCycle at
// the end of a converged reverse-direction cycle, since DoCalculation
// itself won't be re-invoked after IsFinished. The induced inflow assumed
// the held enthalpy, so the correction is the mass-rate discrepancy that
// assumption caused.
func (h *IsobaricIsochoricEvaporator) CloseReverseCorrection(trueInletH float64) {
	if h.reverseAssumedH == 0 {
		return
	}
	trueMdot := h.reverseInducedMdot * (trueInletH / h.reverseAssumedH)
	h.ReverseOutMassCorrection = trueMdot - h.reverseInducedMdot
	h.reversePending = true
}

func (h *IsobaricIsochoricEvaporator) IsFinished() bool {
	return h.ports[0].propsUpdated() && h.ports[1].propsUpdated()
}

func (h *IsobaricIsochoricEvaporator) SetInitial(props netgraph.SteamProps) error {
	h.current = props
	h.hasInit = true
	return nil
}

func (h *IsobaricIsochoricEvaporator) GetValue() (netgraph.SteamProps, error) {
	if !h.hasInit {
		return netgraph.SteamProps{}, errNoCapacity("isobaric_isochoric_evaporator")
	}
	return h.current, nil
}

func (h *IsobaricIsochoricEvaporator) SetMassOrCapacity(v float64) error {
	h.V = v
	return nil
}

func (h *IsobaricIsochoricEvaporator) SetFromConverter(float64, float64) error {
	return errNotConnection("isobaric_isochoric_evaporator")
}

// GetExtraState implements netgraph.ExtraStateCarrier, round-tripping the
// negative-mass buffer and pending reverse-flow correction alongside the
// SetInitial/GetValue steam 4-tuple.
func (h *IsobaricIsochoricEvaporator) GetExtraState() map[string]float64 {
	return map[string]float64{
		"negative_mass":               h.NegativeMass,
		"reverse_out_mass_correction": h.ReverseOutMassCorrection,
	}
}

func (h *IsobaricIsochoricEvaporator) SetExtraState(m map[string]float64) error {
	if v, ok := m["negative_mass"]; ok {
		h.NegativeMass = v
	}
	if v, ok := m["reverse_out_mass_correction"]; ok {
		h.ReverseOutMassCorrection = v
		h.reversePending = v != 0
	}
	return nil
}
