// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netgraph

import "github.com/hartrusion/phxnetmod/engerr"

// stepConverterCoupling implements the inter-domain converter rules for
// a two-port domain.Multidomain element built on the Bridged category: it
// runs after stepBridged has already copied effort (pressure) across the
// two nodes and resolved Kirchhoff flow wherever possible, then hands the
// extension scalar (temperature/heat-energy/steam properties) from
// whichever side is upstream to whichever side is downstream, detecting
// direction from the signed flow itself. Exactly two of
// {HeatHandler, PhasedHandler, SteamHandler} must be composed onto the
// element, one per incident node in connection order: Heat<->Steam,
// Heat<->Phased, or Phased<->Steam.
func (e *Element) stepConverterCoupling() (bool, error) {
	if len(e.Nodes) != 2 {
		return false, engerr.NewModel("converter element %q must have exactly two incident nodes", e.Name)
	}
	n0, n1 := e.Nodes[0], e.Nodes[1]
	if !n0.Node.Flows[n0.Slot].Updated || !n1.Node.Flows[n1.Slot].Updated {
		return false, nil
	}
	f0 := n0.Node.Flows[n0.Slot].Value
	f1 := n1.Node.Flows[n1.Slot].Value

	if absf(f0) <= ZeroFlowTolerance && absf(f1) <= ZeroFlowTolerance {
		var progressed bool
		did, err := e.markConverterNoValue(0)
		if err != nil {
			return false, err
		}
		progressed = progressed || did
		did, err = e.markConverterNoValue(1)
		if err != nil {
			return false, err
		}
		progressed = progressed || did
		return progressed, nil
	}

	forward := f0 > ZeroFlowTolerance && f1 < -ZeroFlowTolerance
	reverse := f0 < -ZeroFlowTolerance && f1 > ZeroFlowTolerance
	switch {
	case forward:
		return e.convertScalar(0, 1)
	case reverse:
		return e.convertScalar(1, 0)
	default:
		return false, engerr.NewModel("converter element %q: inconsistent flow directions (side0=%v, side1=%v)", e.Name, f0, f1)
	}
}

// extensionKindAt reports which scalar extension the element's idx-th
// incident node carries, given the pair of handlers composed onto this
// converter. Node 0 always carries whichever extension's Attach* helper was
// called first by the assembler; node 1 the other.
func (e *Element) extensionKindAt(idx int) string {
	switch {
	case e.HeatHandler != nil && e.SteamHandler != nil:
		if idx == 0 {
			return "heat"
		}
		return "steam"
	case e.HeatHandler != nil && e.PhasedHandler != nil:
		if idx == 0 {
			return "heat"
		}
		return "phased"
	case e.PhasedHandler != nil && e.SteamHandler != nil:
		if idx == 0 {
			return "phased"
		}
		return "steam"
	}
	return ""
}

// markConverterNoValue marks the idx-th node's own extension slot as
// carrying no scalar, unless it is
// already updated.
func (e *Element) markConverterNoValue(idx int) (bool, error) {
	ref := e.Nodes[idx]
	switch e.extensionKindAt(idx) {
	case "heat":
		if ref.Node.Temps[ref.Slot].Updated {
			return false, nil
		}
		return true, ref.Node.SetNoTemperature(ref.Slot)
	case "phased":
		if ref.Node.Heats[ref.Slot].Updated {
			return false, nil
		}
		return true, ref.Node.SetNoHeatEnergy(ref.Slot)
	case "steam":
		if ref.Node.Steam[ref.Slot].Updated {
			return false, nil
		}
		return true, ref.Node.SetNoSteamProps(ref.Slot)
	}
	return false, engerr.NewModel("converter element %q has no recognized extension-handler pair", e.Name)
}

// sourceScalarReady reports whether the srcIdx side's own extension slot
// already carries a real (non-degenerate) value this cycle.
func (e *Element) sourceScalarReady(srcIdx int) bool {
	ref := e.Nodes[srcIdx]
	switch e.extensionKindAt(srcIdx) {
	case "heat":
		return ref.Node.Temps[ref.Slot].Updated && !ref.Node.Temps[ref.Slot].NoValue
	case "phased":
		return ref.Node.Heats[ref.Slot].Updated && !ref.Node.Heats[ref.Slot].NoValue
	case "steam":
		return ref.Node.Steam[ref.Slot].Updated && !ref.Node.Steam[ref.Slot].NoValue
	}
	return false
}

// destScalarPending reports whether the dstIdx side's own extension slot is
// still waiting on a value.
func (e *Element) destScalarPending(dstIdx int) bool {
	ref := e.Nodes[dstIdx]
	switch e.extensionKindAt(dstIdx) {
	case "heat":
		return !ref.Node.Temps[ref.Slot].Updated
	case "phased":
		return !ref.Node.Heats[ref.Slot].Updated
	case "steam":
		return !ref.Node.Steam[ref.Slot].Updated
	}
	return false
}

// convertScalar hands the extension scalar from the srcIdx side to the
// dstIdx side, translating between temperature, heat-energy (via
// ConverterCP) and the steam 4-tuple's T field as needed. It only
// primes the destination handler's SetFromConverter call; the generic
// per-handler DoCalculation invocation in Step() commits the value onto the
// node this same cycle.
func (e *Element) convertScalar(srcIdx, dstIdx int) (bool, error) {
	if !e.sourceScalarReady(srcIdx) || !e.destScalarPending(dstIdx) {
		return false, nil
	}
	srcKind, dstKind := e.extensionKindAt(srcIdx), e.extensionKindAt(dstIdx)
	srcRef, dstRef := e.Nodes[srcIdx], e.Nodes[dstIdx]

	var tempValue float64
	switch srcKind {
	case "heat":
		tempValue = srcRef.Node.Temps[srcRef.Slot].Value
	case "phased":
		tempValue = srcRef.Node.Heats[srcRef.Slot].Value / e.ConverterCP
	case "steam":
		tempValue = srcRef.Node.Steam[srcRef.Slot].Props[PropT]
	}

	switch dstKind {
	case "heat":
		if err := e.HeatHandler.SetFromConverter(tempValue); err != nil {
			return false, err
		}
	case "phased":
		if err := e.PhasedHandler.SetFromConverter(tempValue * e.ConverterCP); err != nil {
			return false, err
		}
	case "steam":
		pressure := dstRef.Node.Effort
		if !dstRef.Node.EffortUpdated {
			return false, nil
		}
		if err := e.SteamHandler.SetFromConverter(pressure, tempValue); err != nil {
			return false, err
		}
	}
	return true, nil
}
