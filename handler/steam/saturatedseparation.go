// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package steam

import (
	"github.com/hartrusion/phxnetmod/netgraph"
	"github.com/hartrusion/phxnetmod/steamtable"
)

// SaturatedSeparation is the two-phase reservoir variant: it mixes
// every incident stream's enthalpy into an absolute energy balance, maps
// the resulting specific enthalpy to a new temperature via a linear T(h)
// fit calibrated at construction time, then re-derives pressure from
// saturation and hands each outgoing port either the saturated-liquid or
// saturated-vapor branch according to that port's configured is_liquid
// flag. Built with NewSaturatedSeparation; the steam package has no name
// registry.
type SaturatedSeparation struct {
	ports    []port
	isLiquid map[int]bool // keyed by slot index, never port-array position

	oracle          steamtable.Oracle
	ambientPressure float64

	m, b float64 // linear T(h) fit: T = m*h + b

	StoredMass float64
	current    netgraph.SteamProps
	hasInit    bool
	stepTime   float64
}

// NewSaturatedSeparation calibrates the linear T(h) fit from two saturated-
// liquid reference points (T_low, T_high).
func NewSaturatedSeparation(oracle steamtable.Oracle, ambientPressure, tLow, tHigh, stepTime float64) (*SaturatedSeparation, error) {
	pLow, err := lookup(oracle, steamtable.PSatT, tLow)
	if err != nil {
		return nil, err
	}
	hLow, err := lookup(oracle, steamtable.HLiqP, pLow)
	if err != nil {
		return nil, err
	}
	pHigh, err := lookup(oracle, steamtable.PSatT, tHigh)
	if err != nil {
		return nil, err
	}
	hHigh, err := lookup(oracle, steamtable.HLiqP, pHigh)
	if err != nil {
		return nil, err
	}
	m := (tHigh - tLow) / (hHigh - hLow)
	b := tLow - m*hLow
	return &SaturatedSeparation{
		oracle:          oracle,
		ambientPressure: ambientPressure,
		m:               m,
		b:               b,
		stepTime:        stepTime,
		isLiquid:        make(map[int]bool),
	}, nil
}

func (h *SaturatedSeparation) RegisterNode(n *netgraph.Node, slot int) error {
	h.ports = append(h.ports, port{node: n, slot: slot})
	if h.oracle == nil {
		h.oracle = n.Oracle
	}
	return nil
}

// SetPortIsLiquid configures which saturation branch (liquid vs vapor) an
// outgoing port draws from. Keyed by slot index, never by registration order.
func (h *SaturatedSeparation) SetPortIsLiquid(slot int, isLiquid bool) {
	h.isLiquid[slot] = isLiquid
}

func (h *SaturatedSeparation) Prepare() {}

// SetStepTime cascades the model's step time onto this handler.
func (h *SaturatedSeparation) SetStepTime(dt float64) { h.stepTime = dt }

func (h *SaturatedSeparation) DoCalculation() (bool, error) {
	for _, p := range h.ports {
		if !p.flowUpdated() {
			return false, nil
		}
	}
	allDone := true
	for _, p := range h.ports {
		if !p.propsUpdated() {
			allDone = false
		}
	}
	if allDone {
		return false, nil
	}
	if !h.hasInit {
		return false, nil
	}

	hLiqNow, err := lookup(h.oracle, steamtable.HLiqP, h.currentPressure())
	if err != nil {
		return false, err
	}
	hSteamNow, err := lookup(h.oracle, steamtable.HSteamP, h.currentPressure())
	if err != nil {
		return false, err
	}

	var netEnergy, netMass float64
	for _, p := range h.ports {
		f := p.flow()
		netMass += f
		if p.incoming() {
			if !p.propsUpdated() || p.propsNoValue() {
				continue
			}
			netEnergy += f * p.propsValue()[netgraph.PropH]
		} else if p.outgoing() {
			hOut := hLiqNow
			if !h.isLiquid[p.slot] {
				hOut = hSteamNow
			}
			netEnergy += f * hOut // f already negative for outgoing
		}
	}

	hAbs := h.current[netgraph.PropH] * h.StoredMass
	nextMass := h.StoredMass + netMass*h.stepTime
	nextHAbs := hAbs + netEnergy*h.stepTime
	var nextHMean float64
	if nextMass > 0 {
		nextHMean = nextHAbs / nextMass
	}
	nextT := h.m*nextHMean + h.b
	pSat, err := lookup(h.oracle, steamtable.PSatT, nextT)
	if err != nil {
		return false, err
	}
	nextP := h.ambientPressure
	if pSat > nextP {
		nextP = pSat
	}
	s, err := lookup(h.oracle, steamtable.SpH, nextP, nextHMean)
	if err != nil {
		return false, err
	}
	x, err := lookup(h.oracle, steamtable.XpH, nextP, nextHMean)
	if err != nil {
		return false, err
	}
	h.current = netgraph.SteamProps{nextT, nextHMean, s, x}
	h.StoredMass = nextMass

	progressed := false
	for _, p := range h.ports {
		if p.propsUpdated() {
			continue
		}
		if p.outgoing() {
			liq := h.isLiquid[p.slot]
			var hOut, sOut, xOut float64
			if liq {
				hOut, err = lookup(h.oracle, steamtable.HLiqP, nextP)
				if err == nil {
					sOut, err = lookup(h.oracle, steamtable.SLiqP, nextP)
				}
				xOut = 0
			} else {
				hOut, err = lookup(h.oracle, steamtable.HSteamP, nextP)
				if err == nil {
					sOut, err = lookup(h.oracle, steamtable.SSteamP, nextP)
				}
				xOut = 1
			}
			if err != nil {
				return false, err
			}
			p.setProps(netgraph.SteamProps{nextT, hOut, sOut, xOut})
			progressed = true
		} else if p.isZero() {
			p.setNoProps()
			progressed = true
		}
	}
	return progressed, nil
}

// currentPressure derives a working pressure from the held state for the
// hLiq/hSteam reference lookups used mid-sweep, before the new pressure is
// known: the saturation pressure of the currently-held temperature.
func (h *SaturatedSeparation) currentPressure() float64 {
	p, err := h.oracle.Query(steamtable.PSatT, h.current[netgraph.PropT])
	if err != nil {
		return h.ambientPressure
	}
	return p
}

func (h *SaturatedSeparation) IsFinished() bool {
	for _, p := range h.ports {
		if !p.propsUpdated() {
			return false
		}
	}
	return true
}

func (h *SaturatedSeparation) SetInitial(props netgraph.SteamProps) error {
	h.current = props
	h.hasInit = true
	return nil
}

func (h *SaturatedSeparation) GetValue() (netgraph.SteamProps, error) {
	if !h.hasInit {
		return netgraph.SteamProps{}, errNoCapacity("saturated_separation")
	}
	return h.current, nil
}

func (h *SaturatedSeparation) SetMassOrCapacity(v float64) error {
	h.StoredMass = v
	return nil
}

func (h *SaturatedSeparation) SetFromConverter(float64, float64) error {
	return errNotConnection("saturated_separation")
}

// GetExtraState implements netgraph.ExtraStateCarrier: the reservoir's
// ambient-pressure anchor round-trips alongside its stored mass and 4-tuple.
func (h *SaturatedSeparation) GetExtraState() map[string]float64 {
	return map[string]float64{"ambient_pressure": h.ambientPressure}
}

func (h *SaturatedSeparation) SetExtraState(m map[string]float64) error {
	if v, ok := m["ambient_pressure"]; ok {
		h.ambientPressure = v
	}
	return nil
}
