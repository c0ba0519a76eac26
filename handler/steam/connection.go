// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package steam

import (
	"github.com/hartrusion/phxnetmod/netgraph"
	"github.com/hartrusion/phxnetmod/steamtable"
)

// Connection translates an externally-supplied (pressure, temperature) pair
// (typically handed over by a converter bridging the heat domain) into a
// full steam 4-tuple via the oracle: T_sat = TSat_p(p); h_liq =
// hLiq_p(p); if T exceeds T_sat the enthalpy is spread over the superheat
// using c_ph; s and x follow from p,h lookups. Built with NewConnection;
// the steam package has no name registry.
type Connection struct {
	p       port
	has     bool
	oracle  steamtable.Oracle
	fromExt bool
	pending float64 // pressure
	pendT   float64
}

func NewConnection(oracle steamtable.Oracle) *Connection {
	return &Connection{oracle: oracle}
}

func (h *Connection) RegisterNode(n *netgraph.Node, slot int) error {
	h.p = port{node: n, slot: slot}
	h.has = true
	if h.oracle == nil {
		h.oracle = n.Oracle
	}
	return nil
}

func (h *Connection) Prepare() { h.fromExt = false }

func (h *Connection) DoCalculation() (bool, error) {
	if !h.has || h.p.propsUpdated() || !h.fromExt {
		return false, nil
	}
	props, err := h.derive(h.pending, h.pendT)
	if err != nil {
		return false, err
	}
	h.p.setProps(props)
	return true, nil
}

func (h *Connection) derive(p, t float64) (netgraph.SteamProps, error) {
	tSat, err := lookup(h.oracle, steamtable.TSatP, p)
	if err != nil {
		return netgraph.SteamProps{}, err
	}
	hLiq, err := lookup(h.oracle, steamtable.HLiqP, p)
	if err != nil {
		return netgraph.SteamProps{}, err
	}
	hVal := hLiq
	if t > tSat {
		cp, err := lookup(h.oracle, steamtable.CpH, p, hLiq)
		if err != nil {
			return netgraph.SteamProps{}, err
		}
		hVal = hLiq + cp*(t-tSat)
	}
	s, err := lookup(h.oracle, steamtable.SpH, p, hVal)
	if err != nil {
		return netgraph.SteamProps{}, err
	}
	x, err := lookup(h.oracle, steamtable.XpH, p, hVal)
	if err != nil {
		return netgraph.SteamProps{}, err
	}
	return netgraph.SteamProps{t, hVal, s, x}, nil
}

func (h *Connection) IsFinished() bool { return !h.has || h.p.propsUpdated() }

func (h *Connection) SetInitial(netgraph.SteamProps) error { return errNoCapacity("connection") }
func (h *Connection) GetValue() (netgraph.SteamProps, error) {
	return netgraph.SteamProps{}, errNoCapacity("connection")
}
func (h *Connection) SetMassOrCapacity(float64) error { return errNoCapacity("connection") }

// SetFromConverter records the external (pressure, temperature) pair for
// the next DoCalculation call.
func (h *Connection) SetFromConverter(pressure, temperature float64) error {
	h.pending = pressure
	h.pendT = temperature
	h.fromExt = true
	return nil
}
