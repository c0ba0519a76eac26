// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phased

import "github.com/hartrusion/phxnetmod/netgraph"

// Connection mirrors heat.Connection: a single boundary port fed by an
// external converter rather than by mixing.
type Connection struct {
	p       port
	has     bool
	fromExt bool
	value   float64
}

func NewConnection() *Connection { return &Connection{} }

func (h *Connection) RegisterNode(n *netgraph.Node, slot int) error {
	h.p = port{node: n, slot: slot}
	h.has = true
	return nil
}

func (h *Connection) Prepare() { h.fromExt = false }

func (h *Connection) DoCalculation() (bool, error) {
	if !h.has || h.p.heUpdated() {
		return false, nil
	}
	if !h.fromExt {
		return false, nil
	}
	h.p.setHE(h.value)
	return true, nil
}

func (h *Connection) IsFinished() bool { return !h.has || h.p.heUpdated() }

func (h *Connection) SetInitial(float64) error        { return errNoCapacity("connection") }
func (h *Connection) GetValue() (float64, error)      { return 0, errNoCapacity("connection") }
func (h *Connection) SetMassOrCapacity(float64) error { return errNoCapacity("connection") }

func (h *Connection) SetFromConverter(value float64) error {
	h.value = value
	h.fromExt = true
	return nil
}
