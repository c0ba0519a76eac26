// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netgraph

import "github.com/hartrusion/phxnetmod/engerr"

// stepCapacitance implements the Capacitance category. The
// flow-slot convention throughout this package is "value flows from the
// node into the element"; for a Capacitance this means FlowSum() over its
// own incident slots is already the net incoming flow, with no sign
// flipping needed.
func (e *Element) stepCapacitance() (bool, error) {
	var progressed bool

	// force effort on every not-yet-updated incident node
	forced := e.StateValue + e.EffortOffset
	for i := range e.Nodes {
		did, err := e.trySetEffort(i, forced)
		if err != nil {
			return false, err
		}
		progressed = progressed || did
	}

	if e.StatePrepared {
		return progressed, nil
	}

	allFlows := true
	var incoming float64
	for _, ref := range e.Nodes {
		if !ref.Node.Flows[ref.Slot].Updated {
			allFlows = false
			break
		}
		incoming += ref.Node.Flows[ref.Slot].Value
	}
	if !allFlows {
		return progressed, nil
	}

	delta := e.StepTime * incoming * e.Tau
	next := e.StateValue + delta
	if e.ForbidNegativeState && next < 0 {
		return false, engerr.NewModel("capacitance %q: next_state_value would go negative (%v)", e.Name, next)
	}
	e.NextStateValue = next
	e.StatePrepared = true
	progressed = true
	return progressed, nil
}
