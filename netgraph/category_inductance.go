// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netgraph

// stepInductance implements the Inductance category: the dual of
// Capacitance. It holds StateValue = flow, forces that flow onto both
// incident nodes, and integrates the effort difference across it into
// NextStateValue. Reserved for the electrical/mechanical domains; not
// normally user-selectable.
func (e *Element) stepInductance() (bool, error) {
	var progressed bool
	for i := range e.Nodes {
		did, err := e.trySetFlow(i, e.signedFlowFor(i))
		if err != nil {
			return false, err
		}
		progressed = progressed || did
	}

	if e.StatePrepared {
		return progressed, nil
	}
	if !e.Nodes[0].Node.EffortUpdated || !e.Nodes[1].Node.EffortUpdated {
		return progressed, nil
	}
	deltaE := e.Nodes[0].Node.Effort - e.Nodes[1].Node.Effort
	e.NextStateValue = e.StateValue + e.StepTime*deltaE*e.Tau
	e.StatePrepared = true
	progressed = true
	return progressed, nil
}

// signedFlowFor returns StateValue on the first incident node and its
// negation on the second, matching the "value leaves the node, enters the
// element" convention and the node0/node1 opposite-sign rule used
// throughout this package.
func (e *Element) signedFlowFor(localIdx int) float64 {
	if localIdx == 0 {
		return e.StateValue
	}
	return -e.StateValue
}
