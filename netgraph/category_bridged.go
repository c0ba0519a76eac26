// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netgraph

// stepBridged implements the Bridged category: effort is equal on
// every incident node, and flow passes through (Kirchhoff at the element
// itself). A two-port bridge degenerates to the familiar "what comes in
// goes out" rule as a special case of the same code.
func (e *Element) stepBridged() (bool, error) {
	var progressed bool

	// propagate effort: if any incident node already has an effort, copy
	// it to every node that doesn't.
	var knownEffort float64
	var haveEffort bool
	for _, ref := range e.Nodes {
		if ref.Node.EffortUpdated {
			knownEffort = ref.Node.Effort
			haveEffort = true
			break
		}
	}
	if haveEffort {
		for i, ref := range e.Nodes {
			if ref.Node.EffortUpdated {
				continue
			}
			did, err := e.trySetEffort(i, knownEffort)
			if err != nil {
				return false, err
			}
			progressed = progressed || did
		}
	}

	// flow is the handler's job when a composed handler derives the
	// element's own flow slots (the fixed-volume evaporator): only
	// the effort-equality half of the Bridged rule applies there.
	if e.handlerDerivesFlow() {
		return progressed, nil
	}

	// propagate flow: if all but one incident flow is known, the missing
	// one is minus the sum of the rest (Kirchhoff at the element).
	all, numUpdated := true, 0
	for _, ref := range e.Nodes {
		if ref.Node.Flows[ref.Slot].Updated {
			numUpdated++
		} else {
			all = false
		}
	}
	if all {
		return progressed, nil
	}
	if numUpdated == len(e.Nodes)-1 {
		var sum float64
		missing := -1
		for i, ref := range e.Nodes {
			if ref.Node.Flows[ref.Slot].Updated {
				sum += ref.Node.Flows[ref.Slot].Value
			} else {
				missing = i
			}
		}
		did, err := e.trySetFlow(missing, -sum)
		if err != nil {
			return false, err
		}
		progressed = progressed || did
	}
	return progressed, nil
}
