// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netgraph

// stepEnforcer implements the Enforcer category: forces both effort
// and flow on its single incident node unconditionally. Using an Enforcer
// inside a closed loop is a model error; that check is topological and is
// performed once at assembly time (see assembler.Assembler.validateLoops),
// not here, since a single element cannot see the rest of the graph.
func (e *Element) stepEnforcer() (bool, error) {
	var progressed bool
	did, err := e.trySetEffort(0, e.ImposedEffort)
	if err != nil {
		return false, err
	}
	progressed = progressed || did
	did, err = e.trySetFlow(0, e.ImposedFlow)
	if err != nil {
		return false, err
	}
	progressed = progressed || did
	return progressed, nil
}
