// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netgraph

// stepEffortSource implements the EffortSource category. An ideal
// effort source forces its configured value across its own two terminals:
// the first-connected node receives the configured value absolutely, the
// second-connected node is the source's own local reference and is forced
// to the neutral baseline (0). This is what makes a bare effort-source +
// dissipator loop deterministic without requiring a
// separate Origin element: the source supplies its own reference the same
// way a real two-terminal source does. The dual quantity (flow) is left
// completely unconstrained, mirroring Open's treatment of effort: some
// other element in the network must derive it.
func (e *Element) stepEffortSource() (bool, error) {
	var progressed bool
	v := e.SourceValue.F(e.SourceTime, nil)
	did, err := e.trySetEffort(0, v)
	if err != nil {
		return false, err
	}
	progressed = progressed || did
	did, err = e.trySetEffort(1, 0)
	if err != nil {
		return false, err
	}
	progressed = progressed || did
	return progressed, nil
}

// stepFlowSource implements the FlowSource category: the dual of
// EffortSource. It forces its configured flow value, signed per reference
// direction, onto both of its own terminals; effort is left unconstrained.
func (e *Element) stepFlowSource() (bool, error) {
	var progressed bool
	v := e.SourceValue.F(e.SourceTime, nil)
	did, err := e.trySetFlow(0, v)
	if err != nil {
		return false, err
	}
	progressed = progressed || did
	did, err = e.trySetFlow(1, -v)
	if err != nil {
		return false, err
	}
	progressed = progressed || did
	return progressed, nil
}
