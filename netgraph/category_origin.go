// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netgraph

// stepOrigin implements the Origin category: forces effort on its
// single node; flow is left free. The "open origin" subtype (OpenOrigin)
// accepts whatever effort the rest of the network has already settled on
// instead of asserting its own value, useful as a topology anchor that
// doesn't fight another, more authoritative, source.
func (e *Element) stepOrigin() (bool, error) {
	n := e.Nodes[0].Node
	if n.EffortUpdated && e.OpenOrigin {
		// accept any effort from outside without a conflict check
		return false, nil
	}
	did, err := e.trySetEffort(0, e.ImposedEffort)
	if err != nil {
		return false, err
	}
	return did, nil
}
