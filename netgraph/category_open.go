// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netgraph

// stepOpen implements the Open category: no connection, so flow is
// forced to zero on every incident node that hasn't been derived yet.
// Effort is left free.
func (e *Element) stepOpen() (bool, error) {
	var progressed bool
	for i := range e.Nodes {
		did, err := e.trySetFlow(i, 0)
		if err != nil {
			return false, err
		}
		progressed = progressed || did
	}
	return progressed, nil
}
