// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heat

import "github.com/hartrusion/phxnetmod/netgraph"

// allocators is the name->constructor registry for the heat handler
// variants that need no construction-time parameters, filled by the init()
// below.
var allocators = make(map[string]func() netgraph.HeatHandler)

func init() {
	allocators["simple_mix"] = func() netgraph.HeatHandler { return NewSimpleMix() }
	allocators["volumized"] = func() netgraph.HeatHandler { return NewVolumized() }
	allocators["connection"] = func() netgraph.HeatHandler { return NewConnection() }
}

// New looks up a registered variant by name. ThermalCoupledVolumized and
// NoMassExchanger are not here: they need extra construction-time
// parameters (a coupled element, a peer handler) that a name-only factory
// can't supply, so the assembler constructs them directly.
func New(name string) (netgraph.HeatHandler, bool) {
	fn, ok := allocators[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}
