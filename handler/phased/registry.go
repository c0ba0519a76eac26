// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phased

import "github.com/hartrusion/phxnetmod/netgraph"

// allocators mirrors handler/heat's name->constructor registry,
// grounded on the same mreten/mconduct allocator-map idiom.
var allocators = make(map[string]func() netgraph.PhasedHandler)

func init() {
	allocators["simple_mix"] = func() netgraph.PhasedHandler { return NewSimpleMix() }
	allocators["volumized"] = func() netgraph.PhasedHandler { return NewVolumized() }
	allocators["connection"] = func() netgraph.PhasedHandler { return NewConnection() }
}

// New looks up a registered variant by name. ThermalCoupledVolumized,
// NoMassExchanger, NoMassEnergyExchanger and ExpandingThermalExchanger need
// extra construction-time parameters the assembler supplies directly.
func New(name string) (netgraph.PhasedHandler, bool) {
	fn, ok := allocators[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}
