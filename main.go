// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// phxnetmod demonstrates the bond-graph network engine end to end: it
// assembles a small closed hydraulic loop (an ideal effort source feeding a
// linear resistor), steps
// it forward a configurable number of cycles, and reports each cycle's
// converged node efforts and loop flow.
package main

import (
	"flag"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/hartrusion/phxnetmod/assembler"
	"github.com/hartrusion/phxnetmod/domain"
	"github.com/hartrusion/phxnetmod/netgraph"
)

func main() {
	nsteps := flag.Int("nsteps", 5, "number of fixed-timestep cycles to run")
	dt := flag.Float64("dt", 0.1, "step time in seconds")
	effort := flag.Float64("effort", 10e5, "ideal source effort, Pa")
	resistance := flag.Float64("resistance", 1e5, "linear resistor resistance")
	verbose := flag.Bool("verbose", true, "print solver sweep/finish progress")
	flag.Parse()

	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	io.PfWhite("\nphxnetmod -- discrete-time bond-graph network simulator\n\n")

	a := assembler.New()
	n0 := a.NewNode(domain.Hydraulic)
	n1 := a.NewNode(domain.Hydraulic)

	source, err := a.NewElement("pump", domain.Hydraulic, domain.EffortSource)
	if err != nil {
		chk.Panic("%v", err)
	}
	source.SourceValue = netgraph.FuncFromClosure(func(float64, []float64) float64 { return *effort })

	resistor, err := a.NewElement("line", domain.Hydraulic, domain.Dissipator)
	if err != nil {
		chk.Panic("%v", err)
	}
	resistor.Resistance = *resistance

	if err := a.ConnectBetween(source, n0, n1); err != nil {
		chk.Panic("%v", err)
	}
	if err := a.ConnectBetween(resistor, n0, n1); err != nil {
		chk.Panic("%v", err)
	}

	a.SetStepTime(*dt)

	net, err := a.Build()
	if err != nil {
		chk.Panic("%v", err)
	}
	net.Verbose = *verbose

	for step := 0; step < *nsteps; step++ {
		if err := net.Prepare(); err != nil {
			chk.Panic("%v", err)
		}
		if err := net.StepOnce(); err != nil {
			chk.Panic("%v", err)
		}
		flow, err := n0.FlowValue(1)
		if err != nil {
			chk.Panic("%v", err)
		}
		io.Pf("step %2d: node0.effort=%.1f node1.effort=%.1f flow=%.4f\n", step, n0.Effort, n1.Effort, flow)
	}
}
