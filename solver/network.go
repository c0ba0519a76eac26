// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package solver implements the fixed-point iterator: a single flat
// element list, swept to convergence every timestep. A
// series/parallel network-simplification pass would be a valid alternative
// implementation of the same contract; nothing downstream depends on which
// one runs.
package solver

import (
	"strings"

	"github.com/cpmech/gosl/io"

	"github.com/hartrusion/phxnetmod/engerr"
	"github.com/hartrusion/phxnetmod/netgraph"
)

// sweepCapPerElement bounds the anti-livelock sweep counter at
// N_elements × 16: exceeding it is a fatal unsolvable-model error.
const sweepCapPerElement = 16

// Index maps a node to the elements incident on it; the assembler builds
// this incidence as elements connect, and Network.AddNetwork uses it
// to discover the reachable subgraph from a single start node without
// Node itself needing a back-reference to its elements.
type Index interface {
	ElementsAt(n *netgraph.Node) []*netgraph.Element
}

// Network is the solver's registered element/node set for one connected
// model. Verbose, when true, prints sweep/finish progress with gosl/io's
// colorized printing; off by default so library callers don't get
// unsolicited terminal output.
type Network struct {
	Elements []*netgraph.Element
	Verbose  bool

	nodes   []*netgraph.Node
	nodeSet map[*netgraph.Node]bool
}

// NewNetwork allocates an empty network.
func NewNetwork() *Network {
	return &Network{nodeSet: make(map[*netgraph.Node]bool)}
}

// AddElement registers e directly with the solver (the "simple iterator"
// entry point). Safe to call more than once with the same element; later
// calls are no-ops.
func (s *Network) AddElement(e *netgraph.Element) {
	for _, el := range s.Elements {
		if el == e {
			return
		}
	}
	s.Elements = append(s.Elements, e)
	for _, ref := range e.Nodes {
		if !s.nodeSet[ref.Node] {
			s.nodeSet[ref.Node] = true
			s.nodes = append(s.nodes, ref.Node)
		}
	}
}

// AddNetwork discovers every element and node reachable from start by
// breadth-first traversal through idx, registering each newly-discovered
// element the same way AddElement would.
func (s *Network) AddNetwork(start *netgraph.Node, idx Index) {
	visitedNodes := map[*netgraph.Node]bool{start: true}
	queue := []*netgraph.Node{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, e := range idx.ElementsAt(n) {
			s.AddElement(e)
			for _, ref := range e.Nodes {
				if !visitedNodes[ref.Node] {
					visitedNodes[ref.Node] = true
					queue = append(queue, ref.Node)
				}
			}
		}
	}
}

// Prepare resets every registered element and node's "updated" bookkeeping
// for the next cycle, committing each storage element's prepared next-state
// into current-state. Order is unspecified: elements are
// prepared before the nodes they touch, but nothing depends on that order
// beyond nodes ending up reset exactly once.
func (s *Network) Prepare() error {
	for _, e := range s.Elements {
		if err := e.Prepare(); err != nil {
			return err
		}
	}
	for _, n := range s.nodes {
		n.Prepare()
	}
	return nil
}

// StepOnce advances the network by one timestep: it sweeps Step() over
// every element until a full pass makes no further progress, then asserts
// every element IsFinished. A sweep-cap overrun or an unfinished
// network both surface as a CalculationError. On any error every storage
// element's prepared next_state_value is discarded, so the caller's next
// Prepare() keeps each StateValue as of the last successful StepOnce.
func (s *Network) StepOnce() (err error) {
	defer func() {
		if err != nil {
			for _, e := range s.Elements {
				e.StatePrepared = false
			}
		}
	}()
	cap := len(s.Elements) * sweepCapPerElement
	if cap == 0 {
		cap = sweepCapPerElement
	}
	sweeps := 0
	for {
		sweeps++
		if sweeps > cap {
			return engerr.NewCalculation("solver exceeded sweep cap (%d elements × %d); still-unresolved nodes: %s",
				len(s.Elements), sweepCapPerElement, s.unresolvedSummary())
		}
		progressed := false
		for _, e := range s.Elements {
			did, err := e.Step()
			if err != nil {
				if s.Verbose {
					io.PfRed("> sweep %d failed: %v\n", sweeps, err)
				}
				return err
			}
			progressed = progressed || did
		}
		// node-side rules run after the elements each sweep: Kirchhoff
		// completion of the one missing flow slot, and distribution of the
		// extension scalars from feeding slots to drawing slots.
		for _, n := range s.nodes {
			did, err := n.DoCalculate()
			if err != nil {
				if s.Verbose {
					io.PfRed("> sweep %d failed: %v\n", sweeps, err)
				}
				return err
			}
			progressed = progressed || did
		}
		if !progressed {
			break
		}
	}

	var unfinished []string
	for _, e := range s.Elements {
		if !e.IsFinished() {
			unfinished = append(unfinished, e.Name)
		}
	}
	if len(unfinished) > 0 {
		err := engerr.NewCalculation("network under-constrained or cyclically blocked; unfinished elements: %s", strings.Join(unfinished, ", "))
		if s.Verbose {
			io.PfRed("> %v\n", err)
		}
		return err
	}
	// end-of-cycle callbacks: handlers that need the converged network's
	// values (the evaporator's reverse-direction correction) run now.
	for _, e := range s.Elements {
		if err := e.CloseCycle(); err != nil {
			if s.Verbose {
				io.PfRed("> cycle close failed: %v\n", err)
			}
			return err
		}
	}
	if s.Verbose {
		io.PfGreen("> converged in %d sweep(s)\n", sweeps)
	}
	return nil
}

// unresolvedSummary names every node still missing an effort or a flow
// slot, for the sweep-cap error message.
func (s *Network) unresolvedSummary() string {
	var names []string
	for i, n := range s.nodes {
		if !n.EffortUpdated {
			names = append(names, io.Sf("node#%d.effort", i))
		}
		for j, f := range n.Flows {
			if !f.Updated {
				names = append(names, io.Sf("node#%d.flow[%d]", i, j))
			}
		}
	}
	return strings.Join(names, ", ")
}
