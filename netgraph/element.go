// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netgraph

import (
	"github.com/cpmech/gosl/fun"

	"github.com/hartrusion/phxnetmod/domain"
	"github.com/hartrusion/phxnetmod/engerr"
)

// NodeRef is an element's addressable incidence to a node: an explicit
// (node pointer, slot index) pair, never pointer identity alone.
type NodeRef struct {
	Node *Node
	Slot int
}

// NonlinearFlowFunc computes a nonlinear dissipator's flow from both
// incident efforts, given optional external parameters already baked into
// the closure. See DissipatorLogGradient and DissipatorInflowAdjusted for
// the two documented laws.
type NonlinearFlowFunc func(e0, e1 float64) (float64, error)

// FuncFromClosure adapts a plain closure to fun.Func the same way the
// standard library's http.HandlerFunc adapts a plain function to
// http.Handler. A constant source is simply a closure that ignores both
// arguments.
type FuncFromClosure func(t float64, x []float64) float64

// F implements fun.Func.
func (f FuncFromClosure) F(t float64, x []float64) float64 { return f(t, x) }

// G implements fun.Func; unused by any source driven here, which never
// needs the first time-derivative of its configured value.
func (f FuncFromClosure) G(t float64, x []float64) float64 { return 0 }

// H implements fun.Func; unused by any source driven here.
func (f FuncFromClosure) H(t float64, x []float64) float64 { return 0 }

// Element is the single concrete vertex type; its Category field selects
// which local rule Step() dispatches to: a struct with a discriminant field
// rather than a subtype hierarchy.
type Element struct {
	Name     string
	Domain   domain.PhysicalDomain
	Category domain.ElementCategory
	Nodes    []NodeRef

	// Coupled is a same-instance counterpart in another domain,
	// e.g. a HeatThermalExchanger's inner thermal EffortSource.
	Coupled *Element

	// Dissipator
	Resistance   float64
	NonlinearFn  NonlinearFlowFunc // nil selects the linear law
	DissipatorID int               // reference-direction sign, 0 or 1 indexes Nodes

	// Capacitance / Inductance storage
	StateValue          float64
	NextStateValue      float64
	StatePrepared       bool
	Tau                 float64
	StepTime            float64
	EffortOffset        float64 // e.g. ambient + steam pressure for a steamed reservoir
	ForbidNegativeState bool

	// PreviousPressure caches the prior cycle's node effort for a steamed
	// Capacitance whose EffortOffset is itself pressure-dependent;
	// round-tripped by initcond, never read by Step itself; the caller
	// that computes EffortOffset each cycle is the one that consults it.
	PreviousPressure float64

	// FlowSource / EffortSource
	SourceValue fun.Func
	SourceTime  float64

	// Enforcer / Origin
	ImposedEffort float64
	ImposedFlow   float64
	OpenOrigin    bool // "open origin": accepts any external effort without error

	// extension handlers, composed in only for fluid-extension elements
	HeatHandler   HeatHandler
	PhasedHandler PhasedHandler
	SteamHandler  SteamHandler

	// ConverterCP is the specific heat used by an inter-domain converter
	// whenever one side of the pair is the phased-fluid extension
	// (heat_energy = CP * temperature); unused by a
	// Heat<->Steam converter, whose two sides already share the same
	// temperature scalar.
	ConverterCP float64

	didWork bool
}

// NewElement allocates an element of the given domain/category with no
// incident nodes yet; the assembler wires nodes via Connect.
func NewElement(name string, d domain.PhysicalDomain, cat domain.ElementCategory) *Element {
	return &Element{Name: name, Domain: d, Category: cat}
}

// Connect attaches the element to node, acquiring a fresh slot on it, and
// appends the (node, slot) pair to the element's own ordered incidence.
// Connection order defines the element's reference direction for flow.
func (e *Element) Connect(n *Node) error {
	if err := e.Category.ValidateArity(len(e.Nodes) + 1); err != nil {
		if e.Category.NodeArity() >= 0 && len(e.Nodes)+1 > e.Category.NodeArity() {
			return engerr.NewModel("element %q: %v", e.Name, err)
		}
	}
	slot := n.AddSlot()
	e.Nodes = append(e.Nodes, NodeRef{Node: n, Slot: slot})
	return nil
}

// trySetEffort pushes v onto the effort of the localIdx-th incident node if
// it is not already updated; it is never an error to find it already
// updated to the same causal role (the caller either made progress or not).
// If the node is already updated to a conflicting value, that is a genuine
// disagreement between two independent derivation paths and surfaces as a
// CalculationError rather than being silently dropped.
func (e *Element) trySetEffort(localIdx int, v float64) (bool, error) {
	n := e.Nodes[localIdx].Node
	if n.EffortUpdated {
		if !valuesAgree(n.Effort, v) {
			return false, engerr.NewCalculation("conflicting effort derivation at node: existing=%v, new=%v", n.Effort, v)
		}
		return false, nil
	}
	if err := n.SetEffort(v); err != nil {
		return false, err
	}
	return true, nil
}

// trySetFlow pushes v onto the flow slot of the localIdx-th incident node if
// not already updated, with the same conflict-detection as trySetEffort.
func (e *Element) trySetFlow(localIdx int, v float64) (bool, error) {
	ref := e.Nodes[localIdx]
	if ref.Node.Flows[ref.Slot].Updated {
		if !valuesAgree(ref.Node.Flows[ref.Slot].Value, v) {
			return false, engerr.NewCalculation("conflicting flow derivation at node slot %d: existing=%v, new=%v", ref.Slot, ref.Node.Flows[ref.Slot].Value, v)
		}
		return false, nil
	}
	if err := ref.Node.SetFlow(ref.Slot, v); err != nil {
		return false, err
	}
	return true, nil
}

// derivationAgreementTol is the absolute tolerance within which two
// independent derivations of the same slot are considered consistent rather
// than conflicting.
const derivationAgreementTol = 1e-6

func valuesAgree(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	tol := derivationAgreementTol * (1 + absf(a))
	return d <= tol
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Prepare clears the element's own bookkeeping for the next sweep and, for
// storage elements, commits NextStateValue into StateValue, the
// "prepared next-state into current-state" swap that opens each cycle.
// Extension handlers are prepared too (their own Prepare may push a coupled
// effort source's value).
func (e *Element) Prepare() error {
	e.didWork = false
	if e.Category == domain.Capacitance || e.Category == domain.Inductance {
		if e.StatePrepared {
			e.StateValue = e.NextStateValue
			e.StatePrepared = false
		}
	}
	if e.HeatHandler != nil {
		e.HeatHandler.Prepare()
	}
	if e.PhasedHandler != nil {
		e.PhasedHandler.Prepare()
	}
	if e.SteamHandler != nil {
		e.SteamHandler.Prepare()
	}
	return nil
}

// Step dispatches to the local rule for the element's category, then
// runs any composed extension handler's DoCalculation. Returns whether
// anything changed this call (the solver's "did work" signal).
func (e *Element) Step() (bool, error) {
	var progressed bool
	var err error
	switch e.Category {
	case domain.Open:
		progressed, err = e.stepOpen()
	case domain.Bridged:
		progressed, err = e.stepBridged()
		if err == nil && e.Domain == domain.Multidomain {
			var did bool
			did, err = e.stepConverterCoupling()
			progressed = progressed || did
		}
	case domain.Dissipator:
		progressed, err = e.stepDissipator()
	case domain.Capacitance:
		progressed, err = e.stepCapacitance()
	case domain.Inductance:
		progressed, err = e.stepInductance()
	case domain.FlowSource:
		progressed, err = e.stepFlowSource()
	case domain.EffortSource:
		progressed, err = e.stepEffortSource()
	case domain.Enforcer:
		progressed, err = e.stepEnforcer()
	case domain.Origin:
		progressed, err = e.stepOrigin()
	default:
		return false, engerr.NewModel("element %q has unset category", e.Name)
	}
	if err != nil {
		return false, err
	}

	if e.HeatHandler != nil {
		did, herr := e.HeatHandler.DoCalculation()
		if herr != nil {
			return false, herr
		}
		progressed = progressed || did
	}
	if e.PhasedHandler != nil {
		did, herr := e.PhasedHandler.DoCalculation()
		if herr != nil {
			return false, herr
		}
		progressed = progressed || did
	}
	if e.SteamHandler != nil {
		did, herr := e.SteamHandler.DoCalculation()
		if herr != nil {
			return false, herr
		}
		progressed = progressed || did
	}

	e.didWork = e.didWork || progressed
	return progressed, nil
}

// IsFinished reports whether the element has derived everything its
// category and composed handlers require.
func (e *Element) IsFinished() bool {
	var catFinished bool
	switch e.Category {
	case domain.Open, domain.Bridged:
		for _, ref := range e.Nodes {
			if !ref.Node.Flows[ref.Slot].Updated {
				return false
			}
		}
		catFinished = true
	case domain.Dissipator:
		catFinished = e.Nodes[0].Node.Flows[e.Nodes[0].Slot].Updated &&
			e.Nodes[1].Node.Flows[e.Nodes[1].Slot].Updated &&
			e.Nodes[0].Node.EffortUpdated && e.Nodes[1].Node.EffortUpdated
	case domain.Capacitance, domain.FlowSource, domain.EffortSource:
		allFlows := true
		for _, ref := range e.Nodes {
			if !ref.Node.Flows[ref.Slot].Updated {
				allFlows = false
			}
		}
		allEfforts := true
		for _, ref := range e.Nodes {
			if !ref.Node.EffortUpdated {
				allEfforts = false
			}
		}
		catFinished = allFlows && allEfforts
	case domain.Inductance:
		allEfforts := true
		for _, ref := range e.Nodes {
			if !ref.Node.EffortUpdated {
				allEfforts = false
			}
		}
		catFinished = allEfforts
	case domain.Enforcer:
		ref := e.Nodes[0]
		catFinished = ref.Node.EffortUpdated && ref.Node.Flows[ref.Slot].Updated
	case domain.Origin:
		ref := e.Nodes[0]
		catFinished = ref.Node.EffortUpdated
	default:
		catFinished = false
	}
	if !catFinished {
		return false
	}
	if e.HeatHandler != nil && !e.HeatHandler.IsFinished() {
		return false
	}
	if e.PhasedHandler != nil && !e.PhasedHandler.IsFinished() {
		return false
	}
	if e.SteamHandler != nil && !e.SteamHandler.IsFinished() {
		return false
	}
	return true
}

// handlerDerivesFlow reports whether a composed handler owns the element's
// own flow derivation (see FlowDeriver).
func (e *Element) handlerDerivesFlow() bool {
	for _, h := range []interface{}{e.HeatHandler, e.PhasedHandler, e.SteamHandler} {
		if fd, ok := h.(FlowDeriver); ok && fd.DerivesOwnFlow() {
			return true
		}
	}
	return false
}

// CloseCycle forwards the solver's end-of-cycle callback to any composed
// handler that wants one (see CycleCloser). Called by the solver after
// every element has reported finished for the cycle.
func (e *Element) CloseCycle() error {
	for _, h := range []interface{}{e.HeatHandler, e.PhasedHandler, e.SteamHandler} {
		if cc, ok := h.(CycleCloser); ok {
			if err := cc.CloseCycle(); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetInitialState loads a persisted state value; see initcond.Registry.
func (e *Element) SetInitialState(v float64) error {
	if e.Category != domain.Capacitance && e.Category != domain.Inductance {
		return engerr.NewNonexistingStateVariable("element %q (category %s) has no state_value to load", e.Name, e.Category)
	}
	e.StateValue = v
	e.NextStateValue = v
	e.StatePrepared = false
	return nil
}
