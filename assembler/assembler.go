// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package assembler builds a network model: it allocates nodes and elements,
// wires their incidence, attaches extension handlers by name or by direct
// construction, and cascades the model's step time into every element and
// handler that needs it. The result satisfies solver.Index, so a built
// Assembler can drive a solver.Network directly without any intermediate
// copy.
package assembler

import (
	"github.com/hartrusion/phxnetmod/domain"
	"github.com/hartrusion/phxnetmod/engerr"
	"github.com/hartrusion/phxnetmod/handler/heat"
	"github.com/hartrusion/phxnetmod/handler/phased"
	"github.com/hartrusion/phxnetmod/handler/steam"
	"github.com/hartrusion/phxnetmod/netgraph"
	"github.com/hartrusion/phxnetmod/solver"
	"github.com/hartrusion/phxnetmod/steamtable"
)

// stepTimeSetter is implemented by every handler variant that holds its own
// Δt-scaled state (the Volumized family, the evaporator, the
// expanding exchanger). Checked via type assertion so the three handler
// interfaces in netgraph don't all have to carry it.
type stepTimeSetter interface {
	SetStepTime(dt float64)
}

// Assembler accumulates a model's nodes and elements and tracks which
// elements touch which node, the incidence index solver.Network's BFS and
// the ElementsAt lookup both need.
type Assembler struct {
	oracle   steamtable.Oracle
	nodes    []*netgraph.Node
	elements []*netgraph.Element
	byNode   map[*netgraph.Node][]*netgraph.Element
	byName   map[string]*netgraph.Element
	stepTime float64
}

// New allocates an empty model builder.
func New() *Assembler {
	return &Assembler{
		byNode: make(map[*netgraph.Node][]*netgraph.Element),
		byName: make(map[string]*netgraph.Element),
	}
}

// SetSteamOracle configures the shared steam-table oracle every SteamNode
// and steam handler constructed from here on will reference.
func (a *Assembler) SetSteamOracle(o steamtable.Oracle) { a.oracle = o }

// NewNode allocates a node of the given domain, wiring in the steam oracle
// automatically when the domain is domain.Steam.
func (a *Assembler) NewNode(d domain.PhysicalDomain) *netgraph.Node {
	var n *netgraph.Node
	if d == domain.Steam {
		n = netgraph.NewSteamNode(a.oracle)
	} else {
		n = netgraph.NewNode(d)
	}
	a.nodes = append(a.nodes, n)
	return n
}

// NewElement allocates an element of the given category, rejecting
// categories no model author may pick directly (Inductance is produced
// by a concrete element shape, never chosen generically).
func (a *Assembler) NewElement(name string, d domain.PhysicalDomain, cat domain.ElementCategory) (*netgraph.Element, error) {
	if !cat.IsUserSelectable() {
		return nil, engerr.NewModel("category %s cannot be assigned directly to element %q", cat, name)
	}
	if _, dup := a.byName[name]; dup {
		return nil, engerr.NewModel("element name %q already used in this model", name)
	}
	e := netgraph.NewElement(name, d, cat)
	e.StepTime = a.stepTime
	a.elements = append(a.elements, e)
	a.byName[name] = e
	return e, nil
}

// Connect attaches e to n, acquiring a fresh slot, and registers that slot
// with any extension handler already composed onto e; the handler attach
// calls (AttachHeat, AttachPhased, AttachSteam, ...) must run before Connect
// for the resulting RegisterNode call to reach it; attaching a handler after
// the node is already connected is a model-authoring mistake the handler's
// own IsFinished will simply never satisfy, not something this package
// tries to detect.
func (a *Assembler) Connect(e *netgraph.Element, n *netgraph.Node) error {
	before := len(e.Nodes)
	if err := e.Connect(n); err != nil {
		return err
	}
	slot := e.Nodes[before].Slot
	if e.HeatHandler != nil {
		if err := e.HeatHandler.RegisterNode(n, slot); err != nil {
			return err
		}
	}
	if e.PhasedHandler != nil {
		if err := e.PhasedHandler.RegisterNode(n, slot); err != nil {
			return err
		}
	}
	if e.SteamHandler != nil {
		if err := e.SteamHandler.RegisterNode(n, slot); err != nil {
			return err
		}
	}
	a.byNode[n] = append(a.byNode[n], e)
	return nil
}

// ConnectBetween connects a two-port element to its two incident nodes in
// order, n0 first, the order that fixes the element's reference direction
//.
func (a *Assembler) ConnectBetween(e *netgraph.Element, n0, n1 *netgraph.Node) error {
	if err := a.Connect(e, n0); err != nil {
		return err
	}
	return a.Connect(e, n1)
}

// ConnectVia connects e to n the same way Connect does; the reference
// parameter documents which neighboring element this connection mirrors
// (e.g. a Connection handler's converter pairing another domain's element
// at the same physical junction) without implying any extra bookkeeping
// beyond ordinary incidence.
func (a *Assembler) ConnectVia(e, reference *netgraph.Element, n *netgraph.Node) error {
	_ = reference
	return a.Connect(e, n)
}

// SetNonlinearDissipator installs a nonlinear flow law on a Dissipator
// element: the two documented laws are
// netgraph.DissipatorLogGradient and netgraph.DissipatorInflowAdjusted;
// prefer the inflow-adjusted law for dynamic simulation.
func (a *Assembler) SetNonlinearDissipator(e *netgraph.Element, fn netgraph.NonlinearFlowFunc) error {
	if e.Category != domain.Dissipator {
		return engerr.NewModel("element %q (category %s) cannot take a nonlinear dissipator law", e.Name, e.Category)
	}
	e.NonlinearFn = fn
	return nil
}

// SetCoupled links x and y as same-instance counterparts, e.g. a
// HeatThermalExchanger's inner thermal EffortSource. Coupling is symmetric;
// attempting to couple an element that is already coupled to something else
// is a ModelError.
func (a *Assembler) SetCoupled(x, y *netgraph.Element) error {
	if x.Coupled != nil && x.Coupled != y {
		return engerr.NewModel("element %q is already coupled to %q, cannot couple to %q", x.Name, x.Coupled.Name, y.Name)
	}
	if y.Coupled != nil && y.Coupled != x {
		return engerr.NewModel("element %q is already coupled to %q, cannot couple to %q", y.Name, y.Coupled.Name, x.Name)
	}
	x.Coupled = y
	y.Coupled = x
	return nil
}

// SetStepTime cascades the model's fixed step duration onto every element
// and every composed handler that tracks Δt-scaled state. Call once before
// the first Prepare/Step cycle; calling it again mid-run is legal (a model
// author changing step size between runs) but will not retroactively rescale
// already-accumulated state.
func (a *Assembler) SetStepTime(dt float64) {
	a.stepTime = dt
	for _, e := range a.elements {
		e.StepTime = dt
		cascade(e.HeatHandler, dt)
		cascade(e.PhasedHandler, dt)
		cascade(e.SteamHandler, dt)
	}
}

func cascade(h interface{}, dt float64) {
	if h == nil {
		return
	}
	if s, ok := h.(stepTimeSetter); ok {
		s.SetStepTime(dt)
	}
}

// ElementsAt implements solver.Index: every element incident to n, in
// connection order.
func (a *Assembler) ElementsAt(n *netgraph.Node) []*netgraph.Element {
	return a.byNode[n]
}

// Elements returns every element allocated through this Assembler, in
// allocation order.
func (a *Assembler) Elements() []*netgraph.Element {
	return a.elements
}

// Nodes returns every node allocated through this Assembler, in allocation
// order.
func (a *Assembler) Nodes() []*netgraph.Node {
	return a.nodes
}

// Element looks up a previously-allocated element by name.
func (a *Assembler) Element(name string) (*netgraph.Element, bool) {
	e, ok := a.byName[name]
	return e, ok
}

// validateCoupling checks that every Coupled back-reference resolves
// symmetrically, catching a model author who set e.Coupled directly rather
// than through SetCoupled.
func (a *Assembler) validateCoupling() error {
	for _, e := range a.elements {
		if e.Coupled != nil && e.Coupled.Coupled != e {
			return engerr.NewModel("coupling from %q to %q does not resolve back symmetrically", e.Name, e.Coupled.Name)
		}
	}
	return nil
}

// validateLoops rejects any Enforcer whose single node sits inside a closed
// loop: an Enforcer imposes both effort and flow, so on a loop it
// would fight the loop's own Kirchhoff and effort constraints; the conflict
// is topological and detectable before the first sweep.
func (a *Assembler) validateLoops() error {
	for _, e := range a.elements {
		if e.Category != domain.Enforcer || len(e.Nodes) == 0 {
			continue
		}
		if a.nodeOnLoop(e.Nodes[0].Node, e) {
			return engerr.NewModel("enforcer %q is wired inside a closed loop", e.Name)
		}
	}
	return nil
}

// nodeOnLoop reports whether start lies on a cycle of the element/node
// incidence graph: it can reach itself again without re-traversing the
// element it left through. skip (the enforcer itself) never counts as a
// path.
func (a *Assembler) nodeOnLoop(start *netgraph.Node, skip *netgraph.Element) bool {
	for _, first := range a.byNode[start] {
		if first == skip || len(first.Nodes) < 2 {
			continue
		}
		visitedN := map[*netgraph.Node]bool{}
		visitedE := map[*netgraph.Element]bool{first: true, skip: true}
		var queue []*netgraph.Node
		for _, ref := range first.Nodes {
			if ref.Node != start && !visitedN[ref.Node] {
				visitedN[ref.Node] = true
				queue = append(queue, ref.Node)
			}
		}
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			for _, el := range a.byNode[n] {
				if visitedE[el] {
					continue
				}
				visitedE[el] = true
				for _, ref := range el.Nodes {
					if ref.Node == start {
						return true
					}
					if !visitedN[ref.Node] {
						visitedN[ref.Node] = true
						queue = append(queue, ref.Node)
					}
				}
			}
		}
	}
	return false
}

// Build validates the finished model and returns a solver.Network ready to
// Prepare/StepOnce over every element allocated here.
func (a *Assembler) Build() (*solver.Network, error) {
	if err := a.validateCoupling(); err != nil {
		return nil, err
	}
	if err := a.validateLoops(); err != nil {
		return nil, err
	}
	net := solver.NewNetwork()
	for _, e := range a.elements {
		net.AddElement(e)
	}
	return net, nil
}

// --- heat handler attachment ----------------------------------------------

// AttachHeat attaches a named heat handler variant (simple_mix, volumized,
// connection) to e. For thermal_coupled_volumized or no_mass_exchanger, use
// AttachThermalCoupledHeat / AttachNoMassExchangerHeat instead: both need
// construction-time parameters a name-only lookup can't supply.
func (a *Assembler) AttachHeat(e *netgraph.Element, name string) error {
	h, ok := heat.New(name)
	if !ok {
		return engerr.NewModel("element %q: unknown heat handler variant %q", e.Name, name)
	}
	e.HeatHandler = h
	return nil
}

// AttachThermalCoupledHeat attaches a heat.ThermalCoupledVolumized to e,
// coupling it to inner (an EffortSource in the thermal domain); cp is the
// carrier fluid's specific heat, 0 keeping the handler's default.
func (a *Assembler) AttachThermalCoupledHeat(e, inner *netgraph.Element, cp float64) error {
	if err := a.SetCoupled(e, inner); err != nil {
		return err
	}
	h := heat.NewThermalCoupledVolumized(inner)
	if cp > 0 {
		h.CP = cp
	}
	e.HeatHandler = h
	return nil
}

// AttachNoMassExchangerHeat attaches a heat.NoMassExchanger stream side to
// e, sized by ntu/cp, and links it to its already-attached peer side's
// NoMassExchanger via SetOtherSide.
func (a *Assembler) AttachNoMassExchangerHeat(e, peer *netgraph.Element, ntu, cp float64) error {
	h := heat.NewNoMassExchanger(ntu, cp)
	e.HeatHandler = h
	if peer != nil {
		if ph, ok := peer.HeatHandler.(*heat.NoMassExchanger); ok {
			h.SetOtherSide(ph)
		}
	}
	return nil
}

// AttachNoMassEnergyExchangerHeat attaches the heat side of a phased↔heat
// no-mass energy exchanger, sized by cp.
func (a *Assembler) AttachNoMassEnergyExchangerHeat(e *netgraph.Element, cp float64) *heat.NoMassEnergyExchanger {
	h := heat.NewNoMassEnergyExchanger(cp)
	e.HeatHandler = h
	return h
}

// --- phased handler attachment ---------------------------------------------

// AttachPhased attaches a named phased handler variant (simple_mix,
// volumized, connection) to e.
func (a *Assembler) AttachPhased(e *netgraph.Element, name string) error {
	h, ok := phased.New(name)
	if !ok {
		return engerr.NewModel("element %q: unknown phased handler variant %q", e.Name, name)
	}
	e.PhasedHandler = h
	return nil
}

// AttachThermalCoupledPhased attaches a phased.ThermalCoupledVolumized to
// e, coupled to inner with specific heat cp.
func (a *Assembler) AttachThermalCoupledPhased(e, inner *netgraph.Element, cp float64) error {
	if err := a.SetCoupled(e, inner); err != nil {
		return err
	}
	h := phased.NewThermalCoupledVolumized(inner, cp)
	e.PhasedHandler = h
	return nil
}

// AttachNoMassExchangerPhased attaches a phased.NoMassExchanger stream side
// to e, linking it to peer's side when already attached.
func (a *Assembler) AttachNoMassExchangerPhased(e, peer *netgraph.Element, ntu, cp float64) error {
	h := phased.NewNoMassExchanger(ntu, cp)
	e.PhasedHandler = h
	if peer != nil {
		if ph, ok := peer.PhasedHandler.(*phased.NoMassExchanger); ok {
			h.SetOtherSide(ph)
		}
	}
	return nil
}

// AttachNoMassEnergyExchangerPhased attaches the phased side of a
// phased↔heat no-mass energy exchanger, sized by cp, and links it to
// heatSide so the two halves pair through xcouple.EnergySide.
func (a *Assembler) AttachNoMassEnergyExchangerPhased(e *netgraph.Element, cp float64, heatSide *heat.NoMassEnergyExchanger) *phased.NoMassEnergyExchanger {
	h := phased.NewNoMassEnergyExchanger(cp)
	e.PhasedHandler = h
	if heatSide != nil {
		h.Other = heatSide
		heatSide.Other = h
	}
	return h
}

// AttachExpandingThermalExchanger attaches a
// phased.ExpandingThermalExchanger to e, sized by its inner held mass
//.
func (a *Assembler) AttachExpandingThermalExchanger(e *netgraph.Element, innerMass float64) *phased.ExpandingThermalExchanger {
	h := phased.NewExpandingThermalExchanger(innerMass)
	h.SetStepTime(a.stepTime)
	e.PhasedHandler = h
	return h
}

// --- steam handler attachment -----------------------------------------------

// AttachSteamConnection attaches a steam.Connection boundary handler to e.
func (a *Assembler) AttachSteamConnection(e *netgraph.Element) *steam.Connection {
	h := steam.NewConnection(a.oracle)
	e.SteamHandler = h
	return h
}

// AttachIsenthalpicExpansion attaches a steam.IsenthalpicExpansion to e
//.
func (a *Assembler) AttachIsenthalpicExpansion(e *netgraph.Element) *steam.IsenthalpicExpansion {
	h := steam.NewIsenthalpicExpansion(a.oracle)
	e.SteamHandler = h
	return h
}

// AttachSaturatedSeparation attaches a steam.SaturatedSeparation to e,
// calibrating its linear T(h) fit from tLow/tHigh.
func (a *Assembler) AttachSaturatedSeparation(e *netgraph.Element, ambientPressure, tLow, tHigh float64) (*steam.SaturatedSeparation, error) {
	h, err := steam.NewSaturatedSeparation(a.oracle, ambientPressure, tLow, tHigh, a.stepTime)
	if err != nil {
		return nil, err
	}
	e.SteamHandler = h
	return h, nil
}

// AttachIsobaricIsochoricEvaporator attaches a
// steam.IsobaricIsochoricEvaporator to e, sized by its fixed volume.
// e should be a two-port Bridged element: the Bridged rule supplies the
// pressure equality across the ports, while the handler, a
// netgraph.FlowDeriver, derives both flow slots itself from the volume
// constraint, and sizes its reverse-direction correction through the
// solver's end-of-cycle CloseCycle callback.
func (a *Assembler) AttachIsobaricIsochoricEvaporator(e *netgraph.Element, volume float64) *steam.IsobaricIsochoricEvaporator {
	h := steam.NewIsobaricIsochoricEvaporator(a.oracle, volume, a.stepTime)
	e.SteamHandler = h
	return h
}

// --- inter-domain converter attachment -------------------------------

// connectSolo attaches e to n the same way Connect does, but registers only
// the single handler passed in, not every handler composed onto e. A
// converter element composes two different handler types simultaneously,
// one per node, so the generic Connect (which registers every non-nil
// handler field onto whichever node it is given) would wrongly wire both
// handlers onto both nodes.
func (a *Assembler) connectSolo(e *netgraph.Element, n *netgraph.Node, h interface {
	RegisterNode(*netgraph.Node, int) error
}) error {
	before := len(e.Nodes)
	if err := e.Connect(n); err != nil {
		return err
	}
	slot := e.Nodes[before].Slot
	if h != nil {
		if err := h.RegisterNode(n, slot); err != nil {
			return err
		}
	}
	a.byNode[n] = append(a.byNode[n], e)
	return nil
}

// AttachConverterHeatSteam builds the two-port domain.Multidomain Bridged
// element that bridges a HeatFluid node and a Steam node: pressure
// (effort) and signed flow pass through by the ordinary Bridged rule, and
// whichever side is upstream each cycle has its temperature translated into
// the downstream side's extension scalar by netgraph's converter coupling.
// heatNode is always connected first (node 0), steamNode second (node 1).
func (a *Assembler) AttachConverterHeatSteam(name string, heatNode, steamNode *netgraph.Node) (*netgraph.Element, *heat.Connection, *steam.Connection, error) {
	e, err := a.NewElement(name, domain.Multidomain, domain.Bridged)
	if err != nil {
		return nil, nil, nil, err
	}
	hc := heat.NewConnection()
	sc := steam.NewConnection(a.oracle)
	e.HeatHandler = hc
	e.SteamHandler = sc
	if err := a.connectSolo(e, heatNode, hc); err != nil {
		return nil, nil, nil, err
	}
	if err := a.connectSolo(e, steamNode, sc); err != nil {
		return nil, nil, nil, err
	}
	return e, hc, sc, nil
}

// AttachConverterHeatPhased mirrors AttachConverterHeatSteam for a
// Heat<->Phased coupling, translating temperature to heat-energy (and back)
// through the specific heat cp. heatNode is node 0, phasedNode
// node 1.
func (a *Assembler) AttachConverterHeatPhased(name string, heatNode, phasedNode *netgraph.Node, cp float64) (*netgraph.Element, *heat.Connection, *phased.Connection, error) {
	e, err := a.NewElement(name, domain.Multidomain, domain.Bridged)
	if err != nil {
		return nil, nil, nil, err
	}
	e.ConverterCP = cp
	hc := heat.NewConnection()
	pc := phased.NewConnection()
	e.HeatHandler = hc
	e.PhasedHandler = pc
	if err := a.connectSolo(e, heatNode, hc); err != nil {
		return nil, nil, nil, err
	}
	if err := a.connectSolo(e, phasedNode, pc); err != nil {
		return nil, nil, nil, err
	}
	return e, hc, pc, nil
}

// AttachConverterPhasedSteam mirrors AttachConverterHeatSteam for a
// Phased<->Steam coupling, through cp the same way AttachConverterHeatPhased
// does. phasedNode is node 0, steamNode node 1.
func (a *Assembler) AttachConverterPhasedSteam(name string, phasedNode, steamNode *netgraph.Node, cp float64) (*netgraph.Element, *phased.Connection, *steam.Connection, error) {
	e, err := a.NewElement(name, domain.Multidomain, domain.Bridged)
	if err != nil {
		return nil, nil, nil, err
	}
	e.ConverterCP = cp
	pc := phased.NewConnection()
	sc := steam.NewConnection(a.oracle)
	e.PhasedHandler = pc
	e.SteamHandler = sc
	if err := a.connectSolo(e, phasedNode, pc); err != nil {
		return nil, nil, nil, err
	}
	if err := a.connectSolo(e, steamNode, sc); err != nil {
		return nil, nil, nil, err
	}
	return e, pc, sc, nil
}
