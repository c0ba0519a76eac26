// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package initcond implements the initial-conditions registry: a
// set of named blobs that round-trip an element's persistent state across a
// save/load cycle. Persistence format itself is out of scope; this
// package only guarantees every listed field round-trips and that loading
// validates the blob's name against the target element.
package initcond

import (
	"github.com/cpmech/gosl/utl"

	"github.com/hartrusion/phxnetmod/engerr"
)

// Blob is a named record carrying whichever persistent-state fields the
// target element's category and composed handlers demand. Every field
// is a pointer so "absent" and "zero" are distinguishable; GetState never
// populates a field the element/handler doesn't own.
type Blob struct {
	ElementName string
	Kind        string // discriminator, e.g. "capacitance", "heat_handler"

	StateValue          *float64
	Temperature         *float64
	HeatEnergy          *float64
	InnerMass           *float64
	PreviousPressure    *float64
	NegativeMass        *float64
	DelayedInHeatEnergy *float64
	AmbientPressure     *float64

	// SteamProps is the (T,h,s,x) 4-tuple a SteamHandler with intrinsic
	// capacity owns, demanded by any stateful steam handler and
	// populated the same way as the other optional fields.
	SteamProps *[4]float64
}

func f(v float64) *float64 { return &v }

// F64 wraps v as a Blob field pointer; exported for assemblers building
// blobs inline.
func F64(v float64) *float64 { return f(v) }

// Registry owns a named set of Blobs, keyed by ElementName.
type Registry struct {
	blobs map[string]Blob
}

// NewRegistry allocates an empty registry.
func NewRegistry() *Registry {
	return &Registry{blobs: make(map[string]Blob)}
}

// Put stores b, keyed by its own ElementName. A blob with no name is a
// model error: the mandatory key is missing.
func (r *Registry) Put(b Blob) error {
	if b.ElementName == "" {
		return engerr.NewModel("initial condition blob has no element_name")
	}
	r.blobs[b.ElementName] = b
	return nil
}

// Get returns the blob stored under name, if any.
func (r *Registry) Get(name string) (Blob, bool) {
	b, ok := r.blobs[name]
	return b, ok
}

// Len reports how many blobs are registered.
func (r *Registry) Len() int { return len(r.blobs) }

// ForName validates that a blob about to be applied to an element actually
// belongs to it.
func ForName(elementName string, b Blob) error {
	if b.ElementName != elementName {
		return engerr.NewModel("initial condition name %q does not match element %q", b.ElementName, elementName)
	}
	return nil
}

// EncodeAll writes every registered blob through enc in one call, so a
// round trip is a single Encode/Decode pair regardless of how many elements
// are registered. enc is gosl/utl's own Encoder interface, the same
// internal-variable persistence contract gofem elements encode through.
func (r *Registry) EncodeAll(enc utl.Encoder) error {
	return enc.Encode(r.blobs)
}

// DecodeAll replaces the registry's contents with what dec produces. Any
// previously-registered blobs not present in the decoded set are dropped.
func (r *Registry) DecodeAll(dec utl.Decoder) error {
	blobs := make(map[string]Blob)
	if err := dec.Decode(&blobs); err != nil {
		return err
	}
	r.blobs = blobs
	return nil
}
