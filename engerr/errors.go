// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package engerr defines the three observable error kinds of the network
// solver: ModelError, CalculationError and NonexistingStateVariableError.
// Messages are built with gosl/chk's formatting helper so the wording is
// uniform, but each kind is a distinct Go type so callers can discriminate
// with errors.As.
package engerr

import (
	"fmt"

	"github.com/cpmech/gosl/chk"
)

// ModelError signals a structural or physical impossibility, at build time
// or during a step: negative tank mass, inconsistent converter flow
// directions, an enforcer closing a loop on itself, too many nodes on an
// element, a mistyped node on a typed handler. Fatal; no recovery.
type ModelError struct{ msg string }

func (e *ModelError) Error() string { return e.msg }

// NewModel builds a ModelError with a chk-formatted message.
func NewModel(format string, args ...interface{}) *ModelError {
	return &ModelError{msg: chk.Err(format, args...).Error()}
}

// CalculationError signals a derivation that produced a non-finite value,
// two derivations that disagreed, a sweep-cap overrun, or a slot read before
// it was updated (or while no_value held). Fatal for the current step only;
// the prior committed state remains valid.
type CalculationError struct{ msg string }

func (e *CalculationError) Error() string { return e.msg }

// NewCalculation builds a CalculationError with a chk-formatted message.
func NewCalculation(format string, args ...interface{}) *CalculationError {
	return &CalculationError{msg: chk.Err(format, args...).Error()}
}

// NonexistingStateVariableError signals that a handler lacking intrinsic
// capacity was asked to get/set its own temperature, mass or volume. Fatal
// at the caller.
type NonexistingStateVariableError struct{ msg string }

func (e *NonexistingStateVariableError) Error() string { return e.msg }

// NewNonexistingStateVariable builds a NonexistingStateVariableError.
func NewNonexistingStateVariable(format string, args ...interface{}) *NonexistingStateVariableError {
	return &NonexistingStateVariableError{msg: chk.Err(format, args...).Error()}
}

// Fmt is a small helper matching gosl's io.Sf-style ad-hoc formatting
// for error context strings that are not themselves errors.
func Fmt(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
