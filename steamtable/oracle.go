// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package steamtable defines the steam-table oracle surface: a named
// scalar property function treated as an external, read-only, shareable
// black box. No numerics are implemented here; concrete tables are supplied
// by the caller (e.g. IAPWS-IF97 lookups, a fitted polynomial, or a fixture
// table for tests).
package steamtable

import "github.com/cpmech/gosl/chk"

// recognized property keys
const (
	TSatP   = "TSat_p"
	PSatT   = "pSat_T"
	HLiqP   = "hLiq_p"
	HSteamP = "hSteam_p"
	SLiqP   = "sLiq_p"
	SSteamP = "sSteam_p"
	HpT     = "h_pT"
	TpH     = "T_ph"
	SpH     = "s_ph"
	SpT     = "s_pT"
	XpH     = "x_ph"
	CpH     = "c_ph"
	VpH     = "v_ph"
)

// Oracle answers named scalar property queries. Implementations must be
// safe for concurrent read-only use: the solver never mutates an
// Oracle, only queries it.
type Oracle interface {
	// Query evaluates the named property for the given positional
	// arguments (e.g. Query(PSatT, p) or Query(TpH, p, h)).
	Query(key string, args ...float64) (float64, error)
}

// Func adapts a plain function into an Oracle, handy for small ad-hoc tables
// used in tests and examples.
type Func func(key string, args ...float64) (float64, error)

// Query implements Oracle.
func (f Func) Query(key string, args ...float64) (float64, error) {
	return f(key, args...)
}

// ErrUnknownKey is the canonical error returned by Oracle implementations
// for an unrecognized key; helper for implementers, not required.
func ErrUnknownKey(key string) error {
	return chk.Err("steam-table oracle: unknown property key %q", key)
}
