// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package control implements the alarm-state priority law. The wider
// control toolkit it would belong to in a full plant-automation build
// (PID/P-controllers, an alarm manager, a time-series vault, a setpoint
// integrator) is deliberately out of scope; only the comparison law a
// caller needs to decide whether one alarm state supersedes another is
// implemented here.
package control

import "strings"

// Family distinguishes a high-excursion alarm (MAX) from a low-excursion
// one (MIN); FamilyNone is the no-alarm state, which belongs to neither.
type Family int

const (
	FamilyNone Family = iota
	FamilyMax
	FamilyMin
)

func (f Family) String() string {
	switch f {
	case FamilyMax:
		return "MAX"
	case FamilyMin:
		return "MIN"
	}
	return "NONE"
}

// AlarmState names one tripped threshold: a family plus a strictly-ordered
// severity Rank within that family (higher Rank = more severe).
type AlarmState struct {
	Name   string
	Family Family
	Rank   int
}

// None is the canonical no-alarm state.
var None = AlarmState{Name: "NONE"}

// Threshold is one named trip point a Monitor evaluates against a
// measurement: {HIGH1:80, HIGH2:90, MAX1:95, MAX2:100}. Rank orders
// thresholds within a family; Value is the trip point.
type Threshold struct {
	Name   string
	Family Family
	Rank   int
	Value  float64
}

// Monitor evaluates a measurement against an ordered set of thresholds.
type Monitor struct {
	Thresholds []Threshold
	Suppressed bool

	current AlarmState
}

// NewMonitor builds a Monitor from an explicit threshold list.
func NewMonitor(thresholds ...Threshold) *Monitor {
	return &Monitor{Thresholds: thresholds}
}

// Evaluate returns the highest-rank tripped threshold's state, or None if
// nothing trips or the monitor is suppressed. MAX thresholds trip when the
// measurement is at-or-above Value; MIN thresholds trip at-or-below it.
func (m *Monitor) Evaluate(value float64) AlarmState {
	if m.Suppressed {
		return None
	}
	best := None
	for _, t := range m.Thresholds {
		var tripped bool
		switch t.Family {
		case FamilyMax:
			tripped = value >= t.Value
		case FamilyMin:
			tripped = value <= t.Value
		}
		if tripped && t.Rank > best.Rank {
			best = AlarmState{Name: t.Name, Family: t.Family, Rank: t.Rank}
		}
	}
	return best
}

// Update feeds a new measurement and reports (state, firedUp): firedUp is
// true exactly when the new state is a strictly-higher-severity transition;
// same-severity or downward transitions never fire the hook.
func (m *Monitor) Update(value float64) (state AlarmState, firedUp bool) {
	next := m.Evaluate(value)
	firedUp = next.Family != FamilyNone && next.Rank > m.current.Rank
	m.current = next
	return next, firedUp
}

// Includes implements the priority-comparison law: true iff
// b is the same (non-NONE) family as a and of strictly-lower-or-equal
// severity rank, i.e. a's alarm state already covers b's.
func Includes(a, b AlarmState) bool {
	if a.Family == FamilyNone || a.Family != b.Family {
		return false
	}
	return b.Rank <= a.Rank
}

// String renders a state for diagnostics, matching gosl/io's plain
// printf-style idiom rather than a structured logger.
func (s AlarmState) String() string {
	if s.Family == FamilyNone {
		return "NONE"
	}
	return strings.ToUpper(s.Name)
}
