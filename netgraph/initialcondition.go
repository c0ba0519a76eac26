// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netgraph

import (
	"github.com/hartrusion/phxnetmod/domain"
	"github.com/hartrusion/phxnetmod/initcond"
)

// SetInitialCondition loads b onto the element and whichever extension
// handler it carries.
// Loading validates the blob's name against the element before touching any
// state.
func (e *Element) SetInitialCondition(b initcond.Blob) error {
	if err := initcond.ForName(e.Name, b); err != nil {
		return err
	}
	if b.StateValue != nil {
		if err := e.SetInitialState(*b.StateValue); err != nil {
			return err
		}
	}
	if b.PreviousPressure != nil {
		e.PreviousPressure = *b.PreviousPressure
	}

	if b.Temperature != nil && e.HeatHandler != nil {
		if err := e.HeatHandler.SetInitial(*b.Temperature); err != nil {
			return err
		}
	}
	if b.HeatEnergy != nil && e.PhasedHandler != nil {
		if err := e.PhasedHandler.SetInitial(*b.HeatEnergy); err != nil {
			return err
		}
	}
	if b.SteamProps != nil && e.SteamHandler != nil {
		if err := e.SteamHandler.SetInitial(SteamProps(*b.SteamProps)); err != nil {
			return err
		}
	} else if b.Temperature != nil && e.SteamHandler != nil {
		// No explicit 4-tuple supplied: seed a saturated-liquid-like state
		// from temperature alone so a steam-capable element can still be
		// bootstrapped with just a temperature (the other three fields are
		// then filled in by the first sweep's derivations).
		if err := e.SteamHandler.SetInitial(SteamProps{*b.Temperature, 0, 0, 0}); err != nil {
			return err
		}
	}

	if b.InnerMass != nil {
		switch {
		case e.HeatHandler != nil:
			if err := e.HeatHandler.SetMassOrCapacity(*b.InnerMass); err != nil {
				return err
			}
		case e.PhasedHandler != nil:
			if err := e.PhasedHandler.SetMassOrCapacity(*b.InnerMass); err != nil {
				return err
			}
		case e.SteamHandler != nil:
			if err := e.SteamHandler.SetMassOrCapacity(*b.InnerMass); err != nil {
				return err
			}
		}
	}

	extra := map[string]float64{}
	if b.NegativeMass != nil {
		extra["negative_mass"] = *b.NegativeMass
	}
	if b.DelayedInHeatEnergy != nil {
		extra["delayed_in_heat_energy"] = *b.DelayedInHeatEnergy
	}
	if b.AmbientPressure != nil {
		extra["ambient_pressure"] = *b.AmbientPressure
	}
	if len(extra) > 0 {
		for _, h := range []interface{}{e.HeatHandler, e.PhasedHandler, e.SteamHandler} {
			if carrier, ok := h.(ExtraStateCarrier); ok {
				if err := carrier.SetExtraState(extra); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// GetState returns the element's persistent state as a Blob for
// SetInitialCondition to load back. It does not save inner_mass: no handler
// interface exposes the inner mass, so a reloaded element keeps whatever
// mass it was built with.
func (e *Element) GetState() initcond.Blob {
	b := initcond.Blob{ElementName: e.Name}
	if sv, has := e.stateValueIfStorage(); has {
		b.StateValue = initcond.F64(sv)
	}
	if e.PreviousPressure != 0 {
		b.PreviousPressure = initcond.F64(e.PreviousPressure)
	}
	if e.HeatHandler != nil {
		if v, err := e.HeatHandler.GetValue(); err == nil {
			b.Temperature = initcond.F64(v)
		}
	}
	if e.PhasedHandler != nil {
		if v, err := e.PhasedHandler.GetValue(); err == nil {
			b.HeatEnergy = initcond.F64(v)
		}
	}
	if e.SteamHandler != nil {
		if v, err := e.SteamHandler.GetValue(); err == nil {
			arr := [4]float64(v)
			b.SteamProps = &arr
			b.Temperature = initcond.F64(v[PropT])
		}
	}
	for _, h := range []interface{}{e.HeatHandler, e.PhasedHandler, e.SteamHandler} {
		carrier, ok := h.(ExtraStateCarrier)
		if !ok {
			continue
		}
		extra := carrier.GetExtraState()
		if v, ok := extra["negative_mass"]; ok {
			b.NegativeMass = initcond.F64(v)
		}
		if v, ok := extra["delayed_in_heat_energy"]; ok {
			b.DelayedInHeatEnergy = initcond.F64(v)
		}
		if v, ok := extra["ambient_pressure"]; ok {
			b.AmbientPressure = initcond.F64(v)
		}
	}
	return b
}

// stateValueIfStorage reports StateValue only for the two storage
// categories; every other category has no state_value to save.
func (e *Element) stateValueIfStorage() (float64, bool) {
	if e.Category == domain.Capacitance || e.Category == domain.Inductance {
		return e.StateValue, true
	}
	return 0, false
}
