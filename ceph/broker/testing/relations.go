// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testing

import (
	"context"
	"sort"

	"github.com/juju/errors"
	"github.com/juju/testing"
)

// Settings is the relation data of one unit.
type Settings map[string]string

// Relation holds the data of a single relation.
type Relation struct {
	ID       string
	Endpoint string

	// Units holds settings per unit, the local unit's included.
	Units map[string]Settings
}

// Relations is an in-memory broker.Relations. Every call is recorded on
// the stub and consumes its next error.
type Relations struct {
	Stub *testing.Stub

	Unit      string
	Relations map[string]*Relation
}

// NewRelations returns an empty Relations for the given local unit.
func NewRelations(stub *testing.Stub, unit string) *Relations {
	return &Relations{
		Stub:      stub,
		Unit:      unit,
		Relations: make(map[string]*Relation),
	}
}

// AddRelation adds a relation on endpoint with the given id.
func (r *Relations) AddRelation(id, endpoint string) *Relation {
	rel := &Relation{
		ID:       id,
		Endpoint: endpoint,
		Units:    map[string]Settings{r.Unit: {}},
	}
	r.Relations[id] = rel
	return rel
}

// SetUnitSettings replaces the settings of unit on the relation,
// adding the unit if needed.
func (r *Relations) SetUnitSettings(id, unit string, settings Settings) {
	copied := make(Settings, len(settings))
	for k, v := range settings {
		copied[k] = v
	}
	r.Relations[id].Units[unit] = copied
}

// UnitSettings returns unit's settings on the relation.
func (r *Relations) UnitSettings(id, unit string) Settings {
	return r.Relations[id].Units[unit]
}

// LocalUnit implements broker.Relations.
func (r *Relations) LocalUnit() string {
	return r.Unit
}

// RelationIDs implements broker.Relations.
func (r *Relations) RelationIDs(_ context.Context, endpoint string) ([]string, error) {
	r.Stub.AddCall("RelationIDs", endpoint)
	if err := r.Stub.NextErr(); err != nil {
		return nil, err
	}
	var ids []string
	for id, rel := range r.Relations {
		if rel.Endpoint == endpoint {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// RelatedUnits implements broker.Relations.
func (r *Relations) RelatedUnits(_ context.Context, id string) ([]string, error) {
	r.Stub.AddCall("RelatedUnits", id)
	if err := r.Stub.NextErr(); err != nil {
		return nil, err
	}
	rel, ok := r.Relations[id]
	if !ok {
		return nil, errors.NotFoundf("relation %q", id)
	}
	var units []string
	for unit := range rel.Units {
		if unit != r.Unit {
			units = append(units, unit)
		}
	}
	sort.Strings(units)
	return units, nil
}

// RelationGet implements broker.Relations.
func (r *Relations) RelationGet(_ context.Context, id, unit string) (map[string]string, error) {
	r.Stub.AddCall("RelationGet", id, unit)
	if err := r.Stub.NextErr(); err != nil {
		return nil, err
	}
	rel, ok := r.Relations[id]
	if !ok {
		return nil, errors.NotFoundf("relation %q", id)
	}
	settings := make(map[string]string)
	for k, v := range rel.Units[unit] {
		settings[k] = v
	}
	return settings, nil
}

// RelationSet implements broker.Relations.
func (r *Relations) RelationSet(_ context.Context, id string, settings map[string]string) error {
	r.Stub.AddCall("RelationSet", id, settings)
	if err := r.Stub.NextErr(); err != nil {
		return err
	}
	rel, ok := r.Relations[id]
	if !ok {
		return errors.NotFoundf("relation %q", id)
	}
	local := rel.Units[r.Unit]
	for k, v := range settings {
		if v == "" {
			delete(local, k)
			continue
		}
		local[k] = v
	}
	return nil
}
