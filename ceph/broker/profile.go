// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package broker

import (
	"github.com/juju/errors"
)

// DefaultErasurePlugin is the erasure code plugin used when none is given.
const DefaultErasurePlugin = "jerasure"

// ErasureProfile requests an erasure code profile. K and M are the data
// and coding chunk counts; the remaining fields only apply to some plugins.
type ErasureProfile struct {
	Name          string  `json:"name"`
	Plugin        string  `json:"erasure-type"`
	Technique     *string `json:"erasure-technique"`
	K             *int    `json:"k"`
	M             *int    `json:"m"`
	FailureDomain *string `json:"failure-domain"`
	DeviceClass   *string `json:"device-class"`

	// LRCLocality is the lrc plugin's locality (l).
	LRCLocality *int `json:"l"`

	// LRCCrushLocality is the crush bucket type used by the lrc plugin
	// to place locality groups.
	LRCCrushLocality *string `json:"crush-locality"`

	// SHECDurabilityEstimator is the shec plugin's durability estimator (c).
	SHECDurabilityEstimator *int `json:"c"`

	// ClayHelperChunks is the clay plugin's helper chunk count (d).
	ClayHelperChunks *int `json:"d"`

	// ClayScalarMDS is the plugin clay uses as its scalar MDS layer.
	ClayScalarMDS *string `json:"scalar-mds"`
}

// Kind implements Op.
func (p ErasureProfile) Kind() string { return OpCreateErasureProfile }

// Validate implements Op.
func (p ErasureProfile) Validate() error {
	if err := checkName("erasure profile", p.Name); err != nil {
		return err
	}
	if !erasurePlugins.Contains(p.Plugin) {
		return errors.NotValidf("erasure plugin %q (expected one of %v)", p.Plugin, erasurePlugins.SortedValues())
	}
	if p.Technique != nil {
		techniques, ok := erasureTechniques[p.Plugin]
		if !ok {
			return errors.NotValidf("erasure technique %q for plugin %q", *p.Technique, p.Plugin)
		}
		if err := checkOneOf("erasure technique", p.Technique, techniques); err != nil {
			return errors.Annotatef(err, "plugin %q", p.Plugin)
		}
	}
	if err := checkOneOf("failure domain", p.FailureDomain, failureDomains); err != nil {
		return err
	}
	if err := checkOneOf("device class", p.DeviceClass, deviceClasses); err != nil {
		return err
	}
	for field, value := range map[string]*int{
		"k": p.K,
		"m": p.M,
		"l": p.LRCLocality,
		"c": p.SHECDurabilityEstimator,
		"d": p.ClayHelperChunks,
	} {
		if err := checkPositive(field, value); err != nil {
			return err
		}
	}

	switch p.Plugin {
	case "lrc":
		if p.LRCLocality == nil {
			return errors.NotValidf("lrc erasure profile %q without locality", p.Name)
		}
		if err := checkOneOf("crush locality", p.LRCCrushLocality, failureDomains); err != nil {
			return err
		}
	case "shec":
		if p.SHECDurabilityEstimator == nil {
			return errors.NotValidf("shec erasure profile %q without durability estimator", p.Name)
		}
	case "clay":
		if p.ClayHelperChunks == nil {
			return errors.NotValidf("clay erasure profile %q without helper chunks", p.Name)
		}
		if err := checkOneOf("scalar mds", p.ClayScalarMDS, clayScalarMDS); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON implements Op.
func (p ErasureProfile) MarshalJSON() ([]byte, error) {
	type wire ErasureProfile
	return marshalOp(OpCreateErasureProfile, wire(p))
}
