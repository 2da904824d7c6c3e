// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package broker

import (
	"github.com/juju/collections/set"
	"github.com/juju/errors"
)

var (
	compressionAlgorithms = set.NewStrings("lz4", "snappy", "zlib", "zstd")
	compressionModes      = set.NewStrings("none", "passive", "aggressive", "force")
	rbdMirroringModes     = set.NewStrings("image", "pool")

	erasurePlugins = set.NewStrings("jerasure", "isa", "lrc", "shec", "clay")

	// erasureTechniques holds the techniques each plugin accepts. Plugins
	// absent from the map take no technique.
	erasureTechniques = map[string]set.Strings{
		"jerasure": set.NewStrings(
			"reed_sol_van", "reed_sol_r6_op", "cauchy_orig", "cauchy_good",
			"liberation", "blaum_roth", "liber8tion",
		),
		"isa":  set.NewStrings("reed_sol_van", "cauchy"),
		"shec": set.NewStrings("single", "multiple"),
	}
	clayScalarMDS = set.NewStrings("jerasure", "isa", "shec")

	failureDomains = set.NewStrings(
		"chassis", "datacenter", "host", "osd", "pdu", "pod",
		"rack", "region", "room", "root", "row",
	)
	deviceClasses = set.NewStrings("ssd", "hdd", "nvme")
)

// checkOneOf returns a NotValid error if value is set and not a member of
// valid.
func checkOneOf(field string, value *string, valid set.Strings) error {
	if value == nil {
		return nil
	}
	if !valid.Contains(*value) {
		return errors.NotValidf("%s %q (expected one of %v)", field, *value, valid.SortedValues())
	}
	return nil
}

func checkRange(field string, value *float64, min, max float64) error {
	if value == nil {
		return nil
	}
	if *value < min || *value > max {
		return errors.NotValidf("%s %v (expected between %v and %v)", field, *value, min, max)
	}
	return nil
}

func checkNonNegative(field string, value *int) error {
	if value != nil && *value < 0 {
		return errors.NotValidf("negative %s %d", field, *value)
	}
	return nil
}

func checkPositive(field string, value *int) error {
	if value != nil && *value <= 0 {
		return errors.NotValidf("%s %d (must be positive)", field, *value)
	}
	return nil
}

func checkName(kind, name string) error {
	if name == "" {
		return errors.NotValidf("empty %s name", kind)
	}
	return nil
}
