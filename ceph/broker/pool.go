// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package broker

import (
	"github.com/juju/errors"
)

// DefaultReplicas is the replica count used when a replicated pool is
// requested without one.
const DefaultReplicas = 3

// PoolOptions holds the settings shared by replicated and erasure coded
// pool creation. Nil fields are left to the broker's defaults.
type PoolOptions struct {
	// AppName tags the pool with a Ceph application (rbd, rgw, cephfs).
	AppName *string `json:"app-name"`

	// Group adds the pool to a named group that access can be granted to.
	Group *string `json:"group"`

	// MaxBytes and MaxObjects set the pool quota.
	MaxBytes   *int64 `json:"max-bytes"`
	MaxObjects *int64 `json:"max-objects"`

	// Namespace is the RADOS namespace of the pool's group.
	Namespace        *string `json:"group-namespace"`
	RBDMirroringMode *string `json:"rbd-mirroring-mode"`

	// Weight is the percentage of cluster data the pool is expected to
	// hold, used by the broker to size placement groups.
	Weight *float64 `json:"weight"`

	CompressionAlgorithm      *string  `json:"compression-algorithm"`
	CompressionMode           *string  `json:"compression-mode"`
	CompressionRequiredRatio  *float64 `json:"compression-required-ratio"`
	CompressionMinBlobSize    *int     `json:"compression-min-blob-size"`
	CompressionMinBlobSizeHDD *int     `json:"compression-min-blob-size-hdd"`
	CompressionMinBlobSizeSSD *int     `json:"compression-min-blob-size-ssd"`
	CompressionMaxBlobSize    *int     `json:"compression-max-blob-size"`
	CompressionMaxBlobSizeHDD *int     `json:"compression-max-blob-size-hdd"`
	CompressionMaxBlobSizeSSD *int     `json:"compression-max-blob-size-ssd"`
}

// Validate checks the option values against what the broker accepts.
func (o PoolOptions) Validate() error {
	if err := checkOneOf("compression-algorithm", o.CompressionAlgorithm, compressionAlgorithms); err != nil {
		return err
	}
	if err := checkOneOf("compression-mode", o.CompressionMode, compressionModes); err != nil {
		return err
	}
	if err := checkOneOf("rbd-mirroring-mode", o.RBDMirroringMode, rbdMirroringModes); err != nil {
		return err
	}
	if err := checkRange("compression-required-ratio", o.CompressionRequiredRatio, 0, 1); err != nil {
		return err
	}
	for field, size := range map[string]*int{
		"compression-min-blob-size":     o.CompressionMinBlobSize,
		"compression-min-blob-size-hdd": o.CompressionMinBlobSizeHDD,
		"compression-min-blob-size-ssd": o.CompressionMinBlobSizeSSD,
		"compression-max-blob-size":     o.CompressionMaxBlobSize,
		"compression-max-blob-size-hdd": o.CompressionMaxBlobSizeHDD,
		"compression-max-blob-size-ssd": o.CompressionMaxBlobSizeSSD,
	} {
		if err := checkNonNegative(field, size); err != nil {
			return err
		}
	}
	if o.Weight != nil && (*o.Weight <= 0 || *o.Weight > 100) {
		return errors.NotValidf("weight %v (expected a percentage above 0 and at most 100)", *o.Weight)
	}
	if o.MaxBytes != nil && *o.MaxBytes < 0 {
		return errors.NotValidf("negative max-bytes %d", *o.MaxBytes)
	}
	if o.MaxObjects != nil && *o.MaxObjects < 0 {
		return errors.NotValidf("negative max-objects %d", *o.MaxObjects)
	}
	return nil
}

// ReplicatedPool requests a replicated pool.
type ReplicatedPool struct {
	Name         string  `json:"name"`
	Replicas     int     `json:"replicas"`
	PGNum        *int    `json:"pg_num"`
	CrushProfile *string `json:"crush-profile"`
	PoolOptions
}

// Kind implements Op.
func (p ReplicatedPool) Kind() string { return OpCreatePool }

// Validate implements Op.
func (p ReplicatedPool) Validate() error {
	if err := checkName("pool", p.Name); err != nil {
		return err
	}
	if p.Replicas < 1 {
		return errors.NotValidf("replicas %d for pool %q", p.Replicas, p.Name)
	}
	if err := checkPositive("pg_num", p.PGNum); err != nil {
		return err
	}
	if p.PGNum != nil && p.Weight != nil {
		return errors.NotValidf("pool %q with both pg_num and weight (mutually exclusive)", p.Name)
	}
	return errors.Annotatef(p.PoolOptions.Validate(), "pool %q", p.Name)
}

// MarshalJSON implements Op.
func (p ReplicatedPool) MarshalJSON() ([]byte, error) {
	type wire ReplicatedPool
	return marshalOp(OpCreatePool, wire(p))
}

// ErasurePool requests an erasure coded pool using a previously created
// erasure profile.
type ErasurePool struct {
	Name              string  `json:"name"`
	ErasureProfile    *string `json:"erasure-profile"`
	AllowECOverwrites bool    `json:"allow-ec-overwrites"`
	PoolOptions
}

// Kind implements Op.
func (p ErasurePool) Kind() string { return OpCreatePool }

// Validate implements Op.
func (p ErasurePool) Validate() error {
	if err := checkName("pool", p.Name); err != nil {
		return err
	}
	return errors.Annotatef(p.PoolOptions.Validate(), "pool %q", p.Name)
}

// MarshalJSON implements Op.
func (p ErasurePool) MarshalJSON() ([]byte, error) {
	type wire ErasurePool
	return marshalOp(OpCreatePool, struct {
		wire
		PoolType string `json:"pool-type"`
	}{wire(p), poolTypeErasure})
}

// PoolValue sets a single pool property.
type PoolValue struct {
	Name  string      `json:"name"`
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// Kind implements Op.
func (p PoolValue) Kind() string { return OpSetPoolValue }

// Validate implements Op.
func (p PoolValue) Validate() error {
	if err := checkName("pool", p.Name); err != nil {
		return err
	}
	if p.Key == "" {
		return errors.NotValidf("empty key for pool %q", p.Name)
	}
	return nil
}

// MarshalJSON implements Op.
func (p PoolValue) MarshalJSON() ([]byte, error) {
	type wire PoolValue
	return marshalOp(OpSetPoolValue, wire(p))
}

// DeletePool removes a pool.
type DeletePool struct {
	Name string `json:"name"`
}

// Kind implements Op.
func (p DeletePool) Kind() string { return OpDeletePool }

// Validate implements Op.
func (p DeletePool) Validate() error { return checkName("pool", p.Name) }

// MarshalJSON implements Op.
func (p DeletePool) MarshalJSON() ([]byte, error) {
	type wire DeletePool
	return marshalOp(OpDeletePool, wire(p))
}

// RenamePool renames a pool.
type RenamePool struct {
	Name    string `json:"name"`
	NewName string `json:"new-name"`
}

// Kind implements Op.
func (p RenamePool) Kind() string { return OpRenamePool }

// Validate implements Op.
func (p RenamePool) Validate() error {
	if err := checkName("pool", p.Name); err != nil {
		return err
	}
	return checkName("new pool", p.NewName)
}

// MarshalJSON implements Op.
func (p RenamePool) MarshalJSON() ([]byte, error) {
	type wire RenamePool
	return marshalOp(OpRenamePool, wire(p))
}
