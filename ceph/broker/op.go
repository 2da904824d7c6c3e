// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package broker

import (
	"bytes"
	"encoding/json"

	"github.com/juju/errors"
)

// Op kinds understood by the Ceph broker.
const (
	OpCreatePool           = "create-pool"
	OpCreateErasureProfile = "create-erasure-profile"
	OpAddPermissionsToKey  = "add-permissions-to-key"
	OpSetKeyPermissions    = "set-key-permissions"
	OpSetPoolValue         = "set-pool-value"
	OpDeletePool           = "delete-pool"
	OpRenamePool           = "rename-pool"
)

const poolTypeErasure = "erasure"

// Op is a single operation carried in a broker request. Each
// implementation marshals to the flat wire dictionary the broker expects:
// every key the op kind recognises is present, unset keys are null.
type Op interface {
	json.Marshaler

	// Kind returns the wire "op" discriminator.
	Kind() string

	// Validate checks the op can be sent to the broker.
	Validate() error
}

// marshalOp flattens v into a JSON object and adds the op discriminator.
// The result has sorted keys so two equal ops always encode identically.
func marshalOp(kind string, v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Trace(err)
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, errors.Trace(err)
	}
	kindData, err := json.Marshal(kind)
	if err != nil {
		return nil, errors.Trace(err)
	}
	fields["op"] = kindData
	return json.Marshal(fields)
}

// RawOp is an op of a kind this package has no type for. It is kept
// verbatim so requests written by other clients still compare and
// re-encode faithfully.
type RawOp map[string]interface{}

// Kind implements Op.
func (o RawOp) Kind() string {
	kind, _ := o["op"].(string)
	return kind
}

// Validate implements Op.
func (o RawOp) Validate() error {
	if o.Kind() == "" {
		return errors.NotValidf("op without kind")
	}
	return nil
}

// MarshalJSON implements Op.
func (o RawOp) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}(o))
}

// DecodeOp rehydrates a single op from its wire form.
func DecodeOp(data []byte) (Op, error) {
	var head struct {
		Op       string  `json:"op"`
		PoolType *string `json:"pool-type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, errors.Annotate(err, "decoding op")
	}

	var op Op
	switch head.Op {
	case OpCreatePool:
		if head.PoolType != nil && *head.PoolType == poolTypeErasure {
			op = &ErasurePool{}
		} else {
			op = &ReplicatedPool{}
		}
	case OpCreateErasureProfile:
		op = &ErasureProfile{}
	case OpAddPermissionsToKey:
		op = &GroupAccess{}
	case OpSetKeyPermissions:
		op = &KeyPermissions{}
	case OpSetPoolValue:
		op = &PoolValue{}
	case OpDeletePool:
		op = &DeletePool{}
	case OpRenamePool:
		op = &RenamePool{}
	default:
		raw := make(RawOp)
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, errors.Annotatef(err, "decoding %q op", head.Op)
		}
		return raw, nil
	}
	if err := json.Unmarshal(data, op); err != nil {
		return nil, errors.Annotatef(err, "decoding %q op", head.Op)
	}
	return deref(op), nil
}

// deref returns the value form of a decoded op, which is how ops are
// built by the Request helpers.
func deref(op Op) Op {
	switch o := op.(type) {
	case *ReplicatedPool:
		return *o
	case *ErasurePool:
		return *o
	case *ErasureProfile:
		return *o
	case *GroupAccess:
		return *o
	case *KeyPermissions:
		return *o
	case *PoolValue:
		return *o
	case *DeletePool:
		return *o
	case *RenamePool:
		return *o
	}
	return op
}

// OpsEqual reports whether a and b encode to the same wire form.
func OpsEqual(a, b Op) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	aData, err := canonical(a)
	if err != nil {
		return false
	}
	bData, err := canonical(b)
	if err != nil {
		return false
	}
	return bytes.Equal(aData, bData)
}

// canonical encodes op with sorted keys. Numbers keep their literal
// form so large quotas are compared exactly.
func canonical(op Op) ([]byte, error) {
	data, err := json.Marshal(op)
	if err != nil {
		return nil, errors.Trace(err)
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var generic interface{}
	if err := decoder.Decode(&generic); err != nil {
		return nil, errors.Trace(err)
	}
	return json.Marshal(generic)
}
