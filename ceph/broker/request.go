// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package broker implements the client side of the Ceph broker protocol.
//
// A charm builds a Request holding an ordered list of ops, publishes it
// on its ceph relations under the broker_req key and later reads the
// broker's reply, addressed either to the requesting unit
// (broker-rsp-<unit>) or, for older brokers, to the relation as a whole
// (broker_rsp). Requests are compared on their ops and api version only,
// so a request rebuilt on every hook is recognised as the one already
// sent and is not sent again.
package broker

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/juju/errors"
)

// DefaultAPIVersion is the broker api version requests are built with.
const DefaultAPIVersion = 1

// IDGenerator produces request ids.
type IDGenerator interface {
	NewID() (string, error)
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() (string, error)

// NewID implements IDGenerator.
func (f IDGeneratorFunc) NewID() (string, error) { return f() }

// UUIDGenerator generates random (version 4) UUID request ids.
var UUIDGenerator IDGenerator = IDGeneratorFunc(func() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", errors.Annotate(err, "generating request id")
	}
	return id.String(), nil
})

type requestOptions struct {
	apiVersion  int
	requestID   string
	generator   IDGenerator
	application string
}

// RequestOption configures a new Request.
type RequestOption func(*requestOptions)

// WithAPIVersion sets the broker api version of the request.
func WithAPIVersion(version int) RequestOption {
	return func(o *requestOptions) {
		o.apiVersion = version
	}
}

// WithRequestID uses id instead of generating one.
func WithRequestID(id string) RequestOption {
	return func(o *requestOptions) {
		o.requestID = id
	}
}

// WithIDGenerator sets the generator used for the request id.
func WithIDGenerator(generator IDGenerator) RequestOption {
	return func(o *requestOptions) {
		o.generator = generator
	}
}

// WithApplication sets the application name used as the default key
// name for access requests.
func WithApplication(name string) RequestOption {
	return func(o *requestOptions) {
		o.application = name
	}
}

// Request is a broker request: an ordered list of ops sent to the broker
// as one unit, identified by its request id.
type Request struct {
	apiVersion  int
	requestID   string
	application string
	ops         []Op
}

// NewRequest returns an empty request with a new request id.
func NewRequest(opts ...RequestOption) (*Request, error) {
	o := requestOptions{
		apiVersion: DefaultAPIVersion,
		generator:  UUIDGenerator,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.apiVersion < 1 {
		return nil, errors.NotValidf("api version %d", o.apiVersion)
	}
	id := o.requestID
	if id == "" {
		if o.generator == nil {
			return nil, errors.NotValidf("missing request id generator")
		}
		var err error
		if id, err = o.generator.NewID(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return &Request{
		apiVersion:  o.apiVersion,
		requestID:   id,
		application: o.application,
	}, nil
}

type wireRequest struct {
	APIVersion *int              `json:"api-version"`
	Ops        []json.RawMessage `json:"ops"`
	RequestID  string            `json:"request-id"`
}

// ParseRequest rehydrates a request from its wire form, keeping the api
// version, request id and ops of the payload.
func ParseRequest(raw string) (*Request, error) {
	var wire wireRequest
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, errors.Annotate(err, "decoding broker request")
	}
	if wire.APIVersion == nil {
		return nil, errors.NotValidf("broker request without api-version")
	}
	ops := make([]Op, 0, len(wire.Ops))
	for i, data := range wire.Ops {
		op, err := DecodeOp(data)
		if err != nil {
			return nil, errors.Annotatef(err, "broker request op %d", i)
		}
		ops = append(ops, op)
	}
	return &Request{
		apiVersion: *wire.APIVersion,
		requestID:  wire.RequestID,
		ops:        ops,
	}, nil
}

// APIVersion returns the broker api version of the request.
func (r *Request) APIVersion() int {
	return r.apiVersion
}

// RequestID returns the id the broker echoes in its response.
func (r *Request) RequestID() string {
	return r.requestID
}

// Ops returns a copy of the request's ops in submission order.
func (r *Request) Ops() []Op {
	ops := make([]Op, len(r.ops))
	copy(ops, r.ops)
	return ops
}

// SetOps replaces the request's ops. It is meant for reconstructing a
// request for comparison; ops are not validated.
func (r *Request) SetOps(ops []Op) {
	r.ops = make([]Op, len(ops))
	copy(r.ops, ops)
}

// AddOp validates op and appends it, unless an equal op is already
// part of the request.
func (r *Request) AddOp(op Op) error {
	if op == nil {
		return errors.NotValidf("nil op")
	}
	if err := op.Validate(); err != nil {
		return errors.Trace(err)
	}
	for _, existing := range r.ops {
		if OpsEqual(existing, op) {
			return nil
		}
	}
	r.ops = append(r.ops, op)
	return nil
}

// AddOpCreatePool adds a replicated pool creation op.
func (r *Request) AddOpCreatePool(pool ReplicatedPool) error {
	return r.AddOpCreateReplicatedPool(pool)
}

// AddOpCreateReplicatedPool adds a replicated pool creation op. A zero
// replica count means DefaultReplicas.
func (r *Request) AddOpCreateReplicatedPool(pool ReplicatedPool) error {
	if pool.Replicas == 0 {
		pool.Replicas = DefaultReplicas
	}
	return r.AddOp(pool)
}

// AddOpCreateErasurePool adds an erasure coded pool creation op.
func (r *Request) AddOpCreateErasurePool(pool ErasurePool) error {
	return r.AddOp(pool)
}

// AddOpCreateErasureProfile adds an erasure code profile creation op,
// using DefaultErasurePlugin if no plugin is set.
func (r *Request) AddOpCreateErasureProfile(profile ErasureProfile) error {
	if profile.Plugin == "" {
		profile.Plugin = DefaultErasurePlugin
	}
	return r.AddOp(profile)
}

// AddOpRequestAccessToGroup asks for access to the pools in a group.
// The key defaults to the request's application, set by WithApplication
// or by building the request with Client.NewRequest. Without either the
// key name must be given.
func (r *Request) AddOpRequestAccessToGroup(access GroupAccess) error {
	if access.KeyName == "" {
		access.KeyName = r.application
	}
	return r.AddOp(access)
}

// AddOpSetKeyPermissions adds an op replacing a client's capabilities.
func (r *Request) AddOpSetKeyPermissions(perms KeyPermissions) error {
	return r.AddOp(perms)
}

// AddOpSetPoolValue adds an op setting a pool property.
func (r *Request) AddOpSetPoolValue(value PoolValue) error {
	return r.AddOp(value)
}

// AddOpDeletePool adds a pool deletion op.
func (r *Request) AddOpDeletePool(name string) error {
	return r.AddOp(DeletePool{Name: name})
}

// AddOpRenamePool adds a pool rename op.
func (r *Request) AddOpRenamePool(name, newName string) error {
	return r.AddOp(RenamePool{Name: name, NewName: newName})
}

// MarshalJSON encodes the request in its wire form.
func (r *Request) MarshalJSON() ([]byte, error) {
	ops := r.ops
	if ops == nil {
		ops = []Op{}
	}
	return json.Marshal(struct {
		APIVersion int    `json:"api-version"`
		Ops        []Op   `json:"ops"`
		RequestID  string `json:"request-id"`
	}{r.apiVersion, ops, r.requestID})
}

// Encode returns the wire form of the request as published on the
// relation.
func (r *Request) Encode() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", errors.Annotate(err, "encoding broker request")
	}
	return string(data), nil
}

// Equal reports whether r and other ask the broker for the same thing:
// the same api version and pairwise equal ops. Request ids are ignored.
func (r *Request) Equal(other *Request) bool {
	if r == nil || other == nil {
		return r == nil && other == nil
	}
	if r.apiVersion != other.apiVersion || len(r.ops) != len(other.ops) {
		return false
	}
	for i := range r.ops {
		if !OpsEqual(r.ops[i], other.ops[i]) {
			return false
		}
	}
	return true
}
