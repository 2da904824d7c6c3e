// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package broker

import (
	"context"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/names/v5"
)

const (
	// DefaultEndpoint is the charm endpoint ceph relations are bound to.
	DefaultEndpoint = "ceph"

	// RequestKey is the relation key the local unit publishes its request
	// under.
	RequestKey = "broker_req"

	// LegacyResponseKey is the relation key older brokers reply under,
	// shared by every unit on the relation.
	LegacyResponseKey = "broker_rsp"

	// UnitNameKey is published with the request so the broker knows which
	// unit to address its reply to.
	UnitNameKey = "unit-name"

	responseKeyPrefix = "broker-rsp-"
)

// Relations is the relation data the client reads and writes. Settings
// written by RelationSet belong to the local unit.
type Relations interface {
	// LocalUnit returns the name of the unit running the hook.
	LocalUnit() string

	// RelationIDs returns the ids of the relations bound to endpoint.
	RelationIDs(ctx context.Context, endpoint string) ([]string, error)

	// RelatedUnits returns the remote units on a relation.
	RelatedUnits(ctx context.Context, relationID string) ([]string, error)

	// RelationGet returns unit's settings on a relation.
	RelationGet(ctx context.Context, relationID, unit string) (map[string]string, error)

	// RelationSet updates the local unit's settings on a relation.
	RelationSet(ctx context.Context, relationID string, settings map[string]string) error
}

// Logger is the logging surface the client uses.
type Logger interface {
	Debugf(string, ...interface{})
	Warningf(string, ...interface{})
}

// Config holds the dependencies of a Client.
type Config struct {
	Relations Relations

	// Endpoint is the endpoint whose relations the request is sent on.
	// Defaults to DefaultEndpoint.
	Endpoint string

	Logger Logger
}

// Validate returns an error if the config cannot be used.
func (config Config) Validate() error {
	if config.Relations == nil {
		return errors.NotValidf("nil Relations")
	}
	if config.Relations.LocalUnit() == "" {
		return errors.NotValidf("empty local unit")
	}
	return nil
}

// RequestState is the state of a request on one relation.
type RequestState struct {
	// Sent is true if the local unit's published request is equal to the
	// request.
	Sent bool `json:"sent" yaml:"sent"`

	// Complete is true once a broker unit reported success for it.
	Complete bool `json:"complete" yaml:"complete"`

	// Failed is true if a broker unit reported a nonzero exit code for
	// it and none reported success. A failed request stays incomplete;
	// it is only retried by sending a different request.
	Failed bool `json:"failed" yaml:"failed"`

	// ExitMsg holds the broker's error output when Failed.
	ExitMsg string `json:"exit-msg,omitempty" yaml:"exit-msg,omitempty"`
}

// Client tracks a broker request across the relations of an endpoint.
// It holds no state between calls: every query re-reads relation data, so
// a hook re-evaluates progress simply by asking again.
type Client struct {
	relations Relations
	endpoint  string
	logger    Logger
}

// NewClient returns a Client for the given config.
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	logger := config.Logger
	if logger == nil {
		logger = loggo.GetLogger("charmhelpers.ceph.broker")
	}
	return &Client{
		relations: config.Relations,
		endpoint:  endpoint,
		logger:    logger,
	}, nil
}

// NewRequest returns a request whose access ops default to a key named
// after the local unit's application. Options given override it.
func (c *Client) NewRequest(opts ...RequestOption) (*Request, error) {
	unit := c.relations.LocalUnit()
	app, err := names.UnitApplication(unit)
	if err != nil {
		return nil, errors.NotValidf("local unit %q", unit)
	}
	return NewRequest(append([]RequestOption{WithApplication(app)}, opts...)...)
}

// Endpoint returns the endpoint the client works on.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// ResponseKey returns the key brokers address replies to the local unit
// under.
func (c *Client) ResponseKey() string {
	return ResponseKey(c.relations.LocalUnit())
}

// ResponseKey returns the key a broker replies to unit under.
func ResponseKey(unit string) string {
	return responseKeyPrefix + strings.Replace(unit, "/", "-", -1)
}

// PreviousRequest returns the request the local unit last published on
// the relation, or nil if there is none.
func (c *Client) PreviousRequest(ctx context.Context, relationID string) (*Request, error) {
	settings, err := c.relations.RelationGet(ctx, relationID, c.relations.LocalUnit())
	if err != nil {
		return nil, errors.Annotatef(err, "reading local settings on relation %q", relationID)
	}
	raw := settings[RequestKey]
	if raw == "" {
		return nil, nil
	}
	rq, err := ParseRequest(raw)
	if err != nil {
		return nil, errors.Annotatef(err, "relation %q", relationID)
	}
	return rq, nil
}

// RequestStates returns the state of rq on each relation of the
// endpoint, keyed by relation id.
func (c *Client) RequestStates(ctx context.Context, rq *Request) (map[string]RequestState, error) {
	ids, err := c.relations.RelationIDs(ctx, c.endpoint)
	if err != nil {
		return nil, errors.Annotatef(err, "listing %q relations", c.endpoint)
	}
	states := make(map[string]RequestState, len(ids))
	for _, id := range ids {
		previous, err := c.PreviousRequest(ctx, id)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if !rq.Equal(previous) {
			states[id] = RequestState{}
			continue
		}
		// The broker echoes the id of the request it was sent, which is
		// not necessarily the id of rq.
		state, err := c.responseState(ctx, previous, id)
		if err != nil {
			return nil, errors.Trace(err)
		}
		state.Sent = true
		states[id] = state
	}
	return states, nil
}

// responseState looks for a reply to sent from the units on the
// relation.
func (c *Client) responseState(ctx context.Context, sent *Request, relationID string) (RequestState, error) {
	var state RequestState
	units, err := c.relations.RelatedUnits(ctx, relationID)
	if err != nil {
		return state, errors.Annotatef(err, "listing units on relation %q", relationID)
	}
	key := c.ResponseKey()
	for _, unit := range units {
		settings, err := c.relations.RelationGet(ctx, relationID, unit)
		if err != nil {
			return state, errors.Annotatef(err, "reading %q settings on relation %q", unit, relationID)
		}
		rsp, legacy, err := c.unitResponse(settings, key, unit)
		if err != nil {
			return state, errors.Annotatef(err, "unit %q on relation %q", unit, relationID)
		}
		if rsp == nil {
			continue
		}
		if !legacy && rsp.RequestID() != sent.RequestID() {
			c.logger.Debugf("ignoring response from %q to request %q", unit, rsp.RequestID())
			continue
		}
		if rsp.Succeeded() {
			return RequestState{Complete: true}, nil
		}
		c.logger.Debugf("broker %q failed request %q with exit code %d", unit, sent.RequestID(), rsp.ExitCode())
		state.Failed = true
		state.ExitMsg = rsp.ExitMsg()
	}
	return state, nil
}

// unitResponse returns the reply unit addressed to the local unit, falling
// back to a legacy relation wide reply from brokers that do not address
// replies. It returns nil if there is no usable reply. Legacy replies
// carry no request id and are reported with legacy set.
func (c *Client) unitResponse(settings map[string]string, key, unit string) (rsp *Response, legacy bool, err error) {
	if raw := settings[key]; raw != "" {
		rsp, err = ParseResponse(raw)
		return rsp, false, errors.Trace(err)
	}
	raw := settings[LegacyResponseKey]
	if raw == "" {
		return nil, false, nil
	}
	rsp, err = ParseResponse(raw)
	if err != nil {
		return nil, false, errors.Trace(err)
	}
	if rsp.HasRequestID() {
		// A broker that sets request ids addresses its replies, so this
		// one is meant for some other unit.
		c.logger.Debugf("ignoring legacy %s from %q: broker supports unit replies", LegacyResponseKey, unit)
		return nil, false, nil
	}
	c.logger.Debugf("using legacy %s from %q: broker does not support unit replies", LegacyResponseKey, unit)
	return rsp, true, nil
}

// IsRequestSent reports whether rq has been published on every relation
// of the endpoint.
func (c *Client) IsRequestSent(ctx context.Context, rq *Request) (bool, error) {
	states, err := c.RequestStates(ctx, rq)
	if err != nil {
		return false, errors.Trace(err)
	}
	for _, state := range states {
		if !state.Sent {
			return false, nil
		}
	}
	return true, nil
}

// IsRequestComplete reports whether rq has been processed successfully
// on every relation of the endpoint.
func (c *Client) IsRequestComplete(ctx context.Context, rq *Request) (bool, error) {
	states, err := c.RequestStates(ctx, rq)
	if err != nil {
		return false, errors.Trace(err)
	}
	for _, state := range states {
		if !state.Complete {
			return false, nil
		}
	}
	return true, nil
}

// IsRequestFailed reports whether a broker on any relation rejected rq.
// Failure does not make a request eligible for resending.
func (c *Client) IsRequestFailed(ctx context.Context, rq *Request) (bool, error) {
	states, err := c.RequestStates(ctx, rq)
	if err != nil {
		return false, errors.Trace(err)
	}
	for _, state := range states {
		if state.Failed {
			return true, nil
		}
	}
	return false, nil
}

// SendRequestIfNeeded publishes rq on every relation of the endpoint
// unless it has already been sent, and reports whether it was published.
// A sent request is not sent again while it is pending.
func (c *Client) SendRequestIfNeeded(ctx context.Context, rq *Request) (bool, error) {
	sent, err := c.IsRequestSent(ctx, rq)
	if err != nil {
		return false, errors.Trace(err)
	}
	if sent {
		c.logger.Debugf("request already sent, not sending new request")
		return false, nil
	}
	encoded, err := rq.Encode()
	if err != nil {
		return false, errors.Trace(err)
	}
	ids, err := c.relations.RelationIDs(ctx, c.endpoint)
	if err != nil {
		return false, errors.Annotatef(err, "listing %q relations", c.endpoint)
	}
	for _, id := range ids {
		c.logger.Debugf("sending request %s on relation %q", rq.RequestID(), id)
		err := c.relations.RelationSet(ctx, id, map[string]string{
			RequestKey:  encoded,
			UnitNameKey: c.relations.LocalUnit(),
		})
		if err != nil {
			return false, errors.Annotatef(err, "sending request on relation %q", id)
		}
	}
	return true, nil
}

// HasResponse reports whether unit has replied on the relation, either
// to the local unit or with a legacy relation wide reply.
func (c *Client) HasResponse(ctx context.Context, relationID, unit string) (bool, error) {
	settings, err := c.relations.RelationGet(ctx, relationID, unit)
	if err != nil {
		return false, errors.Annotatef(err, "reading %q settings on relation %q", unit, relationID)
	}
	return settings[c.ResponseKey()] != "" || settings[LegacyResponseKey] != "", nil
}
