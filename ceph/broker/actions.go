// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package broker

import (
	"context"
	"fmt"
	"strings"

	"github.com/juju/errors"
)

// KeyValueStore is the unit local storage broker actions are recorded in.
type KeyValueStore interface {
	// Get decodes the value stored under key into v, reporting whether
	// the key was found.
	Get(key string, v interface{}) (bool, error)

	// Set stores v under key.
	Set(key string, v interface{}) error
}

// actionKey returns the store key recording action for the local unit.
func (c *Client) actionKey(action string) string {
	unit := c.relations.LocalUnit()
	if i := strings.Index(unit, "/"); i >= 0 {
		unit = unit[i+1:]
	}
	return fmt.Sprintf("unit_%s_ceph_broker_action.%s", unit, action)
}

// addressedResponse returns the reply unit addressed to the local unit on
// the relation, or nil.
func (c *Client) addressedResponse(ctx context.Context, relationID, unit string) (*Response, error) {
	settings, err := c.relations.RelationGet(ctx, relationID, unit)
	if err != nil {
		return nil, errors.Annotatef(err, "reading %q settings on relation %q", unit, relationID)
	}
	raw := settings[c.ResponseKey()]
	if raw == "" {
		return nil, nil
	}
	return ParseResponse(raw)
}

// IsActionDone reports whether action was marked done for the broker
// reply unit currently holds for the local unit. An action done for an
// earlier reply is not done for a new one.
func (c *Client) IsActionDone(ctx context.Context, store KeyValueStore, action, relationID, unit string) (bool, error) {
	rsp, err := c.addressedResponse(ctx, relationID, unit)
	if err != nil || rsp == nil {
		return false, errors.Trace(err)
	}
	var done string
	found, err := store.Get(c.actionKey(action), &done)
	if err != nil {
		return false, errors.Annotatef(err, "reading broker action %q", action)
	}
	return found && done != "" && done == rsp.RequestID(), nil
}

// MarkActionDone records that action ran for the broker reply unit
// currently holds for the local unit. Without a reply it does nothing.
func (c *Client) MarkActionDone(ctx context.Context, store KeyValueStore, action, relationID, unit string) error {
	rsp, err := c.addressedResponse(ctx, relationID, unit)
	if err != nil || rsp == nil {
		return errors.Trace(err)
	}
	if err := store.Set(c.actionKey(action), rsp.RequestID()); err != nil {
		return errors.Annotatef(err, "recording broker action %q", action)
	}
	c.logger.Debugf("broker action %q done for request %q", action, rsp.RequestID())
	return nil
}
