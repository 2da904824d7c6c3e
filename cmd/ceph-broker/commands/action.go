// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/names/v5"
)

const actionDoc = `
Reports whether a charm action keyed on the broker reply from a remote unit
has already been run for that reply. With --mark, records that it has.
Actions are tracked in the unit's local state and reset whenever the
broker sends a reply to a new request.

Examples:
    ceph-broker action restart-glance ceph:1 ceph-mon/0
    ceph-broker action --mark restart-glance ceph:1 ceph-mon/0
`

type actionCommand struct {
	clientCommandBase

	openStore OpenStoreFunc
	mark      bool

	action     string
	relationID string
	unit       string
}

// NewActionCommand returns a command tracking actions run for broker
// replies.
func NewActionCommand(newEnv NewEnvironmentFunc, openStore OpenStoreFunc) cmd.Command {
	c := &actionCommand{openStore: openStore}
	c.newEnv = newEnv
	return c
}

// Info implements cmd.Command.
func (c *actionCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "action",
		Args:    "<action> <relation-id> <unit>",
		Purpose: "track actions run for broker replies",
		Doc:     actionDoc,
	}
}

// SetFlags implements cmd.Command.
func (c *actionCommand) SetFlags(f *gnuflag.FlagSet) {
	c.clientCommandBase.SetFlags(f)
	f.BoolVar(&c.mark, "mark", false, "record the action as done")
}

// Init implements cmd.Command.
func (c *actionCommand) Init(args []string) error {
	if len(args) < 3 {
		return errors.New("expected an action, a relation id and a unit")
	}
	c.action, c.relationID, c.unit = args[0], args[1], args[2]
	if c.action == "" {
		return errors.NotValidf("empty action")
	}
	if !names.IsValidUnit(c.unit) {
		return errors.NotValidf("unit name %q", c.unit)
	}
	return cmd.CheckEmpty(args[3:])
}

// Run implements cmd.Command.
func (c *actionCommand) Run(ctx *cmd.Context) error {
	_, client, err := c.client()
	if err != nil {
		return errors.Trace(err)
	}
	store, err := c.openStore()
	if err != nil {
		return errors.Annotate(err, "opening unit state")
	}
	defer func() { _ = store.Close() }()

	if c.mark {
		return errors.Trace(client.MarkActionDone(commandContext(), store, c.action, c.relationID, c.unit))
	}
	done, err := client.IsActionDone(commandContext(), store, c.action, c.relationID, c.unit)
	if err != nil {
		return errors.Trace(err)
	}
	if done {
		ctx.Infof("%s done", c.action)
	} else {
		ctx.Infof("%s not done", c.action)
	}
	return nil
}
