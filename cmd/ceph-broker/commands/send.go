// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
)

const sendDoc = `
Sends the broker request built from the request file on every relation of
the endpoint where it has not been sent yet. A request equal to the one
already pending is not resent, whatever its id.

Examples:
    ceph-broker send request.yaml
    ceph-broker send --endpoint ceph-rbd request.yaml
`

type sendCommand struct {
	requestCommandBase
}

// NewSendCommand returns a command sending a request if needed.
func NewSendCommand(newEnv NewEnvironmentFunc) cmd.Command {
	c := &sendCommand{}
	c.newEnv = newEnv
	return c
}

// Info implements cmd.Command.
func (c *sendCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "send",
		Args:    "<request-file>",
		Purpose: "send a broker request if needed",
		Doc:     sendDoc,
	}
}

// Run implements cmd.Command.
func (c *sendCommand) Run(ctx *cmd.Context) error {
	env, client, err := c.client()
	if err != nil {
		return errors.Trace(err)
	}
	rq, err := c.readRequest(ctx, env)
	if err != nil {
		return errors.Trace(err)
	}
	sent, err := client.SendRequestIfNeeded(commandContext(), rq)
	if err != nil {
		return errors.Trace(err)
	}
	if sent {
		ctx.Infof("request %s sent", rq.RequestID())
	} else {
		ctx.Infof("request already sent")
	}
	return nil
}
