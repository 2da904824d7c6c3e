// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"fmt"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
)

const showDoc = `
Prints the broker request built from the request file, as it would be
written to the relation. With no --request-id and none in the file, a
random id is used.

Examples:
    ceph-broker show request.yaml
`

type showCommand struct {
	requestCommandBase
}

// NewShowCommand returns a command printing the wire form of a request.
func NewShowCommand(newEnv NewEnvironmentFunc) cmd.Command {
	c := &showCommand{}
	c.newEnv = newEnv
	return c
}

// Info implements cmd.Command.
func (c *showCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "show",
		Args:    "<request-file>",
		Purpose: "print a broker request",
		Doc:     showDoc,
	}
}

// Run implements cmd.Command.
func (c *showCommand) Run(ctx *cmd.Context) error {
	env, err := c.newEnv()
	if err != nil {
		return errors.Annotate(err, "reading hook environment")
	}
	rq, err := c.readRequest(ctx, env)
	if err != nil {
		return errors.Trace(err)
	}
	encoded, err := rq.Encode()
	if err != nil {
		return errors.Trace(err)
	}
	_, err = fmt.Fprintln(ctx.Stdout, encoded)
	return err
}
