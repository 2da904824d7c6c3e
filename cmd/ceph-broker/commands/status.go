// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	"github.com/juju/charmhelpers/ceph/broker"
)

const statusDoc = `
Reports, for every relation of the endpoint, whether the request built from
the request file has been sent and whether the broker completed it.

Examples:
    ceph-broker status request.yaml
    ceph-broker status --format json request.yaml
`

type statusCommand struct {
	requestCommandBase
	out cmd.Output
}

// NewStatusCommand returns a command reporting request states.
func NewStatusCommand(newEnv NewEnvironmentFunc) cmd.Command {
	c := &statusCommand{}
	c.newEnv = newEnv
	return c
}

// Info implements cmd.Command.
func (c *statusCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "status",
		Args:    "<request-file>",
		Purpose: "show the state of a broker request",
		Doc:     statusDoc,
	}
}

// SetFlags implements cmd.Command.
func (c *statusCommand) SetFlags(f *gnuflag.FlagSet) {
	c.requestCommandBase.SetFlags(f)
	c.out.AddFlags(f, "yaml", map[string]cmd.Formatter{
		"yaml":  cmd.FormatYaml,
		"json":  cmd.FormatJson,
		"smart": cmd.FormatSmart,
	})
}

// requestStatus is the printed state of a request.
type requestStatus struct {
	RequestID string                         `json:"request-id" yaml:"request-id"`
	Sent      bool                           `json:"sent" yaml:"sent"`
	Complete  bool                           `json:"complete" yaml:"complete"`
	Relations map[string]broker.RequestState `json:"relations,omitempty" yaml:"relations,omitempty"`
}

// Run implements cmd.Command.
func (c *statusCommand) Run(ctx *cmd.Context) error {
	env, client, err := c.client()
	if err != nil {
		return errors.Trace(err)
	}
	rq, err := c.readRequest(ctx, env)
	if err != nil {
		return errors.Trace(err)
	}
	states, err := client.RequestStates(commandContext(), rq)
	if err != nil {
		return errors.Trace(err)
	}
	status := requestStatus{
		RequestID: rq.RequestID(),
		Sent:      true,
		Complete:  true,
		Relations: states,
	}
	for _, state := range states {
		status.Sent = status.Sent && state.Sent
		status.Complete = status.Complete && state.Complete
	}
	return c.out.Write(ctx, status)
}
