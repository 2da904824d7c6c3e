// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package commands implements the ceph-broker command, which lets an
// operator inspect and drive a unit's Ceph broker requests from a hook
// context, for example through juju exec.
package commands

import (
	"context"
	"io"
	"os"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo/v2"

	"github.com/juju/charmhelpers/ceph/broker"
	"github.com/juju/charmhelpers/hookenv"
	"github.com/juju/charmhelpers/unitdata"
)

var logger = loggo.GetLogger("charmhelpers.cmd.ceph-broker")

const superCommandDoc = `
ceph-broker builds Ceph broker requests from YAML request files and sends
them to the Ceph monitors related to the unit. It must run in a hook
context, where the relation hook tools are available.

A request file lists broker ops using their wire keys:

    request-id: 0bc7dc54-1e86-4a1a-8d2c-1f1a7e5f8b3a
    ops:
      - op: create-pool
        name: glance
        replicas: 3
        app-name: rbd
      - op: add-permissions-to-key
        group: images
        group-permission: rwx
`

// Environment is the hook environment the commands run in.
type Environment interface {
	broker.Relations

	// ApplicationName returns the application of the local unit.
	ApplicationName() string
}

// Store is the unit's persistent key/value store.
type Store interface {
	broker.KeyValueStore
	Close() error
}

// NewEnvironmentFunc returns the hook environment.
type NewEnvironmentFunc func() (Environment, error)

// OpenStoreFunc opens the unit's key/value store.
type OpenStoreFunc func() (Store, error)

// DefaultEnvironment returns the environment of the running hook.
func DefaultEnvironment() (Environment, error) {
	env, err := hookenv.NewFromEnv()
	if err != nil {
		return nil, errors.Trace(err)
	}
	return env, nil
}

// DefaultStore opens the unit's store at its default location.
func DefaultStore() (Store, error) {
	path, err := unitdata.DefaultPath()
	if err != nil {
		return nil, errors.Trace(err)
	}
	store, err := unitdata.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return store, nil
}

// NewSuperCommand returns the ceph-broker command with its subcommands
// registered.
func NewSuperCommand(newEnv NewEnvironmentFunc, openStore OpenStoreFunc) cmd.Command {
	brokerCmd := cmd.NewSuperCommand(cmd.SuperCommandParams{
		Name:    "ceph-broker",
		Doc:     superCommandDoc,
		Purpose: "manage Ceph broker requests",
	})
	brokerCmd.Register(NewShowCommand(newEnv))
	brokerCmd.Register(NewSendCommand(newEnv))
	brokerCmd.Register(NewStatusCommand(newEnv))
	brokerCmd.Register(NewActionCommand(newEnv, openStore))
	return brokerCmd
}

// clientCommandBase holds the flags shared by commands talking to the
// broker relation.
type clientCommandBase struct {
	cmd.CommandBase

	newEnv   NewEnvironmentFunc
	endpoint string
}

// SetFlags implements cmd.Command.
func (c *clientCommandBase) SetFlags(f *gnuflag.FlagSet) {
	f.StringVar(&c.endpoint, "endpoint", broker.DefaultEndpoint, "the endpoint related to ceph-mon")
}

// client returns the hook environment and a broker client on it.
func (c *clientCommandBase) client() (Environment, *broker.Client, error) {
	env, err := c.newEnv()
	if err != nil {
		return nil, nil, errors.Annotate(err, "reading hook environment")
	}
	client, err := broker.NewClient(broker.Config{
		Relations: env,
		Endpoint:  c.endpoint,
	})
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	return env, client, nil
}

// requestCommandBase is embedded by commands taking a request file.
type requestCommandBase struct {
	clientCommandBase

	requestID string
	file      string
}

// SetFlags implements cmd.Command.
func (c *requestCommandBase) SetFlags(f *gnuflag.FlagSet) {
	c.clientCommandBase.SetFlags(f)
	f.StringVar(&c.requestID, "request-id", "", "use this request id instead of the file's or a random one")
}

// Init implements cmd.Command.
func (c *requestCommandBase) Init(args []string) error {
	if len(args) == 0 {
		return errors.New("no request file specified")
	}
	c.file = args[0]
	return cmd.CheckEmpty(args[1:])
}

// readRequest builds the request described by the request file. A file
// name of "-" reads standard input.
func (c *requestCommandBase) readRequest(ctx *cmd.Context, env Environment) (*broker.Request, error) {
	var data []byte
	var err error
	if c.file == "-" {
		data, err = io.ReadAll(ctx.Stdin)
	} else {
		data, err = os.ReadFile(ctx.AbsPath(c.file))
	}
	if err != nil {
		return nil, errors.Annotate(err, "reading request file")
	}
	rq, err := requestFile{
		Application: env.ApplicationName(),
		RequestID:   c.requestID,
	}.parse(data)
	if err != nil {
		return nil, errors.Trace(err)
	}
	logger.Debugf("request %s with %d ops from %q", rq.RequestID(), len(rq.Ops()), c.file)
	return rq, nil
}

// commandContext returns the context operations run under.
func commandContext() context.Context {
	return context.Background()
}
