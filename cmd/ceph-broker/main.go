// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"fmt"
	"os"

	"github.com/juju/cmd/v3"
	"github.com/juju/loggo/v2"

	"github.com/juju/charmhelpers/cmd/ceph-broker/commands"
	"github.com/juju/charmhelpers/hookenv"
)

func main() {
	ctx, err := cmd.DefaultContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	// Inside a hook, warnings also go to the unit log.
	if env, err := hookenv.NewFromEnv(); err == nil {
		if err := hookenv.RegisterLogWriter(env, loggo.WARNING); err != nil {
			fmt.Fprintf(os.Stderr, "cannot log to unit log: %v\n", err)
		}
	}
	brokerCmd := commands.NewSuperCommand(commands.DefaultEnvironment, commands.DefaultStore)
	os.Exit(cmd.Main(brokerCmd, ctx, os.Args[1:]))
}
