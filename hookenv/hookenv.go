// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package hookenv gives charm code running in a hook access to relation
// data through the unit agent's hook tools.
package hookenv

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/names/v5"
	"github.com/juju/retry"
	"gopkg.in/yaml.v3"
)

var logger = loggo.GetLogger("charmhelpers.hookenv")

// UnitNameEnvVar holds the name of the unit a hook runs for.
const UnitNameEnvVar = "JUJU_UNIT_NAME"

const (
	defaultRetryAttempts = 3
	defaultRetryDelay    = time.Second
)

// Config holds the dependencies of an Environment.
type Config struct {
	// UnitName is the unit the hook runs for.
	UnitName string

	Runner Runner
	Clock  clock.Clock

	// RetryAttempts is how many times a hook tool is run when it cannot
	// reach the unit agent. RetryDelay is the pause between attempts.
	RetryAttempts int
	RetryDelay    time.Duration
}

// Validate returns an error if the config cannot be used.
func (config Config) Validate() error {
	if !names.IsValidUnit(config.UnitName) {
		return errors.NotValidf("unit name %q", config.UnitName)
	}
	if config.Runner == nil {
		return errors.NotValidf("nil Runner")
	}
	if config.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	if config.RetryAttempts < 1 {
		return errors.NotValidf("retry attempts %d", config.RetryAttempts)
	}
	if config.RetryDelay <= 0 {
		return errors.NotValidf("retry delay %v", config.RetryDelay)
	}
	return nil
}

// Environment is the hook environment of a unit. It implements
// broker.Relations.
type Environment struct {
	config Config
}

// New returns an Environment for the given config.
func New(config Config) (*Environment, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Environment{config: config}, nil
}

// NewFromEnv returns an Environment for the hook being run, running hook
// tools from PATH.
func NewFromEnv() (*Environment, error) {
	unit := os.Getenv(UnitNameEnvVar)
	if unit == "" {
		return nil, errors.NotFoundf("%s in environment", UnitNameEnvVar)
	}
	return New(Config{
		UnitName:      unit,
		Runner:        ExecRunner{},
		Clock:         clock.WallClock,
		RetryAttempts: defaultRetryAttempts,
		RetryDelay:    defaultRetryDelay,
	})
}

// LocalUnit returns the unit the hook runs for.
func (e *Environment) LocalUnit() string {
	return e.config.UnitName
}

// ApplicationName returns the application of the local unit.
func (e *Environment) ApplicationName() string {
	// The unit name was validated on construction.
	app, _ := names.UnitApplication(e.config.UnitName)
	return app
}

// run runs a hook tool, retrying while the unit agent is unreachable.
func (e *Environment) run(ctx context.Context, stdin []byte, tool string, args ...string) ([]byte, error) {
	var out []byte
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			var err error
			out, err = e.config.Runner.Run(ctx, stdin, tool, args...)
			return err
		},
		IsFatalError: func(err error) bool {
			return !agentUnavailable(err)
		},
		NotifyFunc: func(lastErr error, attempt int) {
			logger.Debugf("%s attempt %d failed: %v", tool, attempt, lastErr)
		},
		Attempts: e.config.RetryAttempts,
		Delay:    e.config.RetryDelay,
		Clock:    e.config.Clock,
		Stop:     ctx.Done(),
	})
	if retry.IsAttemptsExceeded(err) || retry.IsRetryStopped(err) {
		return nil, errors.Trace(retry.LastError(err))
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	return out, nil
}

// runJSON runs a hook tool with --format=json and decodes its output
// into v.
func (e *Environment) runJSON(ctx context.Context, v interface{}, tool string, args ...string) error {
	out, err := e.run(ctx, nil, tool, append([]string{"--format=json"}, args...)...)
	if err != nil {
		return errors.Trace(err)
	}
	if err := json.Unmarshal(out, v); err != nil {
		return errors.Annotatef(err, "decoding %s output", tool)
	}
	return nil
}

// RelationIDs returns the ids of the relations on endpoint.
func (e *Environment) RelationIDs(ctx context.Context, endpoint string) ([]string, error) {
	var ids []string
	if err := e.runJSON(ctx, &ids, "relation-ids", endpoint); err != nil {
		return nil, errors.Trace(err)
	}
	return ids, nil
}

// RelatedUnits returns the remote units on the relation.
func (e *Environment) RelatedUnits(ctx context.Context, relationID string) ([]string, error) {
	var units []string
	if err := e.runJSON(ctx, &units, "relation-list", "-r", relationID); err != nil {
		return nil, errors.Trace(err)
	}
	return units, nil
}

// RelationGet returns the settings of unit on the relation.
func (e *Environment) RelationGet(ctx context.Context, relationID, unit string) (map[string]string, error) {
	var settings map[string]string
	if err := e.runJSON(ctx, &settings, "relation-get", "-r", relationID, "-", unit); err != nil {
		return nil, errors.Trace(err)
	}
	if settings == nil {
		settings = make(map[string]string)
	}
	return settings, nil
}

// RelationSet updates the local unit's settings on the relation. Empty
// values remove their keys.
func (e *Environment) RelationSet(ctx context.Context, relationID string, settings map[string]string) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return errors.Annotate(err, "encoding relation settings")
	}
	_, err = e.run(ctx, data, "relation-set", "-r", relationID, "--file", "-")
	return errors.Trace(err)
}

// Log writes message to the unit's log through juju-log. It does not
// retry: log writes are best effort.
func (e *Environment) Log(ctx context.Context, level loggo.Level, message string) error {
	_, err := e.config.Runner.Run(ctx, nil, "juju-log", "-l", level.String(), message)
	return errors.Trace(err)
}
