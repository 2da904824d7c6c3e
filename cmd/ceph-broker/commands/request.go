// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"encoding/json"

	"github.com/juju/errors"
	"github.com/juju/schema"
	"gopkg.in/yaml.v3"

	"github.com/juju/charmhelpers/ceph/broker"
)

var number = schema.OneOf(schema.Float(), schema.ForceInt())

var poolOptionFields = schema.Fields{
	"app-name":                      schema.String(),
	"group":                         schema.String(),
	"max-bytes":                     schema.ForceInt(),
	"max-objects":                   schema.ForceInt(),
	"group-namespace":               schema.String(),
	"rbd-mirroring-mode":            schema.String(),
	"weight":                        number,
	"compression-algorithm":         schema.String(),
	"compression-mode":              schema.String(),
	"compression-required-ratio":    number,
	"compression-min-blob-size":     schema.ForceInt(),
	"compression-min-blob-size-hdd": schema.ForceInt(),
	"compression-min-blob-size-ssd": schema.ForceInt(),
	"compression-max-blob-size":     schema.ForceInt(),
	"compression-max-blob-size-hdd": schema.ForceInt(),
	"compression-max-blob-size-ssd": schema.ForceInt(),
}

// poolChecker returns the checker for a create-pool op of the given pool
// type. Only the name is required.
func poolChecker(poolType string) schema.Checker {
	fields := schema.Fields{
		"op":        schema.Const(broker.OpCreatePool),
		"name":      schema.String(),
		"pool-type": schema.Const(poolType),
	}
	if poolType == "erasure" {
		fields["erasure-profile"] = schema.String()
		fields["allow-ec-overwrites"] = schema.Bool()
	} else {
		fields["replicas"] = schema.ForceInt()
		fields["pg_num"] = schema.ForceInt()
		fields["crush-profile"] = schema.String()
	}
	for name, checker := range poolOptionFields {
		fields[name] = checker
	}
	return strictFields(fields, "name")
}

var opCheckers = map[string]schema.Checker{
	broker.OpCreateErasureProfile: strictFields(schema.Fields{
		"op":                schema.Const(broker.OpCreateErasureProfile),
		"name":              schema.String(),
		"erasure-type":      schema.String(),
		"erasure-technique": schema.String(),
		"k":                 schema.ForceInt(),
		"m":                 schema.ForceInt(),
		"failure-domain":    schema.String(),
		"device-class":      schema.String(),
		"l":                 schema.ForceInt(),
		"crush-locality":    schema.String(),
		"c":                 schema.ForceInt(),
		"d":                 schema.ForceInt(),
		"scalar-mds":        schema.String(),
	}, "name"),
	broker.OpAddPermissionsToKey: strictFields(schema.Fields{
		"op":                        schema.Const(broker.OpAddPermissionsToKey),
		"name":                      schema.String(),
		"group":                     schema.String(),
		"namespace":                 schema.String(),
		"group-permission":          schema.String(),
		"object-prefix-permissions": schema.StringMap(schema.List(schema.String())),
	}, "group"),
	broker.OpSetKeyPermissions: strictFields(schema.Fields{
		"op":          schema.Const(broker.OpSetKeyPermissions),
		"client":      schema.String(),
		"permissions": schema.List(schema.String()),
	}, "client", "permissions"),
	broker.OpSetPoolValue: strictFields(schema.Fields{
		"op":    schema.Const(broker.OpSetPoolValue),
		"name":  schema.String(),
		"key":   schema.String(),
		"value": schema.Any(),
	}, "name", "key", "value"),
	broker.OpDeletePool: strictFields(schema.Fields{
		"op":   schema.Const(broker.OpDeletePool),
		"name": schema.String(),
	}, "name"),
	broker.OpRenamePool: strictFields(schema.Fields{
		"op":       schema.Const(broker.OpRenamePool),
		"name":     schema.String(),
		"new-name": schema.String(),
	}, "name", "new-name"),
}

// strictFields returns a checker accepting exactly the given fields, of
// which only op and those named as required must be present.
func strictFields(fields schema.Fields, required ...string) schema.Checker {
	defaults := make(schema.Defaults)
	for name := range fields {
		defaults[name] = schema.Omit
	}
	delete(defaults, "op")
	for _, name := range required {
		delete(defaults, name)
	}
	return schema.StrictFieldMap(fields, defaults)
}

var requestChecker = schema.StrictFieldMap(schema.Fields{
	"api-version": schema.ForceInt(),
	"request-id":  schema.String(),
	"ops":         schema.List(schema.StringMap(schema.Any())),
}, schema.Defaults{
	"api-version": broker.DefaultAPIVersion,
	"request-id":  schema.Omit,
	"ops":         schema.Omit,
})

// requestFile holds the parameters used to build a request from a YAML
// request file.
type requestFile struct {
	// Application is used as the key name of access ops that omit one.
	Application string

	// RequestID overrides any id in the file.
	RequestID string
}

// parse builds a broker request from the YAML document in data. Ops use
// their wire keys; the create-pool pool type defaults to replicated.
func (p requestFile) parse(data []byte) (*broker.Request, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Annotate(err, "parsing request file")
	}
	if doc == nil {
		return nil, errors.NotValidf("empty request file")
	}
	coerced, err := requestChecker.Coerce(doc, nil)
	if err != nil {
		return nil, errors.Annotate(err, "request file")
	}
	fields := coerced.(map[string]interface{})

	opts := []broker.RequestOption{
		broker.WithAPIVersion(fields["api-version"].(int)),
		broker.WithApplication(p.Application),
	}
	requestID := p.RequestID
	if requestID == "" {
		requestID, _ = fields["request-id"].(string)
	}
	if requestID != "" {
		opts = append(opts, broker.WithRequestID(requestID))
	}
	rq, err := broker.NewRequest(opts...)
	if err != nil {
		return nil, errors.Trace(err)
	}

	ops, _ := fields["ops"].([]interface{})
	for i, raw := range ops {
		op, err := parseOp(raw.(map[string]interface{}))
		if err != nil {
			return nil, errors.Annotatef(err, "op %d", i)
		}
		if err := addOp(rq, op); err != nil {
			return nil, errors.Annotatef(err, "op %d", i)
		}
	}
	return rq, nil
}

func parseOp(fields map[string]interface{}) (broker.Op, error) {
	kind, _ := fields["op"].(string)
	var checker schema.Checker
	switch kind {
	case "":
		return nil, errors.NotValidf("op without kind")
	case broker.OpCreatePool:
		poolType, ok := fields["pool-type"].(string)
		if !ok {
			poolType = "replicated"
			fields["pool-type"] = poolType
		}
		if poolType != "replicated" && poolType != "erasure" {
			return nil, errors.NotValidf("pool type %q", poolType)
		}
		checker = poolChecker(poolType)
	default:
		var ok bool
		if checker, ok = opCheckers[kind]; !ok {
			return nil, errors.NotValidf("op %q", kind)
		}
	}
	coerced, err := checker.Coerce(fields, nil)
	if err != nil {
		return nil, errors.Annotatef(err, "%s", kind)
	}
	data, err := json.Marshal(coerced)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return broker.DecodeOp(data)
}

// addOp adds op to rq through the helper for its kind, so file ops get the
// same defaults as ops built in code.
func addOp(rq *broker.Request, op broker.Op) error {
	switch op := op.(type) {
	case broker.ReplicatedPool:
		return rq.AddOpCreateReplicatedPool(op)
	case broker.ErasureProfile:
		return rq.AddOpCreateErasureProfile(op)
	case broker.GroupAccess:
		return rq.AddOpRequestAccessToGroup(op)
	}
	return rq.AddOp(op)
}
