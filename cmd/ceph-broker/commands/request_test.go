// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands_test

import (
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/charmhelpers/ceph/broker"
	"github.com/juju/charmhelpers/cmd/ceph-broker/commands"
)

type requestFileSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&requestFileSuite{})

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

func (s *requestFileSuite) expected(c *gc.C, add func(*broker.Request) error) *broker.Request {
	rq, err := broker.NewRequest(broker.WithRequestID("0bc7dc54"), broker.WithApplication("glance"))
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(add(rq), jc.ErrorIsNil)
	return rq
}

func (s *requestFileSuite) TestFullRequest(c *gc.C) {
	rq, err := commands.ParseRequestFile([]byte(`
api-version: 1
request-id: 0bc7dc54
ops:
  - op: create-pool
    name: glance
    app-name: rbd
    weight: 40
    compression-mode: aggressive
  - op: create-erasure-profile
    name: glance-profile
    k: 4
    m: 2
    failure-domain: host
  - op: create-pool
    pool-type: erasure
    name: glance-ec
    erasure-profile: glance-profile
    allow-ec-overwrites: true
  - op: add-permissions-to-key
    group: images
    group-permission: rwx
    object-prefix-permissions:
      class-read: [rbd_children]
  - op: set-pool-value
    name: glance
    key: nodelete
    value: true
  - op: rename-pool
    name: images
    new-name: glance
`), "glance", "")
	c.Assert(err, jc.ErrorIsNil)

	expected := s.expected(c, func(rq *broker.Request) error {
		for _, add := range []func() error{
			func() error {
				return rq.AddOpCreateReplicatedPool(broker.ReplicatedPool{
					Name: "glance",
					PoolOptions: broker.PoolOptions{
						AppName:         strPtr("rbd"),
						Weight:          floatPtr(40),
						CompressionMode: strPtr("aggressive"),
					},
				})
			},
			func() error {
				return rq.AddOpCreateErasureProfile(broker.ErasureProfile{
					Name:          "glance-profile",
					K:             intPtr(4),
					M:             intPtr(2),
					FailureDomain: strPtr("host"),
				})
			},
			func() error {
				return rq.AddOpCreateErasurePool(broker.ErasurePool{
					Name:              "glance-ec",
					ErasureProfile:    strPtr("glance-profile"),
					AllowECOverwrites: true,
				})
			},
			func() error {
				return rq.AddOpRequestAccessToGroup(broker.GroupAccess{
					Group:      "images",
					Permission: strPtr("rwx"),
					ObjectPrefixPermissions: map[string][]string{
						"class-read": {"rbd_children"},
					},
				})
			},
			func() error {
				return rq.AddOpSetPoolValue(broker.PoolValue{Name: "glance", Key: "nodelete", Value: true})
			},
			func() error {
				return rq.AddOpRenamePool("images", "glance")
			},
		} {
			if err := add(); err != nil {
				return err
			}
		}
		return nil
	})
	c.Check(rq.RequestID(), gc.Equals, "0bc7dc54")
	c.Check(rq.Ops(), gc.HasLen, 6)
	c.Check(rq.Equal(expected), jc.IsTrue)
}

func (s *requestFileSuite) TestDefaults(c *gc.C) {
	rq, err := commands.ParseRequestFile([]byte(`
ops:
  - op: create-pool
    name: glance
`), "glance", "0bc7dc54")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(rq.APIVersion(), gc.Equals, broker.DefaultAPIVersion)
	c.Check(rq.RequestID(), gc.Equals, "0bc7dc54")
	c.Assert(rq.Ops(), gc.HasLen, 1)
	pool, ok := rq.Ops()[0].(broker.ReplicatedPool)
	c.Assert(ok, jc.IsTrue)
	c.Check(pool.Replicas, gc.Equals, broker.DefaultReplicas)
}

func (s *requestFileSuite) TestPoolGroupNamespace(c *gc.C) {
	rq, err := commands.ParseRequestFile([]byte(`
ops:
  - op: create-pool
    name: glance
    group: images
    group-namespace: glance-ns
`), "glance", "0bc7dc54")
	c.Assert(err, jc.ErrorIsNil)
	pool, ok := rq.Ops()[0].(broker.ReplicatedPool)
	c.Assert(ok, jc.IsTrue)
	c.Check(pool.Namespace, jc.DeepEquals, strPtr("glance-ns"))

	_, err = commands.ParseRequestFile([]byte(`
ops:
  - op: create-pool
    name: glance
    namespace: glance-ns
`), "glance", "0bc7dc54")
	c.Check(err, gc.ErrorMatches, `op 0: create-pool: .*namespace.*`)
}

func (s *requestFileSuite) TestRequestIDOverride(c *gc.C) {
	rq, err := commands.ParseRequestFile([]byte(`
request-id: from-file
ops: []
`), "glance", "from-flag")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(rq.RequestID(), gc.Equals, "from-flag")
}

func (s *requestFileSuite) TestRandomRequestID(c *gc.C) {
	rq, err := commands.ParseRequestFile([]byte(`ops: []`), "glance", "")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(rq.RequestID(), gc.Matches, `[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
}

func (s *requestFileSuite) TestAccessKeyFromApplication(c *gc.C) {
	rq, err := commands.ParseRequestFile([]byte(`
ops:
  - op: add-permissions-to-key
    group: images
`), "cinder-ceph", "")
	c.Assert(err, jc.ErrorIsNil)
	access, ok := rq.Ops()[0].(broker.GroupAccess)
	c.Assert(ok, jc.IsTrue)
	c.Check(access.KeyName, gc.Equals, "cinder-ceph")
}

func (s *requestFileSuite) TestErrors(c *gc.C) {
	for i, test := range []struct {
		about string
		yaml  string
		err   string
	}{{
		about: "empty file",
		yaml:  ``,
		err:   `empty request file not valid`,
	}, {
		about: "not yaml",
		yaml:  "ops: [",
		err:   `parsing request file: .*`,
	}, {
		about: "unknown top level key",
		yaml:  "operations: []",
		err:   `request file: .*operations.*`,
	}, {
		about: "unknown op",
		yaml:  "ops: [{op: frobnicate, name: glance}]",
		err:   `op 0: op "frobnicate" not valid`,
	}, {
		about: "op without kind",
		yaml:  "ops: [{name: glance}]",
		err:   `op 0: op without kind not valid`,
	}, {
		about: "unknown pool type",
		yaml:  "ops: [{op: create-pool, pool-type: striped, name: glance}]",
		err:   `op 0: pool type "striped" not valid`,
	}, {
		about: "unknown op key",
		yaml:  "ops: [{op: create-pool, name: glance, replica: 3}]",
		err:   `op 0: create-pool: .*replica.*`,
	}, {
		about: "erasure key on replicated pool",
		yaml:  "ops: [{op: create-pool, name: glance, erasure-profile: ec}]",
		err:   `op 0: create-pool: .*erasure-profile.*`,
	}, {
		about: "missing name",
		yaml:  "ops: [{op: delete-pool}]",
		err:   `op 0: delete-pool: .*name.*`,
	}, {
		about: "bad type",
		yaml:  "ops: [{op: create-pool, name: glance, replicas: three}]",
		err:   `op 0: create-pool: .*replicas.*`,
	}, {
		about: "invalid op",
		yaml:  "ops: [{op: create-pool, name: glance}, {op: create-pool, name: cinder, replicas: -1}]",
		err:   `op 1: .*replicas -1.*`,
	}, {
		about: "invalid api version",
		yaml:  "api-version: 0",
		err:   `api version 0 not valid`,
	}} {
		c.Logf("test %d: %s", i, test.about)
		_, err := commands.ParseRequestFile([]byte(test.yaml), "glance", "")
		c.Check(err, gc.ErrorMatches, test.err)
	}
}
