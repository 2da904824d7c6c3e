// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package unitdata_test

import (
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/charmhelpers/unitdata"
)

type storeSuite struct {
	testing.IsolationSuite

	path  string
	store *unitdata.Store
}

var _ = gc.Suite(&storeSuite{})

func (s *storeSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.path = filepath.Join(c.MkDir(), "state.db")
	store, err := unitdata.Open(s.path)
	c.Assert(err, jc.ErrorIsNil)
	s.store = store
	s.AddCleanup(func(c *gc.C) {
		c.Check(s.store.Close(), jc.ErrorIsNil)
	})
}

func (s *storeSuite) TestGetMissing(c *gc.C) {
	var value string
	found, err := s.store.Get("missing", &value)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(found, jc.IsFalse)
	c.Check(value, gc.Equals, "")
}

func (s *storeSuite) TestSetGet(c *gc.C) {
	type settings struct {
		Pools []string `json:"pools"`
		Count int      `json:"count"`
	}
	c.Assert(s.store.Set("settings", settings{Pools: []string{"glance"}, Count: 2}), jc.ErrorIsNil)
	c.Assert(s.store.Set("id", "0bc7dc54"), jc.ErrorIsNil)
	c.Assert(s.store.Set("id", "1cd8ed65"), jc.ErrorIsNil)

	var got settings
	found, err := s.store.Get("settings", &got)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(found, jc.IsTrue)
	c.Check(got, jc.DeepEquals, settings{Pools: []string{"glance"}, Count: 2})

	var id string
	found, err = s.store.Get("id", &id)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(found, jc.IsTrue)
	c.Check(id, gc.Equals, "1cd8ed65")
}

func (s *storeSuite) TestGetWrongType(c *gc.C) {
	c.Assert(s.store.Set("id", "0bc7dc54"), jc.ErrorIsNil)
	var n int
	_, err := s.store.Get("id", &n)
	c.Assert(err, gc.ErrorMatches, `decoding "id": .*`)
}

func (s *storeSuite) TestUnset(c *gc.C) {
	c.Assert(s.store.Set("id", "0bc7dc54"), jc.ErrorIsNil)
	c.Assert(s.store.Unset("id"), jc.ErrorIsNil)
	c.Assert(s.store.Unset("id"), jc.ErrorIsNil)

	var id string
	found, err := s.store.Get("id", &id)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(found, jc.IsFalse)
}

func (s *storeSuite) TestKeys(c *gc.C) {
	for _, key := range []string{
		"unit_0_ceph_broker_action.restart",
		"unit_0_ceph_broker_action.keyring",
		"unit_0_other",
		"UNIT_0_ceph_broker_action.upper",
	} {
		c.Assert(s.store.Set(key, true), jc.ErrorIsNil)
	}
	keys, err := s.store.Keys("unit_0_ceph_broker_action.")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(keys, jc.DeepEquals, []string{
		"unit_0_ceph_broker_action.keyring",
		"unit_0_ceph_broker_action.restart",
	})

	all, err := s.store.Keys("")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(all, gc.HasLen, 4)
}

func (s *storeSuite) TestPersists(c *gc.C) {
	c.Assert(s.store.Set("id", "0bc7dc54"), jc.ErrorIsNil)

	other, err := unitdata.Open(s.path)
	c.Assert(err, jc.ErrorIsNil)
	defer other.Close()

	var id string
	found, err := other.Get("id", &id)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(found, jc.IsTrue)
	c.Check(id, gc.Equals, "0bc7dc54")
	c.Check(other.Path(), gc.Equals, s.path)
}

type defaultPathSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&defaultPathSuite{})

func (s *defaultPathSuite) TestOverride(c *gc.C) {
	s.PatchEnvironment("UNIT_STATE_DB", "/var/lib/state.db")
	s.PatchEnvironment("CHARM_DIR", "/var/lib/juju/agents/unit-glance-0/charm")
	path, err := unitdata.DefaultPath()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(path, gc.Equals, "/var/lib/state.db")
}

func (s *defaultPathSuite) TestCharmDir(c *gc.C) {
	s.PatchEnvironment("CHARM_DIR", "/var/lib/juju/agents/unit-glance-0/charm")
	path, err := unitdata.DefaultPath()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(path, gc.Equals, "/var/lib/juju/agents/unit-glance-0/charm/.unit-state.db")
}

func (s *defaultPathSuite) TestNoEnvironment(c *gc.C) {
	c.Assert(os.Getenv("CHARM_DIR"), gc.Equals, "")
	_, err := unitdata.DefaultPath()
	c.Check(errors.Is(err, errors.NotFound), jc.IsTrue)
}
