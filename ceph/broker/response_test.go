// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package broker_test

import (
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/charmhelpers/ceph/broker"
)

type responseSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&responseSuite{})

func (s *responseSuite) TestParse(c *gc.C) {
	rsp, err := broker.ParseResponse(`{"request-id": "0bc7dc54", "exit-code": 1, "stderr": "pool exists"}`)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(rsp.RequestID(), gc.Equals, "0bc7dc54")
	c.Check(rsp.HasRequestID(), jc.IsTrue)
	c.Check(rsp.ExitCode(), gc.Equals, 1)
	c.Check(rsp.ExitMsg(), gc.Equals, "pool exists")
	c.Check(rsp.Succeeded(), jc.IsFalse)
}

func (s *responseSuite) TestParseMissingKeys(c *gc.C) {
	rsp, err := broker.ParseResponse(`{}`)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(rsp.RequestID(), gc.Equals, "")
	c.Check(rsp.HasRequestID(), jc.IsFalse)
	c.Check(rsp.ExitCode(), gc.Equals, 0)
	c.Check(rsp.ExitMsg(), gc.Equals, "")
	c.Check(rsp.Succeeded(), jc.IsTrue)
}

func (s *responseSuite) TestParseNulls(c *gc.C) {
	rsp, err := broker.ParseResponse(`{"request-id": null, "exit-code": null, "stderr": null}`)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(rsp.HasRequestID(), jc.IsFalse)
	c.Check(rsp.Succeeded(), jc.IsTrue)
}

func (s *responseSuite) TestParseMalformed(c *gc.C) {
	_, err := broker.ParseResponse(`{"exit-code": 0`)
	c.Assert(err, gc.ErrorMatches, "decoding broker response: .*")
}
