// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package broker

import (
	"encoding/json"

	"github.com/juju/errors"
)

// Response is the broker's reply to a request.
type Response struct {
	requestID *string
	exitCode  int
	exitMsg   string
}

// ParseResponse decodes a broker reply. Keys missing from the payload
// read as zero values.
func ParseResponse(raw string) (*Response, error) {
	var wire struct {
		RequestID *string `json:"request-id"`
		ExitCode  *int    `json:"exit-code"`
		Stderr    *string `json:"stderr"`
	}
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, errors.Annotate(err, "decoding broker response")
	}
	rsp := &Response{requestID: wire.RequestID}
	if wire.ExitCode != nil {
		rsp.exitCode = *wire.ExitCode
	}
	if wire.Stderr != nil {
		rsp.exitMsg = *wire.Stderr
	}
	return rsp, nil
}

// RequestID returns the id of the request this responds to, or "" for
// replies from brokers that predate request ids.
func (r *Response) RequestID() string {
	if r.requestID == nil {
		return ""
	}
	return *r.requestID
}

// HasRequestID reports whether the reply carries a request id at all.
func (r *Response) HasRequestID() bool {
	return r.requestID != nil && *r.requestID != ""
}

// ExitCode returns the broker's exit code; 0 on success.
func (r *Response) ExitCode() int {
	return r.exitCode
}

// ExitMsg returns the broker's error output, if any.
func (r *Response) ExitMsg() string {
	return r.exitMsg
}

// Succeeded reports whether the broker processed the request
// successfully.
func (r *Response) Succeeded() bool {
	return r.exitCode == 0
}
