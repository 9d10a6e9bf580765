// Package rpc implements the request/reply protocol the library
// services speak: a request is a two-element JSON array
// [operation, data] posted to a service's single endpoint, and the
// reply is one JSON value whose shape is operation-specific.
package rpc

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Request is the decoded [operation, data] payload. The operation
// slot is a string for regular calls; the authentication calls use a
// single-key flag object such as {"sign_in": true} instead, which
// lands in Flag.
type Request struct {
	Op   string
	Flag string
	Data jsoniter.RawMessage
}

func (r Request) MarshalJSON() ([]byte, error) {
	var op []byte
	var err error
	if r.Flag != "" {
		op, err = json.Marshal(map[string]bool{r.Flag: true})
	} else {
		op, err = json.Marshal(r.Op)
	}
	if err != nil {
		return nil, err
	}
	data := r.Data
	if len(data) == 0 {
		data = jsoniter.RawMessage("null")
	}
	return json.Marshal([2]jsoniter.RawMessage{op, data})
}

func (r *Request) UnmarshalJSON(b []byte) error {
	var parts []jsoniter.RawMessage
	if err := json.Unmarshal(b, &parts); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	if len(parts) != 2 {
		return fmt.Errorf("request must have 2 elements, got %d", len(parts))
	}
	var op string
	if err := json.Unmarshal(parts[0], &op); err == nil {
		r.Op = op
	} else {
		var flags map[string]bool
		if err := json.Unmarshal(parts[0], &flags); err != nil || len(flags) != 1 {
			return errors.New("operation must be a string or a single-key flag object")
		}
		for k := range flags {
			r.Flag = k
		}
	}
	r.Data = parts[1]
	return nil
}

// DecodeData unmarshals the data slot into v.
func (r Request) DecodeData(v any) error {
	if len(r.Data) == 0 {
		return errors.New("missing request data")
	}
	return json.Unmarshal(r.Data, v)
}

// Reply status values shared by all services.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusAlert   = "alert"
)

// StatusReply is the {status, message} object every mutation call
// answers with, on success and on failure alike.
type StatusReply struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// OK builds a success reply.
func OK(message string) StatusReply {
	return StatusReply{Status: StatusSuccess, Message: message}
}

// Error builds an error reply.
func Error(message string) StatusReply {
	return StatusReply{Status: StatusError, Message: message}
}

// RemoteError is a {status: "error"} reply surfaced as a Go error by
// the typed service clients.
type RemoteError struct {
	Service   string
	Operation string
	Message   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Service, e.Operation, e.Message)
}
