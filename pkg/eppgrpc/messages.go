package eppgrpc

import "encoding/json"

// Selector is the wire form of facade.Selector: a oneof-shaped struct per
// spec.md §4.7, exactly one field set.
type Selector struct {
	RegistryID string `json:"registry_id,omitempty"`
	DomainName string `json:"domain_name,omitempty"`
}

// Request is the wire envelope for every unary RPC: the registry selector
// plus the command's own fields, carried as a raw JSON payload so one
// generic handler can decode it into whichever concrete registry.Request
// the RPC's command name maps to.
type Request struct {
	Selector Selector        `json:"selector"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// Envelope is the wire form of facade.Envelope: the decoded response value
// (re-encoded as JSON, since the concrete Go type isn't known to the wire
// format) plus the command-response metadata spec.md §4.7 describes.
type Envelope struct {
	RegistryID  string          `json:"registry_id"`
	ClTRID      string          `json:"cl_trid,omitempty"`
	SvTRID      string          `json:"sv_trid,omitempty"`
	ExtraValues []string        `json:"extra_values,omitempty"`
	ExtData     []byte          `json:"ext_data,omitempty"`
	Value       json.RawMessage `json:"value,omitempty"`
}

// PollStreamRequest is one message a client sends on PollStream: peek the
// queue head (Ack empty) or acknowledge a previously peeked message id.
type PollStreamRequest struct {
	Selector Selector `json:"selector"`
	Ack      string   `json:"ack,omitempty"`
}

// PollStreamResponse is one message the server sends back per
// PollStreamRequest.
type PollStreamResponse struct {
	Envelope Envelope `json:"envelope"`
}
