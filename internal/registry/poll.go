package registry

import (
	"fmt"

	"github.com/eppproxy/eppproxy/internal/correlation"
	"github.com/eppproxy/eppproxy/internal/errors"
	"github.com/eppproxy/eppproxy/internal/feature"
	"github.com/eppproxy/eppproxy/internal/wire"
)

func registerPollOps(r *Registry) {
	r.register("poll:req", encodePollReq)
	r.register("poll:ack", encodePollAck)
}

// PollReqRequest peeks at the head of the server's message queue (RFC 5730
// §2.9.2.1). It takes no fields; it always asks for whatever is queued.
type PollReqRequest struct{}

func (PollReqRequest) CommandName() string { return "poll:req" }

// PollMessage is the decoded queue entry, if any was present.
type PollMessage struct {
	Present  bool
	Count    int
	ID       string
	QDate    string
	Text     string
	RawExt   []byte
}

func encodePollReq(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	action := `<poll op="req"/>`
	return wire.CommandRecord{Action: action}, decodePollReq, nil
}

func decodePollReq(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	if resp.MsgQ == nil {
		return PollMessage{Present: false}, nil
	}
	return PollMessage{
		Present: true,
		Count:   resp.MsgQ.Count,
		ID:      resp.MsgQ.ID,
		QDate:   resp.MsgQ.QDate,
		Text:    resp.MsgQ.MsgText,
		RawExt:  []byte(resp.ExtData),
	}, nil
}

// PollAckRequest acknowledges and dequeues a previously peeked message (RFC
// 5730 §2.9.2.2), identified by the msgQ id the registry assigned.
type PollAckRequest struct {
	MsgID string
}

func (PollAckRequest) CommandName() string { return "poll:ack" }

type PollAckResponse struct {
	Remaining int
}

func encodePollAck(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	ar := req.(PollAckRequest)
	if ar.MsgID == "" {
		return wire.CommandRecord{}, nil, errors.Err("poll ack requires a message id")
	}
	action := fmt.Sprintf(`<poll op="ack" msgID="%s"/>`, xmlEscape(ar.MsgID))
	return wire.CommandRecord{Action: action}, decodePollAck, nil
}

func decodePollAck(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	remaining := 0
	if resp.MsgQ != nil {
		remaining = resp.MsgQ.Count
	}
	return PollAckResponse{Remaining: remaining}, nil
}
