package wire

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// This file is the Message Codec (C2): the opaque boundary between typed
// command/response records and XML byte strings, per spec.md §4 C2. The
// session manager and command registry never touch XML directly; they build
// CommandRecord values and read ResponseRecord values through this package.
//
// Per-object payloads (the inner <check>, <create>, <chkData>, ... elements)
// are treated as already-serialized fragments here: each command encoder in
// internal/registry produces its action fragment and extension fragments as
// strings, and each decoder parses the raw inner XML captured from the
// response it cares about. The codec only owns the outer <epp> envelope
// shape that is common to every command, per RFC 5730.

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>`
const eppNS = "urn:ietf:params:xml:ns:epp-1.0"

// CommandRecord is the encoder's output for one outbound command: the
// already-serialized action element, zero or more extension elements, and a
// client transaction id. Login and hello commands have no clTRID semantics;
// Hello is represented by the zero-value CommandRecord with IsHello set.
type CommandRecord struct {
	Action     string
	Extensions []string
	ClTRID     string
	IsHello    bool
}

// EncodeCommand renders rec as one complete EPP data unit.
func EncodeCommand(rec CommandRecord) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<epp xmlns="`)
	b.WriteString(eppNS)
	b.WriteString(`">`)

	if rec.IsHello {
		b.WriteString(`<hello/>`)
	} else {
		b.WriteString(`<command>`)
		b.WriteString(rec.Action)
		if len(rec.Extensions) > 0 {
			b.WriteString(`<extension>`)
			for _, e := range rec.Extensions {
				b.WriteString(e)
			}
			b.WriteString(`</extension>`)
		}
		if rec.ClTRID != "" {
			b.WriteString(`<clTRID>`)
			xml.EscapeText(&b, []byte(rec.ClTRID)) //nolint:errcheck // strings.Builder never errors
			b.WriteString(`</clTRID>`)
		}
		b.WriteString(`</command>`)
	}
	b.WriteString(`</epp>`)
	return b.String()
}

// Result is one <result code="..."> entry in a response.
type Result struct {
	Code    int      `xml:"code,attr"`
	Msg     string   `xml:"msg"`
	Value   []string `xml:"value>any,omitempty"`
	ExtraV  []string `xml:"extValue>value>any,omitempty"`
}

// TrID carries the client and server transaction ids of a response.
type TrID struct {
	ClTRID string `xml:"clTRID"`
	SvTRID string `xml:"svTRID"`
}

// MsgQ describes the poll queue summary attached to a response, when present.
type MsgQ struct {
	Count   int    `xml:"count,attr"`
	ID      string `xml:"id,attr"`
	QDate   string `xml:"qDate"`
	MsgText string `xml:"msg"`
}

// responseXML is the fixed shape of an RFC 5730 <response>; ResData and
// ExtData are captured raw for per-command decoding.
type responseXML struct {
	Results []Result        `xml:"result"`
	MsgQ    *MsgQ           `xml:"msgQ"`
	ResData rawInner        `xml:"resData"`
	ExtData rawInner        `xml:"extension"`
	TrID    TrID            `xml:"trID"`
}

// rawInner captures an element's inner XML without decoding it.
type rawInner struct {
	Inner []byte `xml:",innerxml"`
}

type serviceMenu struct {
	Versions  []string `xml:"version"`
	Languages []string `xml:"lang"`
	ObjURIs   []string `xml:"objURI"`
	SvcExt    struct {
		ExtURIs []string `xml:"extURI"`
	} `xml:"svcExtension"`
}

type greetingXML struct {
	ServerID   string      `xml:"svID"`
	ServerDate string      `xml:"svDate"`
	SvcMenu    serviceMenu `xml:"svcMenu"`
}

type envelope struct {
	XMLName  xml.Name     `xml:"epp"`
	Greeting *greetingXML `xml:"greeting"`
	Response *responseXML `xml:"response"`
	Hello    *struct{}    `xml:"hello"`
}

// MessageKind discriminates a decoded top-level EPP message.
type MessageKind int

const (
	KindUnknown MessageKind = iota
	KindGreeting
	KindResponse
	KindHello
)

// Greeting is the decoded server greeting (RFC 5730 §2.4).
type Greeting struct {
	ServerID  string
	ServerRaw string // raw <svDate> text; nothing in this module parses it
	Versions  []string
	Languages []string
	ObjURIs   []string
	ExtURIs   []string
}

// Response is the decoded response envelope; ResData/ExtData are left raw
// for the matching command decoder.
type Response struct {
	Results []Result
	MsgQ    *MsgQ
	ResData []byte
	ExtData []byte
	ClTRID  string
	SvTRID  string
}

// Code returns the first (and by RFC 5730, only meaningful) result code.
func (r *Response) Code() int {
	if len(r.Results) == 0 {
		return 0
	}
	return r.Results[0].Code
}

// Message returns the first result's human-readable message.
func (r *Response) Message() string {
	if len(r.Results) == 0 {
		return ""
	}
	return r.Results[0].Msg
}

// Decode parses one EPP data unit and reports which kind of message it is.
func Decode(data string) (MessageKind, *Greeting, *Response, error) {
	var env envelope
	if err := xml.Unmarshal([]byte(data), &env); err != nil {
		return KindUnknown, nil, nil, fmt.Errorf("decode epp envelope: %w", err)
	}
	switch {
	case env.Greeting != nil:
		g := &Greeting{
			ServerID:  env.Greeting.ServerID,
			ServerRaw: env.Greeting.ServerDate,
			Versions:  env.Greeting.SvcMenu.Versions,
			Languages: env.Greeting.SvcMenu.Languages,
			ObjURIs:   env.Greeting.SvcMenu.ObjURIs,
			ExtURIs:   env.Greeting.SvcMenu.SvcExt.ExtURIs,
		}
		return KindGreeting, g, nil, nil
	case env.Response != nil:
		r := &Response{
			Results: env.Response.Results,
			MsgQ:    env.Response.MsgQ,
			ResData: env.Response.ResData.Inner,
			ExtData: env.Response.ExtData.Inner,
			ClTRID:  env.Response.TrID.ClTRID,
			SvTRID:  env.Response.TrID.SvTRID,
		}
		return KindResponse, nil, r, nil
	case env.Hello != nil:
		return KindHello, nil, nil, nil
	default:
		return KindUnknown, nil, nil, nil
	}
}

// UnmarshalResData unmarshals the raw <resData> payload into v, which should
// have an XML tag matching the expected inner element (e.g. `xml:"chkData"`).
func UnmarshalResData(raw []byte, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("response has no resData")
	}
	return xml.Unmarshal(raw, v)
}
