package registry

import (
	"github.com/eppproxy/eppproxy/internal/correlation"
	"github.com/eppproxy/eppproxy/internal/errors"
	"github.com/eppproxy/eppproxy/internal/feature"
	"github.com/eppproxy/eppproxy/internal/wire"
)

func registerLogoutOp(r *Registry) {
	r.register("session:logout", encodeLogout)
}

// LogoutRequest requests a graceful <logout> (RFC 5730 §2.9.4.2). Submitted
// to a session with subordinates, it is first sent to each subordinate. The
// server's 1500 reply closes the session and its connection.
type LogoutRequest struct{}

func (LogoutRequest) CommandName() string { return "session:logout" }

type LogoutResponse struct{}

func encodeLogout(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	return wire.CommandRecord{Action: `<logout/>`}, decodeLogout, nil
}

func decodeLogout(resp *wire.Response) (any, error) {
	// 1500 ends the session; it is not an error from the caller's point of
	// view, it is the expected outcome of a logout.
	if resp.Code() != 1500 {
		if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
			return nil, err
		}
	}
	return LogoutResponse{}, nil
}
