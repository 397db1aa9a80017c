// Package registry implements the Command Registry (C5): one encoder/decoder
// pair per EPP operation, dispatched by command name, per spec.md §4.3.
//
// Every operation follows the same envelope semantics (spec.md §4.3):
//
//   - Encoder: (features, request) -> (CommandRecord, Decoder, error). Validates the
//     request against what the server actually advertised and fails with
//     Unsupported before ever touching the transport.
//   - Decoder: (response) -> (typed response, error). Unknown response
//     shapes are ServerInternal, never silent success.
package registry

import (
	"github.com/eppproxy/eppproxy/internal/correlation"
	"github.com/eppproxy/eppproxy/internal/errors"
	"github.com/eppproxy/eppproxy/internal/feature"
	"github.com/eppproxy/eppproxy/internal/wire"
)

// Request is implemented by every typed command request. CommandName is
// used for metrics and log correlation (logger.KeyCommand).
type Request interface {
	CommandName() string
}

// Registry is the dispatch table keyed by each request's CommandName.
// It holds no state of its own beyond the dispatch table, so one Registry
// is shared by every session.
type Registry struct {
	encoders map[string]encodeFunc
}

type encodeFunc func(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error)

// New builds the registry with every operation in spec.md §4.3 wired in.
func New() *Registry {
	r := &Registry{encoders: make(map[string]encodeFunc)}
	registerDomainOps(r)
	registerHostOps(r)
	registerContactOps(r)
	registerRGPOps(r)
	registerPollOps(r)
	registerLogoutOp(r)
	registerNominetOps(r)
	registerBalanceOp(r)
	registerMaintenanceOps(r)
	registerEuridOps(r)
	registerMarkOps(r)
	registerDACOps(r)
	return r
}

func (r *Registry) register(name string, fn encodeFunc) {
	r.encoders[name] = fn
}

// Encode runs the encoder registered for req's command name. It returns the
// command record ready for the framer and the decoder the session manager
// must invoke on the matching response.
func (r *Registry) Encode(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	fn, ok := r.encoders[req.CommandName()]
	if !ok {
		return wire.CommandRecord{}, nil, errors.ServerInternal("no encoder registered for command " + req.CommandName())
	}
	return fn(features, req)
}

// requireObject fails with Unsupported when the registry never advertised
// the given object namespace.
func requireObject(features *feature.Set, uri, what string) error {
	if !features.HasObject(uri) {
		return errors.Unsupported(what + " not advertised by server")
	}
	return nil
}

// requireExtension fails with Unsupported when the registry never
// advertised the given extension namespace.
func requireExtension(features *feature.Set, uri, what string) error {
	if !features.HasExtension(uri) {
		return errors.Unsupported(what + " extension not advertised by server")
	}
	return nil
}
