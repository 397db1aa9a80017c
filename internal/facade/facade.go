// Package facade implements the Service Facade (C9): the uniform
// call(registry_selector, typed_request) -> typed_response front door spec.md
// §4.7 describes, tying the router (C7) and session manager (C6) together
// for the gRPC layer. The facade holds no state of its own beyond the router
// handle and an optional metrics collector.
package facade

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/eppproxy/eppproxy/internal/errors"
	"github.com/eppproxy/eppproxy/internal/logger"
	"github.com/eppproxy/eppproxy/internal/metrics"
	"github.com/eppproxy/eppproxy/internal/registry"
	"github.com/eppproxy/eppproxy/internal/router"
	"github.com/eppproxy/eppproxy/internal/session"
	"github.com/eppproxy/eppproxy/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// Selector names the call's target registry, per spec.md §4.7: either a
// registry id directly, or a domain name the router resolves via
// longest-zone-suffix match (spec.md §4.5). Exactly one field is set.
type Selector struct {
	RegistryID string
	DomainName string
}

func (s Selector) String() string {
	if s.RegistryID != "" {
		return s.RegistryID
	}
	return s.DomainName
}

// Envelope is the uniform response shape: the decoded payload plus the
// command-response metadata spec.md §4.7 calls for (transaction ids,
// server extra-value diagnostics, and any extension blob).
type Envelope struct {
	Value       any
	RegistryID  string
	ClTRID      string
	SvTRID      string
	ExtraValues []string
	ExtData     []byte
}

// submitter is the subset of *session.Manager the facade drives, named here
// rather than imported from session so the facade depends on behaviour, not
// the concrete session type.
type submitter interface {
	router.SessionHandle
	SubmitEnvelope(ctx context.Context, req registry.Request) (session.Result, error)
}

// Facade is C9. It is safe for concurrent use by many callers.
type Facade struct {
	router  *router.Router
	metrics metrics.Collector
}

// New builds a Facade over rtr. collector may be nil, in which case metrics
// are a no-op.
func New(rtr *router.Router, collector metrics.Collector) *Facade {
	if collector == nil {
		collector = metrics.Noop{}
	}
	return &Facade{router: rtr, metrics: collector}
}

// Call resolves sel to a session and submits req, blocking until the session
// delivers a response or ctx is cancelled. This is the facade's single entry
// point, consumed by pkg/eppgrpc.
func (f *Facade) Call(ctx context.Context, sel Selector, req registry.Request) (Envelope, error) {
	ctx, span := telemetry.StartSpan(ctx, "facade.Call")
	defer span.End()
	telemetry.SetAttributes(ctx,
		attribute.String("epp.command", req.CommandName()),
		attribute.String("epp.selector", sel.String()),
	)

	handle, registryID, err := f.resolve(sel)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return Envelope{}, err
	}

	sub, ok := handle.(submitter)
	if !ok {
		err := errors.ServerInternal(fmt.Sprintf("registry %s session handle does not support Submit", registryID))
		telemetry.RecordError(ctx, err)
		return Envelope{}, err
	}

	f.metrics.RecordRequest(registryID, req.CommandName())
	start := time.Now()

	res, ctxErr := sub.SubmitEnvelope(ctx, req)
	duration := time.Since(start)
	if ctxErr != nil {
		f.metrics.RecordResponse(registryID, req.CommandName(), resultClass(ctxErr), duration)
		telemetry.RecordError(ctx, ctxErr)
		return Envelope{RegistryID: registryID}, ctxErr
	}

	f.metrics.RecordResponse(registryID, req.CommandName(), resultClass(res.Err), duration)
	if pm, ok := res.Value.(registry.PollMessage); ok && pm.Present {
		f.metrics.RecordPollMessage(registryID, "poll")
	}

	env := Envelope{
		Value:       res.Value,
		RegistryID:  registryID,
		ClTRID:      res.ClTRID,
		SvTRID:      res.SvTRID,
		ExtraValues: res.ExtraValues,
		ExtData:     res.ExtData,
	}
	if res.Err != nil {
		telemetry.RecordError(ctx, res.Err)
		logger.Warn("facade: command returned error",
			logger.KeyRegistry, registryID, logger.KeyCommand, req.CommandName(), logger.KeyError, res.Err)
		return env, res.Err
	}
	return env, nil
}

func (f *Facade) resolve(sel Selector) (router.SessionHandle, string, error) {
	switch {
	case sel.RegistryID != "":
		handle, ok := f.router.ClientByID(sel.RegistryID)
		if !ok {
			return nil, sel.RegistryID, errors.NotReady(fmt.Sprintf("no session registered for registry %q", sel.RegistryID))
		}
		return handle, sel.RegistryID, nil
	case sel.DomainName != "":
		handle, registryID, ok := f.router.ClientByDomain(sel.DomainName)
		if !ok {
			return nil, "", errors.NotReady(fmt.Sprintf("no registry owns domain %q", sel.DomainName))
		}
		return handle, registryID, nil
	default:
		return nil, "", errors.Err("registry selector must name a registry id or a domain name")
	}
}

// resultClass maps an error to the metrics result_class label, per
// SPEC_FULL.md §5.
func resultClass(err error) string {
	if err == nil {
		return "success"
	}
	var epErr *errors.Error
	if stderrors.As(err, &epErr) {
		switch epErr.Kind {
		case errors.KindTimeout:
			return "timeout"
		case errors.KindServerInternal:
			return "server_error"
		default:
			return "client_error"
		}
	}
	return "client_error"
}
