package registry

import (
	"fmt"

	"github.com/eppproxy/eppproxy/internal/correlation"
	"github.com/eppproxy/eppproxy/internal/errors"
	"github.com/eppproxy/eppproxy/internal/feature"
	"github.com/eppproxy/eppproxy/internal/wire"
)

// RGP (Redemption Grace Period, RFC 3915) is a domain:update extension, not
// a standalone object: both operations send a <domain:update> carrying an
// <rgp:update> extension, registered under their own "rgp:" command names.

func registerRGPOps(r *Registry) {
	r.register("rgp:restore-request", encodeRGPRestoreRequest)
	r.register("rgp:restore-report", encodeRGPRestoreReport)
}

// RGPRestoreRequest asks the registry to place a deleted domain into
// pendingRestore (RFC 3915 §3.1).
type RGPRestoreRequest struct {
	DomainName string
}

func (RGPRestoreRequest) CommandName() string { return "rgp:restore-request" }

type RGPRestoreResponse struct {
	DomainName string
	Status     string
}

func encodeRGPRestoreRequest(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	rr := req.(RGPRestoreRequest)
	if err := requireObject(features, domainNS, "domain object"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	if err := requireExtension(features, feature.ExtRGP, "RGP"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	if err := ValidateDomainName(rr.DomainName); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	action := fmt.Sprintf(
		`<update><domain:update xmlns:domain="%s"><domain:name>%s</domain:name></domain:update></update>`,
		domainNS, xmlEscape(rr.DomainName),
	)
	ext := fmt.Sprintf(`<rgp:update xmlns:rgp="%s"><rgp:restore op="request"/></rgp:update>`, feature.ExtRGP)
	return wire.CommandRecord{Action: action, Extensions: []string{ext}}, decodeRGPRestore(rr.DomainName), nil
}

// RGPRestoreReport submits the post-restoration report required to keep a
// domain out of pendingDelete after the registrar-side restore (RFC 3915
// §3.2). The registry never validates report prose content; it is passed
// through as the registrant supplied it.
type RGPRestoreReport struct {
	DomainName       string
	PreData          string
	PostData         string
	DeleteReason     string
	DeleteDate       string
	RestoreDate      string
	RestoreStatement string
	OtherInfo        string
}

func (RGPRestoreReport) CommandName() string { return "rgp:restore-report" }

func encodeRGPRestoreReport(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	rr := req.(RGPRestoreReport)
	if err := requireObject(features, domainNS, "domain object"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	if err := requireExtension(features, feature.ExtRGP, "RGP"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	if err := ValidateDomainName(rr.DomainName); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	action := fmt.Sprintf(
		`<update><domain:update xmlns:domain="%s"><domain:name>%s</domain:name></domain:update></update>`,
		domainNS, xmlEscape(rr.DomainName),
	)
	ext := fmt.Sprintf(
		`<rgp:update xmlns:rgp="%s"><rgp:restore op="report"><rgp:report><rgp:preData>%s</rgp:preData><rgp:postData>%s</rgp:postData><rgp:delTime>%s</rgp:delTime><rgp:resTime>%s</rgp:resTime><rgp:resReason>%s</rgp:resReason><rgp:statement>%s</rgp:statement><rgp:other>%s</rgp:other></rgp:report></rgp:restore></rgp:update>`,
		feature.ExtRGP,
		xmlEscape(rr.PreData), xmlEscape(rr.PostData), xmlEscape(rr.DeleteDate), xmlEscape(rr.RestoreDate),
		xmlEscape(rr.DeleteReason), xmlEscape(rr.RestoreStatement), xmlEscape(rr.OtherInfo),
	)
	return wire.CommandRecord{Action: action, Extensions: []string{ext}}, decodeRGPRestore(rr.DomainName), nil
}

func decodeRGPRestore(name string) correlation.Decoder {
	return func(resp *wire.Response) (any, error) {
		if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
			return nil, err
		}
		return RGPRestoreResponse{DomainName: name, Status: "pendingRestore"}, nil
	}
}
