package registry

import (
	"fmt"

	"github.com/eppproxy/eppproxy/internal/correlation"
	"github.com/eppproxy/eppproxy/internal/errors"
	"github.com/eppproxy/eppproxy/internal/feature"
	"github.com/eppproxy/eppproxy/internal/wire"
)

// Nominet's tag-list extension lives on a subordinate session per spec.md
// §4.6 (a separate login with its own advertised object set). When a
// subordinate is registered for the "nominet:" prefix, the session manager
// forwards requests of these command names to it; otherwise they are
// encoded against the parent's feature set. Errata
// "nominet-uk" also governs forbidsRegistrant in domain.go.

const nominetTagNS = "http://www.nominet.org.uk/epp/xml/std-tag-1.0"
const nominetNotifyNS = "http://www.nominet.org.uk/epp/xml/notifications-1.2"

func registerNominetOps(r *Registry) {
	r.register("nominet:tag-list", encodeNominetTagList)
	r.register("nominet:handshake", encodeNominetHandshake)
	r.register("nominet:release", encodeNominetRelease)
	r.register("nominet:lock", encodeNominetLock)
	r.register("nominet:unlock", encodeNominetUnlock)
}

type NominetTagListRequest struct{}

func (NominetTagListRequest) CommandName() string { return "nominet:tag-list" }

type NominetTag struct {
	Tag   string
	Name  string
	Trad  bool
}

type NominetTagListResponse struct {
	Tags []NominetTag
}

func encodeNominetTagList(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	action := fmt.Sprintf(`<info><std-tag:infoType xmlns:std-tag="%s"><std-tag:list/></std-tag:infoType></info>`, nominetTagNS)
	return wire.CommandRecord{Action: action}, decodeNominetTagList, nil
}

type nominetTagListDataXML struct {
	Tag []struct {
		Tag    string `xml:"tag"`
		Name   string `xml:"name"`
		IsTrad string `xml:"trad-name"`
	} `xml:"tagInfo>tag"`
}

func decodeNominetTagList(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data nominetTagListDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed nominet tag list response: " + err.Error())
	}
	out := NominetTagListResponse{}
	for _, t := range data.Tag {
		out.Tags = append(out.Tags, NominetTag{Tag: t.Tag, Name: t.Name, Trad: t.IsTrad != ""})
	}
	return out, nil
}

// NominetHandshakeRequest accepts or rejects a pending registrar handshake
// (a Nominet-specific domain release/acquire confirmation step).
type NominetHandshakeRequest struct {
	CaseID string
	Accept bool
}

func (NominetHandshakeRequest) CommandName() string { return "nominet:handshake" }

type NominetHandshakeResponse struct {
	CaseID string
}

func encodeNominetHandshake(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	hr := req.(NominetHandshakeRequest)
	verb := "reject"
	if hr.Accept {
		verb = "accept"
	}
	action := fmt.Sprintf(
		`<update><notifications:update xmlns:notifications="%s"><notifications:%s><notifications:caseId>%s</notifications:caseId></notifications:%s></notifications:update></update>`,
		nominetNotifyNS, verb, xmlEscape(hr.CaseID), verb,
	)
	return wire.CommandRecord{Action: action}, decodeNominetHandshake(hr.CaseID), nil
}

func decodeNominetHandshake(caseID string) correlation.Decoder {
	return func(resp *wire.Response) (any, error) {
		if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
			return nil, err
		}
		return NominetHandshakeResponse{CaseID: caseID}, nil
	}
}

// NominetReleaseRequest releases a domain to another tag (a Nominet-specific
// registrar-to-registrar transfer mechanism, distinct from RFC 5730
// transfer).
type NominetReleaseRequest struct {
	DomainName string
	ToTag      string
}

func (NominetReleaseRequest) CommandName() string { return "nominet:release" }

type NominetReleaseResponse struct{}

func encodeNominetRelease(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	rr := req.(NominetReleaseRequest)
	if err := ValidateDomainName(rr.DomainName); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	action := fmt.Sprintf(
		`<update><domain:update xmlns:domain="%s"><domain:name>%s</domain:name></domain:update></update>`,
		domainNS, xmlEscape(rr.DomainName),
	)
	ext := fmt.Sprintf(`<release:release xmlns:release="%s"><release:registrarTag>%s</release:registrarTag></release:release>`, nominetTagNS, xmlEscape(rr.ToTag))
	return wire.CommandRecord{Action: action, Extensions: []string{ext}}, decodeNominetRelease, nil
}

func decodeNominetRelease(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	return NominetReleaseResponse{}, nil
}

// NominetLockRequest/NominetUnlockRequest apply or remove the
// registrar-lock status used to block release/transfer without going
// through RFC 5731 domain:update status codes.
type NominetLockRequest struct {
	DomainName string
}

func (NominetLockRequest) CommandName() string { return "nominet:lock" }

type NominetUnlockRequest struct {
	DomainName string
}

func (NominetUnlockRequest) CommandName() string { return "nominet:unlock" }

type NominetLockResponse struct{}

func encodeNominetLock(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	return encodeNominetLockStatus(req.(NominetLockRequest).DomainName, true)
}

func encodeNominetUnlock(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	return encodeNominetLockStatus(req.(NominetUnlockRequest).DomainName, false)
}

func encodeNominetLockStatus(name string, lock bool) (wire.CommandRecord, correlation.Decoder, error) {
	if err := ValidateDomainName(name); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	verb := "add"
	if !lock {
		verb = "rem"
	}
	action := fmt.Sprintf(
		`<update><domain:update xmlns:domain="%s"><domain:name>%s</domain:name><domain:%s><domain:status s="clientTransferProhibited"/></domain:%s></domain:update></update>`,
		domainNS, xmlEscape(name), verb, verb,
	)
	return wire.CommandRecord{Action: action}, decodeNominetLock, nil
}

func decodeNominetLock(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	return NominetLockResponse{}, nil
}
