package registry

import (
	"fmt"

	"github.com/eppproxy/eppproxy/internal/correlation"
	"github.com/eppproxy/eppproxy/internal/errors"
	"github.com/eppproxy/eppproxy/internal/feature"
	"github.com/eppproxy/eppproxy/internal/wire"
)

// .eu's registry (EURid) carries several registrar-account extensions
// outside RFC 5730: hitpoints (a quality score capping daily operations),
// per-registrant registration limits, DNS quality, and DNSSEC eligibility.
// Each is a standalone poll-style info command, grounded the same way as
// balance.go.

const euridExtNS = "http://www.eurid.eu/xml/epp/extension-1.0"

func registerEuridOps(r *Registry) {
	r.register("eurid:hitpoints", encodeEuridHitpoints)
	r.register("eurid:registration-limit", encodeEuridRegistrationLimit)
	r.register("eurid:dns-quality", encodeEuridDNSQuality)
	r.register("eurid:dnssec-eligibility", encodeEuridDNSSECEligibility)
}

type EuridHitpointsRequest struct{}

func (EuridHitpointsRequest) CommandName() string { return "eurid:hitpoints" }

type EuridHitpointsResponse struct {
	Used  int
	Limit int
}

func encodeEuridHitpoints(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	action := fmt.Sprintf(`<info><eurid:hitPoints xmlns:eurid="%s"/></info>`, euridExtNS)
	return wire.CommandRecord{Action: action}, decodeEuridHitpoints, nil
}

type euridHitpointsDataXML struct {
	Used  int `xml:"used"`
	Limit int `xml:"limit"`
}

func decodeEuridHitpoints(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data euridHitpointsDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed eurid hitpoints response: " + err.Error())
	}
	return EuridHitpointsResponse{Used: data.Used, Limit: data.Limit}, nil
}

type EuridRegistrationLimitRequest struct{}

func (EuridRegistrationLimitRequest) CommandName() string { return "eurid:registration-limit" }

type EuridRegistrationLimitResponse struct {
	Used  int
	Limit int
}

func encodeEuridRegistrationLimit(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	action := fmt.Sprintf(`<info><eurid:registrationLimit xmlns:eurid="%s"/></info>`, euridExtNS)
	return wire.CommandRecord{Action: action}, decodeEuridRegistrationLimit, nil
}

func decodeEuridRegistrationLimit(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data euridHitpointsDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed eurid registration limit response: " + err.Error())
	}
	return EuridRegistrationLimitResponse{Used: data.Used, Limit: data.Limit}, nil
}

type EuridDNSQualityRequest struct {
	DomainName string
}

func (EuridDNSQualityRequest) CommandName() string { return "eurid:dns-quality" }

type EuridDNSQualityResponse struct {
	DomainName string
	Score      int
	Warnings   []string
}

func encodeEuridDNSQuality(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	qr := req.(EuridDNSQualityRequest)
	if err := ValidateDomainName(qr.DomainName); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	action := fmt.Sprintf(
		`<info><eurid:dnsQuality xmlns:eurid="%s"><eurid:domainName>%s</eurid:domainName></eurid:dnsQuality></info>`,
		euridExtNS, xmlEscape(qr.DomainName),
	)
	return wire.CommandRecord{Action: action}, decodeEuridDNSQuality(qr.DomainName), nil
}

type euridDNSQualityDataXML struct {
	Score   int      `xml:"score"`
	Warning []string `xml:"warning"`
}

func decodeEuridDNSQuality(name string) correlation.Decoder {
	return func(resp *wire.Response) (any, error) {
		if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
			return nil, err
		}
		var data euridDNSQualityDataXML
		if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
			return nil, errors.ServerInternal("malformed eurid dns quality response: " + err.Error())
		}
		return EuridDNSQualityResponse{DomainName: name, Score: data.Score, Warnings: data.Warning}, nil
	}
}

type EuridDNSSECEligibilityRequest struct {
	DomainName string
}

func (EuridDNSSECEligibilityRequest) CommandName() string { return "eurid:dnssec-eligibility" }

type EuridDNSSECEligibilityResponse struct {
	DomainName string
	Eligible   bool
	Reason     string
}

func encodeEuridDNSSECEligibility(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	er := req.(EuridDNSSECEligibilityRequest)
	if err := ValidateDomainName(er.DomainName); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	action := fmt.Sprintf(
		`<info><eurid:dnssecEligibility xmlns:eurid="%s"><eurid:domainName>%s</eurid:domainName></eurid:dnssecEligibility></info>`,
		euridExtNS, xmlEscape(er.DomainName),
	)
	return wire.CommandRecord{Action: action}, decodeEuridDNSSECEligibility(er.DomainName), nil
}

type euridDNSSECEligibilityDataXML struct {
	Eligible int    `xml:"eligible"`
	Reason   string `xml:"reason"`
}

func decodeEuridDNSSECEligibility(name string) correlation.Decoder {
	return func(resp *wire.Response) (any, error) {
		if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
			return nil, err
		}
		var data euridDNSSECEligibilityDataXML
		if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
			return nil, errors.ServerInternal("malformed eurid dnssec eligibility response: " + err.Error())
		}
		return EuridDNSSECEligibilityResponse{DomainName: name, Eligible: data.Eligible == 1, Reason: data.Reason}, nil
	}
}
