package registry

import (
	"fmt"

	"github.com/eppproxy/eppproxy/internal/correlation"
	"github.com/eppproxy/eppproxy/internal/errors"
	"github.com/eppproxy/eppproxy/internal/feature"
	"github.com/eppproxy/eppproxy/internal/wire"
)

// DAC (Domain Availability Check, a CentralNic extension) adds a richer
// premium-pricing variant of domain:check plus registrar usage/limit
// reporting. Grounded the same way as the fee extension in fee.go: a
// check-time extension fragment plus standalone account info commands.

const dacExtNS = "urn:X-dac:params:xml:ns:dac-1.0"

func registerDACOps(r *Registry) {
	r.register("dac:domain", encodeDACDomainCheck)
	r.register("dac:usage", encodeDACUsage)
	r.register("dac:limits", encodeDACLimits)
}

type DACDomainCheckRequest struct {
	Names []string
}

func (DACDomainCheckRequest) CommandName() string { return "dac:domain" }

type DACDomainResult struct {
	Name      string
	Available bool
	Premium   bool
	Price     string
	Currency  string
}

type DACDomainCheckResponse struct {
	Results []DACDomainResult
}

func encodeDACDomainCheck(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	cr := req.(DACDomainCheckRequest)
	if err := requireObject(features, domainNS, "domain object"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	for _, n := range cr.Names {
		if err := ValidateDomainName(n); err != nil {
			return wire.CommandRecord{}, nil, err
		}
	}
	var names string
	for _, n := range cr.Names {
		names += fmt.Sprintf("<domain:name>%s</domain:name>", xmlEscape(n))
	}
	action := fmt.Sprintf(`<check><domain:check xmlns:domain="%s">%s</domain:check></check>`, domainNS, names)
	ext := fmt.Sprintf(`<dac:chkData xmlns:dac="%s"/>`, dacExtNS)
	return wire.CommandRecord{Action: action, Extensions: []string{ext}}, decodeDACDomainCheck, nil
}

type dacDomainCheckDataXML struct {
	CD []struct {
		Name struct {
			Value string `xml:",chardata"`
			Avail int    `xml:"avail,attr"`
		} `xml:"name"`
	} `xml:"cd"`
}

type dacExtCheckDataXML struct {
	CD []struct {
		Name     string `xml:"name"`
		Premium  int    `xml:"premium"`
		Price    string `xml:"price"`
		Currency string `xml:"currency"`
	} `xml:"cd"`
}

func decodeDACDomainCheck(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data dacDomainCheckDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed dac domain check response: " + err.Error())
	}
	out := DACDomainCheckResponse{}
	for _, cd := range data.CD {
		out.Results = append(out.Results, DACDomainResult{Name: cd.Name.Value, Available: cd.Name.Avail == 1})
	}
	var ext dacExtCheckDataXML
	if len(resp.ExtData) > 0 {
		if err := wire.UnmarshalResData(resp.ExtData, &ext); err == nil {
			for i, cd := range ext.CD {
				if i < len(out.Results) && out.Results[i].Name == cd.Name {
					out.Results[i].Premium = cd.Premium == 1
					out.Results[i].Price = cd.Price
					out.Results[i].Currency = cd.Currency
				}
			}
		}
	}
	return out, nil
}

type DACUsageRequest struct{}

func (DACUsageRequest) CommandName() string { return "dac:usage" }

type DACUsageResponse struct {
	UsedToday int
	Limit     int
}

func encodeDACUsage(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	action := fmt.Sprintf(`<info><dac:usage xmlns:dac="%s"/></info>`, dacExtNS)
	return wire.CommandRecord{Action: action}, decodeDACUsage, nil
}

type dacUsageDataXML struct {
	Used  int `xml:"used"`
	Limit int `xml:"limit"`
}

func decodeDACUsage(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data dacUsageDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed dac usage response: " + err.Error())
	}
	return DACUsageResponse{UsedToday: data.Used, Limit: data.Limit}, nil
}

type DACLimitsRequest struct{}

func (DACLimitsRequest) CommandName() string { return "dac:limits" }

type DACLimitsResponse struct {
	DailyLimit   int
	MaxBatchSize int
}

func encodeDACLimits(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	action := fmt.Sprintf(`<info><dac:limits xmlns:dac="%s"/></info>`, dacExtNS)
	return wire.CommandRecord{Action: action}, decodeDACLimits, nil
}

type dacLimitsDataXML struct {
	DailyLimit   int `xml:"dailyLimit"`
	MaxBatchSize int `xml:"maxBatchSize"`
}

func decodeDACLimits(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data dacLimitsDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed dac limits response: " + err.Error())
	}
	return DACLimitsResponse{DailyLimit: data.DailyLimit, MaxBatchSize: data.MaxBatchSize}, nil
}
