package registry

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/eppproxy/eppproxy/internal/correlation"
	"github.com/eppproxy/eppproxy/internal/errors"
	"github.com/eppproxy/eppproxy/internal/feature"
	"github.com/eppproxy/eppproxy/internal/wire"
)

const domainNS = feature.ObjDomain

// --- Check ---

type DomainCheckRequest struct {
	Names []string
	Fee   *FeeCheck
}

func (DomainCheckRequest) CommandName() string { return "domain:check" }

type DomainCheckResult struct {
	Name      string
	Available bool
	Reason    string
	Fee       *FeeInfo
}

type DomainCheckResponse struct {
	Results []DomainCheckResult
}

func registerDomainOps(r *Registry) {
	r.register("domain:check", encodeDomainCheck)
	r.register("domain:info", encodeDomainInfo)
	r.register("domain:create", encodeDomainCreate)
	r.register("domain:update", encodeDomainUpdate)
	r.register("domain:renew", encodeDomainRenew)
	r.register("domain:delete", encodeDomainDelete)
	r.register("domain:transfer", encodeDomainTransfer)
	r.register("domain:claimsCheck", encodeDomainClaimsCheck)
}

func encodeDomainCheck(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	cr := req.(DomainCheckRequest)
	if err := requireObject(features, domainNS, "domain object"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	for _, n := range cr.Names {
		if err := ValidateDomainName(n); err != nil {
			return wire.CommandRecord{}, nil, err
		}
	}

	var names strings.Builder
	for _, n := range cr.Names {
		fmt.Fprintf(&names, "<domain:name>%s</domain:name>", xmlEscape(n))
	}
	action := fmt.Sprintf(
		`<check><domain:check xmlns:domain="%s">%s</domain:check></check>`,
		domainNS, names.String(),
	)

	var extensions []string
	if cr.Fee != nil {
		feeURI := negotiateFeeExtension(features)
		if feeURI == "" {
			return wire.CommandRecord{}, nil, errors.Unsupported("fee extension requested but not advertised by server")
		}
		extensions = append(extensions, encodeFeeCheck(feeURI, *cr.Fee))
	}

	rec := wire.CommandRecord{Action: action, Extensions: extensions}
	return rec, decodeDomainCheck, nil
}

type domainChkDataXML struct {
	CD []struct {
		Name struct {
			Value string `xml:",chardata"`
			Avail int    `xml:"avail,attr"`
		} `xml:"name"`
		Reason string `xml:"reason"`
	} `xml:"cd"`
}

func decodeDomainCheck(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data domainChkDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed domain check response: " + err.Error())
	}
	out := DomainCheckResponse{}
	for _, cd := range data.CD {
		out.Results = append(out.Results, DomainCheckResult{
			Name:      cd.Name.Value,
			Available: cd.Name.Avail == 1,
			Reason:    cd.Reason,
		})
	}
	return out, nil
}

// --- Info ---

type DomainInfoRequest struct {
	Name     string
	AuthInfo string
}

func (DomainInfoRequest) CommandName() string { return "domain:info" }

type DomainInfoResponse struct {
	Name       string
	ROID       string
	Status     []string
	Registrant string
	Nameservers []string
	ClID       string
	CrID       string
	ExDate     string
}

func encodeDomainInfo(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	ir := req.(DomainInfoRequest)
	if err := requireObject(features, domainNS, "domain object"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	if err := ValidateDomainName(ir.Name); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	authFrag := ""
	if ir.AuthInfo != "" {
		authFrag = fmt.Sprintf(`<domain:authInfo><domain:pw>%s</domain:pw></domain:authInfo>`, xmlEscape(ir.AuthInfo))
	}
	action := fmt.Sprintf(
		`<info><domain:info xmlns:domain="%s"><domain:name>%s</domain:name>%s</domain:info></info>`,
		domainNS, xmlEscape(ir.Name), authFrag,
	)
	return wire.CommandRecord{Action: action}, decodeDomainInfo, nil
}

type domainInfDataXML struct {
	Name   string   `xml:"name"`
	ROID   string   `xml:"roid"`
	Status []struct {
		S string `xml:"s,attr"`
	} `xml:"status"`
	Registrant string   `xml:"registrant"`
	Ns         struct {
		HostObj []string `xml:"hostObj"`
	} `xml:"ns"`
	ClID   string `xml:"clID"`
	CrID   string `xml:"crID"`
	ExDate string `xml:"exDate"`
}

func decodeDomainInfo(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data domainInfDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed domain info response: " + err.Error())
	}
	out := DomainInfoResponse{
		Name:        data.Name,
		ROID:        data.ROID,
		Registrant:  data.Registrant,
		Nameservers: data.Ns.HostObj,
		ClID:        data.ClID,
		CrID:        data.CrID,
		ExDate:      data.ExDate,
	}
	for _, s := range data.Status {
		out.Status = append(out.Status, s.S)
	}
	return out, nil
}

// --- Create ---

type DomainCreateRequest struct {
	Name        string
	Period      int
	Nameservers []string
	Registrant  string
	AuthInfo    string
	Fee         *FeeCheck
}

func (DomainCreateRequest) CommandName() string { return "domain:create" }

type DomainCreateResponse struct {
	Name   string
	CrDate string
	ExDate string
}

func encodeDomainCreate(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	cr := req.(DomainCreateRequest)
	if err := requireObject(features, domainNS, "domain object"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	if err := ValidateDomainName(cr.Name); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	if cr.AuthInfo != "" {
		if err := ValidateAuthInfo(cr.AuthInfo); err != nil {
			return wire.CommandRecord{}, nil, err
		}
	}

	var ns strings.Builder
	for _, n := range cr.Nameservers {
		fmt.Fprintf(&ns, "<domain:hostObj>%s</domain:hostObj>", xmlEscape(n))
	}
	nsFrag := ""
	if ns.Len() > 0 {
		nsFrag = fmt.Sprintf("<domain:ns>%s</domain:ns>", ns.String())
	}

	// Some registries (errata) forbid registrant fields on create/update;
	// the encoder must strip them per spec.md §4.3.
	registrantFrag := ""
	if cr.Registrant != "" && !forbidsRegistrant(features.Errata) {
		registrantFrag = fmt.Sprintf("<domain:registrant>%s</domain:registrant>", xmlEscape(cr.Registrant))
	}

	period := ClampPeriod(cr.Period)
	action := fmt.Sprintf(
		`<create><domain:create xmlns:domain="%s"><domain:name>%s</domain:name><domain:period unit="y">%d</domain:period>%s%s<domain:authInfo><domain:pw>%s</domain:pw></domain:authInfo></domain:create></create>`,
		domainNS, xmlEscape(cr.Name), period, nsFrag, registrantFrag, xmlEscape(cr.AuthInfo),
	)

	var extensions []string
	if cr.Fee != nil {
		feeURI := negotiateFeeExtension(features)
		if feeURI == "" {
			return wire.CommandRecord{}, nil, errors.Unsupported("fee extension requested but not advertised by server")
		}
		extensions = append(extensions, encodeFeeCheck(feeURI, *cr.Fee))
	}

	return wire.CommandRecord{Action: action, Extensions: extensions}, decodeDomainCreate, nil
}

// forbidsRegistrant reports whether errata marks this registry as one that
// rejects registrant fields on domain create/update (spec.md §4.3).
func forbidsRegistrant(errata string) bool {
	switch errata {
	case "nominet-uk":
		return true
	default:
		return false
	}
}

type domainCreDataXML struct {
	Name   string `xml:"name"`
	CrDate string `xml:"crDate"`
	ExDate string `xml:"exDate"`
}

func decodeDomainCreate(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data domainCreDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed domain create response: " + err.Error())
	}
	return DomainCreateResponse{Name: data.Name, CrDate: data.CrDate, ExDate: data.ExDate}, nil
}

// --- Update ---

type DomainUpdateRequest struct {
	Name        string
	AddNS       []string
	RemNS       []string
	Registrant  string
}

func (DomainUpdateRequest) CommandName() string { return "domain:update" }

type DomainUpdateResponse struct{}

func encodeDomainUpdate(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	ur := req.(DomainUpdateRequest)
	if err := requireObject(features, domainNS, "domain object"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	if err := ValidateDomainName(ur.Name); err != nil {
		return wire.CommandRecord{}, nil, err
	}

	add, rem := "", ""
	if len(ur.AddNS) > 0 {
		var b strings.Builder
		for _, n := range ur.AddNS {
			fmt.Fprintf(&b, "<domain:hostObj>%s</domain:hostObj>", xmlEscape(n))
		}
		add = fmt.Sprintf("<domain:add><domain:ns>%s</domain:ns></domain:add>", b.String())
	}
	if len(ur.RemNS) > 0 {
		var b strings.Builder
		for _, n := range ur.RemNS {
			fmt.Fprintf(&b, "<domain:hostObj>%s</domain:hostObj>", xmlEscape(n))
		}
		rem = fmt.Sprintf("<domain:rem><domain:ns>%s</domain:ns></domain:rem>", b.String())
	}

	chg := ""
	if ur.Registrant != "" && !forbidsRegistrant(features.Errata) {
		chg = fmt.Sprintf("<domain:chg><domain:registrant>%s</domain:registrant></domain:chg>", xmlEscape(ur.Registrant))
	}

	action := fmt.Sprintf(
		`<update><domain:update xmlns:domain="%s"><domain:name>%s</domain:name>%s%s%s</domain:update></update>`,
		domainNS, xmlEscape(ur.Name), add, rem, chg,
	)
	return wire.CommandRecord{Action: action}, decodeDomainUpdate, nil
}

func decodeDomainUpdate(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	return DomainUpdateResponse{}, nil
}

// --- Renew ---

type DomainRenewRequest struct {
	Name       string
	CurExpDate string
	Period     int
}

func (DomainRenewRequest) CommandName() string { return "domain:renew" }

type DomainRenewResponse struct {
	Name   string
	ExDate string
}

func encodeDomainRenew(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	rr := req.(DomainRenewRequest)
	if err := requireObject(features, domainNS, "domain object"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	if err := ValidateDomainName(rr.Name); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	action := fmt.Sprintf(
		`<renew><domain:renew xmlns:domain="%s"><domain:name>%s</domain:name><domain:curExpDate>%s</domain:curExpDate><domain:period unit="y">%d</domain:period></domain:renew></renew>`,
		domainNS, xmlEscape(rr.Name), xmlEscape(rr.CurExpDate), ClampPeriod(rr.Period),
	)
	return wire.CommandRecord{Action: action}, decodeDomainRenew, nil
}

func decodeDomainRenew(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data domainCreDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed domain renew response: " + err.Error())
	}
	return DomainRenewResponse{Name: data.Name, ExDate: data.ExDate}, nil
}

// --- Delete ---

type DomainDeleteRequest struct {
	Name string
}

func (DomainDeleteRequest) CommandName() string { return "domain:delete" }

type DomainDeleteResponse struct{}

func encodeDomainDelete(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	dr := req.(DomainDeleteRequest)
	if err := requireObject(features, domainNS, "domain object"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	if err := ValidateDomainName(dr.Name); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	action := fmt.Sprintf(
		`<delete><domain:delete xmlns:domain="%s"><domain:name>%s</domain:name></domain:delete></delete>`,
		domainNS, xmlEscape(dr.Name),
	)
	return wire.CommandRecord{Action: action}, decodeDomainDelete, nil
}

func decodeDomainDelete(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	return DomainDeleteResponse{}, nil
}

// --- Transfer ---

// TransferOp enumerates the transfer sub-operations of spec.md §4.3:
// query, request, cancel, accept, reject.
type TransferOp string

const (
	TransferQuery   TransferOp = "query"
	TransferRequest TransferOp = "request"
	TransferCancel  TransferOp = "cancel"
	TransferAccept  TransferOp = "approve"
	TransferReject  TransferOp = "reject"
)

type DomainTransferRequest struct {
	Op       TransferOp
	Name     string
	Period   int
	AuthInfo string
}

func (DomainTransferRequest) CommandName() string { return "domain:transfer" }

type DomainTransferResponse struct {
	Name       string
	TrStatus   string
	ReID       string
	ReDate     string
	AcID       string
	AcDate     string
	ExDate     string
}

func encodeDomainTransfer(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	tr := req.(DomainTransferRequest)
	if err := requireObject(features, domainNS, "domain object"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	if err := ValidateDomainName(tr.Name); err != nil {
		return wire.CommandRecord{}, nil, err
	}

	periodFrag := ""
	authFrag := ""
	if tr.Op == TransferRequest {
		periodFrag = fmt.Sprintf(`<domain:period unit="y">%d</domain:period>`, ClampPeriod(tr.Period))
	}
	if tr.AuthInfo != "" {
		authFrag = fmt.Sprintf(`<domain:authInfo><domain:pw>%s</domain:pw></domain:authInfo>`, xmlEscape(tr.AuthInfo))
	}

	action := fmt.Sprintf(
		`<transfer op="%s"><domain:transfer xmlns:domain="%s"><domain:name>%s</domain:name>%s%s</domain:transfer></transfer>`,
		tr.Op, domainNS, xmlEscape(tr.Name), periodFrag, authFrag,
	)
	return wire.CommandRecord{Action: action}, decodeDomainTransfer, nil
}

type domainTrnDataXML struct {
	Name     string `xml:"name"`
	TrStatus string `xml:"trStatus"`
	ReID     string `xml:"reID"`
	ReDate   string `xml:"reDate"`
	AcID     string `xml:"acID"`
	AcDate   string `xml:"acDate"`
	ExDate   string `xml:"exDate"`
}

func decodeDomainTransfer(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data domainTrnDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed domain transfer response: " + err.Error())
	}
	return DomainTransferResponse{
		Name: data.Name, TrStatus: data.TrStatus, ReID: data.ReID, ReDate: data.ReDate,
		AcID: data.AcID, AcDate: data.AcDate, ExDate: data.ExDate,
	}, nil
}

// --- Claims / trademark check ---

type DomainClaimsCheckRequest struct {
	Names []string
}

func (DomainClaimsCheckRequest) CommandName() string { return "domain:claimsCheck" }

type DomainClaimsResult struct {
	Name   string
	Claims bool
}

type DomainClaimsCheckResponse struct {
	Results []DomainClaimsResult
}

func encodeDomainClaimsCheck(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	cr := req.(DomainClaimsCheckRequest)
	if err := requireExtension(features, feature.ExtLaunch, "launch claims check"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	for _, n := range cr.Names {
		if err := ValidateDomainName(n); err != nil {
			return wire.CommandRecord{}, nil, err
		}
	}
	var names strings.Builder
	for _, n := range cr.Names {
		fmt.Fprintf(&names, "<launch:name>%s</launch:name>", xmlEscape(n))
	}
	action := fmt.Sprintf(
		`<check><launch:check xmlns:launch="%s" type="claims">%s</launch:check></check>`,
		feature.ExtLaunch, names.String(),
	)
	return wire.CommandRecord{Action: action}, decodeDomainClaimsCheck, nil
}

type launchChkDataXML struct {
	CD []struct {
		Name struct {
			Value  string `xml:",chardata"`
			Exists int    `xml:"exists,attr"`
		} `xml:"name"`
	} `xml:"cd"`
}

func decodeDomainClaimsCheck(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data launchChkDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed launch claims check response: " + err.Error())
	}
	out := DomainClaimsCheckResponse{}
	for _, cd := range data.CD {
		out.Results = append(out.Results, DomainClaimsResult{Name: cd.Name.Value, Claims: cd.Name.Exists == 1})
	}
	return out, nil
}

func xmlEscape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}
