package registry

import (
	"fmt"
	"strings"

	"github.com/eppproxy/eppproxy/internal/correlation"
	"github.com/eppproxy/eppproxy/internal/errors"
	"github.com/eppproxy/eppproxy/internal/feature"
	"github.com/eppproxy/eppproxy/internal/wire"
)

// Mark (trademark clearinghouse) operations piggyback on the launch
// extension object, per the ICANN TMCH draft that feature.ExtLaunch covers
// for claims checks; registration and SMD lookups use the same namespace
// with a different inner element, grounded the same way as
// domain.go's claims check.

func registerMarkOps(r *Registry) {
	r.register("mark:check", encodeMarkCheck)
	r.register("mark:create", encodeMarkCreate)
	r.register("mark:info", encodeMarkInfo)
	r.register("mark:smd-info", encodeMarkSMDInfo)
	r.register("mark:update", encodeMarkUpdate)
	r.register("mark:renew", encodeMarkRenew)
	r.register("mark:transfer-initiate", encodeMarkTransferInitiate)
	r.register("mark:transfer-execute", encodeMarkTransferExecute)
}

type MarkCheckRequest struct {
	Names []string
}

func (MarkCheckRequest) CommandName() string { return "mark:check" }

type MarkCheckResponse struct {
	Results []DomainClaimsResult
}

func encodeMarkCheck(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	cr := req.(MarkCheckRequest)
	if err := requireExtension(features, feature.ExtLaunch, "launch mark check"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	var names strings.Builder
	for _, n := range cr.Names {
		fmt.Fprintf(&names, "<launch:name>%s</launch:name>", xmlEscape(n))
	}
	action := fmt.Sprintf(`<check><launch:check xmlns:launch="%s" type="trademark">%s</launch:check></check>`, feature.ExtLaunch, names.String())
	return wire.CommandRecord{Action: action}, decodeMarkCheck, nil
}

func decodeMarkCheck(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data launchChkDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed mark check response: " + err.Error())
	}
	out := MarkCheckResponse{}
	for _, cd := range data.CD {
		out.Results = append(out.Results, DomainClaimsResult{Name: cd.Name.Value, Claims: cd.Name.Exists == 1})
	}
	return out, nil
}

type MarkCreateRequest struct {
	SMD string // signed mark data, base64, opaque to this proxy
}

func (MarkCreateRequest) CommandName() string { return "mark:create" }

type MarkCreateResponse struct {
	MarkID string
}

func encodeMarkCreate(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	cr := req.(MarkCreateRequest)
	if err := requireExtension(features, feature.ExtLaunch, "launch mark create"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	action := fmt.Sprintf(
		`<create><launch:create xmlns:launch="%s"><launch:phase>claims</launch:phase><mark:smd>%s</mark:smd></launch:create></create>`,
		feature.ExtLaunch, cr.SMD,
	)
	return wire.CommandRecord{Action: action}, decodeMarkCreate, nil
}

type markCreDataXML struct {
	MarkID string `xml:"id"`
}

func decodeMarkCreate(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data markCreDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed mark create response: " + err.Error())
	}
	return MarkCreateResponse{MarkID: data.MarkID}, nil
}

type MarkInfoRequest struct {
	MarkID string
}

func (MarkInfoRequest) CommandName() string { return "mark:info" }

type MarkInfoResponse struct {
	MarkID string
	Label  string
	Status string
}

func encodeMarkInfo(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	ir := req.(MarkInfoRequest)
	action := fmt.Sprintf(`<info><mark:info xmlns:mark="%s"><mark:id>%s</mark:id></mark:info></info>`, feature.ExtLaunch, xmlEscape(ir.MarkID))
	return wire.CommandRecord{Action: action}, decodeMarkInfo, nil
}

type markInfDataXML struct {
	MarkID string `xml:"id"`
	Label  string `xml:"label"`
	Status string `xml:"status"`
}

func decodeMarkInfo(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data markInfDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed mark info response: " + err.Error())
	}
	return MarkInfoResponse{MarkID: data.MarkID, Label: data.Label, Status: data.Status}, nil
}

type MarkSMDInfoRequest struct {
	SMDID string
}

func (MarkSMDInfoRequest) CommandName() string { return "mark:smd-info" }

type MarkSMDInfoResponse struct {
	SMDID      string
	NotAfter   string
	Revoked    bool
}

func encodeMarkSMDInfo(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	sr := req.(MarkSMDInfoRequest)
	action := fmt.Sprintf(`<info><mark:smdInfo xmlns:mark="%s"><mark:smdId>%s</mark:smdId></mark:smdInfo></info>`, feature.ExtLaunch, xmlEscape(sr.SMDID))
	return wire.CommandRecord{Action: action}, decodeMarkSMDInfo, nil
}

type markSMDInfDataXML struct {
	SMDID    string `xml:"smdId"`
	NotAfter string `xml:"notAfter"`
	Revoked  int    `xml:"revoked"`
}

func decodeMarkSMDInfo(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data markSMDInfDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed mark SMD info response: " + err.Error())
	}
	return MarkSMDInfoResponse{SMDID: data.SMDID, NotAfter: data.NotAfter, Revoked: data.Revoked == 1}, nil
}

type MarkUpdateRequest struct {
	MarkID string
	SMD    string
}

func (MarkUpdateRequest) CommandName() string { return "mark:update" }

type MarkUpdateResponse struct{}

func encodeMarkUpdate(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	ur := req.(MarkUpdateRequest)
	action := fmt.Sprintf(
		`<update><mark:update xmlns:mark="%s"><mark:id>%s</mark:id><mark:smd>%s</mark:smd></mark:update></update>`,
		feature.ExtLaunch, xmlEscape(ur.MarkID), ur.SMD,
	)
	return wire.CommandRecord{Action: action}, decodeMarkUpdate, nil
}

func decodeMarkUpdate(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	return MarkUpdateResponse{}, nil
}

type MarkRenewRequest struct {
	MarkID string
}

func (MarkRenewRequest) CommandName() string { return "mark:renew" }

type MarkRenewResponse struct {
	NotAfter string
}

func encodeMarkRenew(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	rr := req.(MarkRenewRequest)
	action := fmt.Sprintf(`<renew><mark:renew xmlns:mark="%s"><mark:id>%s</mark:id></mark:renew></renew>`, feature.ExtLaunch, xmlEscape(rr.MarkID))
	return wire.CommandRecord{Action: action}, decodeMarkRenew, nil
}

type markRenDataXML struct {
	NotAfter string `xml:"notAfter"`
}

func decodeMarkRenew(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data markRenDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed mark renew response: " + err.Error())
	}
	return MarkRenewResponse{NotAfter: data.NotAfter}, nil
}

type MarkTransferInitiateRequest struct {
	MarkID string
}

func (MarkTransferInitiateRequest) CommandName() string { return "mark:transfer-initiate" }

type MarkTransferInitiateResponse struct {
	TransferCode string
}

func encodeMarkTransferInitiate(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	tr := req.(MarkTransferInitiateRequest)
	action := fmt.Sprintf(
		`<transfer op="initiate"><mark:transfer xmlns:mark="%s"><mark:id>%s</mark:id></mark:transfer></transfer>`,
		feature.ExtLaunch, xmlEscape(tr.MarkID),
	)
	return wire.CommandRecord{Action: action}, decodeMarkTransferInitiate, nil
}

type markTrnInitDataXML struct {
	TransferCode string `xml:"transferCode"`
}

func decodeMarkTransferInitiate(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data markTrnInitDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed mark transfer initiate response: " + err.Error())
	}
	return MarkTransferInitiateResponse{TransferCode: data.TransferCode}, nil
}

type MarkTransferExecuteRequest struct {
	MarkID       string
	TransferCode string
}

func (MarkTransferExecuteRequest) CommandName() string { return "mark:transfer-execute" }

type MarkTransferExecuteResponse struct{}

func encodeMarkTransferExecute(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	tr := req.(MarkTransferExecuteRequest)
	action := fmt.Sprintf(
		`<transfer op="execute"><mark:transfer xmlns:mark="%s"><mark:id>%s</mark:id><mark:transferCode>%s</mark:transferCode></mark:transfer></transfer>`,
		feature.ExtLaunch, xmlEscape(tr.MarkID), xmlEscape(tr.TransferCode),
	)
	return wire.CommandRecord{Action: action}, decodeMarkTransferExecute, nil
}

func decodeMarkTransferExecute(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	return MarkTransferExecuteResponse{}, nil
}
