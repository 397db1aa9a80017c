package registry

import (
	"fmt"
	"strings"

	"github.com/eppproxy/eppproxy/internal/correlation"
	"github.com/eppproxy/eppproxy/internal/errors"
	"github.com/eppproxy/eppproxy/internal/feature"
	"github.com/eppproxy/eppproxy/internal/wire"
)

const contactNS = feature.ObjContact

func registerContactOps(r *Registry) {
	r.register("contact:check", encodeContactCheck)
	r.register("contact:info", encodeContactInfo)
	r.register("contact:create", encodeContactCreate)
	r.register("contact:delete", encodeContactDelete)
	r.register("contact:update", encodeContactUpdate)
	r.register("contact:transfer", encodeContactTransfer)
}

type ContactCheckRequest struct{ IDs []string }

func (ContactCheckRequest) CommandName() string { return "contact:check" }

type ContactCheckResult struct {
	ID        string
	Available bool
	Reason    string
}

type ContactCheckResponse struct{ Results []ContactCheckResult }

func encodeContactCheck(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	cr := req.(ContactCheckRequest)
	if err := requireObject(features, contactNS, "contact object"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	for _, id := range cr.IDs {
		if err := ValidateContactID(id); err != nil {
			return wire.CommandRecord{}, nil, err
		}
	}
	var ids strings.Builder
	for _, id := range cr.IDs {
		fmt.Fprintf(&ids, "<contact:id>%s</contact:id>", xmlEscape(id))
	}
	action := fmt.Sprintf(`<check><contact:check xmlns:contact="%s">%s</contact:check></check>`, contactNS, ids.String())
	return wire.CommandRecord{Action: action}, decodeContactCheck, nil
}

type contactChkDataXML struct {
	CD []struct {
		ID struct {
			Value string `xml:",chardata"`
			Avail int    `xml:"avail,attr"`
		} `xml:"id"`
		Reason string `xml:"reason"`
	} `xml:"cd"`
}

func decodeContactCheck(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data contactChkDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed contact check response: " + err.Error())
	}
	out := ContactCheckResponse{}
	for _, cd := range data.CD {
		out.Results = append(out.Results, ContactCheckResult{ID: cd.ID.Value, Available: cd.ID.Avail == 1, Reason: cd.Reason})
	}
	return out, nil
}

type ContactInfoRequest struct {
	ID       string
	AuthInfo string
}

func (ContactInfoRequest) CommandName() string { return "contact:info" }

type ContactInfoResponse struct {
	ID     string
	ROID   string
	Status []string
	Voice  string
	Email  string
	ClID   string
}

func encodeContactInfo(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	ir := req.(ContactInfoRequest)
	if err := requireObject(features, contactNS, "contact object"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	if err := ValidateContactID(ir.ID); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	authFrag := ""
	if ir.AuthInfo != "" {
		authFrag = fmt.Sprintf(`<contact:authInfo><contact:pw>%s</contact:pw></contact:authInfo>`, xmlEscape(ir.AuthInfo))
	}
	action := fmt.Sprintf(
		`<info><contact:info xmlns:contact="%s"><contact:id>%s</contact:id>%s</contact:info></info>`,
		contactNS, xmlEscape(ir.ID), authFrag,
	)
	return wire.CommandRecord{Action: action}, decodeContactInfo, nil
}

type contactInfDataXML struct {
	ID     string `xml:"id"`
	ROID   string `xml:"roid"`
	Status []struct {
		S string `xml:"s,attr"`
	} `xml:"status"`
	Voice string `xml:"voice"`
	Email string `xml:"email"`
	ClID  string `xml:"clID"`
}

func decodeContactInfo(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data contactInfDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed contact info response: " + err.Error())
	}
	out := ContactInfoResponse{ID: data.ID, ROID: data.ROID, Voice: data.Voice, Email: data.Email, ClID: data.ClID}
	for _, s := range data.Status {
		out.Status = append(out.Status, s.S)
	}
	return out, nil
}

type ContactCreateRequest struct {
	ID       string
	Email    string
	Voice    string
	AuthInfo string
}

func (ContactCreateRequest) CommandName() string { return "contact:create" }

type ContactCreateResponse struct {
	ID     string
	CrDate string
}

func encodeContactCreate(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	cr := req.(ContactCreateRequest)
	if err := requireObject(features, contactNS, "contact object"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	if err := ValidateContactID(cr.ID); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	if err := ValidateAuthInfo(cr.AuthInfo); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	action := fmt.Sprintf(
		`<create><contact:create xmlns:contact="%s"><contact:id>%s</contact:id><contact:email>%s</contact:email><contact:voice>%s</contact:voice><contact:authInfo><contact:pw>%s</contact:pw></contact:authInfo></contact:create></create>`,
		contactNS, xmlEscape(cr.ID), xmlEscape(cr.Email), xmlEscape(cr.Voice), xmlEscape(cr.AuthInfo),
	)
	return wire.CommandRecord{Action: action}, decodeContactCreate, nil
}

type contactCreDataXML struct {
	ID     string `xml:"id"`
	CrDate string `xml:"crDate"`
}

func decodeContactCreate(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data contactCreDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed contact create response: " + err.Error())
	}
	return ContactCreateResponse{ID: data.ID, CrDate: data.CrDate}, nil
}

type ContactDeleteRequest struct{ ID string }

func (ContactDeleteRequest) CommandName() string { return "contact:delete" }

type ContactDeleteResponse struct{}

func encodeContactDelete(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	dr := req.(ContactDeleteRequest)
	if err := requireObject(features, contactNS, "contact object"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	action := fmt.Sprintf(`<delete><contact:delete xmlns:contact="%s"><contact:id>%s</contact:id></contact:delete></delete>`, contactNS, xmlEscape(dr.ID))
	return wire.CommandRecord{Action: action}, decodeContactDelete, nil
}

func decodeContactDelete(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	return ContactDeleteResponse{}, nil
}

type ContactUpdateRequest struct {
	ID       string
	Email    string
	Voice    string
}

func (ContactUpdateRequest) CommandName() string { return "contact:update" }

type ContactUpdateResponse struct{}

func encodeContactUpdate(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	ur := req.(ContactUpdateRequest)
	if err := requireObject(features, contactNS, "contact object"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	chgFields := ""
	if ur.Email != "" {
		chgFields += fmt.Sprintf("<contact:email>%s</contact:email>", xmlEscape(ur.Email))
	}
	if ur.Voice != "" {
		chgFields += fmt.Sprintf("<contact:voice>%s</contact:voice>", xmlEscape(ur.Voice))
	}
	chg := ""
	if chgFields != "" {
		chg = fmt.Sprintf("<contact:chg>%s</contact:chg>", chgFields)
	}
	action := fmt.Sprintf(
		`<update><contact:update xmlns:contact="%s"><contact:id>%s</contact:id>%s</contact:update></update>`,
		contactNS, xmlEscape(ur.ID), chg,
	)
	return wire.CommandRecord{Action: action}, decodeContactUpdate, nil
}

func decodeContactUpdate(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	return ContactUpdateResponse{}, nil
}

type ContactTransferRequest struct {
	Op       TransferOp
	ID       string
	AuthInfo string
}

func (ContactTransferRequest) CommandName() string { return "contact:transfer" }

type ContactTransferResponse struct {
	ID       string
	TrStatus string
	ReID     string
	ReDate   string
}

func encodeContactTransfer(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	tr := req.(ContactTransferRequest)
	if err := requireObject(features, contactNS, "contact object"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	authFrag := ""
	if tr.AuthInfo != "" {
		authFrag = fmt.Sprintf(`<contact:authInfo><contact:pw>%s</contact:pw></contact:authInfo>`, xmlEscape(tr.AuthInfo))
	}
	action := fmt.Sprintf(
		`<transfer op="%s"><contact:transfer xmlns:contact="%s"><contact:id>%s</contact:id>%s</contact:transfer></transfer>`,
		tr.Op, contactNS, xmlEscape(tr.ID), authFrag,
	)
	return wire.CommandRecord{Action: action}, decodeContactTransfer, nil
}

type contactTrnDataXML struct {
	ID       string `xml:"id"`
	TrStatus string `xml:"trStatus"`
	ReID     string `xml:"reID"`
	ReDate   string `xml:"reDate"`
}

func decodeContactTransfer(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data contactTrnDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed contact transfer response: " + err.Error())
	}
	return ContactTransferResponse{ID: data.ID, TrStatus: data.TrStatus, ReID: data.ReID, ReDate: data.ReDate}, nil
}
