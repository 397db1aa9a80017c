package registry

import (
	"fmt"
	"strings"

	"github.com/eppproxy/eppproxy/internal/correlation"
	"github.com/eppproxy/eppproxy/internal/errors"
	"github.com/eppproxy/eppproxy/internal/feature"
	"github.com/eppproxy/eppproxy/internal/wire"
)

const hostNS = feature.ObjHost

func registerHostOps(r *Registry) {
	r.register("host:check", encodeHostCheck)
	r.register("host:info", encodeHostInfo)
	r.register("host:create", encodeHostCreate)
	r.register("host:delete", encodeHostDelete)
	r.register("host:update", encodeHostUpdate)
}

type HostCheckRequest struct{ Names []string }

func (HostCheckRequest) CommandName() string { return "host:check" }

type HostCheckResult struct {
	Name      string
	Available bool
	Reason    string
}

type HostCheckResponse struct{ Results []HostCheckResult }

func encodeHostCheck(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	cr := req.(HostCheckRequest)
	if err := requireObject(features, hostNS, "host object"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	var names strings.Builder
	for _, n := range cr.Names {
		fmt.Fprintf(&names, "<host:name>%s</host:name>", xmlEscape(n))
	}
	action := fmt.Sprintf(`<check><host:check xmlns:host="%s">%s</host:check></check>`, hostNS, names.String())
	return wire.CommandRecord{Action: action}, decodeHostCheck, nil
}

type hostChkDataXML struct {
	CD []struct {
		Name struct {
			Value string `xml:",chardata"`
			Avail int    `xml:"avail,attr"`
		} `xml:"name"`
		Reason string `xml:"reason"`
	} `xml:"cd"`
}

func decodeHostCheck(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data hostChkDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed host check response: " + err.Error())
	}
	out := HostCheckResponse{}
	for _, cd := range data.CD {
		out.Results = append(out.Results, HostCheckResult{Name: cd.Name.Value, Available: cd.Name.Avail == 1, Reason: cd.Reason})
	}
	return out, nil
}

type HostInfoRequest struct{ Name string }

func (HostInfoRequest) CommandName() string { return "host:info" }

type HostInfoResponse struct {
	Name   string
	ROID   string
	Status []string
	Addrs  []string
	ClID   string
}

func encodeHostInfo(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	ir := req.(HostInfoRequest)
	if err := requireObject(features, hostNS, "host object"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	action := fmt.Sprintf(`<info><host:info xmlns:host="%s"><host:name>%s</host:name></host:info></info>`, hostNS, xmlEscape(ir.Name))
	return wire.CommandRecord{Action: action}, decodeHostInfo, nil
}

type hostInfDataXML struct {
	Name   string `xml:"name"`
	ROID   string `xml:"roid"`
	Status []struct {
		S string `xml:"s,attr"`
	} `xml:"status"`
	Addr []string `xml:"addr"`
	ClID string   `xml:"clID"`
}

func decodeHostInfo(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data hostInfDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed host info response: " + err.Error())
	}
	out := HostInfoResponse{Name: data.Name, ROID: data.ROID, Addrs: data.Addr, ClID: data.ClID}
	for _, s := range data.Status {
		out.Status = append(out.Status, s.S)
	}
	return out, nil
}

type HostCreateRequest struct {
	Name  string
	Addrs []string
}

func (HostCreateRequest) CommandName() string { return "host:create" }

type HostCreateResponse struct {
	Name   string
	CrDate string
}

func encodeHostCreate(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	cr := req.(HostCreateRequest)
	if err := requireObject(features, hostNS, "host object"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	var addrs strings.Builder
	for _, a := range cr.Addrs {
		fmt.Fprintf(&addrs, "<host:addr>%s</host:addr>", xmlEscape(a))
	}
	action := fmt.Sprintf(
		`<create><host:create xmlns:host="%s"><host:name>%s</host:name>%s</host:create></create>`,
		hostNS, xmlEscape(cr.Name), addrs.String(),
	)
	return wire.CommandRecord{Action: action}, decodeHostCreate, nil
}

type hostCreDataXML struct {
	Name   string `xml:"name"`
	CrDate string `xml:"crDate"`
}

func decodeHostCreate(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data hostCreDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed host create response: " + err.Error())
	}
	return HostCreateResponse{Name: data.Name, CrDate: data.CrDate}, nil
}

type HostDeleteRequest struct{ Name string }

func (HostDeleteRequest) CommandName() string { return "host:delete" }

type HostDeleteResponse struct{}

func encodeHostDelete(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	dr := req.(HostDeleteRequest)
	if err := requireObject(features, hostNS, "host object"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	action := fmt.Sprintf(`<delete><host:delete xmlns:host="%s"><host:name>%s</host:name></host:delete></delete>`, hostNS, xmlEscape(dr.Name))
	return wire.CommandRecord{Action: action}, decodeHostDelete, nil
}

func decodeHostDelete(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	return HostDeleteResponse{}, nil
}

type HostUpdateRequest struct {
	Name    string
	AddAddr []string
	RemAddr []string
}

func (HostUpdateRequest) CommandName() string { return "host:update" }

type HostUpdateResponse struct{}

func encodeHostUpdate(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	ur := req.(HostUpdateRequest)
	if err := requireObject(features, hostNS, "host object"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	add, rem := "", ""
	if len(ur.AddAddr) > 0 {
		var b strings.Builder
		for _, a := range ur.AddAddr {
			fmt.Fprintf(&b, "<host:addr>%s</host:addr>", xmlEscape(a))
		}
		add = fmt.Sprintf("<host:add>%s</host:add>", b.String())
	}
	if len(ur.RemAddr) > 0 {
		var b strings.Builder
		for _, a := range ur.RemAddr {
			fmt.Fprintf(&b, "<host:addr>%s</host:addr>", xmlEscape(a))
		}
		rem = fmt.Sprintf("<host:rem>%s</host:rem>", b.String())
	}
	action := fmt.Sprintf(
		`<update><host:update xmlns:host="%s"><host:name>%s</host:name>%s%s</host:update></update>`,
		hostNS, xmlEscape(ur.Name), add, rem,
	)
	return wire.CommandRecord{Action: action}, decodeHostUpdate, nil
}

func decodeHostUpdate(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	return HostUpdateResponse{}, nil
}
