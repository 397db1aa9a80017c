package registry

import (
	"fmt"

	"github.com/eppproxy/eppproxy/internal/correlation"
	"github.com/eppproxy/eppproxy/internal/errors"
	"github.com/eppproxy/eppproxy/internal/feature"
	"github.com/eppproxy/eppproxy/internal/wire"
)

func registerMaintenanceOps(r *Registry) {
	r.register("maintenance:list", encodeMaintenanceList)
	r.register("maintenance:info", encodeMaintenanceInfo)
}

// MaintenanceListRequest lists scheduled registry maintenance windows
// (draft-ietf-regext-epp-maintenance).
type MaintenanceListRequest struct{}

func (MaintenanceListRequest) CommandName() string { return "maintenance:list" }

type MaintenanceItem struct {
	ID       string
	StarTime string
	EndTime  string
}

type MaintenanceListResponse struct {
	Items []MaintenanceItem
}

func encodeMaintenanceList(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	if err := requireExtension(features, feature.ExtMaintenance, "maintenance"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	action := fmt.Sprintf(`<info><maintenance:list xmlns:maintenance="%s"/></info>`, feature.ExtMaintenance)
	return wire.CommandRecord{Action: action}, decodeMaintenanceList, nil
}

type maintenanceListDataXML struct {
	Item []struct {
		ID    string `xml:"id"`
		Start string `xml:"start"`
		End   string `xml:"end"`
	} `xml:"maintenanceList>maintenance"`
}

func decodeMaintenanceList(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data maintenanceListDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed maintenance list response: " + err.Error())
	}
	out := MaintenanceListResponse{}
	for _, it := range data.Item {
		out.Items = append(out.Items, MaintenanceItem{ID: it.ID, StarTime: it.Start, EndTime: it.End})
	}
	return out, nil
}

// MaintenanceInfoRequest fetches full detail for one maintenance id.
type MaintenanceInfoRequest struct {
	ID string
}

func (MaintenanceInfoRequest) CommandName() string { return "maintenance:info" }

type MaintenanceInfoResponse struct {
	ID          string
	Description string
	Systems     []string
	StartTime   string
	EndTime     string
}

func encodeMaintenanceInfo(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	ir := req.(MaintenanceInfoRequest)
	if err := requireExtension(features, feature.ExtMaintenance, "maintenance"); err != nil {
		return wire.CommandRecord{}, nil, err
	}
	action := fmt.Sprintf(
		`<info><maintenance:info xmlns:maintenance="%s"><maintenance:id>%s</maintenance:id></maintenance:info></info>`,
		feature.ExtMaintenance, xmlEscape(ir.ID),
	)
	return wire.CommandRecord{Action: action}, decodeMaintenanceInfo, nil
}

type maintenanceInfDataXML struct {
	ID          string   `xml:"id"`
	Description string   `xml:"description"`
	System      []string `xml:"systems>system"`
	Start       string   `xml:"start"`
	End         string   `xml:"end"`
}

func decodeMaintenanceInfo(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data maintenanceInfDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed maintenance info response: " + err.Error())
	}
	return MaintenanceInfoResponse{
		ID: data.ID, Description: data.Description, Systems: data.System,
		StartTime: data.Start, EndTime: data.End,
	}, nil
}
