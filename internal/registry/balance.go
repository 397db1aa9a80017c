package registry

import (
	"github.com/eppproxy/eppproxy/internal/correlation"
	"github.com/eppproxy/eppproxy/internal/errors"
	"github.com/eppproxy/eppproxy/internal/feature"
	"github.com/eppproxy/eppproxy/internal/wire"
)

const balanceExtNS = "http://www.unitedtld.com/epp/finance-1.0"

func registerBalanceOp(r *Registry) {
	r.register("balance:info", encodeBalanceInfo)
}

// BalanceInfoRequest queries the registrar's prepaid account balance, a
// billing extension carried as a bare <poll>-style info command on several
// registries rather than a dedicated object.
type BalanceInfoRequest struct{}

func (BalanceInfoRequest) CommandName() string { return "balance:info" }

type BalanceInfoResponse struct {
	Balance   string
	Currency  string
	CreditLimit string
}

func encodeBalanceInfo(features *feature.Set, req Request) (wire.CommandRecord, correlation.Decoder, error) {
	action := `<info><poll-req xmlns="` + balanceExtNS + `"/></info>`
	return wire.CommandRecord{Action: action}, decodeBalanceInfo, nil
}

type balanceInfDataXML struct {
	CreditLimit string `xml:"creditLimit"`
	Balance     string `xml:"balance"`
	Currency    string `xml:"currency"`
}

func decodeBalanceInfo(resp *wire.Response) (any, error) {
	if err := errors.FromResultCode(resp.Code(), resp.Message()); err != nil {
		return nil, err
	}
	var data balanceInfDataXML
	if err := wire.UnmarshalResData(resp.ResData, &data); err != nil {
		return nil, errors.ServerInternal("malformed balance info response: " + err.Error())
	}
	return BalanceInfoResponse{Balance: data.Balance, Currency: data.Currency, CreditLimit: data.CreditLimit}, nil
}
