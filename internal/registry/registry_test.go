package registry

import (
	"testing"

	"github.com/eppproxy/eppproxy/internal/feature"
	"github.com/eppproxy/eppproxy/internal/wire"
	"github.com/stretchr/testify/require"
)

func fullFeatureSet() *feature.Set {
	return feature.FromGreeting(
		[]string{feature.ObjDomain, feature.ObjHost, feature.ObjContact},
		[]string{
			feature.ExtRGP, feature.ExtLaunch, feature.ExtFee10,
			feature.ExtMaintenance, feature.ExtChangePoll,
		},
		"",
	)
}

func TestEncodeUnregisteredCommandFails(t *testing.T) {
	r := New()
	_, _, err := r.Encode(fullFeatureSet(), unknownRequest{})
	require.Error(t, err)
}

type unknownRequest struct{}

func (unknownRequest) CommandName() string { return "nonexistent:op" }

func TestEncodeContactCheck(t *testing.T) {
	r := New()
	rec, decode, err := r.Encode(fullFeatureSet(), ContactCheckRequest{IDs: []string{"sh8013"}})
	require.NoError(t, err)
	require.Contains(t, rec.Action, "contact:check")
	require.NotNil(t, decode)
}

func TestEncodeContactCheckRejectsUnsupportedObject(t *testing.T) {
	r := New()
	fs := feature.FromGreeting([]string{feature.ObjDomain}, nil, "")
	_, _, err := r.Encode(fs, ContactCheckRequest{IDs: []string{"sh8013"}})
	require.Error(t, err)
}

func TestEncodeHostCheck(t *testing.T) {
	r := New()
	rec, _, err := r.Encode(fullFeatureSet(), HostCheckRequest{Names: []string{"ns1.example.com"}})
	require.NoError(t, err)
	require.Contains(t, rec.Action, "host:check")
}

func TestEncodeRGPRestoreRequest(t *testing.T) {
	r := New()
	rec, _, err := r.Encode(fullFeatureSet(), RGPRestoreRequest{DomainName: "example.com"})
	require.NoError(t, err)
	require.Contains(t, rec.Extensions[0], `op="request"`)
}

func TestEncodeRGPRequiresExtension(t *testing.T) {
	r := New()
	fs := feature.FromGreeting([]string{feature.ObjDomain}, nil, "")
	_, _, err := r.Encode(fs, RGPRestoreRequest{DomainName: "example.com"})
	require.Error(t, err)
}

func TestEncodePollReqAndAck(t *testing.T) {
	r := New()
	rec, decode, err := r.Encode(fullFeatureSet(), PollReqRequest{})
	require.NoError(t, err)
	require.Contains(t, rec.Action, `op="req"`)
	require.NotNil(t, decode)

	rec, _, err = r.Encode(fullFeatureSet(), PollAckRequest{MsgID: "12345"})
	require.NoError(t, err)
	require.Contains(t, rec.Action, `op="ack"`)
	require.Contains(t, rec.Action, "12345")
}

func TestEncodePollAckRequiresMsgID(t *testing.T) {
	r := New()
	_, _, err := r.Encode(fullFeatureSet(), PollAckRequest{})
	require.Error(t, err)
}

func TestDecodePollReqNoMessage(t *testing.T) {
	resp := &wire.Response{Results: []wire.Result{{Code: 1300}}}
	out, err := decodePollReq(resp)
	require.NoError(t, err)
	msg := out.(PollMessage)
	require.False(t, msg.Present)
}

func TestEncodeLogout(t *testing.T) {
	r := New()
	rec, decode, err := r.Encode(fullFeatureSet(), LogoutRequest{})
	require.NoError(t, err)
	require.Equal(t, `<logout/>`, rec.Action)
	require.NotNil(t, decode)
}

func TestDecodeLogoutAccepts1500(t *testing.T) {
	resp := &wire.Response{Results: []wire.Result{{Code: 1500, Msg: "Command completed successfully; ending session"}}}
	_, err := decodeLogout(resp)
	require.NoError(t, err)
}

func TestEncodeNominetTagList(t *testing.T) {
	r := New()
	rec, _, err := r.Encode(fullFeatureSet(), NominetTagListRequest{})
	require.NoError(t, err)
	require.Contains(t, rec.Action, "std-tag:list")
}

func TestEncodeNominetLockAndUnlock(t *testing.T) {
	r := New()
	rec, _, err := r.Encode(fullFeatureSet(), NominetLockRequest{DomainName: "example.co.uk"})
	require.NoError(t, err)
	require.Contains(t, rec.Action, "<domain:add>")

	rec, _, err = r.Encode(fullFeatureSet(), NominetUnlockRequest{DomainName: "example.co.uk"})
	require.NoError(t, err)
	require.Contains(t, rec.Action, "<domain:rem>")
}

func TestEncodeBalanceInfo(t *testing.T) {
	r := New()
	rec, _, err := r.Encode(fullFeatureSet(), BalanceInfoRequest{})
	require.NoError(t, err)
	require.Contains(t, rec.Action, "poll-req")
}

func TestEncodeMaintenanceOpsRequireExtension(t *testing.T) {
	r := New()
	fs := feature.FromGreeting([]string{feature.ObjDomain}, nil, "")
	_, _, err := r.Encode(fs, MaintenanceListRequest{})
	require.Error(t, err)

	rec, _, err := r.Encode(fullFeatureSet(), MaintenanceInfoRequest{ID: "m-1"})
	require.NoError(t, err)
	require.Contains(t, rec.Action, "m-1")
}

func TestEncodeEuridOps(t *testing.T) {
	r := New()
	_, _, err := r.Encode(fullFeatureSet(), EuridHitpointsRequest{})
	require.NoError(t, err)

	rec, _, err := r.Encode(fullFeatureSet(), EuridDNSQualityRequest{DomainName: "example.eu"})
	require.NoError(t, err)
	require.Contains(t, rec.Action, "example.eu")
}

func TestEncodeMarkCheck(t *testing.T) {
	r := New()
	rec, _, err := r.Encode(fullFeatureSet(), MarkCheckRequest{Names: []string{"example"}})
	require.NoError(t, err)
	require.Contains(t, rec.Action, "trademark")
}

func TestEncodeMarkCheckRequiresLaunch(t *testing.T) {
	r := New()
	fs := feature.FromGreeting([]string{feature.ObjDomain}, nil, "")
	_, _, err := r.Encode(fs, MarkCheckRequest{Names: []string{"example"}})
	require.Error(t, err)
}

func TestEncodeDACDomainCheck(t *testing.T) {
	r := New()
	rec, decode, err := r.Encode(fullFeatureSet(), DACDomainCheckRequest{Names: []string{"example.com"}})
	require.NoError(t, err)
	require.Contains(t, rec.Action, "domain:check")
	require.NotNil(t, decode)
}

func TestDecodeDACDomainCheckMergesExtension(t *testing.T) {
	resp := &wire.Response{
		Results: []wire.Result{{Code: 1000}},
		ResData: []byte(`<chkData><cd><name avail="1">example.com</name></cd></chkData>`),
		ExtData: []byte(`<chkData><cd><name>example.com</name><premium>1</premium><price>150.00</price><currency>USD</currency></cd></chkData>`),
	}
	out, err := decodeDACDomainCheck(resp)
	require.NoError(t, err)
	res := out.(DACDomainCheckResponse)
	require.Len(t, res.Results, 1)
	require.True(t, res.Results[0].Premium)
	require.Equal(t, "150.00", res.Results[0].Price)
}

func TestEncodeDACUsageAndLimits(t *testing.T) {
	r := New()
	_, _, err := r.Encode(fullFeatureSet(), DACUsageRequest{})
	require.NoError(t, err)
	_, _, err = r.Encode(fullFeatureSet(), DACLimitsRequest{})
	require.NoError(t, err)
}
