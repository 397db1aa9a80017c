package eppgrpc

import "github.com/eppproxy/eppproxy/internal/registry"

// commandDesc pairs a gRPC method name with a constructor for the concrete
// registry.Request it carries, so the shared unary handler can decode a
// command's JSON payload into the right type before calling the facade.
// One entry per spec.md §4.3 operation, excluding poll:req/poll:ack, which
// are exposed only through PollStream.
type commandDesc struct {
	method  string
	factory func() registry.Request
}

var commands = []commandDesc{
	{"BalanceInfo", func() registry.Request { return &registry.BalanceInfoRequest{} }},

	{"ContactCheck", func() registry.Request { return &registry.ContactCheckRequest{} }},
	{"ContactInfo", func() registry.Request { return &registry.ContactInfoRequest{} }},
	{"ContactCreate", func() registry.Request { return &registry.ContactCreateRequest{} }},
	{"ContactDelete", func() registry.Request { return &registry.ContactDeleteRequest{} }},
	{"ContactUpdate", func() registry.Request { return &registry.ContactUpdateRequest{} }},
	{"ContactTransfer", func() registry.Request { return &registry.ContactTransferRequest{} }},

	{"DACDomainCheck", func() registry.Request { return &registry.DACDomainCheckRequest{} }},
	{"DACUsage", func() registry.Request { return &registry.DACUsageRequest{} }},
	{"DACLimits", func() registry.Request { return &registry.DACLimitsRequest{} }},

	{"DomainCheck", func() registry.Request { return &registry.DomainCheckRequest{} }},
	{"DomainInfo", func() registry.Request { return &registry.DomainInfoRequest{} }},
	{"DomainCreate", func() registry.Request { return &registry.DomainCreateRequest{} }},
	{"DomainUpdate", func() registry.Request { return &registry.DomainUpdateRequest{} }},
	{"DomainRenew", func() registry.Request { return &registry.DomainRenewRequest{} }},
	{"DomainDelete", func() registry.Request { return &registry.DomainDeleteRequest{} }},
	{"DomainTransfer", func() registry.Request { return &registry.DomainTransferRequest{} }},
	{"DomainClaimsCheck", func() registry.Request { return &registry.DomainClaimsCheckRequest{} }},

	{"EuridHitpoints", func() registry.Request { return &registry.EuridHitpointsRequest{} }},
	{"EuridRegistrationLimit", func() registry.Request { return &registry.EuridRegistrationLimitRequest{} }},
	{"EuridDNSQuality", func() registry.Request { return &registry.EuridDNSQualityRequest{} }},
	{"EuridDNSSECEligibility", func() registry.Request { return &registry.EuridDNSSECEligibilityRequest{} }},

	{"HostCheck", func() registry.Request { return &registry.HostCheckRequest{} }},
	{"HostInfo", func() registry.Request { return &registry.HostInfoRequest{} }},
	{"HostCreate", func() registry.Request { return &registry.HostCreateRequest{} }},
	{"HostDelete", func() registry.Request { return &registry.HostDeleteRequest{} }},
	{"HostUpdate", func() registry.Request { return &registry.HostUpdateRequest{} }},

	{"Logout", func() registry.Request { return &registry.LogoutRequest{} }},

	{"MaintenanceList", func() registry.Request { return &registry.MaintenanceListRequest{} }},
	{"MaintenanceInfo", func() registry.Request { return &registry.MaintenanceInfoRequest{} }},

	{"MarkCheck", func() registry.Request { return &registry.MarkCheckRequest{} }},
	{"MarkCreate", func() registry.Request { return &registry.MarkCreateRequest{} }},
	{"MarkInfo", func() registry.Request { return &registry.MarkInfoRequest{} }},
	{"MarkSMDInfo", func() registry.Request { return &registry.MarkSMDInfoRequest{} }},
	{"MarkUpdate", func() registry.Request { return &registry.MarkUpdateRequest{} }},
	{"MarkRenew", func() registry.Request { return &registry.MarkRenewRequest{} }},
	{"MarkTransferInitiate", func() registry.Request { return &registry.MarkTransferInitiateRequest{} }},
	{"MarkTransferExecute", func() registry.Request { return &registry.MarkTransferExecuteRequest{} }},

	{"NominetTagList", func() registry.Request { return &registry.NominetTagListRequest{} }},
	{"NominetHandshake", func() registry.Request { return &registry.NominetHandshakeRequest{} }},
	{"NominetRelease", func() registry.Request { return &registry.NominetReleaseRequest{} }},
	{"NominetLock", func() registry.Request { return &registry.NominetLockRequest{} }},
	{"NominetUnlock", func() registry.Request { return &registry.NominetUnlockRequest{} }},

	{"RGPRestoreRequest", func() registry.Request { return &registry.RGPRestoreRequest{} }},
	{"RGPRestoreReport", func() registry.Request { return &registry.RGPRestoreReport{} }},
}
