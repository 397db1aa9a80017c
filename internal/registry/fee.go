package registry

import (
	"fmt"

	"github.com/eppproxy/eppproxy/internal/feature"
)

// FeeCheck is the caller-supplied fee extension on a check/create/renew/
// transfer/update command, negotiated to whichever fee extension version the
// registry actually advertised (spec.md §3, §4.4: fee 0.5/0.7/0.8/0.9/0.11/1.0).
type FeeCheck struct {
	Currency string
	Command  string
	Period   int
}

// FeeInfo is the decoded fee extension in a response.
type FeeInfo struct {
	Currency string
	Fee      string
	Class    string
}

// feeVersions is checked in preference order: newest first, since a server
// advertising multiple generations of the fee extension should get the most
// capable one.
var feeVersions = []string{
	feature.ExtFee10,
	feature.ExtFee011,
	feature.ExtFee09,
	feature.ExtFee08,
	feature.ExtFee07,
	feature.ExtFee05,
}

// negotiateFeeExtension returns the advertised fee extension URI the
// session should use, or "" if none was advertised.
func negotiateFeeExtension(features *feature.Set) string {
	for _, uri := range feeVersions {
		if features.HasExtension(uri) {
			return uri
		}
	}
	return ""
}

// encodeFeeCheck renders a <fee:check> fragment for the negotiated fee
// extension version. Every fee generation shares the same shape closely
// enough (command/currency/period) that one encoding suffices for this
// proxy's purposes; registry-specific quirks are handled via errata.
func encodeFeeCheck(uri string, fc FeeCheck) string {
	period := ""
	if fc.Period > 0 {
		period = fmt.Sprintf(`<fee:period unit="y">%d</fee:period>`, ClampPeriod(fc.Period))
	}
	return fmt.Sprintf(
		`<fee:check xmlns:fee="%s"><fee:currency>%s</fee:currency><fee:command name="%s">%s</fee:command></fee:check>`,
		uri, fc.Currency, fc.Command, period,
	)
}
