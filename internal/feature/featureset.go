// Package feature implements the per-session Feature Set (C8): which object
// and extension namespaces a registry advertised in its greeting, frozen for
// the life of a login, per spec.md §4.4.
package feature

import "sort"

// Well-known object and extension URIs (spec.md §3, §4.4).
const (
	ObjDomain  = "urn:ietf:params:xml:ns:domain-1.0"
	ObjHost    = "urn:ietf:params:xml:ns:host-1.0"
	ObjContact = "urn:ietf:params:xml:ns:contact-1.0"

	ExtRGP           = "urn:ietf:params:xml:ns:rgp-1.0"
	ExtSecDNS        = "urn:ietf:params:xml:ns:secDNS-1.1"
	ExtLaunch        = "urn:ietf:params:xml:ns:launch-1.0"
	ExtFee05         = "urn:ietf:params:xml:ns:fee-0.5"
	ExtFee07         = "urn:ietf:params:xml:ns:fee-0.7"
	ExtFee08         = "urn:ietf:params:xml:ns:fee-0.8"
	ExtFee09         = "urn:ietf:params:xml:ns:fee-0.9"
	ExtFee011        = "urn:ietf:params:xml:ns:fee-0.11"
	ExtFee10         = "urn:ietf:params:xml:ns:fee-1.0"
	ExtChangePoll    = "urn:ietf:params:xml:ns:changePoll-1.0"
	ExtMaintenance   = "urn:ietf:params:xml:ns:epp:maintenance-1.0"
	ExtLoginSecurity = "urn:ietf:params:xml:ns:epp:loginSec-1.0"

	LangEN   = "en"
	LangENUS = "en-US"
)

// Set records, for every URI the registry could have advertised, whether it
// actually did. It is populated once from the greeting's service menu and
// is read-only for the remainder of the login (spec.md §4.4, §5).
type Set struct {
	objects    map[string]bool
	extensions map[string]bool

	// Language is the negotiated language tag: "en" if advertised, else
	// "en-US", else login fails (spec.md §4.4, testable property 7).
	Language string

	// Errata is an operator-supplied string enabling workarounds for known
	// registry quirks not derivable from advertised URIs (spec.md §4.4).
	Errata string
}

// FromGreeting builds a Set from the object and extension URIs a greeting
// advertised. Language is left empty; the caller negotiates it separately
// with NegotiateLanguage and assigns it, since a failed negotiation closes
// the session before any Set is kept (spec.md §4.6.2).
func FromGreeting(objURIs, extURIs []string, errata string) *Set {
	return &Set{
		objects:    toSet(objURIs),
		extensions: toSet(extURIs),
		Errata:     errata,
	}
}

func toSet(uris []string) map[string]bool {
	m := make(map[string]bool, len(uris))
	for _, u := range uris {
		m[u] = true
	}
	return m
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// NegotiateLanguage applies spec.md §4.4's language rule: prefer en, else
// en-US, else report failure.
func NegotiateLanguage(advertised []string) (lang string, ok bool) {
	if contains(advertised, LangEN) {
		return LangEN, true
	}
	if contains(advertised, LangENUS) {
		return LangENUS, true
	}
	return "", false
}

// HasObject reports whether the registry advertised object namespace uri.
func (s *Set) HasObject(uri string) bool { return s.objects[uri] }

// HasExtension reports whether the registry advertised extension namespace uri.
func (s *Set) HasExtension(uri string) bool { return s.extensions[uri] }

// ObjectURIs returns every advertised object URI the session supports,
// stable-ordered for deterministic login requests.
func (s *Set) ObjectURIs() []string {
	var out []string
	for _, uri := range []string{ObjDomain, ObjHost, ObjContact} {
		if s.objects[uri] {
			out = append(out, uri)
		}
	}
	var rest []string
	for uri := range s.objects {
		if uri != ObjDomain && uri != ObjHost && uri != ObjContact {
			rest = append(rest, uri)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// ExtensionURIs returns every advertised extension URI, sorted for
// deterministic login requests.
func (s *Set) ExtensionURIs() []string {
	out := make([]string, 0, len(s.extensions))
	for uri := range s.extensions {
		out = append(out, uri)
	}
	sort.Strings(out)
	return out
}

// AnyObjectSupported reports whether at least one object namespace was
// advertised (spec.md §4.6.2: "no common object namespace" is a permanent
// login failure otherwise).
func (s *Set) AnyObjectSupported() bool {
	return len(s.objects) > 0
}

// HasVersion reports whether version "1.0" was advertised.
func HasVersion(versions []string) bool {
	return contains(versions, "1.0")
}
