package feature

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNegotiateLanguagePrefersEN(t *testing.T) {
	lang, ok := NegotiateLanguage([]string{"fr", "en", "en-US"})
	require.True(t, ok)
	require.Equal(t, LangEN, lang)
}

func TestNegotiateLanguageFallsBackToENUS(t *testing.T) {
	lang, ok := NegotiateLanguage([]string{"fr", "en-US"})
	require.True(t, ok)
	require.Equal(t, LangENUS, lang)
}

func TestNegotiateLanguageFails(t *testing.T) {
	_, ok := NegotiateLanguage([]string{"fr", "de"})
	require.False(t, ok)
}

func TestSetHasObjectAndExtension(t *testing.T) {
	s := FromGreeting([]string{ObjDomain, ObjHost}, []string{ExtRGP, ExtFee05}, "verisign-com")
	require.True(t, s.HasObject(ObjDomain))
	require.True(t, s.HasObject(ObjHost))
	require.False(t, s.HasObject(ObjContact))
	require.True(t, s.HasExtension(ExtRGP))
	require.False(t, s.HasExtension(ExtFee07))
	require.Equal(t, "verisign-com", s.Errata)
	require.True(t, s.AnyObjectSupported())
}

func TestSetAnyObjectSupportedFalse(t *testing.T) {
	s := FromGreeting(nil, nil, "")
	require.False(t, s.AnyObjectSupported())
}
