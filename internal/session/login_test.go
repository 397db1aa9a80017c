package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eppproxy/eppproxy/internal/feature"
)

func TestEncodeLoginIncludesCredentialsAndServices(t *testing.T) {
	fset := feature.FromGreeting(
		[]string{feature.ObjDomain, feature.ObjContact},
		[]string{feature.ExtRGP, feature.ExtFee10},
		"",
	)
	fset.Language = feature.LangEN

	rec := encodeLogin("client-1", "s3cret", "", fset)
	require.Contains(t, rec.Action, "<clID>client-1</clID>")
	require.Contains(t, rec.Action, "<pw>s3cret</pw>")
	require.NotContains(t, rec.Action, "<newPW>")
	require.Contains(t, rec.Action, "<lang>en</lang>")
	require.Contains(t, rec.Action, "<objURI>"+feature.ObjDomain+"</objURI>")
	require.Contains(t, rec.Action, "<objURI>"+feature.ObjContact+"</objURI>")
	require.Contains(t, rec.Action, "<extURI>"+feature.ExtRGP+"</extURI>")
}

func TestEncodeLoginIncludesNewPassword(t *testing.T) {
	fset := feature.FromGreeting([]string{feature.ObjDomain}, nil, "")
	fset.Language = feature.LangEN
	rec := encodeLogin("client-1", "old-pw", "new-pw", fset)
	require.Contains(t, rec.Action, "<pw>old-pw</pw>")
	require.Contains(t, rec.Action, "<newPW>new-pw</newPW>")
}

func TestEncodeLoginEscapesCredentials(t *testing.T) {
	fset := feature.FromGreeting([]string{feature.ObjDomain}, nil, "")
	fset.Language = feature.LangEN
	rec := encodeLogin("a&b", `p<w>"'`, "", fset)
	require.Contains(t, rec.Action, "<clID>a&amp;b</clID>")
	require.NotContains(t, rec.Action, `p<w>`)
}

func TestEncodeLoginDefaultsLanguage(t *testing.T) {
	fset := feature.FromGreeting([]string{feature.ObjDomain}, nil, "")
	rec := encodeLogin("c", "p", "", fset)
	require.Contains(t, rec.Action, "<lang>en</lang>")
}
