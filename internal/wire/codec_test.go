package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeCommandHello(t *testing.T) {
	out := EncodeCommand(CommandRecord{IsHello: true})
	require.Contains(t, out, "<hello/>")
	require.NotContains(t, out, "<command>")
}

func TestEncodeCommandWithExtensionAndClTRID(t *testing.T) {
	out := EncodeCommand(CommandRecord{
		Action:     `<check><domain:check xmlns:domain="urn:ietf:params:xml:ns:domain-1.0"><domain:name>foo.example</domain:name></domain:check></check>`,
		Extensions: []string{`<fee:check xmlns:fee="urn:ietf:params:xml:ns:fee-0.5"/>`},
		ClTRID:     "abc-123",
	})
	require.Contains(t, out, "<command>")
	require.Contains(t, out, "foo.example")
	require.Contains(t, out, "<extension>")
	require.Contains(t, out, "<clTRID>abc-123</clTRID>")
}

func TestDecodeGreeting(t *testing.T) {
	data := `<?xml version="1.0"?><epp xmlns="urn:ietf:params:xml:ns:epp-1.0">
<greeting><svID>Example EPP server</svID><svDate>2026-07-31T12:00:00Z</svDate>
<svcMenu><version>1.0</version><lang>en</lang>
<objURI>urn:ietf:params:xml:ns:domain-1.0</objURI>
<svcExtension><extURI>urn:ietf:params:xml:ns:rgp-1.0</extURI></svcExtension>
</svcMenu></greeting></epp>`

	kind, g, _, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, KindGreeting, kind)
	require.Equal(t, "Example EPP server", g.ServerID)
	require.Contains(t, g.Versions, "1.0")
	require.Contains(t, g.Languages, "en")
	require.Contains(t, g.ObjURIs, "urn:ietf:params:xml:ns:domain-1.0")
	require.Contains(t, g.ExtURIs, "urn:ietf:params:xml:ns:rgp-1.0")
}

func TestDecodeResponseSuccess(t *testing.T) {
	data := `<?xml version="1.0"?><epp xmlns="urn:ietf:params:xml:ns:epp-1.0">
<response><result code="1000"><msg>Command completed successfully</msg></result>
<resData><domain:chkData xmlns:domain="urn:ietf:params:xml:ns:domain-1.0">
<domain:cd><domain:name avail="1">foo.example</domain:name></domain:cd>
</domain:chkData></resData>
<trID><clTRID>client-1</clTRID><svTRID>server-1</svTRID></trID>
</response></epp>`

	kind, _, resp, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, KindResponse, kind)
	require.Equal(t, 1000, resp.Code())
	require.Equal(t, "client-1", resp.ClTRID)
	require.Equal(t, "server-1", resp.SvTRID)
	require.NotEmpty(t, resp.ResData)
}

func TestDecodeHello(t *testing.T) {
	data := `<epp xmlns="urn:ietf:params:xml:ns:epp-1.0"><hello/></epp>`
	kind, _, _, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, KindHello, kind)
}
