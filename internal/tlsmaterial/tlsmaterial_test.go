package tlsmaterial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPlainTrust(t *testing.T) {
	cfg, err := Build(TrustConfig{ServerNameOverride: "epp.example.com"}, nil)
	require.NoError(t, err)
	require.Equal(t, "epp.example.com", cfg.ServerName)
	require.Nil(t, cfg.Certificates)
}

func TestBuildInsecureRequiresDangerFlag(t *testing.T) {
	_, err := Build(TrustConfig{InsecureSkipVerify: true}, nil)
	require.Error(t, err)

	cfg, err := Build(TrustConfig{InsecureSkipVerify: true, DangerAllowInsecure: true}, nil)
	require.NoError(t, err)
	require.True(t, cfg.InsecureSkipVerify)
}

func TestBuildMissingRootCAFile(t *testing.T) {
	_, err := Build(TrustConfig{RootCAFiles: []string{"/nonexistent/ca.pem"}}, nil)
	require.Error(t, err)
}

func TestBuildClientCertRequiresSource(t *testing.T) {
	_, err := Build(TrustConfig{}, &ClientCertSource{})
	require.Error(t, err)
}

func TestFileSignerUnknownKey(t *testing.T) {
	s := NewFileSigner()
	_, err := s.Sign("missing", []byte("digest"), SignOpts{})
	require.Error(t, err)
	_, err = s.Public("missing")
	require.Error(t, err)
}
