package router

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeHandle struct{ id string }

func (f *fakeHandle) RegistryID() string { return f.id }

func TestClientByIDDirectLookup(t *testing.T) {
	r := New()
	h := &fakeHandle{id: "verisign"}
	r.RegisterID("verisign", h)

	got, ok := r.ClientByID("verisign")
	require.True(t, ok)
	require.Same(t, h, got)

	_, ok = r.ClientByID("missing")
	require.False(t, ok)
}

func TestClientByDomainLongestSuffix(t *testing.T) {
	r := New()
	ukHandle := &fakeHandle{id: "uk-registry"}
	coUkHandle := &fakeHandle{id: "co-uk-registry"}
	r.RegisterZone("uk", ukHandle, "uk-registry")
	r.RegisterZone("co.uk", coUkHandle, "co-uk-registry")

	handle, registryID, ok := r.ClientByDomain("www.example.co.uk")
	require.True(t, ok)
	require.Same(t, coUkHandle, handle)
	require.Equal(t, "co-uk-registry", registryID)

	handle, _, ok = r.ClientByDomain("example.org.uk")
	require.True(t, ok)
	require.Same(t, ukHandle, handle)
}

func TestClientByDomainCaseInsensitive(t *testing.T) {
	r := New()
	h := &fakeHandle{id: "example"}
	r.RegisterZone("Example", h, "example")

	_, _, ok := r.ClientByDomain("FOO.EXAMPLE")
	require.True(t, ok)
}

func TestClientByDomainNoMatch(t *testing.T) {
	r := New()
	r.RegisterZone("example", &fakeHandle{id: "e"}, "e")

	_, _, ok := r.ClientByDomain("foo.org")
	require.False(t, ok)
}

func TestRegisterZoneOverwrites(t *testing.T) {
	r := New()
	first := &fakeHandle{id: "first"}
	second := &fakeHandle{id: "second"}
	r.RegisterZone("example", first, "first")
	r.RegisterZone("example", second, "second")

	handle, registryID, ok := r.ClientByDomain("example")
	require.True(t, ok)
	require.Same(t, second, handle)
	require.Equal(t, "second", registryID)
}
