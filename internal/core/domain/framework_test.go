package domain_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/restore/internal/core/domain"
)

func TestParseFramework(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in         string
		identifier string
		version    string
		str        string
	}{
		{"net45", domain.FrameworkNET, "4.5.0", "net45"},
		{"net461", domain.FrameworkNET, "4.6.1", "net461"},
		{"NET40-Client", domain.FrameworkNET, "4.0.0", "net40-client"},
		{"netstandard2.0", domain.FrameworkNETStandard, "2.0.0", "netstandard2.0"},
		{"netstandard1.3", domain.FrameworkNETStandard, "1.3.0", "netstandard1.3"},
		{"netcoreapp3.1", domain.FrameworkNETCoreApp, "3.1.0", "netcoreapp3.1"},
		{"net8.0", domain.FrameworkNETCoreApp, "8.0.0", "net8.0"},
		{"dnxcore50", domain.FrameworkDNXCore, "5.0.0", "dnxcore50"},
		{"netcore50", domain.FrameworkNETCore, "5.0.0", "netcore50"},
		{"uap10.0", domain.FrameworkUAP, "10.0.0", "uap10.0"},
		{"dotnet5.4", domain.FrameworkNETPlatform, "5.4.0", "dotnet5.4"},
		{"any", domain.FrameworkAny, "0.0.0", "any"},
	}
	for _, tt := range tests {
		f, err := domain.ParseFramework(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.identifier, f.Identifier, tt.in)
		assert.Equal(t, tt.version, f.Version.String(), tt.in)
		assert.Equal(t, tt.str, f.String(), tt.in)
	}

	portable, err := domain.ParseFramework("portable-net45+win8")
	require.NoError(t, err)
	assert.Equal(t, domain.FrameworkPortable, portable.Identifier)
	assert.Equal(t, "portable-net45+win8", portable.String())

	for _, bad := range []string{"", "foo1.0", "netx", "net12345", "portable-"} {
		_, err := domain.ParseFramework(bad)
		require.ErrorContains(t, err, domain.ErrInvalidFramework.Error(), bad)
	}
}

func TestFramework_Classification(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.MustParseFramework("net45").IsDesktop())
	assert.False(t, domain.MustParseFramework("net45").IsPackageBased())
	assert.False(t, domain.MustParseFramework("netstandard1.3").IsDesktop())
	assert.True(t, domain.MustParseFramework("netstandard1.3").IsPackageBased())
	assert.True(t, domain.MustParseFramework("netcore50").IsPackageBased())
	assert.False(t, domain.MustParseFramework("netcore45").IsPackageBased())
	assert.True(t, domain.AnyFramework.IsAny())

	assert.True(t, domain.MustParseFramework("dotnet5.4").IsCompileOnly())
	assert.True(t, domain.MustParseFramework("dotnet5.4").IsPackageBased())
	assert.False(t, domain.MustParseFramework("net45").IsCompileOnly())
	assert.False(t, domain.MustParseFramework("netstandard1.3").IsCompileOnly())
}

func TestFrameworkRuntimePair_Ordering(t *testing.T) {
	t.Parallel()

	pairs := []domain.FrameworkRuntimePair{
		{Framework: domain.MustParseFramework("netstandard1.3"), RuntimeID: "win7-x64"},
		{Framework: domain.MustParseFramework("net45"), RuntimeID: "win7-x86"},
		{Framework: domain.MustParseFramework("netstandard1.3")},
		{Framework: domain.MustParseFramework("net45")},
	}
	slices.SortFunc(pairs, domain.ComparePairs)

	names := make([]string, 0, len(pairs))
	for _, p := range pairs {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"net45", "net45/win7-x86", "netstandard1.3", "netstandard1.3/win7-x64"}, names)
}
