package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// Framework identifiers.
const (
	FrameworkNET         = ".NETFramework"
	FrameworkNETStandard = ".NETStandard"
	FrameworkNETCoreApp  = ".NETCoreApp"
	FrameworkNETCore     = ".NETCore"
	FrameworkDNXCore     = "DNXCore"
	FrameworkPortable    = ".NETPortable"
	FrameworkUAP         = "UAP"
	FrameworkNETPlatform = ".NETPlatform"
	FrameworkAny         = "Any"
	FrameworkUnsupported = "Unsupported"
)

// Framework identifies a target framework: an identifier, a version and an optional profile.
// The zero value is not a valid framework; use AnyFramework for the wildcard.
type Framework struct {
	Identifier string
	Version    Version
	Profile    string
}

// AnyFramework matches every target.
var AnyFramework = Framework{Identifier: FrameworkAny}

// UnsupportedFramework marks a target that could not be determined.
var UnsupportedFramework = Framework{Identifier: FrameworkUnsupported}

var shortPrefixes = []struct {
	prefix     string
	identifier string
	dotted     bool
}{
	{"netstandard", FrameworkNETStandard, true},
	{"netcoreapp", FrameworkNETCoreApp, true},
	{"netcore", FrameworkNETCore, false},
	{"dnxcore", FrameworkDNXCore, false},
	{"dotnet", FrameworkNETPlatform, true},
	{"uap", FrameworkUAP, true},
	{"net", FrameworkNET, false},
}

// ParseFramework parses a short folder name such as "net45", "net461", "netstandard2.0",
// "netcoreapp3.1", "net8.0", "dnxcore50", "portable-net45+win8", "net40-client" or "any".
func ParseFramework(s string) (Framework, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "":
		return Framework{}, zerr.With(ErrInvalidFramework, "framework", s)
	case "any":
		return AnyFramework, nil
	case "unsupported":
		return UnsupportedFramework, nil
	}

	if profile, ok := strings.CutPrefix(name, "portable-"); ok {
		if profile == "" {
			return Framework{}, zerr.With(ErrInvalidFramework, "framework", s)
		}
		return Framework{Identifier: FrameworkPortable, Profile: profile}, nil
	}

	for _, sp := range shortPrefixes {
		rest, ok := strings.CutPrefix(name, sp.prefix)
		if !ok {
			continue
		}

		var profile string
		if idx := strings.IndexByte(rest, '-'); idx >= 0 {
			rest, profile = rest[:idx], rest[idx+1:]
		}

		v, err := parseFrameworkVersion(rest)
		if err != nil {
			return Framework{}, zerr.With(ErrInvalidFramework, "framework", s)
		}

		id := sp.identifier
		// "net5.0" and later are the dotted continuation of .NETCoreApp.
		if id == FrameworkNET && strings.Contains(rest, ".") && v.Major >= 5 {
			id = FrameworkNETCoreApp
		}
		return Framework{Identifier: id, Version: v, Profile: profile}, nil
	}

	return Framework{}, zerr.With(ErrInvalidFramework, "framework", s)
}

// MustParseFramework is like ParseFramework but panics on error.
func MustParseFramework(s string) Framework {
	f, err := ParseFramework(s)
	if err != nil {
		panic(err)
	}
	return f
}

func parseFrameworkVersion(s string) (Version, error) {
	if s == "" {
		return Version{}, nil
	}
	if strings.Contains(s, ".") {
		return ParseVersion(s)
	}

	// Compact form: one digit per component, "461" is 4.6.1.
	var nums [4]int
	if len(s) > len(nums) {
		return Version{}, ErrInvalidVersion
	}
	for i, r := range s {
		if r < '0' || r > '9' {
			return Version{}, ErrInvalidVersion
		}
		nums[i] = int(r - '0')
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2], Revision: nums[3]}, nil
}

// IsDesktop reports whether f is the full desktop framework.
func (f Framework) IsDesktop() bool {
	return f.Identifier == FrameworkNET
}

// IsPackageBased reports whether the framework's own libraries are delivered as packages,
// in which case framework assembly references do not apply.
func (f Framework) IsPackageBased() bool {
	switch f.Identifier {
	case FrameworkNETStandard, FrameworkNETCoreApp, FrameworkDNXCore, FrameworkUAP, FrameworkNETPlatform:
		return true
	case FrameworkNETCore:
		return f.Version.Major >= 5
	}
	return false
}

// IsCompileOnly reports whether f only describes a compile surface and has no runtime of its
// own, so restoring it for a runtime identifier is meaningless.
func (f Framework) IsCompileOnly() bool {
	return f.Identifier == FrameworkNETPlatform
}

// IsAny reports whether f is the wildcard framework.
func (f Framework) IsAny() bool {
	return f.Identifier == FrameworkAny
}

// String returns the short folder name of the framework.
func (f Framework) String() string {
	switch f.Identifier {
	case FrameworkAny:
		return "any"
	case FrameworkUnsupported:
		return "unsupported"
	case FrameworkPortable:
		return "portable-" + f.Profile
	case FrameworkNETStandard:
		return "netstandard" + dottedVersion(f.Version)
	case FrameworkNETCoreApp:
		if f.Version.Major >= 5 {
			return "net" + dottedVersion(f.Version)
		}
		return "netcoreapp" + dottedVersion(f.Version)
	case FrameworkUAP:
		return "uap" + dottedVersion(f.Version)
	case FrameworkNETPlatform:
		return "dotnet" + dottedVersion(f.Version)
	}

	prefix := strings.ToLower(strings.TrimPrefix(f.Identifier, "."))
	switch f.Identifier {
	case FrameworkNET:
		prefix = "net"
	case FrameworkNETCore:
		prefix = "netcore"
	case FrameworkDNXCore:
		prefix = "dnxcore"
	}

	s := prefix + compactVersion(f.Version)
	if f.Profile != "" {
		s += "-" + strings.ToLower(f.Profile)
	}
	return s
}

// MarshalText implements encoding.TextMarshaler.
func (f Framework) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Framework) UnmarshalText(text []byte) error {
	parsed, err := ParseFramework(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func dottedVersion(v Version) string {
	s := strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
	if v.Patch > 0 || v.Revision > 0 {
		s += "." + strconv.Itoa(v.Patch)
	}
	if v.Revision > 0 {
		s += "." + strconv.Itoa(v.Revision)
	}
	return s
}

func compactVersion(v Version) string {
	if v.IsZero() {
		return ""
	}
	s := strconv.Itoa(v.Major) + strconv.Itoa(v.Minor)
	if v.Patch > 0 || v.Revision > 0 {
		s += strconv.Itoa(v.Patch)
	}
	if v.Revision > 0 {
		s += strconv.Itoa(v.Revision)
	}
	return s
}

// FrameworkRuntimePair is the unit of restore: one target framework and an optional runtime identifier.
type FrameworkRuntimePair struct {
	Framework Framework
	RuntimeID string
}

// Name returns "framework" or "framework/rid", the key used for lock file targets.
func (p FrameworkRuntimePair) Name() string {
	if p.RuntimeID == "" {
		return p.Framework.String()
	}
	return p.Framework.String() + "/" + p.RuntimeID
}

// String implements fmt.Stringer.
func (p FrameworkRuntimePair) String() string {
	return p.Name()
}

// ComparePairs orders pairs by framework name, then runtime identifier.
func ComparePairs(a, b FrameworkRuntimePair) int {
	if c := strings.Compare(a.Framework.String(), b.Framework.String()); c != 0 {
		return c
	}
	return strings.Compare(a.RuntimeID, b.RuntimeID)
}
