package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// IncludeFlags is a set over the asset categories of a library that may flow to a consumer.
type IncludeFlags uint16

// Individual asset categories.
const (
	IncludeRuntime IncludeFlags = 1 << iota
	IncludeCompile
	IncludeBuild
	IncludeNative
	IncludeContentFiles
	IncludeAnalyzers
	IncludeBuildTransitive
)

// Derived sets.
const (
	IncludeNone      IncludeFlags = 0
	IncludeAll                    = IncludeRuntime | IncludeCompile | IncludeBuild | IncludeNative | IncludeContentFiles | IncludeAnalyzers | IncludeBuildTransitive
	IncludeNoContent              = IncludeAll &^ IncludeContentFiles
)

// DefaultSuppressParent is the suppressParent value applied when a dependency does not declare one.
const DefaultSuppressParent = IncludeContentFiles | IncludeBuild | IncludeAnalyzers

var flagNames = []struct {
	flag IncludeFlags
	name string
}{
	{IncludeRuntime, "Runtime"},
	{IncludeCompile, "Compile"},
	{IncludeBuild, "Build"},
	{IncludeNative, "Native"},
	{IncludeContentFiles, "ContentFiles"},
	{IncludeAnalyzers, "Analyzers"},
	{IncludeBuildTransitive, "BuildTransitive"},
}

// Intersect returns the flags present in both f and other.
func (f IncludeFlags) Intersect(other IncludeFlags) IncludeFlags {
	return f & other
}

// Union returns the flags present in either f or other.
func (f IncludeFlags) Union(other IncludeFlags) IncludeFlags {
	return f | other
}

// Except returns f with every flag of other removed.
func (f IncludeFlags) Except(other IncludeFlags) IncludeFlags {
	return f &^ other
}

// Has reports whether every flag of other is present in f.
func (f IncludeFlags) Has(other IncludeFlags) bool {
	return f&other == other
}

// HasAny reports whether at least one flag of other is present in f.
func (f IncludeFlags) HasAny(other IncludeFlags) bool {
	return f&other != 0
}

// String renders the flags in their canonical textual form, e.g. "Runtime, Compile".
func (f IncludeFlags) String() string {
	switch f & IncludeAll {
	case IncludeAll:
		return "All"
	case IncludeNone:
		return "None"
	}

	parts := make([]string, 0, len(flagNames))
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, ", ")
}

// MarshalText implements encoding.TextMarshaler.
func (f IncludeFlags) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *IncludeFlags) UnmarshalText(text []byte) error {
	parsed, err := ParseIncludeFlags(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseIncludeFlags parses a comma or semicolon separated list of flag names.
// Names are case-insensitive. "All", "None" and "NoContent" are accepted as set names.
// An empty string yields IncludeNone.
func ParseIncludeFlags(s string) (IncludeFlags, error) {
	var result IncludeFlags
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	for _, field := range fields {
		name := strings.TrimSpace(field)
		if name == "" {
			continue
		}
		flag, ok := lookupFlag(name)
		if !ok {
			return IncludeNone, zerr.With(ErrInvalidIncludeFlags, "flag", name)
		}
		result |= flag
	}
	return result, nil
}

func lookupFlag(name string) (IncludeFlags, bool) {
	switch {
	case strings.EqualFold(name, "All"):
		return IncludeAll, true
	case strings.EqualFold(name, "None"):
		return IncludeNone, true
	case strings.EqualFold(name, "NoContent"):
		return IncludeNoContent, true
	}
	for _, fn := range flagNames {
		if strings.EqualFold(name, fn.name) {
			return fn.flag, true
		}
	}
	return IncludeNone, false
}
