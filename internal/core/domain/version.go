package domain

import (
	"cmp"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// Version is a package version: up to four numeric components, optional
// dot-separated release labels and optional build metadata.
type Version struct {
	Major    int
	Minor    int
	Patch    int
	Revision int
	Release  string
	Metadata string
}

// NewVersion creates a release version from its numeric components.
func NewVersion(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// ParseVersion parses strings such as "1", "1.2.3", "1.2.3.4", "1.0.0-beta.1" and "1.0.0+sha.abc".
func ParseVersion(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Version{}, zerr.With(ErrInvalidVersion, "version", s)
	}

	var v Version
	if idx := strings.IndexByte(raw, '+'); idx >= 0 {
		v.Metadata = raw[idx+1:]
		raw = raw[:idx]
		if v.Metadata == "" || !validLabels(v.Metadata) {
			return Version{}, zerr.With(ErrInvalidVersion, "version", s)
		}
	}
	if idx := strings.IndexByte(raw, '-'); idx >= 0 {
		v.Release = raw[idx+1:]
		raw = raw[:idx]
		if v.Release == "" || !validLabels(v.Release) {
			return Version{}, zerr.With(ErrInvalidVersion, "version", s)
		}
	}

	parts := strings.Split(raw, ".")
	if len(parts) > 4 {
		return Version{}, zerr.With(ErrInvalidVersion, "version", s)
	}
	nums := [4]int{}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || p == "" || p[0] == '+' {
			return Version{}, zerr.With(ErrInvalidVersion, "version", s)
		}
		nums[i] = n
	}
	v.Major, v.Minor, v.Patch, v.Revision = nums[0], nums[1], nums[2], nums[3]
	return v, nil
}

// MustParseVersion is like ParseVersion but panics on error. Intended for tests and constants.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func validLabels(s string) bool {
	for _, label := range strings.Split(s, ".") {
		if label == "" {
			return false
		}
		for _, r := range label {
			isAlnum := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
			if !isAlnum && r != '-' {
				return false
			}
		}
	}
	return true
}

// IsPrerelease reports whether the version carries release labels.
func (v Version) IsPrerelease() bool {
	return v.Release != ""
}

// IsZero reports whether v is the zero value.
func (v Version) IsZero() bool {
	return v == Version{}
}

// String returns the normalized form: three components, a fourth only when non-zero,
// then release labels. Metadata is omitted.
func (v Version) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(v.Major))
	b.WriteByte('.')
	b.WriteString(strconv.Itoa(v.Minor))
	b.WriteByte('.')
	b.WriteString(strconv.Itoa(v.Patch))
	if v.Revision > 0 {
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(v.Revision))
	}
	if v.Release != "" {
		b.WriteByte('-')
		b.WriteString(v.Release)
	}
	return b.String()
}

// Compare orders versions by numeric components, then release labels.
// Metadata is ignored and labels compare case-insensitively.
func (v Version) Compare(other Version) int {
	if c := cmp.Compare(v.Major, other.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Patch, other.Patch); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Revision, other.Revision); c != 0 {
		return c
	}
	return compareRelease(v.Release, other.Release)
}

// Equal reports whether v and other compare equal.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// Less reports whether v sorts before other.
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func compareRelease(a, b string) int {
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}

	left := strings.Split(a, ".")
	right := strings.Split(b, ".")
	for i := 0; i < len(left) && i < len(right); i++ {
		if c := compareLabel(left[i], right[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(left), len(right))
}

func compareLabel(a, b string) int {
	an, aErr := strconv.Atoi(a)
	bn, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return cmp.Compare(an, bn)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
