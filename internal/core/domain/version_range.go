package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// VersionRange is an interval of versions. A range with no bounds admits every version.
type VersionRange struct {
	Min        Version
	Max        Version
	HasMin     bool
	HasMax     bool
	IncludeMin bool
	IncludeMax bool
}

// AllVersions is the unbounded range.
var AllVersions = VersionRange{}

// AtLeast returns the range [v, ).
func AtLeast(v Version) VersionRange {
	return VersionRange{Min: v, HasMin: true, IncludeMin: true}
}

// Exactly returns the range [v].
func Exactly(v Version) VersionRange {
	return VersionRange{Min: v, Max: v, HasMin: true, HasMax: true, IncludeMin: true, IncludeMax: true}
}

// ParseVersionRange parses range notation: "1.0" (minimum inclusive), "[1.0]" (exact),
// "[1.0, 2.0)", "(, 2.0]", "[1.0, )". An empty string or "*" yields AllVersions.
func ParseVersionRange(s string) (VersionRange, error) {
	raw := strings.TrimSpace(s)
	if raw == "" || raw == "*" {
		return AllVersions, nil
	}

	first := raw[0]
	if first != '[' && first != '(' {
		v, err := ParseVersion(raw)
		if err != nil {
			return VersionRange{}, zerr.With(ErrInvalidVersionRange, "range", s)
		}
		return AtLeast(v), nil
	}

	last := raw[len(raw)-1]
	if len(raw) < 3 || (last != ']' && last != ')') {
		return VersionRange{}, zerr.With(ErrInvalidVersionRange, "range", s)
	}

	r := VersionRange{IncludeMin: first == '[', IncludeMax: last == ']'}
	body := raw[1 : len(raw)-1]
	bounds := strings.Split(body, ",")

	switch len(bounds) {
	case 1:
		// "[1.0]" is the only single-bound bracket form.
		if !r.IncludeMin || !r.IncludeMax {
			return VersionRange{}, zerr.With(ErrInvalidVersionRange, "range", s)
		}
		v, err := ParseVersion(bounds[0])
		if err != nil {
			return VersionRange{}, zerr.With(ErrInvalidVersionRange, "range", s)
		}
		return Exactly(v), nil
	case 2:
	default:
		return VersionRange{}, zerr.With(ErrInvalidVersionRange, "range", s)
	}

	if lower := strings.TrimSpace(bounds[0]); lower != "" {
		v, err := ParseVersion(lower)
		if err != nil {
			return VersionRange{}, zerr.With(ErrInvalidVersionRange, "range", s)
		}
		r.Min, r.HasMin = v, true
	} else {
		r.IncludeMin = false
	}

	if upper := strings.TrimSpace(bounds[1]); upper != "" {
		v, err := ParseVersion(upper)
		if err != nil {
			return VersionRange{}, zerr.With(ErrInvalidVersionRange, "range", s)
		}
		r.Max, r.HasMax = v, true
	} else {
		r.IncludeMax = false
	}

	if r.HasMin && r.HasMax {
		c := r.Min.Compare(r.Max)
		if c > 0 || (c == 0 && !(r.IncludeMin && r.IncludeMax)) {
			return VersionRange{}, zerr.With(ErrInvalidVersionRange, "range", s)
		}
	}
	return r, nil
}

// MustParseVersionRange is like ParseVersionRange but panics on error.
func MustParseVersionRange(s string) VersionRange {
	r, err := ParseVersionRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

// IsAll reports whether the range has no bounds.
func (r VersionRange) IsAll() bool {
	return !r.HasMin && !r.HasMax
}

// IsExact reports whether the range admits exactly one version.
func (r VersionRange) IsExact() bool {
	return r.HasMin && r.HasMax && r.IncludeMin && r.IncludeMax && r.Min.Equal(r.Max)
}

// Satisfies reports whether v lies within the range.
func (r VersionRange) Satisfies(v Version) bool {
	if r.HasMin {
		c := v.Compare(r.Min)
		if c < 0 || (c == 0 && !r.IncludeMin) {
			return false
		}
	}
	if r.HasMax {
		c := v.Compare(r.Max)
		if c > 0 || (c == 0 && !r.IncludeMax) {
			return false
		}
	}
	return true
}

// BestMatch returns the lowest candidate that satisfies the range.
func (r VersionRange) BestMatch(candidates []Version) (Version, bool) {
	var best Version
	found := false
	for _, c := range candidates {
		if !r.Satisfies(c) {
			continue
		}
		if !found || c.Less(best) {
			best, found = c, true
		}
	}
	return best, found
}

// Equal reports whether two ranges describe the same interval.
func (r VersionRange) Equal(other VersionRange) bool {
	return r.String() == other.String()
}

// String returns the normalized bracket form, e.g. "[1.0.0, )" or "[1.0.0]".
func (r VersionRange) String() string {
	if r.IsExact() {
		return "[" + r.Min.String() + "]"
	}

	var b strings.Builder
	if r.HasMin && r.IncludeMin {
		b.WriteByte('[')
	} else {
		b.WriteByte('(')
	}
	if r.HasMin {
		b.WriteString(r.Min.String())
	}
	b.WriteString(", ")
	if r.HasMax {
		b.WriteString(r.Max.String())
	}
	if r.HasMax && r.IncludeMax {
		b.WriteByte(']')
	} else {
		b.WriteByte(')')
	}
	return b.String()
}

// LegacyString returns the short form used for package dependencies in a lock file:
// a bare version for inclusive minimum-only ranges and the bracket form otherwise.
func (r VersionRange) LegacyString() string {
	if r.HasMin && r.IncludeMin && !r.HasMax {
		return r.Min.String()
	}
	return r.String()
}

// ComparisonString renders the bounds as operators, e.g. ">= 1.0.0 < 2.0.0".
// The unbounded range renders as an empty string.
func (r VersionRange) ComparisonString() string {
	var parts []string
	if r.HasMin {
		op := "> "
		if r.IncludeMin {
			op = ">= "
		}
		parts = append(parts, op+r.Min.String())
	}
	if r.HasMax {
		op := "< "
		if r.IncludeMax {
			op = "<= "
		}
		parts = append(parts, op+r.Max.String())
	}
	return strings.Join(parts, " ")
}

// MarshalText implements encoding.TextMarshaler.
func (r VersionRange) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *VersionRange) UnmarshalText(text []byte) error {
	parsed, err := ParseVersionRange(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
