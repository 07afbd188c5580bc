package conventions

import (
	"strings"

	"go.trai.ch/restore/internal/core/domain"
)

// Precedence tiers of a compatible candidate. Lower is nearer.
const (
	tierSameFamily = iota
	tierPortable
	tierStandard
	tierAny
)

// standardMapping lists, per target family, the highest netstandard version a framework version
// implements. Entries are ordered by ascending framework version.
var standardMapping = map[string][]struct {
	framework domain.Version
	standard  domain.Version
}{
	domain.FrameworkNET: {
		{domain.NewVersion(4, 5, 0), domain.NewVersion(1, 1, 0)},
		{domain.NewVersion(4, 5, 1), domain.NewVersion(1, 2, 0)},
		{domain.NewVersion(4, 6, 0), domain.NewVersion(1, 3, 0)},
		{domain.NewVersion(4, 6, 1), domain.NewVersion(2, 0, 0)},
	},
	domain.FrameworkNETCoreApp: {
		{domain.NewVersion(1, 0, 0), domain.NewVersion(1, 6, 0)},
		{domain.NewVersion(2, 0, 0), domain.NewVersion(2, 0, 0)},
		{domain.NewVersion(3, 0, 0), domain.NewVersion(2, 1, 0)},
	},
	domain.FrameworkDNXCore: {
		{domain.NewVersion(5, 0, 0), domain.NewVersion(1, 5, 0)},
	},
	domain.FrameworkNETCore: {
		{domain.NewVersion(5, 0, 0), domain.NewVersion(1, 4, 0)},
	},
	domain.FrameworkUAP: {
		{domain.NewVersion(10, 0, 0), domain.NewVersion(1, 4, 0)},
	},
}

// portableIdentifiers maps short names used inside portable profiles to identifiers.
var portableIdentifiers = map[string]string{
	"net":         domain.FrameworkNET,
	"netcore":     domain.FrameworkNETCore,
	"netstandard": domain.FrameworkNETStandard,
	"dnxcore":     domain.FrameworkDNXCore,
	"uap":         domain.FrameworkUAP,
}

// supportedStandard returns the highest netstandard version target implements.
func supportedStandard(target domain.Framework) (domain.Version, bool) {
	var best domain.Version
	found := false
	for _, m := range standardMapping[target.Identifier] {
		if target.Version.Compare(m.framework) >= 0 {
			best, found = m.standard, true
		}
	}
	return best, found
}

// tier reports whether assets built for candidate can be consumed by target, and how near they are.
func tier(target, candidate domain.Framework) (int, bool) {
	switch {
	case candidate.Identifier == domain.FrameworkUnsupported || target.Identifier == domain.FrameworkUnsupported:
		return 0, false
	case candidate.IsAny():
		return tierAny, true
	case target.IsAny():
		return 0, false
	case candidate.Identifier == domain.FrameworkPortable:
		if portableCompatible(target, candidate.Profile) {
			return tierPortable, true
		}
		return 0, false
	case candidate.Identifier == target.Identifier:
		return tierSameFamily, candidate.Version.Compare(target.Version) <= 0 && profileCompatible(target, candidate)
	case candidate.Identifier == domain.FrameworkNETStandard:
		standard, ok := supportedStandard(target)
		return tierStandard, ok && candidate.Version.Compare(standard) <= 0
	}
	return 0, false
}

// profileCompatible lets a full framework consume profile specific assets, but not the reverse.
func profileCompatible(target, candidate domain.Framework) bool {
	return candidate.Profile == "" || strings.EqualFold(candidate.Profile, target.Profile) ||
		(target.Profile == "" && strings.EqualFold(candidate.Profile, "client"))
}

func portableCompatible(target domain.Framework, profile string) bool {
	for _, member := range strings.Split(profile, "+") {
		f, err := domain.ParseFramework(member)
		if err != nil {
			continue
		}
		if _, known := portableIdentifiers[strings.TrimRight(member, "0123456789.")]; !known {
			continue
		}
		if t, ok := tier(target, f); ok && t < tierAny {
			return true
		}
	}
	return false
}

// IsCompatible reports whether assets built for candidate can be consumed by target.
func IsCompatible(target, candidate domain.Framework) bool {
	_, ok := tier(target, candidate)
	return ok
}

// Nearest returns the index of the compatible candidate nearest to target: the same family at the
// highest version first, then portable profiles, then netstandard, then the any framework.
func Nearest(target domain.Framework, candidates []domain.Framework) (int, bool) {
	bestIdx, bestTier := -1, 0
	for i, c := range candidates {
		t, ok := tier(target, c)
		if !ok {
			continue
		}
		if bestIdx < 0 || t < bestTier || (t == bestTier && nearer(target, c, candidates[bestIdx])) {
			bestIdx, bestTier = i, t
		}
	}
	return bestIdx, bestIdx >= 0
}

// nearer compares two candidates of the same tier.
func nearer(target, a, b domain.Framework) bool {
	if c := a.Version.Compare(b.Version); c != 0 {
		return c > 0
	}
	// An exact profile match beats a compatible one.
	return strings.EqualFold(a.Profile, target.Profile) && !strings.EqualFold(b.Profile, target.Profile)
}
