// Package conventions implements the nearest framework convention matcher for package files.
package conventions

import (
	"slices"

	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
)

// Matcher selects asset groups from package file lists by folder conventions.
type Matcher struct{}

// NewMatcher creates a convention matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// FindBestGroup returns the best group of the first category that has one. Runtime specific
// groups are tried first, nearest runtime first, then runtime agnostic groups.
func (m *Matcher) FindBestGroup(files []string, criteria ports.SelectionCriteria, categories ...ports.AssetCategory) (*ports.AssetGroup, bool) {
	groups := collect(files, categories)
	if len(groups) == 0 {
		return nil, false
	}

	runtimes := append(slices.Clone(criteria.RuntimeIDs), "")
	for _, rid := range runtimes {
		for _, category := range categories {
			var candidates []*ports.AssetGroup
			for _, g := range groups {
				if g.category == category && g.group.RuntimeID == rid {
					candidates = append(candidates, g.group)
				}
			}
			if best, ok := nearestGroup(criteria.Framework, candidates); ok {
				return best, true
			}
		}
	}
	return nil, false
}

// FindContentGroups returns, per code language, the content group nearest to framework.
// Groups are ordered by language.
func (m *Matcher) FindContentGroups(files []string, framework domain.Framework) []ports.AssetGroup {
	byLanguage := make(map[string][]*ports.AssetGroup)
	for _, g := range collect(files, []ports.AssetCategory{ports.AssetContentFiles}) {
		byLanguage[g.group.Language] = append(byLanguage[g.group.Language], g.group)
	}

	languages := make([]string, 0, len(byLanguage))
	for lang := range byLanguage {
		languages = append(languages, lang)
	}
	slices.Sort(languages)

	var out []ports.AssetGroup
	for _, lang := range languages {
		if best, ok := nearestGroup(framework, byLanguage[lang]); ok {
			out = append(out, *best)
		}
	}
	return out
}

// Nearest returns the index of the candidate nearest to target.
func (m *Matcher) Nearest(target domain.Framework, candidates []domain.Framework) (int, bool) {
	return Nearest(target, candidates)
}

// IsCompatible reports whether assets built for candidate can be consumed by target.
func (m *Matcher) IsCompatible(target, candidate domain.Framework) bool {
	return IsCompatible(target, candidate)
}

type categorizedGroup struct {
	category ports.AssetCategory
	group    *ports.AssetGroup
}

// collect groups the files of the requested categories, keeping first-seen group order.
func collect(files []string, categories []ports.AssetCategory) []categorizedGroup {
	var out []categorizedGroup
	index := make(map[groupKey]int)
	for _, f := range files {
		for _, a := range classify(f) {
			if !slices.Contains(categories, a.category) {
				continue
			}
			k := a.key()
			i, ok := index[k]
			if !ok {
				i = len(out)
				index[k] = i
				out = append(out, categorizedGroup{
					category: a.category,
					group: &ports.AssetGroup{
						Framework: a.framework,
						RuntimeID: a.runtimeID,
						Language:  a.language,
					},
				})
			}
			out[i].group.Items = append(out[i].group.Items, a.item())
		}
	}
	return out
}

func nearestGroup(target domain.Framework, groups []*ports.AssetGroup) (*ports.AssetGroup, bool) {
	frameworks := make([]domain.Framework, 0, len(groups))
	for _, g := range groups {
		frameworks = append(frameworks, g.Framework)
	}
	idx, ok := Nearest(target, frameworks)
	if !ok {
		return nil, false
	}
	return groups[idx], true
}
