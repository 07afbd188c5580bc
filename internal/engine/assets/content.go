package assets

import (
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/restore/internal/core/domain"
)

const (
	contentFilesFolder = "contentFiles/"
	defaultBuildAction = "Compile"
	noneBuildAction    = "None"
	preprocessorExt    = ".pp"
)

// contentFiles returns the content items of the nearest group per code language, annotated with
// the rules of the manifest's contentFiles section.
func (s *Selector) contentFiles(files []string, target Target, manifest *domain.PackageManifest) []domain.LockFileItem {
	for _, f := range target.frameworks() {
		groups := s.matcher.FindContentGroups(files, f)
		if len(groups) == 0 {
			continue
		}

		var entries []domain.ContentFilesEntry
		if manifest != nil {
			entries = manifest.ContentFiles
		}

		var items []domain.LockFileItem
		seen := make(map[string]bool)
		for _, g := range groups {
			for _, item := range g.Items {
				if seen[item.Path] {
					continue
				}
				seen[item.Path] = true
				items = append(items, contentItem(item.Path, g.Language, entries))
			}
		}
		slices.SortFunc(items, func(a, b domain.LockFileItem) int {
			return strings.Compare(a.Path, b.Path)
		})
		return items
	}
	return nil
}

// contentItem applies every matching manifest rule to file, later rules winning.
func contentItem(file, language string, entries []domain.ContentFilesEntry) domain.LockFileItem {
	item := domain.NewLockFileItem(file).WithProperty(domain.PropertyCodeLanguage, language)
	if path.Base(file) == domain.EmptyMarker {
		return item.
			WithProperty(domain.PropertyBuildAction, noneBuildAction).
			WithProperty(domain.PropertyCopyToOutput, strconv.FormatBool(false))
	}

	buildAction := defaultBuildAction
	copyToOutput := false
	flatten := false

	relative := strings.TrimPrefix(file, contentFilesFolder)
	for _, entry := range entries {
		if !matchesEntry(relative, entry) {
			continue
		}
		if entry.BuildAction != "" {
			buildAction = entry.BuildAction
		}
		if entry.CopyToOutput != nil {
			copyToOutput = *entry.CopyToOutput
		}
		if entry.Flatten != nil {
			flatten = *entry.Flatten
		}
	}

	item = item.
		WithProperty(domain.PropertyBuildAction, buildAction).
		WithProperty(domain.PropertyCopyToOutput, strconv.FormatBool(copyToOutput))

	// contentFiles/{language}/{framework}/ is stripped from output paths.
	destination := relative
	if parts := strings.SplitN(relative, "/", 3); len(parts) == 3 {
		destination = parts[2]
	}
	if flatten {
		destination = path.Base(destination)
	}
	if copyToOutput {
		item = item.WithProperty(domain.PropertyOutputPath, destination)
	}
	if strings.EqualFold(path.Ext(file), preprocessorExt) {
		item = item.WithProperty(domain.PropertyPPOutputPath, destination[:len(destination)-len(preprocessorExt)])
	}
	return item
}

// matchesEntry reports whether the path below contentFiles/ is selected by the rule's include glob
// and not removed by its exclude glob. Globs compare case-insensitively.
func matchesEntry(relative string, entry domain.ContentFilesEntry) bool {
	if entry.Include == "" {
		return false
	}
	lower := strings.ToLower(relative)
	if !globMatch(entry.Include, lower) {
		return false
	}
	return entry.Exclude == "" || !globMatch(entry.Exclude, lower)
}

// globMatch matches against any of the semicolon separated patterns.
func globMatch(patterns, lower string) bool {
	for _, p := range strings.Split(patterns, ";") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if ok, err := doublestar.Match(p, lower); err == nil && ok {
			return true
		}
	}
	return false
}
