package conventions

import (
	"path"
	"strings"

	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
)

var (
	assemblyExtensions = []string{".dll", ".exe", ".winmd"}
	msbuildExtensions  = []string{".props", ".targets"}
)

// rootLibFramework is the framework of assemblies placed directly in lib/.
var rootLibFramework = domain.Framework{Identifier: domain.FrameworkNET}

// asset is one package file classified into a category.
type asset struct {
	path      string
	category  ports.AssetCategory
	framework domain.Framework
	runtimeID string
	locale    string
	language  string
}

// groupKey identifies the group an asset belongs to.
type groupKey struct {
	category  ports.AssetCategory
	framework domain.Framework
	runtimeID string
	language  string
}

func (a asset) key() groupKey {
	return groupKey{category: a.category, framework: a.framework, runtimeID: a.runtimeID, language: a.language}
}

func (a asset) item() domain.LockFileItem {
	item := domain.NewLockFileItem(a.path)
	if a.locale != "" {
		item = item.WithProperty(domain.PropertyLocale, a.locale)
	}
	return item
}

// classify returns every category the file at p belongs to.
func classify(p string) []asset {
	parts := strings.Split(p, "/")
	name := parts[len(parts)-1]
	lowerFirst := strings.ToLower(parts[0])

	switch {
	case lowerFirst == "ref" && len(parts) == 3 && isAssembly(name):
		return []asset{{path: p, category: ports.AssetCompileRef, framework: parseTFM(parts[1])}}

	case lowerFirst == "lib":
		return classifyLib(p, parts)

	case lowerFirst == "runtimes" && len(parts) >= 4:
		return classifyRuntimes(p, parts)

	case lowerFirst == "build" || lowerFirst == "buildtransitive":
		category := ports.AssetBuild
		if lowerFirst == "buildtransitive" {
			category = ports.AssetBuildTransitive
		}
		if !isMSBuild(name) {
			return nil
		}
		switch len(parts) {
		case 2:
			return []asset{{path: p, category: category, framework: domain.AnyFramework}}
		case 3:
			return []asset{{path: p, category: category, framework: parseTFM(parts[1])}}
		}

	case strings.EqualFold(parts[0], "contentFiles") && len(parts) >= 4:
		return []asset{{
			path:      p,
			category:  ports.AssetContentFiles,
			framework: parseTFM(parts[2]),
			language:  strings.ToLower(parts[1]),
		}}
	}
	return nil
}

func classifyLib(p string, parts []string) []asset {
	name := parts[len(parts)-1]
	switch len(parts) {
	case 2:
		if !isAssembly(name) {
			return nil
		}
		return []asset{
			{path: p, category: ports.AssetCompileLib, framework: rootLibFramework},
			{path: p, category: ports.AssetRuntime, framework: rootLibFramework},
		}
	case 3:
		if !isAssembly(name) {
			return nil
		}
		f := parseTFM(parts[1])
		return []asset{
			{path: p, category: ports.AssetCompileLib, framework: f},
			{path: p, category: ports.AssetRuntime, framework: f},
		}
	case 4:
		if !isSatelliteAssembly(name) {
			return nil
		}
		return []asset{{path: p, category: ports.AssetResource, framework: parseTFM(parts[1]), locale: parts[2]}}
	}
	return nil
}

// classifyRuntimes handles runtimes/{rid}/lib/{tfm}/..., runtimes/{rid}/native/... and
// runtimes/{rid}/nativeassets/{tfm}/....
func classifyRuntimes(p string, parts []string) []asset {
	rid := parts[1]
	name := parts[len(parts)-1]

	switch strings.ToLower(parts[2]) {
	case "lib":
		switch {
		case len(parts) == 5 && isAssembly(name):
			return []asset{{path: p, category: ports.AssetRuntime, framework: parseTFM(parts[3]), runtimeID: rid}}
		case len(parts) == 6 && isSatelliteAssembly(name):
			return []asset{{path: p, category: ports.AssetResource, framework: parseTFM(parts[3]), runtimeID: rid, locale: parts[4]}}
		}
	case "native":
		return []asset{{path: p, category: ports.AssetNative, framework: domain.AnyFramework, runtimeID: rid}}
	case "nativeassets":
		if len(parts) >= 5 {
			return []asset{{path: p, category: ports.AssetNative, framework: parseTFM(parts[3]), runtimeID: rid}}
		}
	}
	return nil
}

// parseTFM parses a framework folder. Unknown folders never match any target.
func parseTFM(folder string) domain.Framework {
	f, err := domain.ParseFramework(folder)
	if err != nil {
		return domain.UnsupportedFramework
	}
	return f
}

func isAssembly(name string) bool {
	return name == domain.EmptyMarker || hasExtension(name, assemblyExtensions)
}

func isMSBuild(name string) bool {
	return name == domain.EmptyMarker || hasExtension(name, msbuildExtensions)
}

func isSatelliteAssembly(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".resources.dll")
}

func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
