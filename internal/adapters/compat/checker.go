// Package compat checks that every library of a restore target graph can be consumed by its target.
package compat

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
)

// frameworkFolders matches files placed in a framework folder of an assembly category.
const frameworkFolders = "{lib,ref}/*/*"

// Checker implements ports.CompatibilityChecker over the lock file built for the graphs.
type Checker struct {
	logger ports.Logger
	// runtimeAssets enables the check that every reference assembly has a runtime implementation
	// in runtime specific graphs.
	runtimeAssets bool
}

var _ ports.CompatibilityChecker = (*Checker)(nil)

// Option configures a Checker.
type Option func(*Checker)

// WithoutRuntimeAssetValidation disables the reference assembly implementation check.
func WithoutRuntimeAssetValidation() Option {
	return func(c *Checker) { c.runtimeAssets = false }
}

// New creates a Checker.
func New(logger ports.Logger, opts ...Option) (*Checker, error) {
	if logger == nil {
		return nil, domain.ErrNilCollaborator
	}
	c := &Checker{logger: logger, runtimeAssets: true}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Check inspects every flattened library of graph.
//
// A package is incompatible when it ships lib/ or ref/ assemblies but its target entry selected no
// asset at all. A project is incompatible when no framework of it could be resolved for the graph.
// In runtime specific graphs every compile time assembly must also have a runtime assembly of the
// same name somewhere in the graph.
func (c *Checker) Check(
	graph *domain.RestoreTargetGraph,
	includeFlags map[string]domain.IncludeFlags,
	lockFile *domain.LockFile,
) ports.CompatibilityResult {
	result := ports.CompatibilityResult{Graph: graph.Name()}
	target := lockFile.GetTarget(graph.Framework, graph.RuntimeID)
	validateRuntime := c.runtimeAssets && graph.RuntimeID != ""

	compileOnly := make(map[string]domain.LibraryIdentity)
	var compileOrder []string
	runtime := make(map[string]bool)

	for _, item := range graph.Flattened {
		id := item.Identity
		c.logger.Debug(fmt.Sprintf("checking compatibility of %s %s with %s", id.Name, id.Version, graph.Name()))

		if id.Type == domain.LibraryTypeProject || id.Type == domain.LibraryTypeExternalProject {
			if item.ProjectFramework == domain.UnsupportedFramework {
				result.Issues = append(result.Issues, ports.CompatibilityIssue{
					Library: id,
					Project: true,
					Message: fmt.Sprintf("project %s is not compatible with %s", id.Name, graph.Name()),
				})
			}
			continue
		}

		flags, ok := includeFlags[domain.NameKey(id.Name)]
		if !ok {
			flags = domain.IncludeAll
		}
		if !flags.HasAny(domain.IncludeCompile | domain.IncludeRuntime) {
			continue
		}

		var targetLib *domain.LockFileTargetLibrary
		if target != nil {
			targetLib = target.GetLibrary(id.Name)
		}
		library := lockFile.GetLibrary(id.Name, id.Version)
		if targetLib == nil || library == nil {
			c.logger.Debug(fmt.Sprintf("no lock file entry for %s %s in %s, skipping compatibility check",
				id.Name, id.Version, graph.Name()))
			continue
		}

		if !isPackageCompatible(targetLib, library.Files) {
			result.Issues = append(result.Issues, ports.CompatibilityIssue{
				Library: id,
				Message: incompatiblePackageMessage(id, graph, library.Files),
			})
		}

		if !validateRuntime || !flags.Has(domain.IncludeRuntime) {
			continue
		}
		for _, name := range assemblyNames(targetLib.CompileTimeAssemblies) {
			if _, tracked := compileOnly[name]; !tracked && !runtime[name] {
				compileOnly[name] = id
				compileOrder = append(compileOrder, name)
			}
		}
		for _, name := range assemblyNames(targetLib.RuntimeAssemblies) {
			delete(compileOnly, name)
			runtime[name] = true
			// Native images stand in for the assembly they were generated from.
			if base, isNative := strings.CutSuffix(name, ".ni"); isNative {
				delete(compileOnly, base)
				runtime[base] = true
			}
		}
	}

	for _, name := range compileOrder {
		id, missing := compileOnly[name]
		if !missing {
			continue
		}
		result.Issues = append(result.Issues, ports.CompatibilityIssue{
			Library: id,
			Message: fmt.Sprintf("%s %s provides a compile-time reference assembly for %s on %s, but there is no run-time assembly compatible with %s",
				id.Name, id.Version, name, graph.Framework, graph.RuntimeID),
		})
	}

	result.Success = len(result.Issues) == 0
	return result
}

// isPackageCompatible reports whether the target entry selected any asset, or the package has no
// assemblies for any framework.
func isPackageCompatible(lib *domain.LockFileTargetLibrary, files []string) bool {
	if hasCompatibleAssets(lib) {
		return true
	}
	return !slices.ContainsFunc(files, func(f string) bool {
		lower := strings.ToLower(f)
		return strings.HasPrefix(lower, "ref/") || strings.HasPrefix(lower, "lib/")
	})
}

func hasCompatibleAssets(lib *domain.LockFileTargetLibrary) bool {
	return len(lib.RuntimeAssemblies) > 0 ||
		len(lib.CompileTimeAssemblies) > 0 ||
		len(lib.FrameworkAssemblies) > 0 ||
		len(lib.ContentFiles) > 0 ||
		len(lib.ResourceAssemblies) > 0 ||
		len(lib.Build) > 0
}

// assemblyNames returns the case-folded file names without extension of the .dll items.
func assemblyNames(items []domain.LockFileItem) []string {
	var names []string
	for _, item := range items {
		ext := path.Ext(item.Path)
		if !strings.EqualFold(ext, ".dll") {
			continue
		}
		names = append(names, strings.ToLower(strings.TrimSuffix(path.Base(item.Path), ext)))
	}
	return names
}

func incompatiblePackageMessage(id domain.LibraryIdentity, graph *domain.RestoreTargetGraph, files []string) string {
	available := availableFrameworks(files)
	msg := fmt.Sprintf("package %s %s is not compatible with %s", id.Name, id.Version, graph.Name())
	if len(available) == 0 {
		return msg
	}
	return msg + ". It supports: " + strings.Join(available, ", ")
}

// availableFrameworks lists the distinct frameworks of the lib/ and ref/ folders of files.
func availableFrameworks(files []string) []string {
	var out []string
	for _, f := range files {
		lower := strings.ToLower(f)
		if ok, err := doublestar.Match(frameworkFolders, lower); err != nil || !ok {
			continue
		}
		folder := strings.Split(lower, "/")[1]
		fw, err := domain.ParseFramework(folder)
		if err != nil || fw == domain.UnsupportedFramework {
			continue
		}
		if name := fw.String(); !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}
