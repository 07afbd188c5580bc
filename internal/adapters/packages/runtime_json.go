package packages

import (
	"encoding/json"
	"slices"
	"strings"

	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/zerr"
)

// importKey lists the runtime identifiers a runtime inherits from.
const importKey = "#import"

type runtimeDocument struct {
	Runtimes map[string]map[string]json.RawMessage `json:"runtimes"`
	Supports map[string]map[string]json.RawMessage `json:"supports"`
}

// parseRuntimeGraph decodes a runtime.json document:
//
//	{
//	  "runtimes": { "win7-x64": { "#import": ["win7"], "A": { "runtime.win7.A": "1.0.0" } } },
//	  "supports": { "net46.app": { "net46": "" }, "uwp.10.0.app": { "uap10.0": ["win10-x86"] } }
//	}
func parseRuntimeGraph(data []byte) (*domain.RuntimeGraph, error) {
	var doc runtimeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, zerr.Wrap(err, domain.ErrRuntimeGraphParseFailed.Error())
	}

	graph := domain.NewRuntimeGraph()
	for rid, body := range doc.Runtimes {
		desc, err := runtimeDescription(rid, body)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrRuntimeGraphParseFailed.Error()), "runtime", rid)
		}
		graph.Runtimes[rid] = desc
	}
	for name, body := range doc.Supports {
		profile, err := compatibilityProfile(name, body)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrRuntimeGraphParseFailed.Error()), "profile", name)
		}
		graph.Supports[name] = profile
	}
	return graph, nil
}

func runtimeDescription(rid string, body map[string]json.RawMessage) (domain.RuntimeDescription, error) {
	desc := domain.RuntimeDescription{
		RuntimeID:      rid,
		DependencySets: make(map[string][]domain.LibraryDependency),
	}
	for key, raw := range body {
		if key == importKey {
			if err := json.Unmarshal(raw, &desc.Imports); err != nil {
				return desc, err
			}
			continue
		}

		var ranges map[string]string
		if err := json.Unmarshal(raw, &ranges); err != nil {
			return desc, err
		}
		deps := make([]domain.LibraryDependency, 0, len(ranges))
		for id, s := range ranges {
			r, err := domain.ParseVersionRange(s)
			if err != nil {
				return desc, zerr.With(err, "dependency", id)
			}
			deps = append(deps, domain.NewPackageDependency(id, r))
		}
		slices.SortFunc(deps, func(a, b domain.LibraryDependency) int {
			return strings.Compare(domain.NameKey(a.Name()), domain.NameKey(b.Name()))
		})
		desc.DependencySets[key] = deps
	}
	return desc, nil
}

// compatibilityProfile reads a profile whose frameworks map to "", one runtime or a list of runtimes.
func compatibilityProfile(name string, body map[string]json.RawMessage) (domain.CompatibilityProfile, error) {
	profile := domain.CompatibilityProfile{Name: name}
	for tfm, raw := range body {
		fw, err := domain.ParseFramework(tfm)
		if err != nil {
			return profile, err
		}

		var rids []string
		var single string
		if err := json.Unmarshal(raw, &single); err == nil {
			if single != "" {
				rids = []string{single}
			}
		} else if err := json.Unmarshal(raw, &rids); err != nil {
			return profile, err
		}

		if len(rids) == 0 {
			profile.RestoreContexts = append(profile.RestoreContexts, domain.FrameworkRuntimePair{Framework: fw})
		}
		for _, rid := range rids {
			profile.RestoreContexts = append(profile.RestoreContexts, domain.FrameworkRuntimePair{Framework: fw, RuntimeID: rid})
		}
	}
	slices.SortFunc(profile.RestoreContexts, domain.ComparePairs)
	return profile, nil
}
