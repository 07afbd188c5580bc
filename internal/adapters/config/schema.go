package config

import (
	"gopkg.in/yaml.v3"
)

// ProjectFile represents the structure of the restore.yaml project file.
type ProjectFile struct {
	Name         string                   `yaml:"name"`
	Version      string                   `yaml:"version"`
	Dependencies map[string]DependencyDTO `yaml:"dependencies"`
	Frameworks   map[string]FrameworkDTO  `yaml:"frameworks"`
	Runtimes     []string                 `yaml:"runtimes"`
	Supports     map[string]SupportsDTO   `yaml:"supports"`
	Projects     map[string]ProjectRefDTO `yaml:"projects"`
	Restore      RestoreDTO               `yaml:"restore"`
}

// DependencyDTO is a declared dependency. A plain scalar is shorthand for its version range.
type DependencyDTO struct {
	Version        string `yaml:"version"`
	Include        string `yaml:"include"`
	Exclude        string `yaml:"exclude"`
	SuppressParent string `yaml:"suppressParent"`
}

// UnmarshalYAML accepts both "Name: 1.0.0" and the mapping form.
func (d *DependencyDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		d.Version = node.Value
		return nil
	}
	type plain DependencyDTO
	return node.Decode((*plain)(d))
}

// FrameworkDTO is one target framework entry.
type FrameworkDTO struct {
	Imports      []string                 `yaml:"imports"`
	Warn         bool                     `yaml:"warn"`
	Dependencies map[string]DependencyDTO `yaml:"dependencies"`
}

// UnmarshalYAML accepts an empty value for a framework without settings.
func (f *FrameworkDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && (node.Tag == "!!null" || node.Value == "") {
		return nil
	}
	type plain FrameworkDTO
	return node.Decode((*plain)(f))
}

// SupportsDTO is a compatibility profile. An empty value refers to a profile of the runtime graph.
type SupportsDTO struct {
	Contexts []RestoreContextDTO
}

// UnmarshalYAML accepts "{}", null or a list of framework and runtime pairs.
func (s *SupportsDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return nil
	}
	return node.Decode(&s.Contexts)
}

// RestoreContextDTO is one framework and runtime pair of a compatibility profile.
type RestoreContextDTO struct {
	Framework string `yaml:"framework"`
	Runtime   string `yaml:"runtime"`
}

// ProjectRefDTO references another project by directory.
type ProjectRefDTO struct {
	Path           string `yaml:"path"`
	Include        string `yaml:"include"`
	Exclude        string `yaml:"exclude"`
	SuppressParent string `yaml:"suppressParent"`
}

// RestoreDTO holds folder and tuning settings.
type RestoreDTO struct {
	PackagesPath           string   `yaml:"packagesPath"`
	Sources                []string `yaml:"sources"`
	FallbackFolders        []string `yaml:"fallbackFolders"`
	MaxDegreeOfConcurrency int      `yaml:"maxDegreeOfConcurrency"`
	LockFilePath           string   `yaml:"lockFilePath"`
	Lock                   bool     `yaml:"lock"`
}
