package config

import "github.com/getmockd/soaptrace/pkg/contract"

// Manifest lists the assemblies of a catalog in search order.
type Manifest struct {
	Version string `yaml:"version" json:"version"`
	Name    string `yaml:"name,omitempty" json:"name,omitempty"`

	// AssemblyDir holds the assembly definition files, relative to the
	// manifest. Defaults to the manifest's directory.
	AssemblyDir string `yaml:"assemblyDir,omitempty" json:"assemblyDir,omitempty"`

	Assemblies []AssemblyEntry `yaml:"assemblies" json:"assemblies"`
}

// AssemblyEntry is one assembly of a manifest.
type AssemblyEntry struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version,omitempty" json:"version,omitempty"`

	// File is the definition file relative to the assembly directory.
	File string `yaml:"file,omitempty" json:"file,omitempty"`

	// Types defines the assembly inline.
	Types []*contract.Type `yaml:"types,omitempty" json:"types,omitempty"`
}

// Ref returns the assembly identity.
func (e AssemblyEntry) Ref() contract.AssemblyRef {
	return contract.AssemblyRef{Name: e.Name, Version: e.Version}
}

// Inline reports whether the entry defines its types itself.
func (e AssemblyEntry) Inline() bool { return len(e.Types) > 0 }
