package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/getmockd/soaptrace/pkg/contract"
	"github.com/getmockd/soaptrace/pkg/logging"
)

// AssemblyDir loads the assemblies of a manifest, reading definition files
// from a directory tree on demand. It implements contract.Loader.
type AssemblyDir struct {
	// Root is the directory holding assembly definition files.
	Root string

	manifest *Manifest
	logger   *slog.Logger
}

// LoadError represents an error loading a specific file.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error { return e.Err }

// DirOption configures an AssemblyDir.
type DirOption func(*AssemblyDir)

// WithLogger sets the logger for load diagnostics.
func WithLogger(logger *slog.Logger) DirOption {
	return func(d *AssemblyDir) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewAssemblyDir creates a loader for manifest reading files below root.
func NewAssemblyDir(root string, manifest *Manifest, opts ...DirOption) *AssemblyDir {
	d := &AssemblyDir{
		Root:     root,
		manifest: manifest,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OpenCatalog loads the manifest at path and returns a loader for it. The
// assembly directory is resolved relative to the manifest.
func OpenCatalog(path string, opts ...DirOption) (*AssemblyDir, error) {
	m, err := LoadManifest(path)
	if err != nil {
		return nil, err
	}
	root := filepath.Join(filepath.Dir(path), filepath.FromSlash(m.AssemblyDir))
	return NewAssemblyDir(root, m, opts...), nil
}

// Manifest returns the manifest the loader serves.
func (d *AssemblyDir) Manifest() *Manifest { return d.manifest }

// Assemblies lists the manifest's assemblies in order.
func (d *AssemblyDir) Assemblies() []contract.AssemblyRef {
	refs := make([]contract.AssemblyRef, 0, len(d.manifest.Assemblies))
	for _, e := range d.manifest.Assemblies {
		refs = append(refs, e.Ref())
	}
	return refs
}

// Load returns the definition of ref, reading its file if it is not
// defined inline.
func (d *AssemblyDir) Load(ref contract.AssemblyRef) (*contract.Assembly, error) {
	entry, ok := d.entry(ref)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAssembly, ref)
	}
	if entry.Inline() {
		return &contract.Assembly{Name: entry.Name, Version: entry.Version, Types: entry.Types}, nil
	}

	path, err := d.definitionPath(entry)
	if err != nil {
		return nil, err
	}
	asm, err := LoadAssemblyFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to load", Err: err}
	}

	if asm.Name == "" {
		asm.Name = entry.Name
	}
	if asm.Name != entry.Name {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("defines assembly %q, expected %q", asm.Name, entry.Name)}
	}
	if asm.Version == "" {
		asm.Version = entry.Version
	}
	if entry.Version != "" && asm.Version != entry.Version {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("defines version %q, expected %q", asm.Version, entry.Version)}
	}
	if err := ValidateAssembly(asm); err != nil {
		return nil, &LoadError{Path: path, Message: "validation failed", Err: err}
	}

	d.logger.Debug("assembly definition read", "assembly", ref.String(), "path", path)
	return asm, nil
}

func (d *AssemblyDir) entry(ref contract.AssemblyRef) (AssemblyEntry, bool) {
	for _, e := range d.manifest.Assemblies {
		if e.Ref() == ref {
			return e, true
		}
	}
	return AssemblyEntry{}, false
}

// definitionPath returns the entry's file, or searches the directory tree
// for <name>.yaml, <name>.yml or <name>.json. Shallower matches win.
func (d *AssemblyDir) definitionPath(entry AssemblyEntry) (string, error) {
	if entry.File != "" {
		return filepath.Join(d.Root, filepath.FromSlash(entry.File)), nil
	}

	pattern := "**/" + escapeGlob(entry.Name) + ".{yaml,yml,json}"
	matches, err := doublestar.Glob(os.DirFS(d.Root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return "", fmt.Errorf("failed to scan directory %s: %w", d.Root, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s in %s", ErrAssemblyNotFound, entry.Ref(), d.Root)
	}

	slices.SortFunc(matches, func(a, b string) int {
		if da, db := strings.Count(a, "/"), strings.Count(b, "/"); da != db {
			return da - db
		}
		return strings.Compare(a, b)
	})
	if len(matches) > 1 {
		d.logger.Debug("multiple assembly definitions found", "assembly", entry.Name, "using", matches[0], "count", len(matches))
	}
	return filepath.Join(d.Root, filepath.FromSlash(matches[0])), nil
}

// escapeGlob quotes the glob metacharacters of a literal name.
func escapeGlob(name string) string {
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(`*?[]{}\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
