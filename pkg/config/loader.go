package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/getmockd/soaptrace/pkg/contract"
)

// Common errors for catalog loading.
var (
	ErrFileNotFound     = errors.New("configuration file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidJSON      = errors.New("invalid JSON syntax")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
	ErrEmptyFile        = errors.New("configuration file is empty")
	ErrUnknownAssembly  = errors.New("assembly not listed in manifest")
	ErrAssemblyNotFound = errors.New("assembly definition not found")
)

// LoadManifest reads a catalog manifest from a JSON or YAML file.
// The format is detected from the file extension (.yaml, .yml for YAML,
// otherwise JSON).
func LoadManifest(path string) (*Manifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := decode(path, data, &m); err != nil {
		return nil, err
	}
	if err := ValidateManifest(&m); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &m, nil
}

// LoadAssemblyFile reads one assembly definition from a JSON or YAML file.
func LoadAssemblyFile(path string) (*contract.Assembly, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var asm contract.Assembly
	if err := decode(path, data, &asm); err != nil {
		return nil, err
	}
	return &asm, nil
}

// ToYAML marshals a manifest to YAML bytes.
func ToYAML(m *Manifest) ([]byte, error) {
	if m == nil {
		return nil, errors.New("manifest cannot be nil")
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal to YAML: %w", err)
	}
	return data, nil
}

// ToJSON marshals a manifest to formatted JSON bytes.
func ToJSON(m *Manifest) ([]byte, error) {
	if m == nil {
		return nil, errors.New("manifest cannot be nil")
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	return append(data, '\n'), nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	return data, nil
}

func decode(path string, data []byte, v any) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("%w in file %s: %v", ErrInvalidYAML, path, err)
		}
		return nil
	}

	if !json.Valid(data) {
		return fmt.Errorf("%w in file: %s", ErrInvalidJSON, path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}
