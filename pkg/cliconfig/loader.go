package cliconfig

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// GlobalConfigDir is the directory for global config
	GlobalConfigDir = "soaptrace"
)

// LocalConfigFileNames are the names to search for local config (in order).
var LocalConfigFileNames = []string{".soaptracerc.yaml", ".soaptracerc.yml"}

// GlobalConfigFileNames are the names to search for global config (in order).
var GlobalConfigFileNames = []string{"config.yaml", "config.yml"}

// FindLocalConfig searches for .soaptracerc.yaml or .soaptracerc.yml in the current directory.
func FindLocalConfig() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return firstExisting(cwd, LocalConfigFileNames), nil
}

// FindGlobalConfig returns the path to the global config file.
// Returns empty string if not found.
func FindGlobalConfig() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		//nolint:nilerr // no config dir means no global config
		return "", nil
	}
	return firstExisting(filepath.Join(configDir, GlobalConfigDir), GlobalConfigFileNames), nil
}

// GetGlobalConfigSearchPaths returns the paths that will be searched for global config.
func GetGlobalConfigSearchPaths() []string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	paths := make([]string, len(GlobalConfigFileNames))
	for i, name := range GlobalConfigFileNames {
		paths[i] = filepath.Join(configDir, GlobalConfigDir, name)
	}
	return paths
}

func firstExisting(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadConfigFile loads a CLIConfig from a YAML file.
func LoadConfigFile(path string) (*CLIConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, newConfigError(path, err)
	}

	var cfg CLIConfig
	if err := node.Decode(&cfg); err != nil {
		return nil, newConfigError(path, err)
	}

	cfg.Sources = make(map[string]string)
	cfg.SetFields = topLevelKeys(&node)
	return &cfg, nil
}

// topLevelKeys lists the keys of the document's root mapping.
func topLevelKeys(doc *yaml.Node) map[string]bool {
	keys := make(map[string]bool)
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return keys
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return keys
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		keys[root.Content[i].Value] = true
	}
	return keys
}

// ConfigError represents a configuration file error with location info.
type ConfigError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return e.Path + " (line " + strconv.Itoa(e.Line) + "): " + e.Message
	}
	return e.Path + ": " + e.Message
}

func (e *ConfigError) Unwrap() error { return e.Err }

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

func newConfigError(path string, err error) *ConfigError {
	cerr := &ConfigError{Path: path, Message: err.Error(), Err: err}
	if m := yamlLineRegex.FindStringSubmatch(err.Error()); m != nil {
		cerr.Line, _ = strconv.Atoi(m[1])
	}
	return cerr
}

// LoadAll loads configuration from all sources and merges them.
// Precedence: env > explicit or local config > global config > defaults.
// Flags are applied by the caller. An explicit path must exist; discovered
// files are optional but must parse.
func LoadAll(explicitPath string) (*CLIConfig, error) {
	cfg := NewDefault()

	globalPath, err := FindGlobalConfig()
	if err != nil {
		return nil, err
	}
	if globalPath != "" {
		globalCfg, err := LoadConfigFile(globalPath)
		if err != nil {
			return nil, err
		}
		MergeConfig(cfg, globalCfg, SourceGlobal)
	}

	if explicitPath != "" {
		fileCfg, err := LoadConfigFile(explicitPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, &ConfigError{Path: explicitPath, Message: "config file not found", Err: err}
			}
			return nil, err
		}
		MergeConfig(cfg, fileCfg, SourceFile)
	} else {
		localPath, err := FindLocalConfig()
		if err != nil {
			return nil, err
		}
		if localPath != "" {
			localCfg, err := LoadConfigFile(localPath)
			if err != nil {
				return nil, err
			}
			MergeConfig(cfg, localCfg, SourceLocal)
		}
	}

	LoadEnvConfig(cfg)
	return cfg, nil
}
