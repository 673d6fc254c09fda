package picoc

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls arena sizing, diagnostics, and which library bundles an
// Instance auto-includes. Grounded on
// _examples/phroun-pawscript/types.go's Config/DefaultConfig pattern.
type Config struct {
	ArenaSize        int      `yaml:"arena_size"`
	Debug            bool     `yaml:"debug"`
	EnableDebugger   bool     `yaml:"enable_debugger"`
	ShowErrorContext bool     `yaml:"show_error_context"`
	ContextLines     int      `yaml:"context_lines"`
	IncludeBundles   []string `yaml:"include_bundles"`

	// DebugHook is invoked at each breakpoint stop when the parser state's
	// DebugEnabled flag is set; EnableDebugger is not consulted. Left nil by
	// DefaultConfig and unmarshalable from YAML since it is host code, not
	// data; a CLI driver sets it directly after loading the rest of Config.
	DebugHook DebugHook `yaml:"-"`
}

// DefaultConfig returns the configuration a bare Instance starts with:
// a 64KB arena, debug logging off, source context shown with errors, and
// the full stock library listed in IncludeBundles (brought into scope by
// IncludeAllSystemHeaders; New itself only registers the bundles).
func DefaultConfig() *Config {
	return &Config{
		ArenaSize:        64 * 1024,
		Debug:            false,
		EnableDebugger:   false,
		ShowErrorContext: true,
		ContextLines:     3,
		IncludeBundles:   []string{"stdio", "string", "math", "time", "errno", "ctype", "stdbool", "unistd"},
	}
}

// LoadConfigFile reads a YAML configuration file (following the layered
// host-config pattern in _examples/phroun-pawscript/src/cmd/paw/main.go,
// which loads ~/.paw/paw-cli.psl before running) and overlays it on top of
// DefaultConfig(). A missing file is not an error; it just yields defaults.
func LoadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
