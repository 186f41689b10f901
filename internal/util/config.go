package util

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

const DefaultConfigFile = "lv8.toml"

type Configuration struct {
	Version   string `toml:"-"`
	BuildDate string `toml:"-"`
	Commit    string `toml:"-"`
	RootPath  string `toml:"-"`

	ConfigFile           string `toml:"-"`
	LogLevel             string `toml:"log_level"`
	LogFile              string `toml:"log_file"`
	SharedFunctionFrames bool   `toml:"shared_function_frames"`
	Prompt               string `toml:"prompt"`
	DebugJsonAST         bool   `toml:"debug_ast"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		LogLevel: "none",
		Prompt:   "LV8(%d)> ",
	}
}

// LoadConfig overlays the TOML file at path onto cfg. A missing file is only
// an error when it was asked for explicitly.
func LoadConfig(cfg *Configuration, path string, explicit bool) error {
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("config %s: %w", path, err)
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config %s: unknown keys %v", path, undecoded)
	}

	cfg.ConfigFile = path
	return nil
}
