package main

import (
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// runConfig is the shape of a --config yaml file. The commands apply
// only bolt_path from it, and only when --bolt is not given. variant is
// consulted only when the --variant flag is empty, which its default
// value prevents; the other fields are decoded but not used.
type runConfig struct {
	N         int    `yaml:"n"`
	Variant   string `yaml:"variant"`
	MaxDelay  int    `yaml:"max_message_delay"`
	Malicious int    `yaml:"malicious_nodes"`
	Seed      int64  `yaml:"seed"`
	MaxTicks  int    `yaml:"max_ticks"`
	Debug     bool   `yaml:"debug"`
	BoltPath  string `yaml:"bolt_path"`
}

// loadConfigFile reads a yaml config through viper, the config-loading
// stack the rest of the example pack reaches for (see
// tabular/reinforcement/learning.go's FromYaml). A missing path is not
// an error -- callers fall back to flag defaults.
func loadConfigFile(path string) (runConfig, error) {
	var cfg runConfig
	if path == "" {
		return cfg, nil
	}
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	if err := vp.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("ringelectsim: reading config %s: %w", path, err)
	}
	raw, err := yaml.Marshal(vp.AllSettings())
	if err != nil {
		return cfg, fmt.Errorf("ringelectsim: remarshaling config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("ringelectsim: decoding config %s: %w", path, err)
	}
	return cfg, nil
}
