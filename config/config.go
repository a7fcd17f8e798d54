// Package config loads hif-core's runtime configuration: the transport
// target, TLS mode, deadlines, HLC node identity, and bloom-filter sizing
// defaults. It layers viper over a built-in YAML default so a config file
// or environment variables only need to override what differs.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// defaultConfig is the built-in baseline every Config starts from. Callers
// merge a config file and/or environment overrides on top of it.
const defaultConfig = `
target: ""
authority: ""
useTLS: true
authToken: ""
softDeadline: 3s
hardDeadline: 10s
socketTimeout: 1s
nodeID: 0
bloom:
  expectedItems: 10000
  falsePositiveRate: 0.01
debug: false
`

// Config is the resolved set of knobs a unary call and the coordination
// primitives need at runtime.
type Config struct {
	Target        string        `mapstructure:"target"`
	Authority     string        `mapstructure:"authority"`
	UseTLS        bool          `mapstructure:"useTLS"`
	AuthToken     string        `mapstructure:"authToken"`
	SoftDeadline  time.Duration `mapstructure:"softDeadline"`
	HardDeadline  time.Duration `mapstructure:"hardDeadline"`
	SocketTimeout time.Duration `mapstructure:"socketTimeout"`
	NodeID        uint32        `mapstructure:"nodeID"`
	Bloom         BloomConfig   `mapstructure:"bloom"`
	Debug         bool          `mapstructure:"debug"`
}

// BloomConfig sizes a bloom filter before the first item is known; see
// pkg/bloom.New.
type BloomConfig struct {
	ExpectedItems     int     `mapstructure:"expectedItems"`
	FalsePositiveRate float64 `mapstructure:"falsePositiveRate"`
}

// New builds a Config from the built-in default, an optional config file
// at path (skipped if path is empty), and environment variables prefixed
// HIF_ (e.g. HIF_TARGET, HIF_USETLS). Environment and file values both
// override the default; the file is read after the default is loaded, and
// env takes precedence over both.
func New(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("hif")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadConfig(strings.NewReader(defaultConfig)); err != nil {
		return nil, fmt.Errorf("config: failed to read default config: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to merge %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %w", err)
	}

	if cfg.Authority == "" {
		cfg.Authority = cfg.Target
	}

	return &cfg, nil
}
