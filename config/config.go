// Package config implements the TOML configuration of the rainbow CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	rainbow "github.com/BackendStack21/rainbow-go"
	"github.com/BackendStack21/rainbow-go/core"
	"github.com/BackendStack21/rainbow-go/utils"
)

const (
	defaultParamSet    = rainbow.Classic
	defaultDigest      = "sha256"
	defaultLogLevel    = "NOTICE"
	defaultMaxAttempts = 256

	// maxAttempts caps the configurable retry budgets.
	maxAttempts = 1 << 20
)

// Rainbow is the scheme configuration.
type Rainbow struct {
	// ParamSet names a predefined parameter set. It may be omitted when
	// V1, O1 and O2 are all given.
	ParamSet string

	// V1, O1 and O2 select custom dimensions.
	V1 int
	O1 int
	O2 int

	// Digest selects the message digest: "sha256" or "shake256".
	Digest string

	// MaxInversionAttempts bounds the vinegar resampling while signing.
	MaxInversionAttempts int

	// MaxAffineAttempts bounds the matrix resampling during key generation.
	MaxAffineAttempts int
}

// Params resolves the configured dimensions.
func (r *Rainbow) Params() (rainbow.Params, error) {
	if r.V1 != 0 || r.O1 != 0 || r.O2 != 0 {
		p := rainbow.Params{Set: rainbow.ParamSet(r.ParamSet), V1: r.V1, O1: r.O1, O2: r.O2}
		if err := core.ValidateParams(p); err != nil {
			return rainbow.Params{}, fmt.Errorf("config: Rainbow: %w", err)
		}
		return p, nil
	}
	p, err := core.GetParams(rainbow.ParamSet(r.ParamSet))
	if err != nil {
		return rainbow.Params{}, fmt.Errorf("config: Rainbow: %w", err)
	}
	return p, nil
}

func (r *Rainbow) validate() error {
	if r.ParamSet == "" && r.V1 == 0 && r.O1 == 0 && r.O2 == 0 {
		r.ParamSet = string(defaultParamSet)
	}
	if _, err := r.Params(); err != nil {
		return err
	}

	r.Digest = strings.ToLower(r.Digest)
	switch r.Digest {
	case "sha256", "shake256":
	case "":
		r.Digest = defaultDigest
	default:
		return fmt.Errorf("config: Rainbow: Digest '%v' is invalid", r.Digest)
	}

	for _, a := range []struct {
		name  string
		value *int
	}{
		{"MaxInversionAttempts", &r.MaxInversionAttempts},
		{"MaxAffineAttempts", &r.MaxAffineAttempts},
	} {
		if *a.value == 0 {
			*a.value = defaultMaxAttempts
		}
		if err := utils.CheckPositive(*a.value, a.name); err != nil {
			return fmt.Errorf("config: Rainbow: %w", err)
		}
		if err := utils.CheckLength(*a.value, maxAttempts); err != nil {
			return fmt.Errorf("config: Rainbow: %s: %w", a.name, err)
		}
	}
	return nil
}

// Logging is the logging configuration.
type Logging struct {
	// Disable disables logging entirely.
	Disable bool

	// File specifies the log file. If omitted the CLI logs to stderr.
	File string

	// Level specifies the log level.
	Level string
}

func (l *Logging) validate() error {
	lvl := strings.ToUpper(l.Level)
	switch lvl {
	case "ERROR", "WARNING", "NOTICE", "INFO", "DEBUG":
	case "":
		lvl = defaultLogLevel
	default:
		return fmt.Errorf("config: Logging: Level '%v' is invalid", l.Level)
	}
	l.Level = lvl
	return nil
}

// Metrics is the metrics export configuration.
type Metrics struct {
	// TextFile is written in the node exporter textfile format after every
	// command. Empty disables the export.
	TextFile string
}

// Config is the top level configuration.
type Config struct {
	Rainbow *Rainbow
	Logging *Logging
	Metrics *Metrics
}

// Validate fills in defaults and checks every section.
func (c *Config) Validate() error {
	if c.Rainbow == nil {
		c.Rainbow = &Rainbow{}
	}
	if c.Logging == nil {
		c.Logging = &Logging{}
	}
	if c.Metrics == nil {
		c.Metrics = &Metrics{}
	}
	if err := c.Rainbow.validate(); err != nil {
		return err
	}
	return c.Logging.validate()
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := new(Config)
	if err := c.Validate(); err != nil {
		panic("BUG: config: invalid defaults: " + err.Error())
	}
	return c
}

// Load parses and validates the provided buffer b as a config file body and
// returns the Config.
func Load(b []byte) (*Config, error) {
	if b == nil {
		return nil, errors.New("config: no nil buffer as config file")
	}
	cfg := new(Config)
	md, err := toml.Decode(string(b), cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return nil, fmt.Errorf("config: Undecoded keys in config file: %v", undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads, parses and validates the provided file and returns the
// Config.
func LoadFile(f string) (*Config, error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return nil, err
	}
	return Load(b)
}
