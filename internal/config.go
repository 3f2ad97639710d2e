package internal

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// Config holds the parameters of a VM.
type Config struct {
	// Pages and PageSize give the size of the heap.
	Pages    int `yaml:"pages"`
	PageSize int `yaml:"page-size"`
	// Namespace names the default namespace in which the reader interns
	// unqualified symbols.
	Namespace string `yaml:"ns"`
	// Encoding is the text encoding of the standard and file streams.
	Encoding string `yaml:"encoding"`
	// Debug enables debug logging when the VM creates its own logger.
	Debug bool `yaml:"debug"`

	// Stdin, Stdout, and Errout back the standard streams. Nil means the
	// process's standard files.
	Stdin  io.Reader `yaml:"-"`
	Stdout io.Writer `yaml:"-"`
	Errout io.Writer `yaml:"-"`
	// Logger receives the VM's log records. Nil means a logger that discards
	// everything unless Debug is set.
	Logger *slog.Logger `yaml:"-"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Pages:     1024,
		PageSize:  4096,
		Namespace: "user",
		Encoding:  "utf-8",
	}
}

// ParseConfig parses a configuration string of comma-separated name:value
// pairs, e.g. "pages:2048,ns:app,debug:t", over the defaults.
func ParseConfig(s string) (Config, error) {
	cfg := DefaultConfig()
	err := cfg.Apply(s)
	return cfg, err
}

// Apply sets the options in a configuration string of the form ParseConfig
// accepts, leaving the others unchanged.
func (cfg *Config) Apply(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	for _, opt := range strings.Split(s, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(opt), ":")
		if !ok {
			return NewException(CondSyntax, "config", Nil)
		}
		if err := cfg.set(name, value); err != nil {
			return err
		}
	}
	return cfg.validate()
}

func (cfg *Config) set(name, value string) error {
	switch name {
	case "pages", "npages":
		n, err := strconv.Atoi(value)
		if err != nil {
			return NewException(CondSyntax, "config", Nil)
		}
		cfg.Pages = n
	case "page-size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return NewException(CondSyntax, "config", Nil)
		}
		cfg.PageSize = n
	case "ns":
		cfg.Namespace = value
	case "encoding":
		cfg.Encoding = value
	case "debug":
		switch value {
		case "t", "true", "1":
			cfg.Debug = true
		case "nil", "false", "0":
			cfg.Debug = false
		default:
			return NewException(CondSyntax, "config", Nil)
		}
	default:
		return NewException(CondSyntax, "config", Nil)
	}
	return nil
}

func (cfg *Config) validate() error {
	if cfg.Pages <= 0 || cfg.PageSize <= 0 || cfg.PageSize%8 != 0 {
		return NewException(CondRange, "config", Fixnum(int64(cfg.PageSize)))
	}
	if cfg.Namespace == "" || cfg.Namespace == "mu" {
		return NewException(CondRange, "config", Nil)
	}
	if _, err := Encoding(cfg.Encoding); err != nil {
		return NewException(CondRange, "config", Nil)
	}
	return nil
}

// LoadConfig reads a YAML configuration over the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	b, err := io.ReadAll(r)
	if err != nil {
		return cfg, fmt.Errorf("couldn't read config: %w", err)
	}
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return cfg, fmt.Errorf("couldn't parse config: %w", err)
	}
	return cfg, cfg.validate()
}

// String formats the configuration in the form ParseConfig accepts.
func (cfg Config) String() string {
	debug := "nil"
	if cfg.Debug {
		debug = "t"
	}
	return fmt.Sprintf("pages:%d,page-size:%d,ns:%s,encoding:%s,debug:%s",
		cfg.Pages, cfg.PageSize, cfg.Namespace, cfg.Encoding, debug)
}
