// Package config handles loading and parsing application configuration.
// It supports three sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//  3. Neither: values come from the environment and the env-default tags.
//
// The parsed values are returned as a *Config pointer so the struct is
// shared by reference rather than copied everywhere.
package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/aanand-mishra/course-registration/internal/types"
	"github.com/ilyakaznacheev/cleanenv"
)

// Registration backends understood by Storage.RegistrationsBackend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	TCPServer `yaml:"tcp_server"`
	Storage   `yaml:"storage"`

	// Semesters is the key → label table offered to clients,
	// e.g. SEMESTERS="1:Automne,2:Hiver,3:Ete".
	Semesters map[string]string `yaml:"semesters" env:"SEMESTERS" env-default:"1:Automne,2:Hiver,3:Ete"`
}

// TCPServer holds settings for the registration listener.
type TCPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:1337".
	Addr string `yaml:"address" env:"TCP_SERVER_ADDR" env-default:"localhost:1337"`

	// ReadTimeout bounds how long a session waits for the next frame.
	// Zero disables it: a silent client then holds the listener.
	ReadTimeout time.Duration `yaml:"read_timeout" env:"TCP_READ_TIMEOUT" env-default:"0s"`

	// MaxFrameSize is the largest accepted line, in bytes.
	MaxFrameSize int `yaml:"max_frame_size" env:"TCP_MAX_FRAME_SIZE" env-default:"65536"`
}

// Storage holds the locations of the course and registration stores.
type Storage struct {
	CoursesPath          string `yaml:"courses_path" env:"COURSES_PATH" env-default:"data/cours.txt"`
	RegistrationsPath    string `yaml:"registrations_path" env:"REGISTRATIONS_PATH" env-default:"data/inscription.txt"`
	RegistrationsBackend string `yaml:"registrations_backend" env:"REGISTRATIONS_BACKEND" env-default:"file"`
	SQLitePath           string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"data/registrations.db"`
}

// Load reads the config file at path (if non-empty), applies environment
// overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config.Load: read env: %w", err)
		}
	} else {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config.Load: %w", err)
		}
		// cleanenv.ReadConfig picks the parser from the file extension
		// (.yaml, .yml, .toml, .json, .env) and then reads env overrides.
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: read %s: %w", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// MustLoad resolves the config path from CONFIG_PATH or --config and
// calls Load. If this function returns, the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.RegistrationsBackend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown registrations backend %q", c.RegistrationsBackend)
	}
	if c.MaxFrameSize < 64 {
		return fmt.Errorf("max frame size %d is too small", c.MaxFrameSize)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("negative read timeout %s", c.ReadTimeout)
	}
	return nil
}

// SemesterChoices returns the semester table ordered by key. Keys are
// compared as integers when every key is one, and as strings otherwise.
func (c *Config) SemesterChoices() []types.Semester {
	keys := make([]string, 0, len(c.Semesters))
	numeric := make(map[string]int, len(c.Semesters))
	for k := range c.Semesters {
		keys = append(keys, k)
		if n, err := strconv.Atoi(k); err == nil {
			numeric[k] = n
		}
	}
	if len(numeric) == len(keys) {
		sort.Slice(keys, func(i, j int) bool { return numeric[keys[i]] < numeric[keys[j]] })
	} else {
		sort.Strings(keys)
	}

	choices := make([]types.Semester, 0, len(keys))
	for _, k := range keys {
		choices = append(choices, types.Semester{Key: k, Label: c.Semesters[k]})
	}
	return choices
}
