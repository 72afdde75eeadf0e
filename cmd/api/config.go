package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"serviceanalyst.onebusaway.org/internal/app"
	"serviceanalyst.onebusaway.org/internal/appconf"
	"serviceanalyst.onebusaway.org/internal/logging"
)

// config holds the settings read from the command line. Values from the optional YAML file fill in
// every flag that was not given explicitly.
type config struct {
	port       int
	env        string
	apiKeys    []string
	gtfs       string
	feedName   string
	lenient    bool
	configPath string
	rateLimit  int
	logLevel   string

	compression appconf.CompressionConfig
}

// parseFlags reads args, taking flag defaults from the environment where one is set.
func parseFlags(args []string, getenv func(string) string, output io.Writer) (config, map[string]bool, error) {
	var cfg config
	var apiKeysFlag string

	defaultPort := 4000
	if p := getenv("SERVICE_ANALYST_PORT"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return cfg, nil, fmt.Errorf("invalid SERVICE_ANALYST_PORT %q: %w", p, err)
		}
		defaultPort = n
	}

	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.IntVar(&cfg.port, "port", defaultPort, "API server port")
	fs.StringVar(&cfg.env, "env", "development", "Environment (development|test|production)")
	fs.StringVar(&apiKeysFlag, "api-keys", "test", "Comma Separated API Keys (test, etc)")
	fs.StringVar(&cfg.gtfs, "gtfs", getenv("SERVICE_ANALYST_GTFS"), "GTFS feed: a directory, a zip file, or an http(s) URL of a zip")
	fs.BoolVar(&cfg.lenient, "lenient", false, "Parse zip feeds leniently, skipping malformed rows")
	fs.StringVar(&cfg.configPath, "config", "", "Optional YAML configuration file")
	fs.IntVar(&cfg.rateLimit, "rate-limit", 100, "Requests per second per API key (negative disables limiting)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	if err := fs.Parse(args); err != nil {
		return cfg, nil, err
	}

	cfg.apiKeys = splitKeys(apiKeysFlag)

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return cfg, set, nil
}

func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// mergeFile applies file settings to every flag not set on the command line.
func mergeFile(cfg config, file *appconf.FileConfig, set map[string]bool) config {
	if file == nil {
		return cfg
	}
	s := file.Server
	if s.Port != 0 && !set["port"] {
		cfg.port = s.Port
	}
	if s.Env != appconf.Development && !set["env"] {
		cfg.env = s.Env.String()
	}
	if len(s.APIKeys) > 0 && !set["api-keys"] {
		cfg.apiKeys = s.APIKeys
	}
	if s.RateLimit != 0 && !set["rate-limit"] {
		cfg.rateLimit = s.RateLimit
	}
	if s.LogLevel != "" && !set["log-level"] {
		cfg.logLevel = s.LogLevel
	}
	if file.Feed != nil {
		if !set["gtfs"] {
			cfg.gtfs = file.Feed.Source
		}
		if !set["lenient"] {
			cfg.lenient = file.Feed.Lenient
		}
		cfg.feedName = file.Feed.Name
	}
	cfg.compression = file.Compression
	return cfg
}

// loadConfig parses flags and, when -config is given, merges the YAML file.
func loadConfig(args []string, getenv func(string) string, output io.Writer) (config, error) {
	cfg, set, err := parseFlags(args, getenv, output)
	if err != nil {
		return cfg, err
	}
	if cfg.configPath != "" {
		file, err := appconf.Load(cfg.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = mergeFile(cfg, file, set)
	}
	if cfg.gtfs == "" {
		return cfg, fmt.Errorf("no GTFS feed given: use -gtfs, SERVICE_ANALYST_GTFS, or feed.source in the config file")
	}
	return cfg, nil
}

func (cfg config) appConfig() (app.Config, error) {
	env, err := appconf.EnvironmentFromString(cfg.env)
	if err != nil {
		return app.Config{}, err
	}
	return app.Config{
		Port:        cfg.port,
		Env:         env,
		ApiKeys:     cfg.apiKeys,
		RateLimit:   cfg.rateLimit,
		Compression: cfg.compression,
	}, nil
}

func (cfg config) logger(w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.logLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewStructuredLogger(w, level), nil
}
