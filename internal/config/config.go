package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"amtconsole/internal/answers"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type View string

const (
	ViewHITs  View = "hits"
	ViewUsers View = "users"
)

type Mode int

const (
	ModeConsole Mode = iota
	ModeSubmit
)

var (
	ErrExportOut = errors.New("--export requires --out path")
	ErrNoAnswers = errors.New("submit requires at least one --answer name=value")
)

type Config struct {
	Mode         Mode
	ServerURL    string
	AnswersURL   string
	View         View
	HITsPath     string
	UsersPath    string
	Follow       bool
	Theme        Theme
	TimeoutSec   int
	Insecure     bool
	ExportFormat string
	ExportOut    string
	PollInterval time.Duration
	PollAttempts int
	MaxRows      int
	ConfigFile   string
	ShowVersion  bool
	Answers      []answers.Input
}

// answerList collects repeated --answer flags.
type answerList []answers.Input

func (a *answerList) String() string { return fmt.Sprint(len(*a)) }

func (a *answerList) Set(v string) error {
	in, err := answers.ParseArg(v)
	if err != nil {
		return err
	}
	*a = append(*a, in)
	return nil
}

// Load parses args (without the program name). A leading "submit" selects
// the answer submission mode. A .env file in the working directory is read
// first, then an optional --config file fills flags not given explicitly.
func Load(args []string) (*Config, error) {
	return load(args, os.Stderr)
}

func load(args []string, errOut io.Writer) (*Config, error) {
	_ = godotenv.Load() // optional

	cfg := &Config{Mode: ModeConsole}
	name := "amtconsole"
	if len(args) > 0 && args[0] == "submit" {
		cfg.Mode = ModeSubmit
		name += " submit"
		args = args[1:]
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.StringVar(&cfg.ServerURL, "server", getenvDefault("AMTCONSOLE_SERVER", "http://127.0.0.1:5000"), "backend base URL")
	fs.StringVar(&cfg.AnswersURL, "answers-url", getenvDefault("AMTCONSOLE_ANSWERS_URL", "https://127.0.0.1:5000/getAnswers"), "absolute URL answers are posted to")
	fs.IntVar(&cfg.TimeoutSec, "timeout-sec", getenvDefaultInt("AMTCONSOLE_TIMEOUT_SEC", 30), "HTTP request timeout in seconds")
	fs.BoolVar(&cfg.Insecure, "insecure", getenvDefaultBool("AMTCONSOLE_INSECURE", false), "skip TLS certificate verification")
	fs.StringVar(&cfg.ConfigFile, "config", getenvDefault("AMTCONSOLE_CONFIG", ""), "optional YAML config file")

	var answerArgs answerList
	view := string(ViewHITs)
	theme := string(ThemeDark)
	pollMs := 500
	if cfg.Mode == ModeSubmit {
		fs.Var(&answerArgs, "answer", "answer as name=value (repeatable)")
	} else {
		fs.StringVar(&view, "view", string(ViewHITs), "initial table: hits|users")
		fs.StringVar(&cfg.HITsPath, "hits", getenvDefault("AMTCONSOLE_HITS", ""), "HIT rows file (JSON array or NDJSON); demo rows when empty")
		fs.StringVar(&cfg.UsersPath, "users", getenvDefault("AMTCONSOLE_USERS", ""), "user rows file (JSON array or NDJSON); demo rows when empty")
		fs.BoolVar(&cfg.Follow, "follow", false, "keep reading rows appended to the files")
		fs.StringVar(&theme, "theme", string(ThemeDark), "theme: dark|light")
		fs.StringVar(&cfg.ExportFormat, "export", "", "local export format: csv|json|xlsx")
		fs.StringVar(&cfg.ExportOut, "out", "", "output path for export")
		fs.IntVar(&pollMs, "poll-interval-ms", 500, "export readiness poll interval")
		fs.IntVar(&cfg.PollAttempts, "poll-attempts", 20, "export readiness poll attempts")
		fs.IntVar(&cfg.MaxRows, "max-rows", 50000, "rows kept per table")
		fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.ConfigFile != "" {
		if err := applyFile(cfg.ConfigFile, fs); err != nil {
			return nil, err
		}
	}

	cfg.View = View(strings.ToLower(view))
	cfg.Theme = Theme(strings.ToLower(theme))
	cfg.PollInterval = time.Duration(pollMs) * time.Millisecond
	cfg.Answers = answerArgs

	if cfg.View != ViewHITs && cfg.View != ViewUsers {
		return nil, fmt.Errorf("unknown view %q (want hits|users)", cfg.View)
	}
	if cfg.ExportFormat != "" && cfg.ExportOut == "" {
		return nil, ErrExportOut
	}
	if cfg.Mode == ModeSubmit && len(cfg.Answers) == 0 && !cfg.ShowVersion {
		return nil, ErrNoAnswers
	}
	if cfg.MaxRows < 100 {
		cfg.MaxRows = 100
	}
	if cfg.PollAttempts < 1 {
		cfg.PollAttempts = 1
	}
	return cfg, nil
}

// fileKeys maps config file keys to flag names.
var fileKeys = map[string]string{
	"server":                  "server",
	"answers_url":             "answers-url",
	"timeout_sec":             "timeout-sec",
	"insecure":                "insecure",
	"view":                    "view",
	"hits":                    "hits",
	"users":                   "users",
	"follow":                  "follow",
	"theme":                   "theme",
	"export.format":           "export",
	"export.out":              "out",
	"export.poll_interval_ms": "poll-interval-ms",
	"export.poll_attempts":    "poll-attempts",
	"max_rows":                "max-rows",
}

// applyFile fills flags that were not set on the command line from a YAML file.
func applyFile(path string, fs *flag.FlagSet) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	for key, flagName := range fileKeys {
		if explicit[flagName] || !v.IsSet(key) || fs.Lookup(flagName) == nil {
			continue
		}
		if err := fs.Set(flagName, v.GetString(key)); err != nil {
			return fmt.Errorf("config %s: %s: %w", path, key, err)
		}
	}
	return nil
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvDefaultInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvDefaultBool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func (c *Config) Timeout() time.Duration { return time.Duration(c.TimeoutSec) * time.Second }

func (c *Config) String() string {
	return fmt.Sprintf("server=%s view=%s hits=%s users=%s follow=%v theme=%s", c.ServerURL, c.View, c.HITsPath, c.UsersPath, c.Follow, c.Theme)
}
