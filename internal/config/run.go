package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/repo"
)

const DefaultInterval = 10

// ConfigError reports a missing or malformed monitoring setting.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return "config: " + e.Err.Error()
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// RunConfig is resolved once at startup and never re-read.
type RunConfig struct {
	IntervalSeconds      int
	Identifier           string
	NotificationEndpoint string
	Sites                []string
	TCPHosts             []string
}

func Default() RunConfig {
	return RunConfig{IntervalSeconds: DefaultInterval}
}

func (c RunConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// AddURL adds a single site on top of whatever the file provided.
func (c *RunConfig) AddURL(u string) {
	if u = strings.TrimSpace(u); u != "" {
		c.Sites = append(c.Sites, u)
	}
}

// SetInterval parses an interval override such as the -i flag.
func (c *RunConfig) SetInterval(raw string) error {
	n, err := ParseInterval(raw)
	if err != nil {
		return &ConfigError{Err: err}
	}
	c.IntervalSeconds = n
	return nil
}

// Populate registers every configured target; duplicates and empty entries
// are dropped by the registry.
func (c RunConfig) Populate(r repo.Registry) {
	for _, s := range c.Sites {
		r.Register(s, domain.KindHTTP)
	}
	for _, h := range c.TCPHosts {
		r.Register(h, domain.KindTCP)
	}
}

func ParseInterval(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("interval %q is not an integer", raw)
	}
	if n < 1 {
		return 0, fmt.Errorf("interval must be at least 1 second, got %d", n)
	}
	return n, nil
}

// LoadFile reads an INI file with a [settings] section, or a YAML file when
// the extension is .yaml or .yml.
func LoadFile(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, &ConfigError{Path: path, Err: err}
	}

	var raw rawSettings
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		raw, err = decodeYAML(data)
	default:
		raw, err = decodeINI(data)
	}
	if err != nil {
		return RunConfig{}, &ConfigError{Path: path, Err: err}
	}

	cfg, err := raw.resolve()
	if err != nil {
		return RunConfig{}, &ConfigError{Path: path, Err: err}
	}
	return cfg, nil
}

// rawSettings is the format-independent view of a config file.
type rawSettings struct {
	Interval   string
	Identifier string
	Endpoint   string
	Sites      []string
	TCP        []string
}

func (r rawSettings) resolve() (RunConfig, error) {
	cfg := Default()
	cfg.Identifier = r.Identifier
	cfg.NotificationEndpoint = strings.TrimSpace(r.Endpoint)

	var errs error
	if strings.TrimSpace(r.Interval) != "" {
		n, err := ParseInterval(r.Interval)
		errs = multierr.Append(errs, err)
		cfg.IntervalSeconds = n
	}
	if cfg.NotificationEndpoint != "" {
		if u, err := url.Parse(cfg.NotificationEndpoint); err != nil || u.Scheme == "" || u.Host == "" {
			errs = multierr.Append(errs, fmt.Errorf("notification endpoint %q is not an absolute URL", cfg.NotificationEndpoint))
		}
	}
	if errs != nil {
		return RunConfig{}, errs
	}

	// scheme is required; "example.com" without http(s):// is dropped
	for _, s := range r.Sites {
		if strings.HasPrefix(s, "http") {
			cfg.Sites = append(cfg.Sites, s)
		}
	}
	for _, h := range r.TCP {
		if h != "" {
			cfg.TCPHosts = append(cfg.TCPHosts, h)
		}
	}
	return cfg, nil
}

func decodeINI(data []byte) (rawSettings, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:             true,
		IgnoreInlineComment:     true,
		PreserveSurroundedQuote: true,
	}, data)
	if err != nil {
		return rawSettings{}, fmt.Errorf("parse ini: %w", err)
	}
	sec, err := f.GetSection("settings")
	if err != nil {
		return rawSettings{}, errors.New("missing [settings] section")
	}

	endpoint := sec.Key("notification_endpoint").String()
	if endpoint == "" {
		endpoint = sec.Key("slack_url").String()
	}
	return rawSettings{
		Interval:   sec.Key("interval").String(),
		Identifier: sec.Key("identifier").String(),
		Endpoint:   endpoint,
		Sites:      strings.Split(sec.Key("sites").String(), " "),
		TCP:        strings.Split(sec.Key("tcp").String(), " "),
	}, nil
}

// wordList accepts either a YAML sequence or a space separated scalar.
type wordList []string

func (w *wordList) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		*w = strings.Split(n.Value, " ")
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := n.Decode(&items); err != nil {
			return err
		}
		*w = items
		return nil
	}
	return fmt.Errorf("line %d: expected a list or a string", n.Line)
}

type yamlSettings struct {
	Interval             string   `yaml:"interval"`
	Identifier           string   `yaml:"identifier"`
	SlackURL             string   `yaml:"slack_url"`
	NotificationEndpoint string   `yaml:"notification_endpoint"`
	Sites                wordList `yaml:"sites"`
	TCP                  wordList `yaml:"tcp"`
}

type yamlFile struct {
	Settings *yamlSettings `yaml:"settings"`
	yamlSettings `yaml:",inline"`
}

func decodeYAML(data []byte) (rawSettings, error) {
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return rawSettings{}, fmt.Errorf("parse yaml: %w", err)
	}
	s := f.yamlSettings
	if f.Settings != nil {
		s = *f.Settings
	}
	endpoint := s.NotificationEndpoint
	if endpoint == "" {
		endpoint = s.SlackURL
	}
	return rawSettings{
		Interval:   s.Interval,
		Identifier: s.Identifier,
		Endpoint:   endpoint,
		Sites:      s.Sites,
		TCP:        s.TCP,
	}, nil
}
