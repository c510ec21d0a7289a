package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/berth-web/berth/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "berth.json"

	// DefaultAddress is the default listen address.
	DefaultAddress = ":8080"

	// DefaultIndexName is the default index base name for attachments.
	DefaultIndexName = "index"
)

// Config represents the complete berth.json configuration.
type Config struct {
	// Name is the deployment name, used in logs.
	Name string `json:"name,omitempty"`

	// Server contains the HTTP connector settings.
	Server ServerConfig `json:"server,omitempty"`

	// Hosts are the virtual hosts to register, in selection order.
	Hosts []HostConfig `json:"hosts,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP connector settings.
type ServerConfig struct {
	// Address is the listen address (default ":8080").
	Address string `json:"address,omitempty"`

	// MetricsPath is the Prometheus endpoint path. Empty disables it.
	MetricsPath string `json:"metricsPath,omitempty"`
}

// HostConfig describes one virtual host.
type HostConfig struct {
	// Name is the host's display name.
	Name string `json:"name,omitempty"`

	// Default marks this host as the fallback when no host matches.
	Default bool `json:"default,omitempty"`

	// Patterns holds the eight matching expressions. Empty fields
	// match everything.
	Patterns PatternsConfig `json:"patterns,omitempty"`

	// Attachments are the directory attachments, in priority order.
	Attachments []AttachmentConfig `json:"attachments,omitempty"`
}

// PatternsConfig mirrors the host's eight pattern fields. Each value
// is a regular expression matched in full against one request
// attribute.
type PatternsConfig struct {
	HostDomain     string `json:"hostDomain,omitempty"`
	HostPort       string `json:"hostPort,omitempty"`
	HostScheme     string `json:"hostScheme,omitempty"`
	ResourceDomain string `json:"resourceDomain,omitempty"`
	ResourcePort   string `json:"resourcePort,omitempty"`
	ResourceScheme string `json:"resourceScheme,omitempty"`
	ServerAddress  string `json:"serverAddress,omitempty"`
	ServerPort     string `json:"serverPort,omitempty"`
}

// AttachmentConfig describes one directory attachment on a host.
type AttachmentConfig struct {
	// Pattern is the URI path template the attachment answers for.
	// Empty with Default false attaches at the host root.
	Pattern string `json:"pattern,omitempty"`

	// Default attaches the directory as the host's fallback route.
	Default bool `json:"default,omitempty"`

	// Root is the absolute root URI, e.g. "file:///srv/data/" or
	// "s3://bucket/prefix/".
	Root string `json:"root"`

	// Index is the index base name (default "index").
	Index string `json:"index,omitempty"`

	// Listing enables directory listings when no index exists.
	Listing bool `json:"listing,omitempty"`

	// Modifiable enables PUT and DELETE.
	Modifiable bool `json:"modifiable,omitempty"`

	// Deep exposes entries below the first level. Defaults to true;
	// use the pointer form to switch it off.
	Deep *bool `json:"deep,omitempty"`

	// Negotiate enables content negotiation. Defaults to true.
	Negotiate *bool `json:"negotiate,omitempty"`

	// Comparator orders listings: "alphanumeric" (default) or
	// "lexical".
	Comparator string `json:"comparator,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Address:     DefaultAddress,
			MetricsPath: "/metrics",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for berth.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("B003").
				WithDetail("No " + ConfigFileName + " found at " + path).
				WithSuggestion("Create " + ConfigFileName + " with at least one host entry")
		}
		return nil, errors.New("B003").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("B004").
			WithDetail(err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("B004").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Newf(errors.CategoryConfig, "writing %s: %v", path, err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	for i := range c.Hosts {
		h := &c.Hosts[i]
		if h.Name == "" {
			h.Name = "host-" + itoa(i)
		}
		for j := range h.Attachments {
			a := &h.Attachments[j]
			if a.Index == "" {
				a.Index = DefaultIndexName
			}
			if a.Comparator == "" {
				a.Comparator = "alphanumeric"
			}
		}
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	for _, h := range c.Hosts {
		if len(h.Attachments) == 0 {
			return errors.New("B006").
				WithDetail("Host " + h.Name + " has no attachments")
		}
		for _, a := range h.Attachments {
			if !strings.Contains(a.Root, "://") {
				return errors.New("B002").
					WithDetail("Host " + h.Name + ": root " + a.Root + " has no scheme")
			}
			switch a.Comparator {
			case "", "alphanumeric", "lexical":
			default:
				return errors.New("B005").
					WithDetail("Host " + h.Name + ": comparator " + a.Comparator)
			}
		}
	}
	return nil
}

// DeepAccess reports whether the attachment exposes nested entries.
func (a *AttachmentConfig) DeepAccess() bool {
	return a.Deep == nil || *a.Deep
}

// NegotiateContent reports whether the attachment negotiates variants.
func (a *AttachmentConfig) NegotiateContent() bool {
	return a.Negotiate == nil || *a.Negotiate
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the directory
// containing berth.json, or returns an error if none is found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("B003").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// itoa converts int to string without importing strconv.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	digits := make([]byte, 0, 10)
	for n > 0 {
		digits = append(digits, byte('0'+n%10))
		n /= 10
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}
