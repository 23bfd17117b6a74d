package custodian

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/viant/custodian/model"
	"github.com/viant/custodian/service/messaging"
)

// Config is a serialisable representation of the engine configuration. It
// can be populated from JSON or YAML; the zero-value inherits the package
// defaults.
type Config struct {
	// DefaultPolicy applies to requests no registered policy matches.
	DefaultPolicy *model.Rule `json:"defaultPolicy,omitempty" yaml:"defaultPolicy,omitempty"`

	Scheduler SchedulerConfig `json:"scheduler" yaml:"scheduler"`
	Upgrade   UpgradeConfig   `json:"upgrade" yaml:"upgrade"`
	Messaging MessagingConfig `json:"messaging" yaml:"messaging"`
}

// SchedulerConfig controls the background dispatch of scheduled requests.
type SchedulerConfig struct {
	PollInterval time.Duration `json:"pollInterval" yaml:"pollInterval"`
}

// UpgradeConfig controls upgrade artifact staging.
type UpgradeConfig struct {
	ArtifactURL string `json:"artifactUrl" yaml:"artifactUrl"`
}

// MessagingConfig selects the queue vendor for lifecycle events and
// notifications.
type MessagingConfig struct {
	Vendor      messaging.Vendor `json:"vendor" yaml:"vendor"`
	QueueBuffer int              `json:"queueBuffer" yaml:"queueBuffer"`

	// BasePath is the state directory of the fs vendor.
	BasePath string `json:"basePath,omitempty" yaml:"basePath,omitempty"`
}

// DefaultConfig returns a Config populated with the package defaults.
// Callers may modify the returned struct before passing it to New.
func DefaultConfig() *Config {
	return &Config{
		DefaultPolicy: &model.Rule{Kind: model.RuleAutoApproved},
		Scheduler: SchedulerConfig{
			PollInterval: time.Second,
		},
		Upgrade: UpgradeConfig{
			ArtifactURL: "/tmp/custodian/artifacts",
		},
		Messaging: MessagingConfig{
			Vendor:      messaging.VendorMemory,
			QueueBuffer: 100,
		},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Scheduler.PollInterval <= 0 {
		return fmt.Errorf("scheduler.pollInterval must be > 0")
	}
	if c.DefaultPolicy != nil {
		if err := c.DefaultPolicy.Validate(); err != nil {
			return fmt.Errorf("defaultPolicy: %w", err)
		}
	}
	switch c.Messaging.Vendor {
	case messaging.VendorMemory, messaging.VendorFs:
	default:
		return fmt.Errorf("messaging.vendor %q is not supported", c.Messaging.Vendor)
	}
	if c.Messaging.Vendor == messaging.VendorFs && c.Messaging.BasePath == "" {
		return fmt.Errorf("messaging.basePath is required for the fs vendor")
	}
	return nil
}

// LoadConfig reads a YAML configuration document from URL. Unset fields keep
// their defaults.
func LoadConfig(ctx context.Context, fs afs.Service, URL string) (*Config, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %v: %w", URL, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
