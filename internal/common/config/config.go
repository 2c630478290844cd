// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Instagram     InstagramConfig    `mapstructure:"instagram"`
	Hosting       HostingConfig      `mapstructure:"hosting"`
	Publish       PublishConfig      `mapstructure:"publish"`
	Cache         CacheConfig        `mapstructure:"cache"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address      string `mapstructure:"address"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int    `mapstructure:"write_timeout"` // milliseconds
}

// InstagramConfig holds Graph API settings.
type InstagramConfig struct {
	BaseURL string `mapstructure:"base_url"`
	AppID   string `mapstructure:"app_id"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// HostingConfig selects the image hosting backend. Mode "simulated" needs no
// further settings; mode "s3" uses the S3 section.
type HostingConfig struct {
	Mode string   `mapstructure:"mode"`
	S3   S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	KeyPrefix     string `mapstructure:"key_prefix"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// PublishConfig holds workflow tuning knobs.
type PublishConfig struct {
	SimulatedDelay int `mapstructure:"simulated_delay"` // milliseconds per simulated remote call
	Timeout        int `mapstructure:"timeout"`         // milliseconds for a whole run
}

// CacheConfig holds the optional Redis cache for account profile lookups.
type CacheConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Address    string `mapstructure:"address"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	ProfileTTL int    `mapstructure:"profile_ttl"` // milliseconds
}

// NotificationConfig holds the optional SNS progress fan-out.
type NotificationConfig struct {
	SNS struct {
		Enabled  bool   `mapstructure:"enabled"`
		Region   string `mapstructure:"region"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
