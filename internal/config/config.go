package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/dkeye/mirror/internal/domain"
)

type Config struct {
	Mode       string `mapstructure:"mode"`
	LogLevel   string `mapstructure:"log_level"`
	Port       int    `mapstructure:"port"`
	StaticPath string `mapstructure:"static_path"`
	Secret     string `mapstructure:"secret"`

	WS       WSConfig       `mapstructure:"ws"`
	Media    MediaConfig    `mapstructure:"media"`
	Kurento  KurentoConfig  `mapstructure:"kurento"`
	Loopback LoopbackConfig `mapstructure:"loopback"`
	Overlay  domain.Overlay `mapstructure:"overlay"`
}

type WSConfig struct {
	Path         string        `mapstructure:"path"`
	ReadLimit    int64         `mapstructure:"read_limit"`
	PingPeriod   time.Duration `mapstructure:"ping_period"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	SendBuffer   int           `mapstructure:"send_buffer"`
	MsgRate      float64       `mapstructure:"msg_rate"`
	MsgBurst     int           `mapstructure:"msg_burst"`
}

// PongWait is how long the read pump waits for any inbound frame.
func (c WSConfig) PongWait() time.Duration {
	return c.PingPeriod * 10 / 9
}

type MediaConfig struct {
	Driver       string        `mapstructure:"driver"`
	MaxSessions  int64         `mapstructure:"max_sessions"`
	StartTimeout time.Duration `mapstructure:"start_timeout"`
}

type KurentoConfig struct {
	URL          string        `mapstructure:"url"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	PingInterval time.Duration `mapstructure:"ping_interval"`
}

type LoopbackConfig struct {
	STUNURLs   []string `mapstructure:"stun_urls"`
	UDPPortMin uint16   `mapstructure:"udp_port_min"`
	UDPPortMax uint16   `mapstructure:"udp_port_max"`
}

const (
	DriverKurento  = "kurento"
	DriverLoopback = "loopback"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("log_level", "info")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("secret", "")

	v.SetDefault("ws.path", "/magicmirror")
	v.SetDefault("ws.read_limit", 32768)
	v.SetDefault("ws.ping_period", "54s")
	v.SetDefault("ws.write_timeout", "5s")
	v.SetDefault("ws.send_buffer", 64)
	v.SetDefault("ws.msg_rate", 50.0)
	v.SetDefault("ws.msg_burst", 100)

	v.SetDefault("media.driver", DriverKurento)
	v.SetDefault("media.max_sessions", 0)
	v.SetDefault("media.start_timeout", "15s")

	v.SetDefault("kurento.url", "ws://localhost:8888/kurento")
	v.SetDefault("kurento.dial_timeout", "5s")
	v.SetDefault("kurento.ping_interval", "240s")

	v.SetDefault("loopback.stun_urls", []string{"stun:stun.l.google.com:19302"})
	v.SetDefault("loopback.udp_port_min", 0)
	v.SetDefault("loopback.udp_port_max", 0)

	v.SetDefault("overlay.uri", "http://files.kurento.org/img/mario-wings.png")
	v.SetDefault("overlay.offset_x", -0.35)
	v.SetDefault("overlay.offset_y", -1.2)
	v.SetDefault("overlay.width", 1.6)
	v.SetDefault("overlay.height", 1.6)
}

// Load reads config/config.<CONFIG_ENV>.yaml, or path when it is not empty.
// MIRROR_* environment variables (optionally from .env) override file values.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Info().Str("module", "config").Msg("loaded .env")
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MIRROR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		env := os.Getenv("CONFIG_ENV")
		if env == "" {
			env = "dev"
		}
		path = fmt.Sprintf("config/config.%s.yaml", env)
	}
	v.SetConfigFile(path)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", path).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", path).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Secret == "" {
		cfg.Secret = uuid.NewString()
		log.Warn().Str("module", "config").Msg("secret not set, client tokens will not survive a restart")
	}
	log.Info().
		Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("driver", cfg.Media.Driver).
		Msg("config ready")
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Media.Driver {
	case DriverKurento, DriverLoopback:
	default:
		return fmt.Errorf("unknown media driver %q", c.Media.Driver)
	}
	if c.WS.SendBuffer <= 0 {
		return fmt.Errorf("ws.send_buffer must be positive, got %d", c.WS.SendBuffer)
	}
	if c.Loopback.UDPPortMax < c.Loopback.UDPPortMin {
		return fmt.Errorf("loopback udp port range %d-%d is inverted", c.Loopback.UDPPortMin, c.Loopback.UDPPortMax)
	}
	return nil
}
