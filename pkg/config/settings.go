package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. PARTICLELAB_WINDOW_WIDTH.
const EnvPrefix = "PARTICLELAB"

// Settings 查看器运行设置
type Settings struct {
	Window   WindowSettings `json:"window" mapstructure:"window"`
	TPS      int            `json:"tps" mapstructure:"tps"`
	Seed     uint64         `json:"seed" mapstructure:"seed"` // 0 表示按时间播种
	LogLevel string         `json:"logLevel" mapstructure:"logLevel"`
	Scene    string         `json:"scene" mapstructure:"scene"` // 为空时使用内置场景
}

// WindowSettings is the viewer window size.
type WindowSettings struct {
	Width  int `json:"width" mapstructure:"width"`
	Height int `json:"height" mapstructure:"height"`
}

func newSettingsViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("window.width", 1000)
	v.SetDefault("window.height", 740)
	v.SetDefault("tps", 60)
	v.SetDefault("seed", 0)
	v.SetDefault("logLevel", "info")
	v.SetDefault("scene", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// LoadSettings reads viewer settings. An empty path uses defaults and
// environment overrides only.
func LoadSettings(path string) (*Settings, error) {
	v := newSettingsViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading settings file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %dx%d", s.Window.Width, s.Window.Height)
	}
	if s.TPS <= 0 {
		return nil, fmt.Errorf("tps must be > 0, got %d", s.TPS)
	}

	return &s, nil
}

// LoadScene loads the scene named by the settings, or the embedded demo scene
// when none is set.
func (s *Settings) LoadScene() (*SceneConfig, error) {
	if s.Scene == "" {
		return DefaultSceneConfig()
	}
	return LoadSceneConfig(s.Scene)
}
