package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	xdraw "golang.org/x/image/draw"

	"github.com/setanarut/tokenlayer"
)

type Config struct {
	View   ViewConfig   `mapstructure:"view"`
	Mask   MaskConfig   `mapstructure:"mask"`
	Render RenderConfig `mapstructure:"render"`
	Log    LogConfig    `mapstructure:"log"`
}

type ViewConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

type MaskConfig struct {
	FillColor string `mapstructure:"fill_color"`
	Threshold int    `mapstructure:"threshold"`
}

type RenderConfig struct {
	// nearest, bilinear or catmullrom
	Interpolation string `mapstructure:"interpolation"`
	// Backdrop colour: hex, "auto" to pick one from the image, or empty.
	Background string `mapstructure:"background"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode"`
}

// Load reads a configuration file. Keys missing from the file keep their
// defaults and TOKENLAYER_* environment variables override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("tokenlayer")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// New loads path, falling back to the defaults when it cannot be read.
func New(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		return getDefaultConfig()
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.View.Width <= 0 || c.View.Height <= 0 {
		return fmt.Errorf("invalid view size %dx%d", c.View.Width, c.View.Height)
	}
	if c.Mask.Threshold < 0 || c.Mask.Threshold > 255 {
		return fmt.Errorf("mask threshold %d out of range [0,255]", c.Mask.Threshold)
	}
	if _, err := c.Interpolator(); err != nil {
		return err
	}
	if _, err := tokenlayer.ParseColor(c.Mask.FillColor); err != nil {
		return err
	}
	return nil
}

// MaskConfig converts the mask section into the library type.
func (c *Config) MaskConfig() (tokenlayer.MaskConfig, error) {
	fill, err := tokenlayer.ParseColor(c.Mask.FillColor)
	if err != nil {
		return tokenlayer.MaskConfig{}, err
	}
	mc := tokenlayer.DefaultMaskConfig()
	if fill != nil {
		mc.FillColor = fill
	}
	mc.Threshold = uint8(c.Mask.Threshold)
	return mc, nil
}

func (c *Config) Interpolator() (xdraw.Interpolator, error) {
	switch strings.ToLower(c.Render.Interpolation) {
	case "nearest":
		return xdraw.NearestNeighbor, nil
	case "", "bilinear":
		return xdraw.BiLinear, nil
	case "catmullrom":
		return xdraw.CatmullRom, nil
	default:
		return nil, fmt.Errorf("unknown interpolation %q", c.Render.Interpolation)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("view.width", 400)
	v.SetDefault("view.height", 400)

	v.SetDefault("mask.fill_color", "#000000")
	v.SetDefault("mask.threshold", int(tokenlayer.DefaultThreshold))

	v.SetDefault("render.interpolation", "bilinear")
	v.SetDefault("render.background", "")

	v.SetDefault("log.mode", "debug")
}

func getDefaultConfig() *Config {
	return &Config{
		View: ViewConfig{
			Width:  400,
			Height: 400,
		},
		Mask: MaskConfig{
			FillColor: "#000000",
			Threshold: int(tokenlayer.DefaultThreshold),
		},
		Render: RenderConfig{
			Interpolation: "bilinear",
		},
		Log: LogConfig{
			Mode: "debug",
		},
	}
}
