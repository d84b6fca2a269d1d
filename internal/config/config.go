// Package config loads and validates the catagen configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config is the full tool configuration. Load overlays a TOML file on the
// defaults, so a partial file only overrides what it names.
type Config struct {
	Source   SourceConfig   `toml:"source"`
	Template TemplateConfig `toml:"template"`
	Images   ImagesConfig   `toml:"images"`
	Output   OutputConfig   `toml:"output"`
	Page     PageConfig     `toml:"page"`
	Logging  LoggingConfig  `toml:"logging"`
}

type SourceConfig struct {
	Workbook  string            `toml:"workbook" validate:"required"`
	Sheet     string            `toml:"sheet" validate:"required"`
	HeaderRow int               `toml:"header_row" validate:"min=1"`
	Columns   map[string]string `toml:"columns" validate:"required"`
}

type TemplateConfig struct {
	Path string `toml:"path" validate:"required"`
}

type ImagesConfig struct {
	Dir string `toml:"dir" validate:"required"`
}

type OutputConfig struct {
	Dir    string `toml:"dir" validate:"required"`
	Prefix string `toml:"prefix" validate:"required"`
}

type PageConfig struct {
	Capacity int `toml:"capacity" validate:"min=1,max=10"`
}

type LoggingConfig struct {
	Level string `toml:"level" validate:"oneof=trace debug info warn error"`
}

// Default returns the configuration matching the original catalog workflow.
func Default() Config {
	return Config{
		Source: SourceConfig{
			Workbook:  "受発注管理台帳.xlsx",
			Sheet:     "商品マスタ",
			HeaderRow: 2,
			Columns: map[string]string{
				"id":          "商品連番",
				"supplier":    "仕入先",
				"name":        "商品名",
				"capacity":    "容量",
				"unit":        "単位",
				"moq":         "発注ロット",
				"storage":     "温度帯",
				"expiry":      "賞味期限",
				"price":       "国内定価\n（15％）",
				"msrp":        "参考上代\n（税込)",
				"description": "商品特徴",
			},
		},
		Template: TemplateConfig{Path: "catalog_template.pptx"},
		Images:   ImagesConfig{Dir: "images"},
		Output:   OutputConfig{Dir: "output", Prefix: "カタログ"},
		Page:     PageConfig{Capacity: 2},
		Logging:  LoggingConfig{Level: "info"},
	}
}

var validate = validator.New()

// Load reads path and overlays it on the defaults. A missing file is not an
// error, the defaults apply unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Validate()
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration against its struct constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
