/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark" (informational for now)
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// CanvasConfig tunes the view controller. Origin and Direction use the
// compass shorthand ("center", "nw", ...; "se", "ne", ...); they are parsed
// by the canvas layer, not here.
type CanvasConfig struct {
	ScaleBase    float64 `yaml:"scale_base"`
	ScaleRatio   float64 `yaml:"scale_ratio"`
	ZoomFactor   float64 `yaml:"zoom_factor"`
	OvalSegments int     `yaml:"oval_segments"`
	Origin       string  `yaml:"origin"`
	Direction    string  `yaml:"direction"`
	// Coalesce is a pointer so a file that omits the key keeps the
	// default (on) instead of merging a zero value.
	Coalesce *bool `yaml:"coalesce"`
}

// CoalesceEnabled reports the coalescing setting; unset means on.
func (c CanvasConfig) CoalesceEnabled() bool { return c.Coalesce == nil || *c.Coalesce }

// BindingsConfig remaps input. Drag maps a modifier name ("shift", "ctrl",
// "alt", or combinations like "ctrl+shift") to a gesture ("pan", "scale",
// "rotate"). Empty maps keep the built-in defaults.
type BindingsConfig struct {
	Drag map[string]string `yaml:"drag"`
}

type AppConfig struct {
	ConfigVersion int            `yaml:"config_version"`
	General       GeneralConfig  `yaml:"general"`
	Logging       LoggingConfig  `yaml:"logging"`
	Canvas        CanvasConfig   `yaml:"canvas"`
	Bindings      BindingsConfig `yaml:"bindings"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "system"},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
		Canvas: CanvasConfig{
			ScaleBase:    1,
			ScaleRatio:   0,
			ZoomFactor:   1.1,
			OvalSegments: 100,
			Origin:       "center",
			Direction:    "se",
			Coalesce:     boolPtr(true),
		},
	}
}

// Env var names used as overrides.
const (
	EnvTelemetryOptIn = "TCV_TELEMETRY_OPT_IN"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "TCV_LOG_LEVEL"
	EnvLogFormat = "TCV_LOG_FORMAT"
	EnvLogSource = "TCV_LOG_SOURCE"
	EnvLogFile   = "TCV_LOG_FILE"
	// Canvas envs
	EnvZoomFactor   = "TCV_ZOOM_FACTOR"
	EnvOvalSegments = "TCV_OVAL_SEGMENTS"
	EnvCoalesce     = "TCV_COALESCE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "TransformCanvas")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "TransformCanvas")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "transformcanvas")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
	// canvas: zero means "not set" for the numeric knobs
	if src.Canvas.ScaleBase != 0 {
		dst.Canvas.ScaleBase = src.Canvas.ScaleBase
	}
	if src.Canvas.ScaleRatio != 0 {
		dst.Canvas.ScaleRatio = src.Canvas.ScaleRatio
	}
	if src.Canvas.ZoomFactor != 0 {
		dst.Canvas.ZoomFactor = src.Canvas.ZoomFactor
	}
	if src.Canvas.OvalSegments != 0 {
		dst.Canvas.OvalSegments = src.Canvas.OvalSegments
	}
	if strings.TrimSpace(src.Canvas.Origin) != "" {
		dst.Canvas.Origin = strings.ToLower(strings.TrimSpace(src.Canvas.Origin))
	}
	if strings.TrimSpace(src.Canvas.Direction) != "" {
		dst.Canvas.Direction = strings.ToLower(strings.TrimSpace(src.Canvas.Direction))
	}
	if src.Canvas.Coalesce != nil {
		dst.Canvas.Coalesce = src.Canvas.Coalesce
	}
	if len(src.Bindings.Drag) != 0 {
		dst.Bindings.Drag = src.Bindings.Drag
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		lv := strings.ToLower(v)
		cfg.General.TelemetryOptIn = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
	// canvas overrides
	if v := strings.TrimSpace(os.Getenv(EnvZoomFactor)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Canvas.ZoomFactor = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvOvalSegments)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Canvas.OvalSegments = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvCoalesce)); v != "" {
		lv := strings.ToLower(v)
		cfg.Canvas.Coalesce = boolPtr(lv == "1" || lv == "true" || lv == "on" || lv == "yes")
	}
}

func boolPtr(b bool) *bool { return &b }

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	switch key {
	case "general.telemetry_opt_in":
		if os.Getenv(EnvTelemetryOptIn) != "" {
			return EnvTelemetryOptIn, true
		}
	case "logging.level":
		if os.Getenv(EnvLogLevel) != "" {
			return EnvLogLevel, true
		}
	case "logging.format":
		if os.Getenv(EnvLogFormat) != "" {
			return EnvLogFormat, true
		}
	case "logging.source":
		if os.Getenv(EnvLogSource) != "" {
			return EnvLogSource, true
		}
	case "logging.file":
		if os.Getenv(EnvLogFile) != "" {
			return EnvLogFile, true
		}
	case "canvas.zoom_factor":
		if os.Getenv(EnvZoomFactor) != "" {
			return EnvZoomFactor, true
		}
	case "canvas.oval_segments":
		if os.Getenv(EnvOvalSegments) != "" {
			return EnvOvalSegments, true
		}
	case "canvas.coalesce":
		if os.Getenv(EnvCoalesce) != "" {
			return EnvCoalesce, true
		}
	}
	return "", false
}
