// Package config loads the analysis settings from a file and LEDGER_* environment
// variables, fills defaults and validates the result.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/services/classify"
	"github.com/de-tools/ledger-atlas/pkg/services/deviation"
	"github.com/de-tools/ledger-atlas/pkg/services/forecast"
	"github.com/de-tools/ledger-atlas/pkg/services/trend"
)

const EnvPrefix = "LEDGER"

type Config struct {
	Materiality    Materiality      `mapstructure:"materiality"`
	Limits         deviation.Limits `mapstructure:"limits"`
	Classification []classify.Range `mapstructure:"classification"`
	Trend          trend.Config     `mapstructure:"trend"`
	Rolling        Rolling          `mapstructure:"rolling"`
	Server         Server           `mapstructure:"server"`
}

type Materiality struct {
	Absolute float64 `mapstructure:"absolute" default:"10000" validate:"gte=0"`
	Percent  float64 `mapstructure:"percent" default:"10" validate:"gte=0"`
}

type Rolling struct {
	Horizon              int     `mapstructure:"horizon" default:"12" validate:"gte=1,lte=24"`
	SeasonalityDetection bool    `mapstructure:"seasonality_detection" default:"true"`
	ConfidenceLevel      float64 `mapstructure:"confidence_level" default:"0.95" validate:"confidence_level"`
	Method               string  `mapstructure:"method" default:"auto" validate:"oneof=auto seasonal trend hybrid"`
}

type Server struct {
	Host string `mapstructure:"host" default:"localhost" validate:"required"`
	Port string `mapstructure:"port" default:"8080" validate:"required,numeric"`
}

// DeviationConfig returns the materiality thresholds for a comparison.
func (c *Config) DeviationConfig(previousLabel, currentLabel string) domain.DeviationConfig {
	return domain.DeviationConfig{
		MaterialityAbsolute: c.Materiality.Absolute,
		MaterialityPercent:  c.Materiality.Percent,
		PreviousLabel:       previousLabel,
		CurrentLabel:        currentLabel,
	}
}

func (c *Config) RollingConfig() domain.RollingForecastConfig {
	return domain.RollingForecastConfig{
		Horizon:              c.Rolling.Horizon,
		SeasonalityDetection: c.Rolling.SeasonalityDetection,
		ConfidenceLevel:      c.Rolling.ConfidenceLevel,
		Method:               domain.RollingMethod(c.Rolling.Method),
	}
}

// Classifier builds the account classifier, falling back to the default table.
func (c *Config) Classifier() (classify.Classifier, error) {
	if len(c.Classification) == 0 {
		return classify.Default(), nil
	}
	return classify.NewClassifier(c.Classification)
}

// Default returns a configuration with every default applied.
func Default() (*Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	if err := validate(context.Background(), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig reads path when non-empty, then applies LEDGER_* overrides such as
// LEDGER_MATERIALITY_ABSOLUTE. Defaults are set first so that explicit zeros in
// the file survive.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validate(context.Background(), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindEnv registers the scalar keys so that Unmarshal sees environment values
// even without a config file.
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"materiality.absolute",
		"materiality.percent",
		"limits.evidence",
		"limits.comment_evidence",
		"limits.detail",
		"limits.drill_down",
		"trend.account_limit",
		"trend.cost_center_limit",
		"trend.min_forecast_points",
		"rolling.horizon",
		"rolling.seasonality_detection",
		"rolling.confidence_level",
		"rolling.method",
		"server.host",
		"server.port",
	} {
		_ = v.BindEnv(key)
	}
}

func validate(ctx context.Context, cfg *Config) error {
	if err := Validator().StructCtx(ctx, cfg); err != nil {
		return fmt.Errorf("invalid config: %w", describe(err))
	}
	if _, err := cfg.Classifier(); err != nil {
		return fmt.Errorf("invalid config: classification: %w", err)
	}
	return nil
}

// Validator returns a validator with the ledger specific rules registered.
func Validator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("confidence_level", func(fl validator.FieldLevel) bool {
		return IsConfidenceLevel(fl.Field().Float())
	})
	return v
}

// IsConfidenceLevel accepts the levels the rolling forecast can draw bands for.
func IsConfidenceLevel(level float64) bool {
	return forecast.SupportedConfidenceLevel(level)
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
