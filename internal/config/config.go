// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	ServerAddress string
	LogLevel      string
	LogFormat     string
	Currency      string
	DefaultMask   string
	DatabaseURL   string
	Classifier    ClassifierConfig
}

// ClassifierConfig tunes the statement classification heuristic.
type ClassifierConfig struct {
	AmountTolerance     float64
	MinTokenLen         int
	AutoApplyConfidence int
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CURRENCY", "BRL")
	v.SetDefault("DEFAULT_MASK", "9.9.99.999")
	v.SetDefault("CLASSIFIER_AMOUNT_TOLERANCE", 0.30)
	v.SetDefault("CLASSIFIER_MIN_TOKEN_LEN", 3)
	v.SetDefault("CLASSIFIER_AUTO_APPLY_CONFIDENCE", 70)

	// the .env file is optional; env vars alone are enough
	if _, err := os.Stat(".env"); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		ServerAddress: v.GetString("SERVER_ADDRESS"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFormat:     v.GetString("LOG_FORMAT"),
		Currency:      v.GetString("CURRENCY"),
		DefaultMask:   v.GetString("DEFAULT_MASK"),
		DatabaseURL:   v.GetString("DATABASE_URL"),
		Classifier: ClassifierConfig{
			AmountTolerance:     v.GetFloat64("CLASSIFIER_AMOUNT_TOLERANCE"),
			MinTokenLen:         v.GetInt("CLASSIFIER_MIN_TOKEN_LEN"),
			AutoApplyConfidence: v.GetInt("CLASSIFIER_AUTO_APPLY_CONFIDENCE"),
		},
	}
	return cfg, nil
}
