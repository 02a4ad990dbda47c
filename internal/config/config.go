package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"signal-metrics/internal/dataset"
	"signal-metrics/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Logger   LoggerConfig   `json:"logger"`
	Analysis AnalysisConfig `json:"analysis"`
	Models   ModelsConfig   `json:"models" yaml:"models"`
	Chart    ChartConfig    `json:"chart"`
}

type ServerConfig struct {
	Port          string `json:"port"`
	Mode          string `json:"mode"`
	SessionSecret string `json:"-"`
	MaxUploadMB   int    `json:"max_upload_mb"`

	// SessionSecretGenerated is set when SESSION_SECRET was unset and a
	// random per-process secret is used instead.
	SessionSecretGenerated bool `json:"-"`
}

type LoggerConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

type AnalysisConfig struct {
	DistanceMethod models.DistanceMethod `json:"distance_method"`
	RSSIColumn     string                `json:"rssi_column"`
}

// ModelsConfig holds the propagation model defaults. Requests may override
// them per analysis.
type ModelsConfig struct {
	FSPL   models.FSPLParams   `json:"fspl" yaml:"fspl"`
	TwoRay models.TwoRayParams `json:"two_ray" yaml:"two_ray"`
}

type ChartConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Load reads configuration from the environment, a .env file if present,
// and the YAML file named by MODELS_FILE for model defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	fspl := models.DefaultFSPLParams()
	twoRay := models.DefaultTwoRayParams()

	config := &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "9595"),
			Mode:          getEnv("GIN_MODE", "release"),
			SessionSecret: getEnv("SESSION_SECRET", ""),
			MaxUploadMB:   getEnvAsInt("MAX_UPLOAD_MB", 32),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Analysis: AnalysisConfig{
			DistanceMethod: models.DistanceMethod(strings.ToLower(getEnv("DISTANCE_METHOD", string(models.MethodGeodesic)))),
			RSSIColumn:     getEnv("RSSI_COLUMN", dataset.RSSIColumn),
		},
		Models: ModelsConfig{
			FSPL: models.FSPLParams{
				FrequencyHz:  getEnvAsFloat("MODEL_FREQUENCY_HZ", fspl.FrequencyHz),
				OffsetDB:     getEnvAsFloat("MODEL_OFFSET_DB", fspl.OffsetDB),
				SpeedOfLight: getEnvAsFloat("MODEL_SPEED_OF_LIGHT", fspl.SpeedOfLight),
			},
			TwoRay: models.TwoRayParams{
				TxHeightM: getEnvAsFloat("MODEL_TX_HEIGHT_M", twoRay.TxHeightM),
				RxHeightM: getEnvAsFloat("MODEL_RX_HEIGHT_M", twoRay.RxHeightM),
				OffsetDB:  getEnvAsFloat("MODEL_OFFSET_DB", twoRay.OffsetDB),
			},
		},
		Chart: ChartConfig{
			Width:  getEnvAsInt("CHART_WIDTH", 1000),
			Height: getEnvAsInt("CHART_HEIGHT", 600),
		},
	}

	if config.Server.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		config.Server.SessionSecret = secret
		config.Server.SessionSecretGenerated = true
	}

	if path := getEnv("MODELS_FILE", ""); path != "" {
		if err := config.loadModelsFile(path); err != nil {
			return nil, err
		}
	}

	return config, config.Validate()
}

// loadModelsFile overlays model defaults from a YAML file of the form
//
//	models:
//	  fspl:    {frequency_hz: 2.4e9, offset_db: 30, speed_of_light: 3e8}
//	  two_ray: {tx_height_m: 10, rx_height_m: 1.5, offset_db: 30}
//
// Keys left out keep their current values.
func (c *Config) loadModelsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read models config: %w", err)
	}
	file := struct {
		Models *ModelsConfig `yaml:"models"`
	}{Models: &c.Models}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse models config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if !c.Analysis.DistanceMethod.Valid() {
		return &ConfigError{Component: "analysis", Field: "DISTANCE_METHOD", Value: c.Analysis.DistanceMethod, Message: "must be geodesic or haversine"}
	}
	if c.Analysis.RSSIColumn == "" {
		return &ConfigError{Component: "analysis", Field: "RSSI_COLUMN", Message: "is required"}
	}
	if err := ValidateFSPL(c.Models.FSPL); err != nil {
		return err
	}
	if err := ValidateTwoRay(c.Models.TwoRay); err != nil {
		return err
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return &ConfigError{Component: "chart", Field: "CHART_WIDTH/CHART_HEIGHT", Value: fmt.Sprintf("%dx%d", c.Chart.Width, c.Chart.Height), Message: "must be positive"}
	}
	if c.Server.MaxUploadMB <= 0 {
		return &ConfigError{Component: "server", Field: "MAX_UPLOAD_MB", Value: c.Server.MaxUploadMB, Message: "must be positive"}
	}
	return nil
}

// ValidateFSPL checks parameters that would make the model undefined.
func ValidateFSPL(p models.FSPLParams) error {
	if !(p.FrequencyHz > 0) {
		return &ConfigError{Component: "models", Field: "frequency_hz", Value: p.FrequencyHz, Message: "must be positive"}
	}
	if !(p.SpeedOfLight > 0) {
		return &ConfigError{Component: "models", Field: "speed_of_light", Value: p.SpeedOfLight, Message: "must be positive"}
	}
	return nil
}

func ValidateTwoRay(p models.TwoRayParams) error {
	if !(p.TxHeightM > 0) {
		return &ConfigError{Component: "models", Field: "tx_height_m", Value: p.TxHeightM, Message: "must be positive"}
	}
	if !(p.RxHeightM > 0) {
		return &ConfigError{Component: "models", Field: "rx_height_m", Value: p.RxHeightM, Message: "must be positive"}
	}
	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
