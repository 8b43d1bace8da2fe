package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "GREENMETRICS_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	classifierKeyEnv  = "API_KEY"
	classifierURLEnv  = "CLASSIFIER_BASE_URL"
	classifierModEnv  = "CLASSIFIER_MODEL"
	fixerAccessKeyEnv = "FIXER_ACCESS_KEY"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Database   DatabaseConfig   `yaml:"database"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Rates      RatesConfig      `yaml:"rates"`
	Output     OutputConfig     `yaml:"output"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatabaseConfig describes the optional Postgres run-history connection.
// An empty DSN disables persistence.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// ClassifierConfig defines how to contact the sustainability oracle, an
// OpenAI-compatible chat-completions API.
type ClassifierConfig struct {
	BaseURL string `yaml:"baseUrl"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"apiKey"`
}

// RatesConfig describes the historical exchange-rate service.
type RatesConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
}

// OutputConfig names the exported artifacts.
type OutputConfig struct {
	DatasetFile string `yaml:"datasetFile"`
	ReportFile  string `yaml:"reportFile"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(classifierKeyEnv); v != "" {
		c.Classifier.APIKey = v
	}

	if v := os.Getenv(classifierURLEnv); v != "" {
		c.Classifier.BaseURL = v
	}

	if v := os.Getenv(classifierModEnv); v != "" {
		c.Classifier.Model = v
	}

	if v := os.Getenv(fixerAccessKeyEnv); v != "" {
		c.Rates.AccessKey = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Classifier.BaseURL != "" {
		base.Classifier.BaseURL = override.Classifier.BaseURL
	}
	if override.Classifier.Model != "" {
		base.Classifier.Model = override.Classifier.Model
	}
	if override.Classifier.APIKey != "" {
		base.Classifier.APIKey = override.Classifier.APIKey
	}

	if override.Rates.Endpoint != "" {
		base.Rates.Endpoint = override.Rates.Endpoint
	}
	if override.Rates.AccessKey != "" {
		base.Rates.AccessKey = override.Rates.AccessKey
	}

	if override.Output.DatasetFile != "" {
		base.Output.DatasetFile = override.Output.DatasetFile
	}
	if override.Output.ReportFile != "" {
		base.Output.ReportFile = override.Output.ReportFile
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:  LoggingConfig{Level: "info"},
		Database: DatabaseConfig{DSN: ""},
		Classifier: ClassifierConfig{
			BaseURL: "http://127.0.0.1:1234",
			Model:   "lmstudio-community/DeepSeek-R1-Distill-Llama-8B-GGUF",
			APIKey:  "",
		},
		Rates: RatesConfig{
			Endpoint:  "https://data.fixer.io/api",
			AccessKey: "",
		},
		Output: OutputConfig{
			DatasetFile: "resultados_finales.xlsx",
			ReportFile:  "archivo_final.xlsx",
		},
	}
}
