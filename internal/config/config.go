package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/annel0/aicup-bot/internal/strategy"
	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации бота.
// Отсутствующие в файле поля сохраняют значения из Default().
type Config struct {
	Strategy  strategy.Config `yaml:"strategy"`
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
	Recorder  RecorderConfig  `yaml:"recorder"`
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type LoggingConfig struct {
	Dir          string `yaml:"dir"`
	ConsoleLevel string `yaml:"console_level"`
	FileLevel    string `yaml:"file_level"`
	// Components переопределяет уровень консоли по компонентам
	Components map[string]string `yaml:"components"`
}

type ServerConfig struct {
	RESTPort    int `yaml:"rest_port"`
	MetricsPort int `yaml:"metrics_port"`
}

// RecorderConfig описывает, куда сохраняются решения
type RecorderConfig struct {
	Dir        string `yaml:"dir"`
	Compress   bool   `yaml:"compress"`
	BadgerPath string `yaml:"badger_path"`
}

type EventBusConfig struct {
	URL           string        `yaml:"url"` // пусто: шина в памяти
	Stream        string        `yaml:"stream"`
	SubjectPrefix string        `yaml:"subject_prefix"`
	Retention     time.Duration `yaml:"retention"`
}

type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Default возвращает полную конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Strategy: strategy.DefaultConfig(),
		Logging: LoggingConfig{
			Dir:          "logs",
			ConsoleLevel: "INFO",
			FileLevel:    "TRACE",
		},
		Recorder: RecorderConfig{
			Dir:      "replays",
			Compress: true,
		},
		EventBus: EventBusConfig{
			Stream:        "DECISIONS",
			SubjectPrefix: "bot",
			Retention:     24 * time.Hour,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "aicup-bot",
			Insecure:    true,
			SampleRatio: 1,
		},
	}
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "BOT_REST_PORT", 8088)
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "BOT_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Validate проверяет значения, которые стратегия не может исправить сама
func (c *Config) Validate() error {
	if c.Strategy.HealthThreshold < 0 {
		return fmt.Errorf("strategy.health_threshold не может быть отрицательным: %d", c.Strategy.HealthThreshold)
	}
	if c.Strategy.AdjacencyDistance <= 0 {
		return fmt.Errorf("strategy.adjacency_distance должен быть положительным: %g", c.Strategy.AdjacencyDistance)
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry.sample_ratio вне [0, 1]: %g", c.Telemetry.SampleRatio)
	}
	return nil
}

// Load читает YAML файл конфигурации поверх Default().
// Если path == "", берётся ENV BOT_CONFIG; без файла возвращаются умолчания.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("BOT_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфига %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфига %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
