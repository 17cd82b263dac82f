package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SourceConfig describe el servicio upstream de eventos que hidrata el
// slice external del calendario.
type SourceConfig struct {
	// BaseURL del upstream; vacío deshabilita el fetch externo.
	BaseURL string `yaml:"base_url"`
	// TimeoutSeconds acota cada fetch. Cero usa el default del cliente.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// AuthConfig apunta al servicio de identidad que verifica bearer tokens.
// Con BaseURL vacía la API queda en modo dev (headers X-Debug-*).
type AuthConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// Config es la configuración top-level de la aplicación.
type Config struct {
	// Listen es la dirección HTTP de escucha.
	Listen string `yaml:"listen"`

	// DatabaseDSN habilita persistencia en Postgres; vacío corre todo
	// in-memory.
	DatabaseDSN string `yaml:"database_dsn"`

	// DemoOrgID: si viene, instala los eventos demo deterministas de esa
	// org al arrancar.
	DemoOrgID string `yaml:"demo_org_id"`

	// LogLevel: debug | info | warn | error.
	LogLevel string `yaml:"log_level"`
	// LogFormat: text | json.
	LogFormat string `yaml:"log_format"`

	Source SourceConfig `yaml:"source"`
	Auth   AuthConfig   `yaml:"auth"`
}

// Default devuelve la configuración in-memory por defecto.
func Default() *Config {
	return &Config{
		Listen:    ":8080",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Normalize completa los valores faltantes con defaults para que una config
// parcial siga funcionando.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

// Load lee la configuración YAML. Un path vacío o inexistente devuelve la
// config default: el binario corre sin archivo en modo dev. Las variables de
// entorno PORT y DB_DSN pisan el archivo, para handoff a contenedores.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Listen = ":" + v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}

	cfg.Normalize()
	return cfg, nil
}
