package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"viabilidad/internal/itp"
	"viabilidad/pkg/constants"

	"gopkg.in/yaml.v3"
)

// ServerConfig defines runtime parameters for the HTTP server.
type ServerConfig struct {
	Address      string           `yaml:"address"`
	DatabasePath string           `yaml:"databasePath"`
	RedisAddress string           `yaml:"redisAddress,omitempty"`
	InterestRate float64          `yaml:"interestRate,omitempty"`
	TaxTable     []itp.RegionRate `yaml:"taxTable,omitempty"` // optional fixture override
	Logging      LoggingConfig    `yaml:"logging"`
}

// LoadServerConfig loads the server configuration from YAML. If the file does
// not exist, defaults are returned without error.
func LoadServerConfig(path string) (*ServerConfig, error) {
	cfg := &ServerConfig{
		Address:      constants.DefaultServerAddress,
		DatabasePath: constants.DefaultDatabasePath,
		InterestRate: constants.DefaultInterestRate,
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// Table returns the tax table the server should use: the built-in regional
// rates unless the configuration overrides them.
func (c *ServerConfig) Table() (*itp.Table, error) {
	if len(c.TaxTable) == 0 {
		return itp.DefaultTable(), nil
	}
	table, err := itp.NewTable(c.TaxTable)
	if err != nil {
		return nil, fmt.Errorf("invalid tax table override: %w", err)
	}
	return table, nil
}

func (c *ServerConfig) normalize() {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.DatabasePath == "" {
		c.DatabasePath = constants.DefaultDatabasePath
	}
	if c.InterestRate == 0 {
		c.InterestRate = constants.DefaultInterestRate
	}
}
