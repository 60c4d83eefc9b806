// Package config defines the data structures related to configuration and
// includes functions for loading and validating scenario and server config
// files.
package config

import (
	"bytes"
	"fmt"
	"io"

	"viabilidad/internal/engine"
	"viabilidad/internal/itp"
	"viabilidad/pkg/constants"

	"github.com/spf13/viper"
)

// Configuration holds one affordability scenario: the household inputs, the
// candidate properties to compare, and runtime options.
type Configuration struct {
	InterestRate  float64          `yaml:"interestRate,omitempty"`
	DefaultRegion string           `yaml:"defaultRegion,omitempty"`
	Client        ClientInfo       `yaml:"client,omitempty"`
	Financial     engine.Input     `yaml:"financial"`
	Properties    []PropertyConfig `yaml:"properties,omitempty"`
	TaxTable      []itp.RegionRate `yaml:"taxTable,omitempty"` // optional fixture override
	Logging       LoggingConfig    `yaml:"logging,omitempty"`
	Output        OutputConfig     `yaml:"output,omitempty"`
}

// ClientInfo identifies the client a scenario belongs to.
type ClientInfo struct {
	Name  string `yaml:"name,omitempty"`
	Phone string `yaml:"phone,omitempty"`
}

// PropertyConfig describes one candidate property to evaluate. Region falls
// back to the scenario's DefaultRegion when empty.
type PropertyConfig struct {
	Name   string  `yaml:"name"`
	Price  float64 `yaml:"price"`
	Region string  `yaml:"region,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.applyDefaults()
	return &configuration, nil
}

// LoadConfigurationFromReader parses a scenario from an in-memory YAML
// document, as uploaded to the HTTP API.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	if err := v.ReadConfig(&buf); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.applyDefaults()
	return &configuration, nil
}

func (conf *Configuration) applyDefaults() {
	if conf.InterestRate == 0 {
		conf.InterestRate = constants.DefaultInterestRate
	}
	if conf.Financial.Holders == 0 {
		conf.Financial.Holders = 1
	}
	if conf.Financial.TermPreference == "" {
		conf.Financial.TermPreference = "max"
	}
}

// Table returns the tax table the scenario should use: the built-in regional
// rates unless the configuration overrides them.
func (conf *Configuration) Table() (*itp.Table, error) {
	if len(conf.TaxTable) == 0 {
		return itp.DefaultTable(), nil
	}
	table, err := itp.NewTable(conf.TaxTable)
	if err != nil {
		return nil, fmt.Errorf("invalid tax table override: %w", err)
	}
	return table, nil
}

// RegionFor resolves the region a property is taxed in.
func (conf *Configuration) RegionFor(p PropertyConfig) string {
	if p.Region != "" {
		return p.Region
	}
	return conf.DefaultRegion
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Problems here never abort a run; the engine treats
// incomplete input as "not yet computable".
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if conf.Financial.Holders != 1 && conf.Financial.Holders != 2 {
		warnings = append(warnings, fmt.Sprintf("holders should be 1 or 2, got %d", conf.Financial.Holders))
	}

	warnings = append(warnings, validateHolder("holder1", conf.Financial.Holder1)...)
	if conf.Financial.Holders == 2 {
		warnings = append(warnings, validateHolder("holder2", conf.Financial.Holder2)...)
	}

	if conf.Financial.MonthlyExpenses < 0 {
		warnings = append(warnings, "monthlyExpenses is negative")
	}

	table, err := conf.Table()
	if err != nil {
		warnings = append(warnings, err.Error())
		return warnings
	}
	for _, p := range conf.Properties {
		region := conf.RegionFor(p)
		if region == "" {
			warnings = append(warnings, fmt.Sprintf("property '%s' has no region and no defaultRegion is set", p.Name))
			continue
		}
		if _, ok := table.Lookup(region); !ok {
			warnings = append(warnings, fmt.Sprintf("property '%s' references unknown region '%s'; its transfer tax will be 0", p.Name, region))
		}
	}

	return warnings
}

func validateHolder(name string, h engine.HolderProfile) []string {
	var warnings []string
	if h.MonthlyIncome < 0 {
		warnings = append(warnings, fmt.Sprintf("%s monthlyIncome is negative", name))
	}
	if h.Age < 0 {
		warnings = append(warnings, fmt.Sprintf("%s age is negative", name))
	}
	switch h.AnnualPayments {
	case 0, 12, 14, 15:
	default:
		warnings = append(warnings, fmt.Sprintf("%s annualPayments is %d; expected 12, 14 or 15", name, h.AnnualPayments))
	}
	return warnings
}
