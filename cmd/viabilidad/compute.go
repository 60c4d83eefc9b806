package main

import (
	"fmt"

	"viabilidad/internal/config"
	"viabilidad/internal/engine"
	"viabilidad/internal/logging"
	"viabilidad/internal/property"
	"viabilidad/pkg/constants"
	"viabilidad/pkg/output"
	"viabilidad/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func computeCmd() *cobra.Command {
	var outputFormatFlag string

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Run an affordability study from a scenario file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configLocation := cfgFile
			if configLocation == "" {
				configLocation = constants.DefaultConfigFile
			}

			conf, err := config.LoadConfiguration(configLocation)
			if err != nil {
				return fmt.Errorf("failed to load configuration at %s: %w", configLocation, err)
			}

			logger, err := logging.NewLogger(conf.Logging, logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			outputFormat := conf.Output.Format
			if outputFormatFlag != "" {
				outputFormat = outputFormatFlag
			}
			if outputFormat == "" {
				outputFormat = constants.OutputFormatPretty
			}
			if err := validation.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}

			warnings := conf.ValidateConfiguration()
			for _, warning := range warnings {
				logger.Warn("configuration validation warning",
					zap.String("op", "main.compute"),
					zap.String("warning", warning),
				)
			}

			table, err := conf.Table()
			if err != nil {
				return err
			}

			result := engine.Compute(conf.Financial, conf.InterestRate)
			if result == nil {
				logger.Warn("insufficient financial data; no study computed",
					zap.String("op", "main.compute"),
				)
			}

			var list property.List
			for _, p := range conf.Properties {
				if result == nil {
					break
				}
				comparison, err := property.Evaluate(p.Name, p.Price, conf.RegionFor(p), result, conf.Financial, table, conf.InterestRate)
				if err != nil {
					return err
				}
				if err := list.Add(comparison); err != nil {
					logger.Warn("skipping property",
						zap.String("op", "main.compute"),
						zap.String("property", p.Name),
						zap.Error(err),
					)
					warnings = append(warnings, fmt.Sprintf("property '%s' skipped: %v", p.Name, err))
					break
				}
			}

			report := output.Report{
				ClientName:  conf.Client.Name,
				Result:      result,
				Comparisons: list.Items(),
				Warnings:    warnings,
			}

			switch outputFormat {
			case constants.OutputFormatPretty:
				output.PrettyFormat(report)
			case constants.OutputFormatCSV:
				output.CsvFormat(report)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&outputFormatFlag, "output-format", "", "type of output override: pretty, csv")
	return cmd
}
