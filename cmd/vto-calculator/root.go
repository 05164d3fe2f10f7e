package main

import (
	"fmt"
	"io"

	"github.com/iwvelando/vto-calculator/internal/config"
	"github.com/iwvelando/vto-calculator/internal/logging"
	"github.com/iwvelando/vto-calculator/internal/vto"
	"github.com/iwvelando/vto-calculator/pkg/buildinfo"
	"github.com/iwvelando/vto-calculator/pkg/constants"
	"github.com/iwvelando/vto-calculator/pkg/output"
	"github.com/iwvelando/vto-calculator/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configLocation string
	outputFormat   string
	logLevel       string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "vto-calculator",
		Short:        "Growth-aware visual treatment objective calculator",
		Long:         `vto-calculator evaluates the treatment scenarios of an orthodontic case file and prints the space-balance ledger and predicted tooth movements of each scenario.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlans(cmd.OutOrStdout(), opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.Flags().StringVar(&opts.configLocation, "config", constants.DefaultConfigFile, "path to case file")
	root.Flags().StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, csv")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(newServeCmd(&opts.logLevel))

	return root
}

func runPlans(w io.Writer, opts *rootOptions) error {
	// Load the case file to get logging configuration
	conf, err := config.LoadConfiguration(opts.configLocation)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", opts.configLocation, err)
	}

	logger, err := logging.New(conf.Logging, opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if opts.outputFormat != "" {
		outputFormat = opts.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Error(err.Error(),
			zap.String("op", "main"),
		)
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	results, err := vto.GetPlans(logger, *conf)
	if err != nil {
		logger.Error("failed to compute treatment plans",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return err
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(w, results)
	case constants.OutputFormatCSV:
		return output.CsvFormat(w, results)
	}

	return nil
}
