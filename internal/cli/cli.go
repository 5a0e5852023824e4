// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/projectlens/projectlens/internal/config"
	"github.com/projectlens/projectlens/internal/export"
	"github.com/projectlens/projectlens/internal/logging"
	"github.com/projectlens/projectlens/internal/scan"
	"github.com/projectlens/projectlens/internal/services/clipboard"
	"github.com/projectlens/projectlens/internal/tokenizer"
)

const (
	extensionsFlagName = "ext"
	includeFlagName    = "include"
	excludeFlagName    = "exclude"
	maxSizeFlagName    = "max-size"
	outputFlagName     = "output"
	copyFlagName       = "copy"
	tokensFlagName     = "tokens"
	modelFlagName      = "model"
	configFlagName     = "config"
	logFileFlagName    = "log-file"
	verboseFlagName    = "verbose"

	rootUse              = "projectlens"
	rootShortDescription = "projectlens exports project context for language models"
	rootLongDescription  = `projectlens walks a project tree, selects files by extension and glob
patterns, and serializes their contents plus a visual tree into a single
export artifact suitable for feeding project context to other tools.`

	exportUse              = "export [path]"
	exportShortDescription = "scan the project and write the export artifact"
	exportUsageExample     = `  # Export all Python and Markdown files
  projectlens export --ext py --ext md .

  # Force-include the Dockerfile and cap files at 64KB
  projectlens export --ext py --include Dockerfile --max-size 64 -o context.txt .`

	treeUse              = "tree [path]"
	treeShortDescription = "render the project tree honoring the selection rules"

	inspectUse              = "inspect [path]"
	inspectShortDescription = "scan the project and print statistics and skip details"

	defaultPath       = "."
	defaultOutputPath = "project_export.txt"

	extensionsFlagDescription = "file extension to scan (repeatable)"
	includeFlagDescription    = "glob pattern forcing file inclusion (repeatable)"
	excludeFlagDescription    = "glob pattern excluding files and directories (repeatable)"
	maxSizeFlagDescription    = "maximum file size in KB (0 = unlimited)"
	outputFlagDescription     = "export artifact path"
	copyFlagDescription       = "copy the export artifact to the clipboard"
	tokensFlagDescription     = "append a token estimate to the export summary"
	modelFlagDescription      = "tokenizer model used for token estimates"
	configFlagDescription     = "configuration file path"
	logFileFlagDescription    = "append diagnostics to a rotating log file"
	verboseFlagDescription    = "emit debug-level diagnostics"
)

// commandFlags captures the persistent flag values shared by all subcommands.
type commandFlags struct {
	extensions  []string
	include     []string
	exclude     []string
	maxSizeKB   int64
	configPath  string
	logFilePath string
	verbose     bool
}

// Execute builds the root command and runs it.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand constructs the projectlens root command with all subcommands
// attached.
func NewRootCommand() *cobra.Command {
	flags := &commandFlags{}

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCommand.PersistentFlags().StringSliceVarP(&flags.extensions, extensionsFlagName, "x", nil, extensionsFlagDescription)
	rootCommand.PersistentFlags().StringSliceVar(&flags.include, includeFlagName, nil, includeFlagDescription)
	rootCommand.PersistentFlags().StringSliceVarP(&flags.exclude, excludeFlagName, "e", nil, excludeFlagDescription)
	rootCommand.PersistentFlags().Int64Var(&flags.maxSizeKB, maxSizeFlagName, 0, maxSizeFlagDescription)
	rootCommand.PersistentFlags().StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
	rootCommand.PersistentFlags().StringVar(&flags.logFilePath, logFileFlagName, "", logFileFlagDescription)
	rootCommand.PersistentFlags().BoolVarP(&flags.verbose, verboseFlagName, "v", false, verboseFlagDescription)

	rootCommand.AddCommand(newExportCommand(flags))
	rootCommand.AddCommand(newTreeCommand(flags))
	rootCommand.AddCommand(newInspectCommand(flags))

	return rootCommand
}

// newExportCommand builds the export subcommand.
func newExportCommand(flags *commandFlags) *cobra.Command {
	var outputPath string
	var copyToClipboard bool
	var countTokens bool
	var tokenizerModel string

	exportCommand := &cobra.Command{
		Use:     exportUse,
		Short:   exportShortDescription,
		Example: exportUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootPath := pathArgument(arguments)
			environment, environmentError := buildEnvironment(command, flags)
			if environmentError != nil {
				return environmentError
			}

			resolvedOutputPath := outputPath
			if !command.Flags().Changed(outputFlagName) && environment.appConfig.Export.OutputPath != "" {
				resolvedOutputPath = environment.appConfig.Export.OutputPath
			}
			if !command.Flags().Changed(tokensFlagName) && environment.appConfig.Export.Tokens.Enabled != nil {
				countTokens = *environment.appConfig.Export.Tokens.Enabled
			}
			if !command.Flags().Changed(modelFlagName) && environment.appConfig.Export.Tokens.Model != "" {
				tokenizerModel = environment.appConfig.Export.Tokens.Model
			}
			if !command.Flags().Changed(copyFlagName) && environment.appConfig.Export.Clipboard != nil {
				copyToClipboard = *environment.appConfig.Export.Clipboard
			}

			var tokenCounter tokenizer.Counter
			if countTokens {
				counter, counterError := tokenizer.NewCounter(tokenizerModel)
				if counterError != nil {
					return counterError
				}
				tokenCounter = counter
			}

			engine := scan.NewEngine(environment.scanOptions, environment.logger)
			metadata, scanError := engine.Scan(rootPath)
			if scanError != nil {
				return scanError
			}
			renderedTree, treeError := engine.RenderTree(rootPath)
			if treeError != nil {
				return treeError
			}

			artifactWriter := export.NewWriter(environment.logger, tokenCounter)
			artifactText, writeError := artifactWriter.WriteProject(rootPath, resolvedOutputPath, metadata, renderedTree)
			if writeError != nil {
				return writeError
			}

			if copyToClipboard {
				if copyError := clipboard.NewService().Copy(artifactText); copyError != nil {
					environment.logger.Warnf("Clipboard copy failed: %v", copyError)
				}
			}

			fmt.Fprint(command.OutOrStdout(), metadata.StatisticsReport())
			return nil
		},
	}
	exportCommand.Flags().StringVarP(&outputPath, outputFlagName, "o", defaultOutputPath, outputFlagDescription)
	exportCommand.Flags().BoolVar(&copyToClipboard, copyFlagName, false, copyFlagDescription)
	exportCommand.Flags().BoolVar(&countTokens, tokensFlagName, false, tokensFlagDescription)
	exportCommand.Flags().StringVar(&tokenizerModel, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	return exportCommand
}

// newTreeCommand builds the tree subcommand.
func newTreeCommand(flags *commandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   treeUse,
		Short: treeShortDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootPath := pathArgument(arguments)
			environment, environmentError := buildEnvironment(command, flags)
			if environmentError != nil {
				return environmentError
			}
			engine := scan.NewEngine(environment.scanOptions, environment.logger)
			renderedTree, treeError := engine.RenderTree(rootPath)
			if treeError != nil {
				return treeError
			}
			fmt.Fprint(command.OutOrStdout(), renderedTree)
			return nil
		},
	}
}

// newInspectCommand builds the inspect subcommand.
func newInspectCommand(flags *commandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   inspectUse,
		Short: inspectShortDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootPath := pathArgument(arguments)
			environment, environmentError := buildEnvironment(command, flags)
			if environmentError != nil {
				return environmentError
			}
			engine := scan.NewEngine(environment.scanOptions, environment.logger)
			metadata, scanError := engine.Scan(rootPath)
			if scanError != nil {
				return scanError
			}
			fmt.Fprint(command.OutOrStdout(), metadata.StatisticsReport())
			fmt.Fprintln(command.OutOrStdout())
			fmt.Fprint(command.OutOrStdout(), metadata.InspectionReport())
			return nil
		},
	}
}

// commandEnvironment bundles everything a subcommand needs to run.
type commandEnvironment struct {
	appConfig   config.ApplicationConfiguration
	scanOptions *config.ScanOptions
	logger      logging.Logger
}

// buildEnvironment loads configuration files, overlays flag values, validates
// the scan options, and constructs the logger.
func buildEnvironment(command *cobra.Command, flags *commandFlags) (*commandEnvironment, error) {
	appConfig, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		ExplicitFilePath: flags.configPath,
	})
	if loadError != nil {
		return nil, loadError
	}

	extensions := flags.extensions
	if len(extensions) == 0 {
		extensions = appConfig.Export.Extensions
	}
	include := flags.include
	if len(include) == 0 {
		include = appConfig.Export.Include
	}
	exclude := flags.exclude
	if len(exclude) == 0 {
		exclude = appConfig.Export.Exclude
	}
	maxSizeKB := flags.maxSizeKB
	if !command.Flags().Changed(maxSizeFlagName) && appConfig.Export.MaxFileSizeKB != nil {
		maxSizeKB = *appConfig.Export.MaxFileSizeKB
	}

	scanOptions, optionsError := config.NewScanOptions(extensions, include, exclude, maxSizeKB)
	if optionsError != nil {
		return nil, fmt.Errorf("invalid configuration: %w", optionsError)
	}

	verbose := flags.verbose
	if !command.Flags().Changed(verboseFlagName) && appConfig.Log.Verbose != nil {
		verbose = *appConfig.Log.Verbose
	}
	logFilePath := flags.logFilePath
	if logFilePath == "" {
		logFilePath = appConfig.Log.FilePath
	}

	logger, loggerError := logging.NewApplicationLogger(verbose)
	if loggerError != nil {
		return nil, loggerError
	}
	if logFilePath != "" {
		logger = logging.NewTeeLogger(logger, logging.NewFileLogger(logging.FileLoggerOptions{
			FilePath: logFilePath,
			Verbose:  verbose,
		}))
	}

	return &commandEnvironment{
		appConfig:   appConfig,
		scanOptions: scanOptions,
		logger:      logger,
	}, nil
}

// pathArgument returns the positional path argument or the default path.
func pathArgument(arguments []string) string {
	if len(arguments) == 0 {
		return defaultPath
	}
	return strings.TrimSpace(arguments[0])
}
