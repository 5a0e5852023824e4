package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/projectlens/projectlens/internal/utils"
)

const (
	// ConfigFileName is the per-project configuration file discovered in the
	// working directory.
	ConfigFileName = ".projectlens.yaml"
	// globalConfigDirectoryName is the directory under the user home holding
	// the global configuration file.
	globalConfigDirectoryName = ".projectlens"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds defaults loaded from configuration files.
// Flag values provided on the command line override anything loaded here.
type ApplicationConfiguration struct {
	Export ExportConfiguration `mapstructure:"export"`
	Log    LogConfiguration    `mapstructure:"log"`
}

// ExportConfiguration defines defaults for the export, tree, and inspect commands.
type ExportConfiguration struct {
	Extensions    []string           `mapstructure:"extensions"`
	Include       []string           `mapstructure:"include"`
	Exclude       []string           `mapstructure:"exclude"`
	MaxFileSizeKB *int64             `mapstructure:"max_file_size"`
	OutputPath    string             `mapstructure:"output"`
	Tokens        TokenConfiguration `mapstructure:"tokens"`
	Clipboard     *bool              `mapstructure:"clipboard"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// LogConfiguration controls the optional rotating log file sink.
type LogConfiguration struct {
	FilePath string `mapstructure:"file"`
	Verbose  *bool  `mapstructure:"verbose"`
}

// LoadApplicationConfiguration loads configuration from the global and local
// files, with local values overriding global ones.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, globalConfigDirectoryName, ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	merged.Export.Exclude = utils.DeduplicatePatterns(merged.Export.Exclude)
	merged.Export.Include = utils.DeduplicatePatterns(merged.Export.Include)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var loadedConfiguration ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&loadedConfiguration); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return loadedConfiguration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	result.Export = result.Export.merge(override.Export)
	result.Log = result.Log.merge(override.Log)
	return result
}

func (configuration ExportConfiguration) merge(override ExportConfiguration) ExportConfiguration {
	result := configuration
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string{}, override.Extensions...)
	}
	if len(override.Include) > 0 {
		result.Include = append([]string{}, utils.DeduplicatePatterns(override.Include)...)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if override.MaxFileSizeKB != nil {
		result.MaxFileSizeKB = cloneInt64(override.MaxFileSizeKB)
	}
	if override.OutputPath != "" {
		result.OutputPath = override.OutputPath
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func (configuration TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := configuration
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func (configuration LogConfiguration) merge(override LogConfiguration) LogConfiguration {
	result := configuration
	if override.FilePath != "" {
		result.FilePath = override.FilePath
	}
	if override.Verbose != nil {
		result.Verbose = cloneBool(override.Verbose)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt64(value *int64) *int64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
