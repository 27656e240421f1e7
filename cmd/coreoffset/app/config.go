package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/coreoffset/internal/cmd/output"
	"github.com/agentstation/coreoffset/pkg/constants"
	"github.com/agentstation/coreoffset/pkg/emitter"
	"github.com/agentstation/coreoffset/pkg/errors"
	"github.com/agentstation/coreoffset/pkg/pipeline"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string // inspection output: table, markdown, json, yaml

	// DocumentFormat is the document written before the array: plist, yaml, json
	DocumentFormat string

	// Config file
	ConfigFile string

	// Input layout relative to the docs root
	Layout pipeline.Layout

	// Array listing
	Collation Collation
	ArrayName string

	// Run artifacts, written only when set
	MetricsFile    string
	ProvenanceFile string

	// Logging configuration. LogLevel is the --log-level flag; EnvLogLevel
	// comes from the environment or config file.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// Collation configures the ordering of the array listing.
type Collation struct {
	Locale string
	Mode   string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags)
// 2. COREOFFSET_* environment variables
// 3. .env files
// 4. Config file (configFile, or .coreoffset.yaml in $HOME or the working directory)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(constants.ConfigName)
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit file must exist; the default locations are optional.
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config file", "failed to read "+firstNonEmpty(configFile, v.ConfigFileUsed()), err)
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		DocumentFormat: v.GetString("document_format"),

		ConfigFile: v.ConfigFileUsed(),

		Layout: pipeline.Layout{
			DumpsDir:     v.GetString("layout.dumps_dir"),
			ModelsFile:   v.GetString("layout.models_file"),
			DatabaseDir:  v.GetString("layout.database_dir"),
			DatabaseFile: v.GetString("layout.database_file"),
			IStatFile:    v.GetString("layout.istat_file"),
		},

		Collation: Collation{
			Locale: v.GetString("collation.locale"),
			Mode:   v.GetString("collation.mode"),
		},
		ArrayName: v.GetString("array_name"),

		MetricsFile:    v.GetString("metrics_file"),
		ProvenanceFile: v.GetString("provenance_file"),

		EnvLogLevel: firstNonEmpty(v.GetString("log_level"), os.Getenv("LOG_LEVEL")),
		LogFormat:   firstNonEmpty(v.GetString("log_format"), os.Getenv("LOG_FORMAT"), "auto"),
		LogOutput:   firstNonEmpty(v.GetString("log_output"), os.Getenv("LOG_OUTPUT"), "stderr"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// setDefaults registers every key so AutomaticEnv can resolve nested keys.
func setDefaults(v *viper.Viper) {
	layout := pipeline.DefaultLayout()
	v.SetDefault("layout.dumps_dir", layout.DumpsDir)
	v.SetDefault("layout.models_file", layout.ModelsFile)
	v.SetDefault("layout.database_dir", layout.DatabaseDir)
	v.SetDefault("layout.database_file", layout.DatabaseFile)
	v.SetDefault("layout.istat_file", layout.IStatFile)
	v.SetDefault("collation.locale", constants.DefaultLocale)
	v.SetDefault("collation.mode", emitter.CollationStandard.String())
	v.SetDefault("array_name", constants.DefaultArrayName)
	v.SetDefault("metrics_file", "")
	v.SetDefault("provenance_file", "")
	v.SetDefault("format", "")
	v.SetDefault("document_format", emitter.FormatPlist.String())
	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "")
	v.SetDefault("log_output", "")
}

// Validate checks values that would otherwise only fail after the sources
// have been read.
func (c *Config) Validate() error {
	if _, err := emitter.ParseFormat(c.DocumentFormat); err != nil {
		return errors.NewValidationError("document_format", c.DocumentFormat, "must be one of: plist, yaml, json")
	}
	if _, err := output.ParseFormat(c.Format); err != nil {
		return err
	}
	if _, err := emitter.NewComparator(emitter.CollationMode(c.Collation.Mode), c.Collation.Locale); err != nil {
		return err
	}
	if !isIdentifier(c.ArrayName) {
		return errors.NewValidationError("array_name", c.ArrayName, "must be a C identifier")
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, envFile := range envFiles {
		// godotenv.Load never overrides variables that are already set,
		// so the first file to define a key wins.
		_ = godotenv.Load(envFile)
	}
}

// firstNonEmpty returns the first non-empty value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// isIdentifier reports whether s is a valid C identifier.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
