// Package constants provides shared constants used throughout coreoffset.
// This includes the documentation tree layout, sensor key markers, file
// permissions and output defaults.
package constants

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Documentation tree layout. Every entry is relative to the docs root.
const (
	// DumpsDir holds one raw SMC key dump per model.
	DumpsDir = "SMCDumps"

	// ModelsFile maps board identifiers to model names.
	ModelsFile = "MacModels.txt"

	// DatabaseDir holds one subdirectory per board identifier.
	DatabaseDir = "SMCDatabase"

	// DatabaseFile is the content file inside every board directory.
	DatabaseFile = "main.txt"

	// IStatFile is the aggregated iStat log.
	IStatFile = "iStat.txt"
)

// Sensor key markers. Each marker has exactly two accepted spellings.
const (
	Core0Upper = "TC0C"
	Core0Lower = "TC0c"
	Core1Upper = "TC1C"
	Core1Lower = "TC1c"
)

// SectionPrefix starts a new per-model section in the iStat log.
const SectionPrefix = "Dumping "

// NoCoreTemperature is the literal emitted for models without a core key.
const NoCoreTemperature = "No core temperature"

// Output defaults
const (
	// DefaultArrayName is the identifier of the generated C array.
	DefaultArrayName = "one_indexed_models"

	// DefaultLocale drives the collation of the generated array.
	DefaultLocale = "en"

	// ConfigName is the config file base name searched in $HOME and ".".
	ConfigName = ".coreoffset"

	// EnvPrefix prefixes every environment variable read by the CLI.
	EnvPrefix = "COREOFFSET"
)
