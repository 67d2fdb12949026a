package config

// SourceFileExt is the preferred extension for declaration files.
const SourceFileExt = ".yaml"

// SourceFileExtensions are all recognized declaration file extensions
var SourceFileExtensions = []string{".yaml", ".yml"}

// ConfigFileName is the project configuration looked up next to the declaration files.
const ConfigFileName = "implres.yaml"

// Color modes accepted by the color setting.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Built-in type names produced by the reference body resolver
const (
	AnyTypeName  = "Any"
	UnitTypeName = "Unit"
)

// Message prefixes of the error types substituted for recoverable conditions.
const (
	RecursionMessage            = "recursion in implicit types"
	CannotCalculateMessage      = "cannot calculate return type (local class/object?)"
	UnsupportedParameterMessage = "unsupported implicit parameter type"
	ResolutionFailedMessage     = "resolution failed"
	UnresolvedReferenceMessage  = "unresolved reference"
)
