// Package app - constants.go centralizes magic strings and configuration values.
package app

// Environment namespaces for the generation commands. Each command reads its
// own LINK, TOKEN and OUTPUT variables when the matching flag is absent.
const (
	EndpointsLinkEnv   = "OPENAPI_ENDPOINTS_LINK"
	EndpointsTokenEnv  = "OPENAPI_ENDPOINTS_TOKEN"
	EndpointsOutputEnv = "OPENAPI_ENDPOINTS_OUTPUT"

	TypesLinkEnv       = "GRATIO_TYPES_LINK"
	TypesTokenEnv      = "GRATIO_TYPES_TOKEN"
	TypesOutputEnv     = "GRATIO_TYPES_OUTPUT"
	TypesTranspilerEnv = "GRATIO_TYPES_TRANSPILER"
)

// Runtime environment variables that gate prompting and console output.
const (
	// CIEnv is set to "true" by most CI providers.
	CIEnv = "CI"

	// ModeEnv carries the deployment mode; ProductionMode disables prompts
	// and console output.
	ModeEnv        = "NODE_ENV"
	ProductionMode = "production"
)

// StdoutTarget is the output sentinel meaning "print instead of write".
const StdoutTarget = "stdout"

// DefaultEnvFile is loaded at startup when present.
const DefaultEnvFile = ".env"

// KeychainService is the service name used in the OS keychain.
const KeychainService = "oapigen"

// File permissions.
const (
	// DirPerm is the permission mode for directories.
	DirPerm = 0o755

	// FilePerm is the permission mode for regular files.
	FilePerm = 0o644
)
