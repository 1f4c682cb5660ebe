package constants

import (
	"slices"
	"strings"

	"github.com/kerimovok/go-pkg-utils/config"
	"github.com/kerimovok/go-pkg-utils/validator"
)

const (
	// AppName prefixes every alert key, e.g. "fileuploadApp.file.created"
	AppName = "fileuploadApp"

	// AlertHeader and AlertParamsHeader are set on create, update and delete responses
	AlertHeader       = "X-Fileupload-Alert"
	AlertParamsHeader = "X-Fileupload-Params"
)

// DBLogLevels are the accepted values of DB_LOG_LEVEL
var DBLogLevels = []string{"silent", "error", "warn", "info"}

func notEmpty(v string) bool { return v != "" }

func oneOf(values ...string) func(string) bool {
	return func(v string) bool { return slices.Contains(values, strings.ToLower(v)) }
}

var EnvValidationRules = []validator.ValidationRule{
	// Server
	{
		Variable: "PORT",
		Default:  "8080",
		Rule:     config.IsValidPort,
		Message:  "server port is required and must be a valid port number",
	},
	{
		Variable: "GO_ENV",
		Default:  "development",
		Rule:     oneOf("development", "production"),
		Message:  "GO_ENV must be either 'development' or 'production'",
	},
	{
		Variable: "CONFIG_PATH",
		Default:  "config/fileupload.yaml",
		Rule:     notEmpty,
		Message:  "content policy file path is required",
	},

	// Database
	{
		Variable: "DB_HOST",
		Rule:     notEmpty,
		Message:  "database host is required",
	},
	{
		Variable: "DB_PORT",
		Default:  "5432",
		Rule:     config.IsValidPort,
		Message:  "database port is required and must be a valid port number",
	},
	{
		Variable: "DB_USER",
		Rule:     notEmpty,
		Message:  "database user is required",
	},
	{
		Variable: "DB_NAME",
		Default:  "fileupload",
		Rule:     notEmpty,
		Message:  "database name is required",
	},
	{
		Variable: "DB_SSLMODE",
		Default:  "disable",
		Rule:     oneOf("disable", "allow", "prefer", "require", "verify-ca", "verify-full"),
		Message:  "DB_SSLMODE must be a valid postgres sslmode",
	},
	{
		Variable: "DB_LOG_LEVEL",
		Default:  "info",
		Rule:     oneOf(DBLogLevels...),
		Message:  "DB_LOG_LEVEL must be one of silent, error, warn, info",
	},
}
