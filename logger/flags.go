package logger

import "flag"

// EnvVar describes an environment variable understood by the logger.
type EnvVar struct {
	Name        string
	Description string
}

// setting is one logger option read from a flag, then an environment variable.
type setting struct {
	flag *string
	env  EnvVar
	def  string
}

// value returns the flag value if set, else the environment value if present, else the default.
func (s setting) value(lookupEnv func(string) (string, bool)) string {
	if s.flag != nil && *s.flag != "" {
		return *s.flag
	}
	if v, ok := lookupEnv(s.env.Name); ok {
		return v
	}
	return s.def
}

// Logger flags are registered on the default flag set so that cmd packages only
// need to call flag.Parse before LoadConfig.
var (
	levelSetting = setting{
		flag: flag.String("log_level", "", "Log level (debug, info, warn, error)"),
		env:  EnvVar{"LOG_LEVEL", "Log level (debug, info, warn, error)"},
		def:  "info",
	}
	webhookSetting = setting{
		flag: flag.String("log_webhook_url", "", "Webhook URL that receives buffered log records"),
		env:  EnvVar{"LOG_WEBHOOK_URL", "Webhook URL that receives buffered log records"},
	}
	appNameSetting = setting{
		flag: flag.String("app_name", "", "Application name attached to webhook payloads"),
		env:  EnvVar{"APP_NAME", "Application name attached to webhook payloads"},
		def:  DefaultAppName,
	}
	envSetting = setting{
		flag: flag.String("env", "", "Environment name (development, staging, production)"),
		env:  EnvVar{"ENV", "Environment name (development, staging, production)"},
		def:  "development",
	}
)

// GetEnvVarsHelp returns the environment variables read by LoadConfig, for usage output.
func GetEnvVarsHelp() []EnvVar {
	return []EnvVar{levelSetting.env, webhookSetting.env, appNameSetting.env, envSetting.env}
}
