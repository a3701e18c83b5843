package logger

import "os"

// DefaultAppName is used when neither -app_name nor APP_NAME is set.
const DefaultAppName = "nrtsync"

// LoadConfig builds the logger configuration. Flags take precedence over
// environment variables. flag.Parse must have been called.
func LoadConfig() (*Config, error) {
	return loadConfig(os.LookupEnv), nil
}

func loadConfig(lookupEnv func(string) (string, bool)) *Config {
	return &Config{
		Level:       ParseLevel(levelSetting.value(lookupEnv)),
		WebhookURL:  webhookSetting.value(lookupEnv),
		AppName:     appNameSetting.value(lookupEnv),
		Environment: envSetting.value(lookupEnv),
	}
}
