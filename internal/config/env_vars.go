package config

import "os"

const (
	baseURLVar = "BASE_URL"
	appNameVar = "APP_NAME"
	folderVar  = "FOLDER"
)

type EnvConfig interface {
	GetBaseURL() string
	GetAppName() string
	GetDataFolder() string
	GetEnv() string
}

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

// GetBaseURL returns the booking service's base URL,
// e.g. "https://api.example.com". This is the only remote setting the
// client needs.
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8000")
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Booking Client")
}

// GetDataFolder returns where the persisted credential pair lives.
func (EnvVars) GetDataFolder() string {
	return GetEnv(folderVar, "./data")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
