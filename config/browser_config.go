package config

import (
	"os"
	"strconv"
	"time"
)

// Environment selects how the browser binary is located.
type Environment string

const (
	// EnvironmentLocal auto-detects a local Chromium install.
	EnvironmentLocal Environment = "local"
	// EnvironmentManaged uses fixed binary/driver paths, for cloud or Docker
	// hosts that ship a system Chromium.
	EnvironmentManaged Environment = "managed"
)

// BrowserConfig holds browser session settings. It is passed explicitly to
// session construction instead of being read from the environment deep inside
// the scraper.
type BrowserConfig struct {
	Headless    bool
	Environment Environment
	BinaryPath  string
	DriverPath  string
	UserAgent   string
	WindowW     int
	WindowH     int
}

// LoadBrowserConfig builds a BrowserConfig from environment variables. A
// managed environment is assumed whenever BROWSER_ENV says so or a system
// Chromium path is configured.
func LoadBrowserConfig() *BrowserConfig {
	env := EnvironmentLocal
	if getEnv("BROWSER_ENV", "local") == string(EnvironmentManaged) {
		env = EnvironmentManaged
	}

	return &BrowserConfig{
		Headless:    getEnvBool("BROWSER_HEADLESS", true),
		Environment: env,
		BinaryPath:  getEnv("BROWSER_BINARY_PATH", "/usr/bin/chromium"),
		DriverPath:  getEnv("BROWSER_DRIVER_PATH", "/usr/bin/chromedriver"),
		UserAgent: getEnv("BROWSER_USER_AGENT",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		WindowW: getEnvInt("BROWSER_WINDOW_WIDTH", 1920),
		WindowH: getEnvInt("BROWSER_WINDOW_HEIGHT", 1080),
	}
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
