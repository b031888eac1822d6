// Package config loads service configuration from environment variables.
package config

import "os"

// Config holds the service configuration.
type Config struct {
	// HTTPAddr is the listen address of the HTTP server.
	HTTPAddr string
	// DataDir is the directory holding the SQLite database.
	DataDir string
	// MQTTURL is the broker URL (e.g. tcp://localhost:1883). Empty
	// disables the broker sink.
	MQTTURL string
	// MQTTTopic is the topic sync announcements are published to.
	MQTTTopic string
	// MQTTClientID identifies this service to the broker.
	MQTTClientID string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from the environment, applying defaults.
func Load() Config {
	return Config{
		HTTPAddr:     getenv("SNAPPER_HTTP_ADDR", ":8080"),
		DataDir:      getenv("SNAPPER_DATA_DIR", "./data"),
		MQTTURL:      getenv("SNAPPER_MQTT_URL", ""),
		MQTTTopic:    getenv("SNAPPER_MQTT_TOPIC", "sync"),
		MQTTClientID: getenv("SNAPPER_MQTT_CLIENT_ID", "snapper-sync"),
		LogLevel:     getenv("SNAPPER_LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
