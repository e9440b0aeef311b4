package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Auth      AuthConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Monitor   MonitorConfig
	Simulator SimulatorConfig
	WebSocket WebSocketConfig
	MQTT      MQTTConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	SeedDemoData bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// AuthConfig holds the single operator credential used by the login endpoint.
// Proper user management is delegated to an external collaborator.
type AuthConfig struct {
	OperatorUser         string
	OperatorPasswordHash string
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
}

// MonitorConfig controls the offline-detection sweep. Devices are expected to
// report well inside TimeoutMinutes, leaving margin for missed pings.
type MonitorConfig struct {
	TimeoutMinutes int
	SweepInterval  time.Duration
}

type SimulatorConfig struct {
	Enabled  bool
	Interval time.Duration
}

type WebSocketConfig struct {
	SnapshotEvents int
}

type MQTTConfig struct {
	Enabled        bool
	Broker         string
	ClientID       string
	Username       string
	Password       string
	StatusTopic    string
	HeartbeatTopic string
	QoS            int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("ENVIRONMENT"),
			SeedDemoData: viper.GetBool("SEED_DEMO_DATA"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Auth: AuthConfig{
			OperatorUser:         viper.GetString("OPERATOR_USER"),
			OperatorPasswordHash: viper.GetString("OPERATOR_PASSWORD_HASH"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   viper.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           viper.GetInt("CORS_MAX_AGE"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   viper.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: viper.GetInt("RATE_LIMIT_GENERAL_BURST"),
		},
		Monitor: MonitorConfig{
			TimeoutMinutes: viper.GetInt("MONITOR_TIMEOUT_MINUTES"),
			SweepInterval:  viper.GetDuration("MONITOR_SWEEP_INTERVAL"),
		},
		Simulator: SimulatorConfig{
			Enabled:  viper.GetBool("SIMULATOR_ENABLED"),
			Interval: viper.GetDuration("SIMULATOR_INTERVAL"),
		},
		WebSocket: WebSocketConfig{
			SnapshotEvents: viper.GetInt("WS_SNAPSHOT_EVENTS"),
		},
		MQTT: MQTTConfig{
			Enabled:        viper.GetBool("MQTT_ENABLED"),
			Broker:         viper.GetString("MQTT_BROKER"),
			ClientID:       viper.GetString("MQTT_CLIENT_ID"),
			Username:       viper.GetString("MQTT_USERNAME"),
			Password:       viper.GetString("MQTT_PASSWORD"),
			StatusTopic:    viper.GetString("MQTT_STATUS_TOPIC"),
			HeartbeatTopic: viper.GetString("MQTT_HEARTBEAT_TOPIC"),
			QoS:            viper.GetInt("MQTT_QOS"),
		},
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("MONITOR_TIMEOUT_MINUTES", 20)
	viper.SetDefault("MONITOR_SWEEP_INTERVAL", 2*time.Minute)
	viper.SetDefault("SIMULATOR_INTERVAL", 5*time.Second)
	viper.SetDefault("WS_SNAPSHOT_EVENTS", 10)
	viper.SetDefault("MQTT_CLIENT_ID", "security-monitor")
	viper.SetDefault("MQTT_STATUS_TOPIC", "devices/+/status")
	viper.SetDefault("MQTT_HEARTBEAT_TOPIC", "devices/+/heartbeat")
	viper.SetDefault("MQTT_QOS", 1)
	viper.SetDefault("RATE_LIMIT_GENERAL_RPS", 50.0)
	viper.SetDefault("RATE_LIMIT_GENERAL_BURST", 100)
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
