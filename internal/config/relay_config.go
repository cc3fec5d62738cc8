package config

import "fmt"

// RelayConfig holds what the outbox relay needs and nothing more.
type RelayConfig struct {
	DatabaseURL          string `mapstructure:"DB_CONNECTION_STRING"`
	RabbitMQURL          string `mapstructure:"RABBITMQ_URL"`
	AppointmentQueueName string `mapstructure:"APPOINTMENT_QUEUE_NAME"`
	HealthPort           string `mapstructure:"RELAY_HEALTH_PORT"`
	LogLevel             string `mapstructure:"LOG_LEVEL"`
}

// LoadRelayConfig requires DB_CONNECTION_STRING and RABBITMQ_URL.
func LoadRelayConfig() (*RelayConfig, error) {
	v := newViper([]string{"DB_CONNECTION_STRING", "RABBITMQ_URL", "APPOINTMENT_QUEUE_NAME", "RELAY_HEALTH_PORT", "LOG_LEVEL"})

	v.SetDefault("APPOINTMENT_QUEUE_NAME", "appointments")
	v.SetDefault("RELAY_HEALTH_PORT", "8090")
	v.SetDefault("LOG_LEVEL", "info")

	_ = v.ReadInConfig()

	cfg := &RelayConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal relay config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DB_CONNECTION_STRING is required")
	}
	if cfg.RabbitMQURL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is required")
	}
	return cfg, nil
}
