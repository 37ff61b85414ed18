package config

import (
	"fmt"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errors []error

	if err := validateServer(cfg.Server); err != nil {
		errors = append(errors, err)
	}

	if err := validateDatabase(cfg.Database); err != nil {
		errors = append(errors, err)
	}

	if err := validateDeduplication(cfg.Deduplication); err != nil {
		errors = append(errors, err)
	}

	if err := validateDocAI(cfg.DocAI); err != nil {
		errors = append(errors, err)
	}

	if err := validateBroker(cfg.Broker); err != nil {
		errors = append(errors, err)
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}
	return nil
}

func validateDatabase(cfg DatabaseConfig) error {
	if cfg.MongoDB.URI == "" {
		return &ValidationError{
			Field:   "database.mongodb.uri",
			Message: "mongodb uri is required",
		}
	}
	if cfg.MongoDB.Database == "" {
		return &ValidationError{
			Field:   "database.mongodb.database",
			Message: "mongodb database name is required",
		}
	}
	return nil
}

func validateDeduplication(cfg DeduplicationConfig) error {
	if cfg.TTLSeconds <= 0 {
		return &ValidationError{
			Field:   "deduplication.ttl_seconds",
			Message: fmt.Sprintf("ttl must be positive, got %d", cfg.TTLSeconds),
		}
	}
	if cfg.OnRedisError != "allow" && cfg.OnRedisError != "deny" {
		return &ValidationError{
			Field:   "deduplication.on_redis_error",
			Message: fmt.Sprintf("must be 'allow' or 'deny', got %q", cfg.OnRedisError),
		}
	}
	return nil
}

func validateDocAI(cfg DocAIConfig) error {
	if cfg.Endpoint != "" && cfg.APIKey == "" {
		return &ValidationError{
			Field:   "docai.api_key",
			Message: "api key is required when a docai endpoint is configured",
		}
	}
	if cfg.TimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "docai.timeout_seconds",
			Message: "timeout must be positive",
		}
	}
	return nil
}

func validateBroker(cfg BrokerConfig) error {
	if !cfg.Enabled {
		return nil
	}
	if len(cfg.Kafka.Brokers) == 0 {
		return &ValidationError{
			Field:   "broker.kafka.brokers",
			Message: "at least one broker is required when the broker is enabled",
		}
	}
	if cfg.Kafka.ReceiptTopic == "" {
		return &ValidationError{
			Field:   "broker.kafka.receipt_topic",
			Message: "receipt topic is required when the broker is enabled",
		}
	}
	return nil
}
