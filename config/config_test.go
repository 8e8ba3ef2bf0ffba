package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("DATABASE_URL", "postgres://localhost/handyhub_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "postgres://localhost/handyhub_test", cfg.DatabaseURL)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsTest())
	assert.False(t, cfg.IsProduction())

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.HasKafka())
	assert.Equal(t, "order-events", cfg.KafkaOrderTopic)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("DATABASE_URL", "postgres://localhost/handyhub_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.HasKafka())
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "Valid",
			config:  Config{DatabaseURL: "postgres://x", JWTSecret: "s"},
			wantErr: false,
		},
		{
			name:    "Missing database URL",
			config:  Config{JWTSecret: "s"},
			wantErr: true,
		},
		{
			name:    "Missing JWT secret",
			config:  Config{DatabaseURL: "postgres://x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSplitEnvList(t *testing.T) {
	assert.Nil(t, splitEnvList(""))
	assert.Equal(t, []string{"a"}, splitEnvList("a"))
	assert.Equal(t, []string{"a", "b"}, splitEnvList("a, b"))
	assert.Equal(t, []string{"a", "b"}, splitEnvList("a,,b,"))
}
