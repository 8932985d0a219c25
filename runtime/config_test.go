package runtime

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// apiConfig mirrors the shape of a plugin credential config.
type apiConfig struct {
	APIKey  string `yaml:"api_key" validate:"required"`
	BaseURL string `yaml:"base_url" default:"https://voltageapi.com/api/v1" validate:"required,url_format"`
	Timeout int    `yaml:"timeout" default:"30000" validate:"gte=0"`
}

type pollingConfig struct {
	Interval    time.Duration `yaml:"interval" default:"1s"`
	MaxAttempts int           `yaml:"max_attempts" default:"30" validate:"gte=1,lte=1000"`
	Debug       bool          `yaml:"debug"`
}

func TestApplyDefaults(t *testing.T) {
	var cfg pollingConfig
	require.NoError(t, ApplyDefaults(&cfg))

	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, 30, cfg.MaxAttempts)
	assert.False(t, cfg.Debug)
}

func TestApplyDefaults_KeepsSetValues(t *testing.T) {
	cfg := apiConfig{BaseURL: "http://localhost:8080", Timeout: 500}
	require.NoError(t, ApplyDefaults(&cfg))

	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, 500, cfg.Timeout)
}

func TestApplyDefaults_NilConfig(t *testing.T) {
	assert.Error(t, ApplyDefaults(nil))
}

func TestInitializeConfig(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		want    apiConfig
		wantErr string
	}{
		{
			name: "defaults fill the gaps",
			raw:  map[string]any{"api_key": "vltg_123"},
			want: apiConfig{APIKey: "vltg_123", BaseURL: "https://voltageapi.com/api/v1", Timeout: 30000},
		},
		{
			name: "raw values override defaults",
			raw:  map[string]any{"api_key": "vltg_123", "base_url": "http://localhost:9000/api/v1", "timeout": "1500"},
			want: apiConfig{APIKey: "vltg_123", BaseURL: "http://localhost:9000/api/v1", Timeout: 1500},
		},
		{
			name:    "missing api key",
			raw:     map[string]any{},
			wantErr: "field 'APIKey' failed validation (rule: required)",
		},
		{
			name:    "malformed base url",
			raw:     map[string]any{"api_key": "vltg_123", "base_url": "voltageapi.com"},
			wantErr: "field 'BaseURL' failed validation (rule: url_format)",
		},
		{
			name:    "negative timeout",
			raw:     map[string]any{"api_key": "vltg_123", "timeout": -1},
			wantErr: "field 'Timeout' failed validation (rule: gte)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg apiConfig
			err := InitializeConfig(&cfg, tt.raw)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestInitializeConfig_DurationFromString(t *testing.T) {
	var cfg pollingConfig
	require.NoError(t, InitializeConfig(&cfg, map[string]any{"interval": "250ms", "max_attempts": 5}))

	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	assert.Equal(t, 5, cfg.MaxAttempts)
}

func TestValidateStruct_CollectsAllFailures(t *testing.T) {
	err := ValidateStruct(apiConfig{BaseURL: "not a url", Timeout: -5})
	require.Error(t, err)

	assert.Contains(t, err.Error(), "APIKey")
	assert.Contains(t, err.Error(), "BaseURL")
	assert.Contains(t, err.Error(), "Timeout")
}

func TestValidateStruct_Nil(t *testing.T) {
	assert.Error(t, ValidateStruct(nil))
}

func TestRegisterCustomValidator(t *testing.T) {
	type keyed struct {
		Key string `validate:"vltg_key"`
	}

	require.NoError(t, RegisterCustomValidator("vltg_key", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) > 5 && fl.Field().String()[:5] == "vltg_"
	}))

	assert.NoError(t, ValidateStruct(keyed{Key: "vltg_abc"}))
	assert.Error(t, ValidateStruct(keyed{Key: "sk_abc"}))
}
