package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"shipping-distance/internal/core/proxy"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Redis holds the cache connection configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// DistanceMatrix holds the distance matrix API configuration.
	DistanceMatrix DistanceMatrixConfig `mapstructure:",squash"`

	// Shipping holds the location of the shipping settings document.
	Shipping ShippingConfig `mapstructure:",squash"`

	// WooCommerce holds the optional WooCommerce API configuration used for order quotes.
	WooCommerce WooCommerceConfig `mapstructure:",squash"`

	// Proxy holds the optional outbound proxy used for distance matrix requests.
	Proxy proxy.Settings `mapstructure:",squash"`
}

// RedisConfig holds the cache connection details.
type RedisConfig struct {
	// URL is the Redis connection URL.
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
	// KeyPrefix namespaces every cache key written by this service.
	KeyPrefix string `mapstructure:"CACHE_KEY_PREFIX" default:"shipping-distance:"`
	// StartupRetries is how many times the cache is pinged before giving up at boot.
	StartupRetries int `mapstructure:"CACHE_STARTUP_RETRIES" default:"5"`
}

// DistanceMatrixConfig holds the credentials and limits for the distance matrix service.
type DistanceMatrixConfig struct {
	// APIKey is the distance matrix API key. It is never logged.
	APIKey string `mapstructure:"DISTANCE_MATRIX_API_KEY" required:"true"`
	// URL is the service endpoint.
	URL string `mapstructure:"DISTANCE_MATRIX_URL" default:"https://maps.googleapis.com/maps/api/distancematrix/json"`
	// TimeoutSeconds bounds each outbound request.
	TimeoutSeconds int `mapstructure:"DISTANCE_MATRIX_TIMEOUT_SECONDS" default:"10"`
	// RequestsPerSecond paces outbound requests; 0 disables pacing.
	RequestsPerSecond float64 `mapstructure:"DISTANCE_MATRIX_RPS" default:"0"`
	// Burst is the number of requests allowed at once when pacing is enabled.
	Burst int `mapstructure:"DISTANCE_MATRIX_BURST" default:"1"`
}

// Timeout returns the request timeout as a duration.
func (c DistanceMatrixConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ShippingConfig points at the shipping settings document.
type ShippingConfig struct {
	// SettingsFile is the YAML document holding origin, rate table and defaults.
	SettingsFile string `mapstructure:"SHIPPING_SETTINGS_FILE" default:"shipping.yaml"`
	// WatchSettings reloads the document when it changes on disk.
	WatchSettings bool `mapstructure:"SHIPPING_SETTINGS_WATCH" default:"true"`
}

// WooCommerceConfig holds the credentials for the WooCommerce Store.
type WooCommerceConfig struct {
	// URL is the base URL of the WooCommerce store.
	URL string `mapstructure:"WC_URL"`
	// ConsumerKey is the public key for API access.
	ConsumerKey string `mapstructure:"WC_CONSUMER_KEY"`
	// ConsumerSecret is the secret key for API access.
	ConsumerSecret string `mapstructure:"WC_CONSUMER_SECRET"`
}

// Enabled reports whether all WooCommerce credentials are present.
func (c WooCommerceConfig) Enabled() bool {
	return c.URL != "" && c.ConsumerKey != "" && c.ConsumerSecret != ""
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("failed to bind %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
