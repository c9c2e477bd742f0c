package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/edgard/loandesk/internal/loan"
)

// EnvPrefix prefixes every environment override, e.g. LOANDESK_DATABASE_DRIVER.
const EnvPrefix = "LOANDESK"

// legacyEnv binds the environment names used by earlier deployments.
var legacyEnv = map[string]string{
	"line.channel_access_token": "LINE_CHANNEL_ACCESS_TOKEN",
	"line.channel_secret":       "LINE_CHANNEL_SECRET",
	"http.port":                 "PORT",
	"database.dsn":              "DATABASE_URL",
}

// LoadConfig reads defaults, then the YAML file at path (optional when it
// does not exist), then environment variables, and validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("%w: bind env %s: %v", ErrConfiguration, legacy, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
			}
			slog.Info("Configuration file not found, using defaults and environment", "path", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct constraints.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", false)

	v.SetDefault("http.host", "")
	v.SetDefault("http.port", DefaultHTTPPort)
	v.SetDefault("http.mode", DefaultHTTPMode)
	v.SetDefault("http.read_timeout", DefaultHTTPReadTimeout)
	v.SetDefault("http.write_timeout", DefaultHTTPWriteTimeout)
	v.SetDefault("http.shutdown_timeout", DefaultHTTPShutdownTimeout)

	v.SetDefault("database.driver", DefaultDBDriver)
	v.SetDefault("database.path", DefaultDBPath)
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", DefaultDBMaxOpenConns)
	v.SetDefault("database.max_idle_conns", DefaultDBMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", DefaultDBConnMaxLifetime)
	v.SetDefault("database.operation_timeout", DefaultDBOperationTimeout)

	v.SetDefault("line.channel_access_token", "")
	v.SetDefault("line.channel_secret", "")

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.poll_timeout", DefaultTelegramPollTimeout)

	v.SetDefault("bank.name", DefaultBankName)

	v.SetDefault("cases.initial_status", loan.InitialStatus)
	v.SetDefault("cases.id_attempts", DefaultCaseIDAttempts)

	v.SetDefault("messages.help", DefaultMessages.Help)
	v.SetDefault("messages.prompt_query", DefaultMessages.PromptQuery)
	v.SetDefault("messages.not_found", DefaultMessages.NotFound)
	v.SetDefault("messages.save_failed", DefaultMessages.SaveFailed)
	v.SetDefault("messages.lookup_failed", DefaultMessages.LookupFailed)
	v.SetDefault("messages.partner_link_failed", DefaultMessages.PartnerLinkFailed)

	v.SetDefault("scheduler.tasks", map[string]any{
		"sql_maintenance": map[string]any{
			"enabled":  true,
			"schedule": DefaultMaintenanceSchedule,
		},
	})
}
