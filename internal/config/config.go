// Package config loads, defaults and validates the loandesk configuration.
package config

import (
	"errors"
	"time"
)

// ErrConfiguration wraps every load or validation failure.
var ErrConfiguration = errors.New("configuration error")

// Config is the root configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Database  DatabaseConfig  `mapstructure:"database"`
	LINE      LINEConfig      `mapstructure:"line"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Bank      BankConfig      `mapstructure:"bank"`
	Cases     CasesConfig     `mapstructure:"cases"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

type HTTPConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"             validate:"min=1,max=65535"`
	Mode            string        `mapstructure:"mode"             validate:"oneof=debug release test"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     validate:"min=1s"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    validate:"min=1s"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=1s"`
}

type DatabaseConfig struct {
	Driver           string        `mapstructure:"driver"             validate:"oneof=sqlite postgres"`
	Path             string        `mapstructure:"path"               validate:"required_if=Driver sqlite"`
	DSN              string        `mapstructure:"dsn"                validate:"required_if=Driver postgres"`
	MaxOpenConns     int           `mapstructure:"max_open_conns"     validate:"min=2"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns"     validate:"min=0,ltefield=MaxOpenConns"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"  validate:"min=0"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"  validate:"min=1s,max=5m"`
}

// LINEConfig holds Messaging API credentials. Both are needed to deliver.
type LINEConfig struct {
	ChannelAccessToken string `mapstructure:"channel_access_token"`
	ChannelSecret      string `mapstructure:"channel_secret"`
}

// Configured reports whether LINE delivery can work.
func (c LINEConfig) Configured() bool {
	return c.ChannelAccessToken != "" && c.ChannelSecret != ""
}

// TelegramConfig enables the Telegram channel when Token is set.
type TelegramConfig struct {
	Token       string        `mapstructure:"token"`
	PollTimeout time.Duration `mapstructure:"poll_timeout" validate:"min=1s"`
}

// Enabled reports whether the Telegram poller should run.
func (c TelegramConfig) Enabled() bool {
	return c.Token != ""
}

type BankConfig struct {
	Name string `mapstructure:"name" validate:"required"`
}

type CasesConfig struct {
	InitialStatus string `mapstructure:"initial_status" validate:"required"`
	IDAttempts    int    `mapstructure:"id_attempts"    validate:"min=1,max=20"`
}

// MessagesConfig holds chat-facing strings. NotFound is a format with one %s.
type MessagesConfig struct {
	Help              string `mapstructure:"help"                validate:"required"`
	PromptQuery       string `mapstructure:"prompt_query"        validate:"required"`
	NotFound          string `mapstructure:"not_found"           validate:"required"`
	SaveFailed        string `mapstructure:"save_failed"         validate:"required"`
	LookupFailed      string `mapstructure:"lookup_failed"       validate:"required"`
	PartnerLinkFailed string `mapstructure:"partner_link_failed" validate:"required"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig is a cron schedule with optional seconds field.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}
