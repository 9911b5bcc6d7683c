package main

import (
	"fmt"
	"strings"

	"giftcode_bot/internal/repository"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database repository.Config `yaml:"database"`
	Server   ServerConfig      `yaml:"server"`
	Telegram TelegramConfig    `yaml:"telegram"`

	LogLevel string `yaml:"logLevel"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type TelegramConfig struct {
	BotToken        string `yaml:"botToken"`
	ChannelUsername string `yaml:"channelUsername"`
	WhatsAppLink    string `yaml:"whatsappLink"`
	AdminID         int64  `yaml:"adminId"`
	DefaultGiftCode string `yaml:"defaultGiftCode"`

	// WebhookURL switches delivery to webhook mode; empty means long
	// polling.
	WebhookURL string `yaml:"webhookUrl"`
	Debug      bool   `yaml:"debug"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(configName)
	viper.AddConfigPath(configPath)
	viper.SetConfigType(configFormat)

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("logLevel", "info")
	viper.SetDefault("telegram.defaultGiftCode", "92PAK-GIFT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Missing required settings are fatal at startup; the process must not
// come up half-configured.
func (c *Config) validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.botToken is required")
	}
	if c.Telegram.ChannelUsername == "" {
		return fmt.Errorf("telegram.channelUsername is required")
	}
	if c.Telegram.AdminID == 0 {
		return fmt.Errorf("telegram.adminId is required")
	}
	return nil
}
