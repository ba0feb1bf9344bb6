package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	API struct {
		BaseURL string
	}
	Credentials struct {
		Path string
	}
	Chat struct {
		Streaming bool
	}
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(defaultConfigDir())
	viper.AutomaticEnv()

	var config Config

	// Set defaults
	viper.SetDefault("api.base_url", "https://api.equipo25.edu/rag")
	viper.SetDefault("credentials.path", filepath.Join(defaultConfigDir(), "credentials.json"))
	viper.SetDefault("chat.streaming", false)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	config.API.BaseURL = viper.GetString("api.base_url")
	config.Credentials.Path = viper.GetString("credentials.path")
	config.Chat.Streaming = viper.GetBool("chat.streaming")

	if url := os.Getenv("RAG_API_BASE_URL"); url != "" {
		config.API.BaseURL = url
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	return nil
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "ragcli")
}
