package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Quo       QuoConfig       `mapstructure:"quo"`
	DoorLoop  DoorLoopConfig  `mapstructure:"doorloop"`
	Responder ResponderConfig `mapstructure:"responder"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	SSLMode     string `mapstructure:"sslmode"`
	UseInMemory bool   `mapstructure:"use_in_memory"`
}

// OpenAIConfig covers any OpenAI-compatible completion endpoint; BaseURL is
// set to the Groq endpoint in production.
type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

type QuoConfig struct {
	APIKey        string `mapstructure:"api_key"`
	PhoneNumberID string `mapstructure:"phone_number_id"`
	BaseURL       string `mapstructure:"base_url"`
}

type DoorLoopConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type ResponderConfig struct {
	HistoryLimit int `mapstructure:"history_limit"`
	ListingCap   int `mapstructure:"listing_cap"`
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	// Remove leading slash from path to get database name
	dbName := strings.TrimPrefix(u.Path, "/")

	sslMode := "require"
	if u.Query().Get("sslmode") != "" {
		sslMode = u.Query().Get("sslmode")
	}

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   dbName,
		SSLMode:  sslMode,
	}, nil
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.use_in_memory", false)
	v.SetDefault("openai.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("openai.model", "llama-3.3-70b-versatile")
	v.SetDefault("openai.max_tokens", 500)
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("quo.base_url", "https://api.openphone.com/v1")
	v.SetDefault("doorloop.base_url", "https://app.doorloop.com/api")
	v.SetDefault("responder.history_limit", 50)
	v.SetDefault("responder.listing_cap", 15)

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Check for DATABASE_URL environment variable (Neon-style URL)
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %v", err)
		}
		config.Database = dbConfig
	}

	// Get other environment variables
	if apiKey := v.GetString("GROQ_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}

	if apiKey := v.GetString("QUO_API_KEY"); apiKey != "" {
		config.Quo.APIKey = apiKey
	}

	if phoneID := v.GetString("QUO_PHONE_NUMBER_ID"); phoneID != "" {
		config.Quo.PhoneNumberID = phoneID
	}

	if apiKey := v.GetString("DOORLOOP_API_KEY"); apiKey != "" {
		config.DoorLoop.APIKey = apiKey
	}

	return &config, nil
}
