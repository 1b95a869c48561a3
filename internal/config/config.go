package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port               string `envconfig:"PORT" default:"8080"`
	Environment        string `envconfig:"ENV" default:"development"`
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	JWTSecret          string `envconfig:"JWT_SECRET" required:"true"`

	// AI chat service settings
	ChatServiceBaseURL    string `envconfig:"CHAT_SERVICE_BASE_URL" required:"true"`
	ChatRequestTimeoutSec int    `envconfig:"CHAT_REQUEST_TIMEOUT_SEC" default:"60"`

	// Free tier limits. Paid tiers are unlimited.
	FreeChatMessagesPerMonth    int `envconfig:"FREE_CHAT_MESSAGES_PER_MONTH" default:"10"`
	FreeDocumentUploadsPerMonth int `envconfig:"FREE_DOCUMENT_UPLOADS_PER_MONTH" default:"3"`
	FreeOpenTaskLimit           int `envconfig:"FREE_OPEN_TASK_LIMIT" default:"5"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
