package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Config drives the queue-agent process.
type Config struct {
	Port        string
	DatabaseURL string

	PushEndpoint string
	PushToken    string
	AdminToken   string

	TicketFile string

	SoundPlayer      string
	Renderer         string
	PageRenderer     string
	NotifyPermission bool

	RateLimitPerMinute int
	RateLimitBurst     int
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	ticketFile := os.Getenv("TICKET_FILE")
	if ticketFile == "" {
		ticketFile = defaultTicketFile()
	}

	return Config{
		Port:               port,
		DatabaseURL:        os.Getenv("DB_DSN"),
		PushEndpoint:       os.Getenv("PUSH_ENDPOINT"),
		PushToken:          os.Getenv("PUSH_TOKEN"),
		AdminToken:         os.Getenv("ADMIN_TOKEN"),
		TicketFile:         ticketFile,
		SoundPlayer:        os.Getenv("NOTIFY_SOUND_PLAYER"),
		Renderer:           os.Getenv("NOTIFY_RENDERER"),
		PageRenderer:       os.Getenv("NOTIFY_PAGE_RENDERER"),
		NotifyPermission:   readBool("NOTIFY_PERMISSION_GRANTED", false),
		RateLimitPerMinute: readInt("RATE_LIMIT_PER_MIN", 120),
		RateLimitBurst:     readInt("RATE_LIMIT_BURST", 30),
	}
}

// RelayConfig drives the push-relay process.
type RelayConfig struct {
	Port     string
	AdminURL string
	Renderer string
	Windows  string
}

func LoadRelay() RelayConfig {
	port := os.Getenv("RELAY_PORT")
	if port == "" {
		port = "8081"
	}
	adminURL := os.Getenv("RELAY_ADMIN_URL")
	if adminURL == "" {
		adminURL = "http://localhost:8080/admin"
	}
	return RelayConfig{
		Port:     port,
		AdminURL: adminURL,
		Renderer: os.Getenv("RELAY_RENDERER"),
		Windows:  os.Getenv("RELAY_WINDOWS"),
	}
}

func defaultTicketFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".queue-ticket"
	}
	return filepath.Join(dir, "fila-espera", "ticket")
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func readBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}
