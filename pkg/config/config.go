package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// DefaultWhatsAppMessage is the text prefilled in the WhatsApp chat
const DefaultWhatsAppMessage = "Hola, te adjunto el comprobante de pago."

// Config holds all application configuration values
type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	HotelName string
	LogoPath  string

	WhatsAppBaseURL string
	WhatsAppMessage string

	ShortIOAPIKey string
	ShortIODomain string

	CORSAllowedOrigins []string
}

// LoadConfig reads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", "release"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		HotelName:          getEnv("HOTEL_NAME", "Hotel Raglan"),
		LogoPath:           os.Getenv("RECEIPT_LOGO_PATH"),
		WhatsAppBaseURL:    getEnv("WHATSAPP_BASE_URL", "https://wa.me"),
		WhatsAppMessage:    getEnv("WHATSAPP_MESSAGE", DefaultWhatsAppMessage),
		ShortIOAPIKey:      os.Getenv("SHORTIO_API_KEY"),
		ShortIODomain:      os.Getenv("SHORTIO_DOMAIN"),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}
}

// Validate checks the values that have no usable fallback
func (c *Config) Validate() error {
	switch c.GinMode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("invalid GIN_MODE %q", c.GinMode)
	}
	if c.WhatsAppMessage == "" {
		return errors.New("WHATSAPP_MESSAGE must not be empty")
	}
	u, err := url.Parse(c.WhatsAppBaseURL)
	if err != nil {
		return fmt.Errorf("invalid WHATSAPP_BASE_URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid WHATSAPP_BASE_URL %q: scheme and host are required", c.WhatsAppBaseURL)
	}
	if c.ShortIOAPIKey != "" && c.ShortIODomain == "" {
		return errors.New("SHORTIO_DOMAIN is required when SHORTIO_API_KEY is set")
	}
	return nil
}

// ShortLinksEnabled reports whether share links should also be shortened
func (c *Config) ShortLinksEnabled() bool {
	return c.ShortIOAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
