package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "GIN_MODE", "LOG_LEVEL", "HOTEL_NAME", "RECEIPT_LOGO_PATH",
		"WHATSAPP_BASE_URL", "WHATSAPP_MESSAGE", "SHORTIO_API_KEY",
		"SHORTIO_DOMAIN", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, "Hotel Raglan", cfg.HotelName)
	assert.Equal(t, "https://wa.me", cfg.WhatsAppBaseURL)
	assert.Equal(t, DefaultWhatsAppMessage, cfg.WhatsAppMessage)
	assert.Empty(t, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.ShortLinksEnabled())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("WHATSAPP_MESSAGE", "Hola")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SHORTIO_API_KEY", "key")
	t.Setenv("SHORTIO_DOMAIN", "go.example")

	cfg := LoadConfig()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "Hola", cfg.WhatsAppMessage)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.ShortLinksEnabled())
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"empty message", Config{WhatsAppBaseURL: "https://wa.me"}},
		{"relative base url", Config{WhatsAppBaseURL: "wa.me", WhatsAppMessage: "x"}},
		{"unknown gin mode", Config{GinMode: "prod", WhatsAppBaseURL: "https://wa.me", WhatsAppMessage: "x"}},
		{"shortio without domain", Config{WhatsAppBaseURL: "https://wa.me", WhatsAppMessage: "x", ShortIOAPIKey: "k"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.cfg.Validate())
		})
	}
}
