package main

import (
	"image"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"hotel-receipt/pkg/api"
	"hotel-receipt/pkg/clients/shortio"
	"hotel-receipt/pkg/config"
	"hotel-receipt/pkg/middleware"
	"hotel-receipt/pkg/render"
	"hotel-receipt/pkg/services"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file loaded, using process environment")
	}

	// Initialize configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.JSONFormatter{})

	var logo image.Image
	if cfg.LogoPath != "" {
		logo, err = render.LoadLogo(cfg.LogoPath)
		if err != nil {
			log.Fatalf("Error loading logo: %v", err)
		}
	}

	// Short links are optional
	var shortener services.LinkShortener
	if cfg.ShortLinksEnabled() {
		shortener = shortio.NewClient(cfg.ShortIOAPIKey, cfg.ShortIODomain)
	}

	// Initialize services
	receiptService := services.NewReceiptService(
		render.NewRasterizer(),
		shortener,
		logo,
		cfg,
	)

	tmpl, err := api.LoadTemplates()
	if err != nil {
		log.Fatalf("Error parsing templates: %v", err)
	}

	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins...))
	router.SetHTMLTemplate(tmpl)

	// Initialize handlers and register routes
	handlers := api.NewHandlers(receiptService, cfg)
	handlers.RegisterRoutes(router)

	log.Infof("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
