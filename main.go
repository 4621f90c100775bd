package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"vigenere-backend/config"
	"vigenere-backend/handlers"
	"vigenere-backend/store"
)

func main() {
	configPath := config.DefaultConfigPath()
	settings, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config %s: %v", configPath, err)
	}

	var history *store.Store
	if settings.StoreEnabled {
		history, err = store.Open(settings.StorePath)
		if err != nil {
			log.Fatalf("Failed to open history database %s: %v", settings.StorePath, err)
		}
		defer func() {
			if cerr := history.Close(); cerr != nil {
				log.Printf("Failed to close history database: %v", cerr)
			}
		}()
		log.Printf("✓ Attack history stored in %s", settings.StorePath)
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = settings.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.ExposeHeaders = []string{"X-Kasiski-Key", "X-Kasiski-Key-Length", "X-Kasiski-Fluency", "X-Kasiski-Analysis-ID", "X-Vigenere-Key-Length", "Content-Disposition"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	cipherHandler := handlers.NewCipherHandler(history, settings.MaxUploadBytes)
	cipherHandler.Register(router.Group("/api/v1"))

	log.Printf("Server starting on port %s", settings.Port)
	log.Printf("API endpoints:")
	log.Printf("  POST /api/v1/cipher/encrypt          - Encrypt text with a known key")
	log.Printf("  POST /api/v1/cipher/decrypt          - Decrypt text with a known key")
	log.Printf("  POST /api/v1/cryptanalysis/kasiski   - Recover key and plaintext from ciphertext alone")
	log.Printf("  GET  /api/v1/cryptanalysis/history   - Recent attack results")
	log.Printf("  GET  /api/v1/health                  - Health check")
	log.Printf("")
	log.Printf("Features:")
	log.Printf("  • Vigenère cipher over A-Z/a-z, other characters pass through")
	log.Printf("  • Kasiski examination on 3-5 character repeats")
	log.Printf("  • Per-column frequency analysis against English")
	log.Printf("  • Plaintext fluency score (returned in X-Kasiski-Fluency header)")

	if err := router.Run(":" + settings.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
