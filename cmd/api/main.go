package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-recurrence/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-recurrence/internal/db"
	"github.com/BruksfildServices01/barber-recurrence/internal/routes"
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "barber-recurrence-api").
		Logger()

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, logger)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
