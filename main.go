package main

import (
	"os"
	"time"

	"github.com/abenfraj/menufique-sub001/config"
	"github.com/abenfraj/menufique-sub001/database"
	aiapi "github.com/abenfraj/menufique-sub001/internal/api/ai"
	"github.com/abenfraj/menufique-sub001/internal/api/imagesearch"
	routes "github.com/abenfraj/menufique-sub001/internal/app/http"
	"github.com/abenfraj/menufique-sub001/internal/mail"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	cfg := config.Load()
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.Open(cfg.DBURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	var mailer mail.Mailer = mail.Discard{}
	if cfg.SMTPHost != "" {
		mailer = &mail.SMTPMailer{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			From:     cfg.SMTPFrom,
			Password: cfg.SMTPPassword,
		}
	}

	deps := &routes.Deps{
		DB:     db,
		Cfg:    cfg,
		Log:    log,
		Mailer: mailer,
		AI:     aiapi.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL),
		Images: imagesearch.NewClient(cfg.ImageSearchBaseURL, cfg.ImageSearchAPIKey),
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, deps)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
