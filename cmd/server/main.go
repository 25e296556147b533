package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/rlportal/research-log/internal/auth"
	"github.com/rlportal/research-log/internal/config"
	"github.com/rlportal/research-log/internal/database"
	"github.com/rlportal/research-log/internal/handler"
	"github.com/rlportal/research-log/internal/provider"
	"github.com/rlportal/research-log/internal/repository"
	"github.com/rlportal/research-log/internal/router"
	"github.com/rlportal/research-log/internal/storage"
)

func main() {
	_ = godotenv.Load() // optional .env for local development

	cfg := config.Load()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	providerClient := provider.New(cfg.ProviderURL, cfg.AnonKey, cfg.ServiceKey)

	// Exactly one verification strategy is active per deployment. The
	// issuer only exists for the self-issued strategy; the delegated
	// strategy returns the provider's token verbatim at login.
	var verifier auth.Verifier
	var issuer *auth.TokenIssuer
	switch cfg.AuthStrategy {
	case config.StrategySelfIssued:
		issuer = auth.NewTokenIssuer(cfg.JWTSecret, auth.DefaultTokenTTL)
		verifier = auth.NewSelfIssuedVerifier(cfg.JWTSecret)
	case config.StrategyDelegated:
		verifier = auth.NewDelegatedVerifier(providerClient)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	blobs, err := storage.NewS3Store(ctx, storage.S3Config{
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		Endpoint:      cfg.S3Endpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	cancel()
	if err != nil {
		log.Fatalf("object store: %v", err)
	}

	profiles := repository.NewProfileRepo(db)
	research := repository.NewResearchRepo(db)
	logs := repository.NewLogRepo(db)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, login rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	router.Register(e, router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, profiles, providerClient, issuer),
		Members:  handler.NewMemberHandler(profiles, research),
		Research: handler.NewResearchHandler(cfg, research),
		Upload:   handler.NewUploadHandler(research, logs, blobs),
		Logs:     handler.NewLogHandler(cfg, logs),
	}, verifier, config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, auth=%s)", addr, cfg.Env, cfg.AuthStrategy)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
