package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"

	"resto-backoffice/internal/config"
	"resto-backoffice/internal/model"
	"resto-backoffice/internal/repository"
	"resto-backoffice/pkg/database"
	applog "resto-backoffice/pkg/logger"
)

// Resets a user's password and ends their active session.
//
//	go run ./cmd/reset-password -email admin@example.com -password s3cret
func main() {
	cfg, err := config.Load()
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("failed to load config")
	}
	log := applog.Setup(cfg.LogLevel, cfg.LogFormat)

	email := flag.String("email", cfg.SeedAdminEmail, "account to reset")
	password := flag.String("password", cfg.SeedAdminPassword, "new password (min 6 characters)")
	flag.Parse()

	if len(*password) < 6 {
		log.Fatal().Msg("password must be at least 6 characters")
	}

	db, err := database.Connect(cfg.DSN(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	userRepo := repository.NewUserRepo(db)

	user, err := userRepo.FindByEmail(*email)
	if err != nil {
		log.Fatal().Err(err).Str("email", *email).Msg("user not found")
	}

	var hashed model.User
	if err := hashed.SetPassword(*password); err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}
	if err := userRepo.UpdatePassword(user.ID, hashed.Password); err != nil {
		log.Fatal().Err(err).Msg("failed to update password")
	}
	// a blank version invalidates every issued token
	if err := userRepo.UpdateTokenVersion(user.ID, ""); err != nil {
		log.Warn().Err(err).Msg("password updated but session was not revoked")
	}

	log.Info().Str("email", *email).Msg("password reset")
}
