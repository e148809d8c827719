package main

import (
	"database/sql"
	"flag"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/quiz-live/internal/config"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, or status")
		dir     = flag.String("dir", "db/migrations", "Directory containing migration files")
	)
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("app", "quiz-live-migrator").Logger()

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}

	var pg config.Postgres
	if err := env.Parse(&pg); err != nil {
		log.Fatal().Err(err).Msg("invalid database configuration")
	}

	migrationDir, err := filepath.Abs(*dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", *dir).Msg("failed to resolve migration directory")
	}
	if _, err := os.Stat(migrationDir); os.IsNotExist(err) {
		log.Fatal().Str("dir", migrationDir).Msg("migration directory does not exist")
	}

	db, err := sql.Open("pgx", pg.DSN())
	if err != nil {
		log.Fatal().Err(err).Str("host", pg.Host).Int("port", pg.Port).Msg("failed to open database connection")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}

	log.Info().
		Str("host", pg.Host).
		Int("port", pg.Port).
		Str("database", pg.Database).
		Str("migration_dir", migrationDir).
		Msg("connected to database")

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal().Err(err).Msg("failed to set goose dialect")
	}
	goose.SetTableName("goose_db_version")

	switch *command {
	case "up":
		if err := goose.Up(db, migrationDir); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations up")
		}
		log.Info().Msg("migrations applied successfully")
	case "down":
		if err := goose.Down(db, migrationDir); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations down")
		}
		log.Info().Msg("migrations rolled back successfully")
	case "status":
		if err := goose.Status(db, migrationDir); err != nil {
			log.Fatal().Err(err).Msg("failed to get migration status")
		}
	default:
		log.Fatal().Str("command", *command).Msg("unknown command. Use: up, down, or status")
	}
}
