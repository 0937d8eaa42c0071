package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/flaggle/internal/config"
	"github.com/robalobadob/flaggle/internal/country"
	"github.com/robalobadob/flaggle/internal/daily"
	"github.com/robalobadob/flaggle/internal/game"
	"github.com/robalobadob/flaggle/internal/httpserver"
	"github.com/robalobadob/flaggle/internal/session"
	"github.com/robalobadob/flaggle/internal/share"
	"github.com/robalobadob/flaggle/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg.Log)

	cat, err := country.Load(cfg.Catalog.File)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load countries")
	}
	variant, err := game.ParseVariant(cfg.Daily.Variant)
	if err != nil {
		log.Fatal().Err(err).Msg("DAILY_VARIANT")
	}

	// Daily puzzles and results always live in SQLite; STORE=memory keeps
	// them in a throwaway in-memory database.
	dsn := cfg.Store.DatabasePath
	if cfg.Store.Kind == "memory" {
		dsn = ":memory:"
	}
	db, err := store.Open(dsn)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", dsn).Msg("open database")
	}
	defer db.Close()
	if err := store.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	var games store.Store = store.NewSQLiteStore(db)
	if cfg.Store.Kind == "memory" {
		games = store.NewMemoryStore()
	}
	ds := daily.NewStore(db)
	mgr := session.New(cat, games, store.NewMemoryStore(), session.Options{Recorder: ds})

	if cfg.Share.Secret == "dev_secret_change_me" {
		log.Warn().Msg("SHARE_SECRET is the development default")
	}
	srv := httpserver.New(mgr, ds, share.NewSigner(cfg.Share.Secret, cfg.Share.TTL), httpserver.Options{
		ClientOrigin:     cfg.Server.ClientOrigin,
		RequestTimeout:   cfg.Server.RequestTimeout,
		DailySalt:        cfg.Daily.Salt,
		DailyVariant:     variant,
		QuizAdvanceDelay: cfg.Quiz.AdvanceDelay,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()

	log.Info().
		Str("port", cfg.Server.Port).
		Str("store", cfg.Store.Kind).
		Int("countries", cat.Len()).
		Msg("starting flaggle server")
	if err := srv.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func setupLogging(c config.Log) {
	if lvl, err := zerolog.ParseLevel(c.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if c.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
