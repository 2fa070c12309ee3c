package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/packlist/internal/conversation"
	"github.com/pkordes/packlist/internal/llm"
	"github.com/pkordes/packlist/internal/packing"
	"github.com/pkordes/packlist/internal/purpose"
	"github.com/pkordes/packlist/internal/repo"
	"github.com/pkordes/packlist/internal/service"
	"github.com/pkordes/packlist/internal/weather"
	"github.com/pkordes/packlist/migrations"
)

// weatherTimeout bounds each OpenWeather request.
const weatherTimeout = 10 * time.Second

// app holds the wired components shared by the subcommands.
type app struct {
	pool       *pgxpool.Pool
	purposes   repo.PurposeRepo
	checklists *service.ChecklistService
	export     *service.ExportService
	links      conversation.Links
}

// openApp connects to Postgres, verifies it is reachable and builds the
// repositories and services.
func openApp(ctx context.Context) (*app, error) {
	// New does not open connections immediately; the ping does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("database connection established")

	users := repo.NewUserRepo(pool)
	lists := repo.NewChecklistRepo(pool)
	items := repo.NewItemRepo(pool)

	return &app{
		pool:       pool,
		purposes:   repo.NewPurposeRepo(pool),
		checklists: service.NewChecklistService(users, lists, items),
		export:     service.NewExportService(lists, items),
		links:      conversation.Links{Public: cfg.PublicWebURL, Local: cfg.LocalWebURL},
	}, nil
}

func (a *app) Close() { a.pool.Close() }

// migrator returns a goose provider over the embedded migrations. goose needs
// database/sql, so the pool is adapted through the pgx stdlib driver.
func (a *app) migrator() (*goose.Provider, func() error, error) {
	db := stdlib.OpenDBFromPool(a.pool)
	p, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create goose provider: %w", err)
	}
	return p, db.Close, nil
}

// migrateUp applies pending migrations.
func (a *app) migrateUp(ctx context.Context) error {
	p, closeDB, err := a.migrator()
	if err != nil {
		return err
	}
	defer closeDB()

	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	for _, r := range results {
		logger.Info("migration applied", "version", r.Source.Version, "path", r.Source.Path, "duration", r.Duration)
	}
	return nil
}

// machine wires the trip conversation. Optional providers stay nil
// interfaces when their key is missing, so the fallbacks apply.
func (a *app) machine() *conversation.Machine {
	var model llm.Completer
	if cfg.OpenAIAPIKey != "" {
		model = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	} else {
		logger.Warn("OPENAI_API_KEY not set; using rule-based classification and lists")
	}

	var forecasts conversation.WeatherSource
	if cfg.OpenWeatherAPIKey != "" {
		forecasts = weather.NewAggregator(weather.NewOpenWeatherClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, weatherTimeout))
	} else {
		logger.Warn("OPENWEATHER_API_KEY not set; trips continue without a forecast")
	}

	return conversation.NewMachine(
		conversation.NewSessions(cfg.SessionTTL),
		forecasts,
		purpose.NewClassifier(model, a.purposes, logger),
		packing.NewEngine(model, llm.DefaultPolicy, logger),
		a.checklists,
		a.links,
		logger,
	)
}
