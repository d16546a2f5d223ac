package app

import (
	"context"
	"fmt"
	"log"

	"github.com/proshka/feedback-bot/internal/bot"
	"github.com/proshka/feedback-bot/internal/config"
	"github.com/proshka/feedback-bot/pkg/archive"
	"github.com/proshka/feedback-bot/pkg/gateway"
	"github.com/proshka/feedback-bot/pkg/staging"
	"github.com/proshka/feedback-bot/pkg/telegram"
)

// App holds all application dependencies
type App struct {
	Config   *config.Config
	Gateway  *gateway.Gateway
	Archive  *archive.Store
	Telegram *telegram.Client
	Machine  *bot.Machine
}

// New initializes a new application with all dependencies and runs the
// startup self-check against both Google services. A self-check failure
// aborts startup.
func New(ctx context.Context) (*App, error) {
	cfg := config.LoadConfig()
	if cfg.Token == "" {
		return nil, fmt.Errorf("TOKEN is required")
	}
	if cfg.SpreadsheetName == "" {
		return nil, fmt.Errorf("SPREADSHEET_NAME is required")
	}

	gw := gateway.NewGateway(config.CredentialsFile, cfg.SpreadsheetName, cfg.DriveFolderID)

	if err := gw.CheckRowStore(ctx); err != nil {
		return nil, fmt.Errorf("row store check failed: %w", err)
	}
	log.Printf("Connected to spreadsheet %q", cfg.SpreadsheetName)

	if err := gw.CheckFolder(ctx); err != nil {
		return nil, fmt.Errorf("drive folder check failed: %w", err)
	}
	if cfg.DriveFolderID != "" {
		log.Printf("Connected to Drive folder %s", cfg.DriveFolderID)
	}

	// The Postgres archive is optional; a broken archive never blocks the
	// bot from starting.
	var arch *archive.Store
	if cfg.DatabaseURL != "" {
		var err error
		arch, err = archive.NewStore(cfg.DatabaseURL)
		if err != nil {
			log.Printf("WARNING: failed to initialize feedback archive: %v", err)
			log.Printf("Continuing without the Postgres archive")
			arch = nil
		}
	}

	tg, err := telegram.NewClient(cfg.Token)
	if err != nil {
		return nil, err
	}

	stager := staging.NewStager(gw)
	machine := bot.NewMachine(tg, stager, &recorder{gateway: gw, archive: arch})

	return &App{
		Config:   cfg,
		Gateway:  gw,
		Archive:  arch,
		Telegram: tg,
		Machine:  machine,
	}, nil
}

// LogStartupInfo logs application startup information
func (a *App) LogStartupInfo() {
	log.Printf("Starting feedback bot as @%s", a.Telegram.Self())

	if a.Config.DriveFolderID != "" {
		log.Printf("Photo uploads go to Drive folder %s", a.Config.DriveFolderID)
	} else {
		log.Printf("Photo uploads go to the Drive root")
	}

	if a.Archive != nil {
		log.Printf("Postgres feedback archive: enabled")
	} else {
		log.Printf("Postgres feedback archive: disabled")
	}
}

// Run consumes inbound events until ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	for ev := range a.Telegram.Events(ctx) {
		a.Machine.HandleEvent(ctx, ev)
	}
}

// recorder appends each finalized row to the sheet and mirrors it into the
// optional archive. The sheet is the system of record: an archive failure is
// logged and never surfaced to the user.
type recorder struct {
	gateway *gateway.Gateway
	archive *archive.Store
}

func (r *recorder) AppendRow(ctx context.Context, values []interface{}) error {
	if err := r.gateway.AppendRow(ctx, values); err != nil {
		return err
	}
	if r.archive != nil {
		if err := r.archive.SaveRow(ctx, values); err != nil {
			log.Printf("WARNING: %v", err)
		}
	}
	return nil
}
