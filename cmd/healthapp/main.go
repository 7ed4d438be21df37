package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/jask/healthapp/internal/config"
	"github.com/jask/healthapp/internal/flows"
	"github.com/jask/healthapp/internal/inbox"
	"github.com/jask/healthapp/internal/testdata"
	"github.com/jask/healthapp/internal/tui"
)

func main() {
	// .env is optional; it only feeds HEALTHAPP_ overrides
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("log: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	loc, err := time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		logger.Warn("using local timezone", "timezone", cfg.UI.Timezone, "err", err)
		loc = time.Local
	}
	now := time.Now().In(loc)

	var store *inbox.Store
	if cfg.Inbox.Seed {
		store, err = testdata.Seed(now, cfg.Patient.Name)
	} else {
		store, err = inbox.NewStore()
	}
	if err != nil {
		log.Fatalf("inbox: %v", err)
	}
	store.SetLogger(logger)

	phones := make([]flows.PhoneNumber, 0, len(cfg.Patient.PhoneNumbers))
	for _, p := range cfg.Patient.Phones() {
		phones = append(phones, flows.PhoneNumber{Label: p.Label, Number: p.Number})
	}
	booking, err := flows.NewBookingFlow(flows.BookingOptions{
		Phones: phones,
		Slots:  flows.AvailableSlots(now, cfg.Patient.BookingDays),
		Loc:    loc,
	})
	if err != nil {
		log.Fatalf("booking flow: %v", err)
	}
	prescription, err := flows.NewPrescriptionFlow()
	if err != nil {
		log.Fatalf("prescription flow: %v", err)
	}

	logger.Info("starting", "messages", len(store.Active()), "unread", store.UnreadCount(), "timezone", loc.String())

	p := tea.NewProgram(tui.New(store, booking, prescription, tui.Options{
		Logger:          logger,
		Now:             func() time.Time { return time.Now().In(loc) },
		SuggestDistance: cfg.Inbox.SuggestDistance,
		Filter:          cfg.Inbox.FilterMode(),
		SaveFilter: func(m inbox.FilterMode) error {
			cfg.Inbox.Filter = m.String()
			return config.Save(cfg)
		},
	}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// newLogger writes text logs to cfg.File. The terminal belongs to the UI, so
// without a file logs are discarded.
func newLogger(cfg config.LogConfig) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}
	var out io.Writer = io.Discard
	closer := func() {}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closer = func() { _ = f.Close() }
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})), closer, nil
}
