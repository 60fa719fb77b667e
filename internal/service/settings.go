package service

import (
	"fmt"
	"time"

	"fertilabel/internal/config"
)

const (
	brDate = "02/01/2006"
	brTime = "15:04"
)

// Settings are the business knobs shared by the services.
type Settings struct {
	Location      *time.Location
	MassClients   []string
	DefaultClient string
	HistoryWindow int
	TermMailTo    string
}

func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return Settings{}, fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
	}
	window := cfg.HistoryWindow
	if window <= 0 {
		window = 50
	}
	return Settings{
		Location:      loc,
		MassClients:   cfg.MassClients(),
		DefaultClient: cfg.DefaultClient,
		HistoryWindow: window,
		TermMailTo:    cfg.TermMailTo,
	}, nil
}

func (s Settings) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}
