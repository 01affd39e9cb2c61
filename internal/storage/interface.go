package storage

import (
	"github.com/julianstephens/sfh/internal/migration"
	"github.com/julianstephens/sfh/internal/models"
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	Ping() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Utils
	Runner() (*migration.Runner, error)
	GetConfigPath() string
}
