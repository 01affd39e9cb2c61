package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/sfh/internal/constants"
	"github.com/julianstephens/sfh/internal/keyring"
	"github.com/julianstephens/sfh/internal/logger"
	"github.com/julianstephens/sfh/internal/models"
	"github.com/julianstephens/sfh/internal/portal"
	"github.com/julianstephens/sfh/internal/storage"
	"github.com/julianstephens/sfh/internal/tui"
)

// ErrNotInteractive is returned when a value must be prompted for but
// the terminal cannot host a prompt.
var ErrNotInteractive = errors.New("not running in a terminal")

type Context struct {
	Store storage.Provider

	// BaseURL overrides the stored portal root when set (--base-url or SFH_BASE_URL).
	BaseURL string

	// Interactive is true when prompts and the progress bar may be shown.
	Interactive bool

	// In and Out default to stdin and stdout when nil.
	In  io.Reader
	Out io.Writer
}

// Input returns the reader commands read piped values from.
func (c *Context) Input() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

// Output returns the writer commands print to.
func (c *Context) Output() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Printf writes formatted output.
func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Output(), format, args...)
}

// Settings loads the stored settings, filling zero values with defaults.
func (c *Context) Settings() (models.Settings, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	def := models.DefaultSettings()
	if settings.BaseURL == "" {
		settings.BaseURL = def.BaseURL
	}
	if settings.MaxInFlight <= 0 {
		settings.MaxInFlight = def.MaxInFlight
	}
	if settings.RequestTimeoutSec <= 0 {
		settings.RequestTimeoutSec = def.RequestTimeoutSec
	}
	if settings.DefaultReason == "" {
		settings.DefaultReason = def.DefaultReason
	}
	return settings, nil
}

// Client builds a portal client for the effective base URL.
func (c *Context) Client(settings models.Settings) (*portal.Client, error) {
	base := settings.BaseURL
	if c.BaseURL != "" {
		base = c.BaseURL
	}
	return portal.New(base, time.Duration(settings.RequestTimeoutSec)*time.Second)
}

// Session returns a logged-in client. The password comes from the
// keyring, or from a prompt when none is stored. A rejected password is
// deleted and, when interactive, prompted for once more. Credentials that
// work are saved.
func (c *Context) Session(ctx context.Context, settings *models.Settings) (*portal.Client, error) {
	client, err := c.Client(*settings)
	if err != nil {
		return nil, err
	}

	creds := portal.Credentials{LoginID: settings.LoginID}
	if creds.LoginID != "" {
		creds.Password, err = keyring.GetPassword(creds.LoginID)
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("Keyring lookup failed", "error", err)
		}
	}
	if creds.LoginID == "" || creds.Password == "" {
		if err := c.promptCredentials(&creds); err != nil {
			return nil, err
		}
	}

	err = client.Login(ctx, creds)
	if errors.Is(err, portal.ErrLoginRejected) {
		c.Printf("%s\n", tui.Warning("Login rejected, clearing stored password."))
		if delErr := keyring.DeletePassword(creds.LoginID); delErr != nil && !errors.Is(delErr, keyring.ErrNotFound) {
			logger.Warn("Failed to delete rejected password", "error", delErr)
		}
		creds.Password = ""
		if err := c.promptCredentials(&creds); err != nil {
			return nil, fmt.Errorf("%w: %w", portal.ErrLoginRejected, err)
		}
		err = client.Login(ctx, creds)
	}
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	if err := c.remember(settings, creds); err != nil {
		logger.Warn("Failed to save credentials", "error", err)
	}
	return client, nil
}

func (c *Context) promptCredentials(creds *portal.Credentials) error {
	if !c.Interactive {
		if creds.LoginID == "" {
			return fmt.Errorf("no login stored, run '%s login' first: %w", constants.AppName, ErrNotInteractive)
		}
		return fmt.Errorf("no usable password for %s, run '%s login': %w", creds.LoginID, constants.AppName, ErrNotInteractive)
	}
	return tui.Run(tui.CredentialsForm(&creds.LoginID, &creds.Password))
}

func (c *Context) remember(settings *models.Settings, creds portal.Credentials) error {
	if err := keyring.SetPassword(creds.LoginID, creds.Password); err != nil {
		return err
	}
	if settings.LoginID == creds.LoginID {
		return nil
	}
	settings.LoginID = creds.LoginID
	return c.Store.SaveSettings(*settings)
}
