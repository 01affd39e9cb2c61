package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/sfh/internal/cli"
	"github.com/julianstephens/sfh/internal/keyring"
	"github.com/julianstephens/sfh/internal/portal"
	"github.com/julianstephens/sfh/internal/tui"
)

type LoginCmd struct {
	Login         string `help:"Portal login id, e.g. 007." name:"login"`
	PasswordStdin bool   `help:"Read the password from stdin instead of prompting."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	creds := portal.Credentials{LoginID: settings.LoginID}
	if c.Login != "" {
		creds.LoginID = c.Login
	}

	switch {
	case c.PasswordStdin:
		if creds.LoginID == "" {
			return errors.New("--login is required with --password-stdin")
		}
		if creds.Password, err = readPassword(ctx); err != nil {
			return err
		}
	case ctx.Interactive:
		if err := tui.Run(tui.CredentialsForm(&creds.LoginID, &creds.Password)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("use --password-stdin to log in: %w", cli.ErrNotInteractive)
	}
	creds.LoginID = strings.TrimSpace(creds.LoginID)

	client, err := ctx.Client(settings)
	if err != nil {
		return err
	}
	if err := client.Login(context.Background(), creds); err != nil {
		if errors.Is(err, portal.ErrLoginRejected) {
			return fmt.Errorf("login rejected for %s: check the login and password", creds.LoginID)
		}
		return fmt.Errorf("login failed: %w", err)
	}

	if err := keyring.SetPassword(creds.LoginID, creds.Password); err != nil {
		return err
	}
	settings.LoginID = creds.LoginID
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	ctx.Printf("✓ Logged in as %s. Password stored in the OS keyring.\n", creds.LoginID)
	return nil
}

func readPassword(ctx *cli.Context) (string, error) {
	line, err := bufio.NewReader(ctx.Input()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("empty password on stdin")
	}
	return password, nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.LoginID == "" {
		ctx.Printf("Not logged in.\n")
		return nil
	}

	if err := keyring.DeletePassword(settings.LoginID); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	loginID := settings.LoginID
	settings.LoginID = ""
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	ctx.Printf("✓ Logged out %s.\n", loginID)
	return nil
}
