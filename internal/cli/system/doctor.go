package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/sfh/internal/cli"
	"github.com/julianstephens/sfh/internal/keyring"
)

type DoctorCmd struct {
	Offline bool `help:"Skip the portal reachability check."`
}

type check struct {
	name     string
	opensDB  bool
	needsDB  bool
	warnOnly bool
	run      func(*cli.Context) error
}

func (cmd *DoctorCmd) checks() []check {
	checks := []check{
		{name: "Database reachable", opensDB: true, run: checkDBReachable},
		{name: "Schema version", needsDB: true, run: checkSchemaVersion},
		{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
		{name: "Settings", needsDB: true, run: checkSettings},
		{name: "Keyring available", warnOnly: true, run: checkKeyring},
		{name: "Stored credentials", needsDB: true, warnOnly: true, run: checkCredentials},
	}
	if !cmd.Offline {
		checks = append(checks, check{name: "Portal reachable", needsDB: true, run: checkPortal})
	}
	return checks
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Printf("Running diagnostics...\n\n")

	hasError := false
	dbReachable := false
	for _, c := range cmd.checks() {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
			dbReachable = dbReachable || c.opensDB
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Printf("\n")
	if hasError {
		ctx.Printf("Diagnostics completed with errors.\n")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Printf("All diagnostics passed!\n")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	return ctx.Store.Ping()
}

func versions(ctx *cli.Context) (current, latest int, err error) {
	runner, err := ctx.Store.Runner()
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.CurrentVersion(); err != nil {
		return 0, 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	if latest, err = runner.LatestVersion(); err != nil {
		return 0, 0, fmt.Errorf("failed to get latest schema version: %w", err)
	}
	return current, latest, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := versions(ctx)
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, err := versions(ctx)
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	if _, err := ctx.Client(settings); err != nil {
		return err
	}
	if !settings.DefaultReason.Valid() {
		return fmt.Errorf("invalid default reason %q", settings.DefaultReason)
	}
	return nil
}

func checkKeyring(*cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkCredentials(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	if settings.LoginID == "" {
		return errors.New("no login stored - run 'sfh login'")
	}
	if _, err := keyring.GetPassword(settings.LoginID); err != nil {
		return fmt.Errorf("no password for %s: %w", settings.LoginID, err)
	}
	return nil
}

func checkPortal(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	client, err := ctx.Client(settings)
	if err != nil {
		return err
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), time.Duration(settings.RequestTimeoutSec)*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		return fmt.Errorf("%s: %w", client.BaseURL(), err)
	}
	return nil
}
