package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/julianstephens/sfh/internal/cli"
	"github.com/julianstephens/sfh/internal/cli/attendance"
	"github.com/julianstephens/sfh/internal/cli/session"
	"github.com/julianstephens/sfh/internal/cli/settings"
	"github.com/julianstephens/sfh/internal/cli/system"
	"github.com/julianstephens/sfh/internal/constants"
	"github.com/julianstephens/sfh/internal/errors"
	"github.com/julianstephens/sfh/internal/logger"
	"github.com/julianstephens/sfh/internal/storage"
)

// App is the root command line.
type App struct {
	Version    kong.VersionFlag
	ConfigPath string `name:"config" help:"Config file path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use PGPASSWORD or .pgpass instead." type:"string" default:"${config}"`
	BaseURL    string `help:"Portal root URL, overriding the stored base_url setting." env:"SFH_BASE_URL" name:"base-url"`
	DebugMode  bool   `name:"debug" help:"Log at debug level and mirror the log to stderr."`

	Init     system.InitCmd         `cmd:"" help:"Initialize sfh storage."`
	Login    session.LoginCmd       `cmd:"" help:"Verify portal credentials and store them."`
	Logout   session.LogoutCmd      `cmd:"" help:"Forget the stored portal credentials."`
	Students attendance.StudentsCmd `cmd:"" help:"List the students on a day's schedule."`
	Mark     attendance.MarkCmd     `cmd:"" help:"Submit absence exceptions for selected hours." default:"withargs"`
	Config   settings.ConfigCmd     `cmd:"" help:"Show or change settings."`
	Migrate  system.MigrateCmd      `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd       `cmd:"" help:"Run health checks and diagnostics."`
	Debug    system.DebugCmd        `cmd:"" help:"Debug commands for troubleshooting."`
}

// Commands that open storage themselves, or never touch it.
var skipLoad = []string{"init", "doctor", "debug parse", "debug resolve"}

func newParser(app *App) (*kong.Kong, error) {
	return kong.New(app,
		kong.Name(constants.AppName),
		kong.Description("Bulk absence-exception submission for the student portal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"config":  constants.DefaultConfigPath,
		},
	)
}

func main() {
	var app App
	parser, err := newParser(&app)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	configDir, err := storage.ConfigDir(app.ConfigPath, constants.DefaultConfigPath)
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: app.DebugMode, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	store, err := storage.New(app.ConfigPath)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:       store,
		BaseURL:     app.BaseURL,
		Interactive: isTerminal(os.Stdin) && isTerminal(os.Stdout),
	}

	if needsLoad(ctx.Command()) {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

func needsLoad(command string) bool {
	for _, prefix := range skipLoad {
		if strings.HasPrefix(command, prefix) {
			return false
		}
	}
	return true
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
