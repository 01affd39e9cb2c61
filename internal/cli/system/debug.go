package system

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/julianstephens/sfh/internal/cli"
	"github.com/julianstephens/sfh/internal/models"
	"github.com/julianstephens/sfh/internal/portal"
	"github.com/julianstephens/sfh/internal/schedule"
	"github.com/julianstephens/sfh/internal/selection"
)

type DebugCmd struct {
	DBPath       DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpSettings DebugDumpSettingsCmd `cmd:"" help:"Dump settings as JSON."`
	Parse        DebugParseCmd        `cmd:"" help:"Parse a saved day page and dump students and pairs as JSON."`
	Resolve      DebugResolveCmd      `cmd:"" help:"Resolve a selection against a saved day page."`
}

func printJSON(ctx *cli.Context, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Printf("%s\n", data)
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(ctx, settings)
}

func loadPage(path string) ([]models.StudentPairs, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	students, err := portal.ParseSchedule(f)
	if err != nil {
		return nil, err
	}
	return schedule.GroupStudents(students), nil
}

type DebugParseCmd struct {
	File string `arg:"" type:"existingfile" help:"Saved HTML of a day page."`
}

func (cmd *DebugParseCmd) Run(ctx *cli.Context) error {
	students, err := loadPage(cmd.File)
	if err != nil {
		return err
	}
	return printJSON(ctx, students)
}

type DebugResolveCmd struct {
	File    string `arg:"" type:"existingfile" help:"Saved HTML of a day page."`
	Student int    `help:"1-based student index." default:"1"`
	Select  string `help:"Selection text, e.g. '1, 2.1, 3-4'." required:""`
}

func (cmd *DebugResolveCmd) Run(ctx *cli.Context) error {
	students, err := loadPage(cmd.File)
	if err != nil {
		return err
	}
	if cmd.Student < 1 || cmd.Student > len(students) {
		return fmt.Errorf("student %d out of range (1-%d)", cmd.Student, len(students))
	}
	return printJSON(ctx, selection.Select(students[cmd.Student-1].Pairs, cmd.Select))
}
