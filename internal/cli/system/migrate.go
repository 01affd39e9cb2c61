package system

import (
	"fmt"

	"github.com/julianstephens/sfh/internal/cli"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	runner, err := ctx.Store.Runner()
	if err != nil {
		return err
	}

	count, err := runner.Apply(func(msg string) {
		ctx.Printf("%s\n", msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Printf("No migrations to apply. Database is up to date.\n")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
