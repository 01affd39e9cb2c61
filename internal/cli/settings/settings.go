package settings

import (
	"fmt"

	"github.com/julianstephens/sfh/internal/cli"
	"github.com/julianstephens/sfh/internal/constants"
	"github.com/julianstephens/sfh/internal/storage/kv"
)

type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" help:"Show current settings." default:"1"`
	Set  ConfigSetCmd  `cmd:"" help:"Change one setting."`
}

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	ctx.Printf("Current Settings:\n")
	for _, e := range kv.Encode(settings) {
		value := e.Value
		switch {
		case value == "":
			value = "(not set)"
		case e.Key == constants.SettingDefaultReason:
			value += " (" + settings.DefaultReason.Label() + ")"
		}
		ctx.Printf("  %-20s %s\n", e.Key+":", value)
	}
	if ctx.BaseURL != "" {
		ctx.Printf("\nBase URL overridden for this run: %s\n", ctx.BaseURL)
	}
	ctx.Printf("\nStorage: %s\n", ctx.Store.GetConfigPath())
	return nil
}

type ConfigSetCmd struct {
	Key   string `arg:"" help:"Setting name: base_url, login_id, max_in_flight, request_timeout_sec or default_reason."`
	Value string `arg:"" help:"New value."`
}

func (c *ConfigSetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := kv.Set(&settings, c.Key, c.Value); err != nil {
		return err
	}
	if c.Key == constants.SettingBaseURL {
		if _, err := ctx.Client(settings); err != nil {
			return err
		}
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	value, _ := kv.Get(settings, c.Key)
	ctx.Printf("Set %s = %s\n", c.Key, value)
	return nil
}
