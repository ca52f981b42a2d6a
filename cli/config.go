// ABOUTME: Configuration CLI commands
// ABOUTME: Shows the effective config and persists single keys to the XDG config file
package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/autoreach/config"
)

// ConfigCommand handles `config show` and `config set <key> <value>`
func ConfigCommand(effective *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("config requires a subcommand: show or set")
	}

	switch args[0] {
	case "show":
		data, err := json.MarshalIndent(effective.Redacted(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "# %s\n%s\n", config.ConfigPath(), data)
		return nil

	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: config set <key> <value> (keys: %s)", strings.Join(config.Keys(), ", "))
		}
		cfg, err := config.LoadFile()
		if err != nil {
			return err
		}
		if err := cfg.Set(args[1], args[2]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintf(stdout, "✓ %s updated in %s\n", args[1], config.ConfigPath())
		return nil

	default:
		return fmt.Errorf("unknown config subcommand %q", args[0])
	}
}
