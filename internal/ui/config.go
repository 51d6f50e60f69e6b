package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/magnetic/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	var edit bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Show the configuration, creating the config file with default values
if it does not exist. With --edit, prompts for each setting.

Example:
  magnetic config --edit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath
			if path == "" {
				path = config.DefaultConfigPath()
			}
			return runConfig(cmd.InOrStdin(), cmd.OutOrStdout(), path, edit)
		},
	}

	cmd.Flags().BoolVar(&edit, "edit", false, "Edit the configuration interactively")
	return cmd
}

func runConfig(in io.Reader, out io.Writer, configPath string, edit bool) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)
	if !edit {
		return nil
	}

	reader := bufio.NewReader(in)
	fmt.Fprintln(out)

	cfg.Day.SeedTitle = promptValue(reader, out, "Seed item title", cfg.Day.SeedTitle)
	cfg.Day.SeedColor = promptValue(reader, out, "Seed item color", cfg.Day.SeedColor)
	cfg.Storage.DBPath = promptValue(reader, out, "Database path", cfg.Storage.DBPath)
	cfg.Log.Level = promptValue(reader, out, "Log level", cfg.Log.Level)
	cfg.Log.Format = promptValue(reader, out, "Log format (console, json)", cfg.Log.Format)
	cfg.UI.Color = promptBool(reader, out, "Color output", cfg.UI.Color)
	cfg.UI.StripWidth = promptInt(reader, out, "Day strip width", cfg.UI.StripWidth)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[day]")
	fmt.Fprintf(out, "  seed_title  = %s\n", cfg.Day.SeedTitle)
	fmt.Fprintf(out, "  seed_color  = %s\n", cfg.Day.SeedColor)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  db_path     = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(out, "\n[log]")
	fmt.Fprintf(out, "  level       = %s\n", cfg.Log.Level)
	fmt.Fprintf(out, "  format      = %s\n", cfg.Log.Format)
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  color       = %t\n", cfg.UI.Color)
	fmt.Fprintf(out, "  strip_width = %d\n", cfg.UI.StripWidth)
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptBool(reader *bufio.Reader, out io.Writer, label string, current bool) bool {
	for {
		value := strings.ToLower(promptValue(reader, out, label+" (true/false)", strconv.FormatBool(current)))
		switch value {
		case "true", "yes", "y":
			return true
		case "false", "no", "n":
			return false
		}
		fmt.Fprintf(out, "  Invalid value %q.\n", value)
	}
}

func promptInt(reader *bufio.Reader, out io.Writer, label string, current int) int {
	for {
		value := promptValue(reader, out, label, strconv.Itoa(current))
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		fmt.Fprintf(out, "  Invalid number %q.\n", value)
	}
}
