package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/magnetic/internal/config"
	"github.com/javiermolinar/magnetic/internal/dateutil"
	"github.com/javiermolinar/magnetic/internal/db"
	"github.com/javiermolinar/magnetic/internal/logging"
	"github.com/javiermolinar/magnetic/internal/session"
	"github.com/javiermolinar/magnetic/internal/timeline"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo   timeline.Repository
	config *config.Config
	root   *cobra.Command
	now    func() time.Time

	// global flags
	configPath string
	date       string
	noColor    bool
	logLevel   string
}

// NewApp creates a new CLI application. A nil repo is opened lazily from the
// configured database path.
func NewApp(repo timeline.Repository, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{repo: repo, config: cfg, now: time.Now}

	a.root = &cobra.Command{
		Use:   "magnetic",
		Short: "A day planner whose timeline never has gaps",
		Long: `Magnetic keeps every minute of a day accounted for.

Items snap together edge to edge. Locked items stay put, flexible items
stretch and shrink to absorb every edit, and fixed items keep their length
but slide along. Running magnetic with no command shows the day.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			log := logging.Logger.With().Str("command", cmd.Name()).Logger()
			cmd.SetContext(logging.WithContext(cmd.Context(), log))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runShow(cmd)
		},
	}

	flags := a.root.PersistentFlags()
	flags.StringVar(&a.date, "date", "", "Day to work on (YYYY-MM-DD, today, tomorrow, yesterday, weekday)")
	flags.StringVar(&a.configPath, "config", "", "Config file (default: "+config.DefaultConfigPath()+")")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable color output")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.gapsCmd())
	a.root.AddCommand(a.daysCmd())
	a.root.AddCommand(a.editCmds()...)
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.exportCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "magnetic %s (commit: %s)\n", Version, Commit)
		},
	}
}

// setup applies the global flags before any command runs.
func (a *App) setup() error {
	if a.configPath != "" {
		cfg, err := config.LoadFrom(a.configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		a.config = cfg
	}

	level := a.config.Log.Level
	if a.logLevel != "" {
		if !logging.ValidLevel(a.logLevel) {
			return fmt.Errorf("invalid log level %q", a.logLevel)
		}
		level = a.logLevel
	}
	plain := a.noColor || !a.config.UI.Color
	logging.Init(logging.Config{
		Level:   level,
		Format:  a.config.Log.Format,
		Output:  os.Stderr,
		NoColor: plain,
	})
	if plain {
		DisableColor()
	}
	return nil
}

// ensureRepo opens the configured database if no repository was injected.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	repo, err := openRepo(a.config.Storage.DBPath)
	if err != nil {
		return err
	}
	a.repo = repo
	return nil
}

func openRepo(dbPath string) (timeline.Repository, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := db.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return repo, nil
}

// targetDate resolves the --date flag.
func (a *App) targetDate() (time.Time, error) {
	return dateutil.Resolve(a.date, a.now())
}

func (a *App) seed() timeline.SeedItem {
	return timeline.SeedItem{Title: a.config.Day.SeedTitle, Color: a.config.Day.SeedColor}
}

// openSession loads the --date day into a fresh edit session.
func (a *App) openSession(ctx context.Context) (*session.Session, error) {
	date, err := a.targetDate()
	if err != nil {
		return nil, err
	}
	return a.openSessionOn(ctx, date)
}

func (a *App) openSessionOn(ctx context.Context, date time.Time) (*session.Session, error) {
	if err := a.ensureRepo(); err != nil {
		return nil, err
	}
	s := session.New(a.repo,
		session.WithSeed(a.seed()),
		session.WithLogger(logging.FromContext(ctx).With().Str("component", "session").Logger()),
	)
	if err := s.Load(ctx, date); err != nil {
		return nil, err
	}
	return s, nil
}

func (a *App) printOpts() PrintOpts {
	return PrintOpts{
		Color:      !a.noColor && a.config.UI.Color,
		StripWidth: a.config.UI.StripWidth,
		TitleWidth: titleWidth(),
	}
}

// SetArgs sets the command line arguments, for tests.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// SetOutput redirects command output, for tests.
func (a *App) SetOutput(w io.Writer) {
	a.root.SetOut(w)
	a.root.SetErr(w)
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// ExecuteContext runs the CLI application with ctx.
func (a *App) ExecuteContext(ctx context.Context) error {
	return a.root.ExecuteContext(ctx)
}

// Close releases the repository.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}
