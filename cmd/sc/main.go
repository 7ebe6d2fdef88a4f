package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nikbrunner/sc/internal/icon"
	"github.com/nikbrunner/sc/internal/model"
	"github.com/nikbrunner/sc/internal/storage"
	"github.com/nikbrunner/sc/internal/tui"
)

var (
	errAmbiguousID = errors.New("ambiguous shortcut ID")
	errCancelled   = errors.New("cancelled")
)

// cli holds the global flags and what PersistentPreRunE derives from them.
type cli struct {
	verbose    bool
	configPath string
	dataDir    string

	cfg    *storage.Config
	logger *zap.Logger

	openURL func(string) error
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errCancelled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return (&cli{openURL: tui.OpenInBrowser}).rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sc",
		Short: "sc - keyboard-driven shortcut launcher",
		Long: `sc keeps a personal set of web shortcuts grouped into categories.

Run without arguments to open the interactive board.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: c.runTUI,
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "Config file (default: ~/.config/sc/config.json)")
	root.PersistentFlags().StringVar(&c.dataDir, "data", "", "Data directory (default: ~/.config/sc)")

	root.AddCommand(
		c.addCmd(),
		c.listCmd(),
		c.editCmd(),
		c.rmCmd(),
		c.dupCmd(),
		c.favCmd(),
		c.openCmd(),
		c.categoryCmd(),
		c.settingsCmd(),
		c.iconsCmd(),
		c.importCmd(),
		c.exportCmd(),
	)

	return root
}

// setup resolves paths, loads the config and builds the file logger.
// The terminal belongs to the TUI, so logs never go to stderr.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	if c.dataDir == "" {
		dir, err := storage.DefaultDataDir()
		if err != nil {
			return fmt.Errorf("resolve data directory: %w", err)
		}
		c.dataDir = dir
	}
	if c.configPath == "" {
		c.configPath = filepath.Join(c.dataDir, "config.json")
	}

	cfg, err := storage.LoadConfig(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg

	if err := os.MkdirAll(c.dataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	logFile := cfg.LogFile
	if logFile == "" {
		logFile = filepath.Join(c.dataDir, "sc.log")
	}

	config := zap.NewProductionConfig()
	config.OutputPaths = []string{logFile}
	config.ErrorOutputPaths = []string{logFile}
	if c.verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	c.logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	c.logger.Debug("starting",
		zap.String("command", cmd.CommandPath()),
		zap.String("config", c.configPath),
		zap.String("backend", cfg.Backend))
	return nil
}

// session is an opened store plus the backend it came from.
type session struct {
	store   *model.Store
	storage storage.Storage
	close   func() error
}

func (c *cli) open() (*session, error) {
	st, closeFn, err := storage.OpenStorage(c.cfg, c.dataDir, c.logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	store, err := st.Load()
	if err != nil {
		_ = closeFn()
		return nil, fmt.Errorf("load shortcuts: %w", err)
	}

	return &session{store: store, storage: st, close: closeFn}, nil
}

func (s *session) save() error {
	if err := s.storage.Save(s.store); err != nil {
		return fmt.Errorf("save shortcuts: %w", err)
	}
	return nil
}

// withSession opens the store, runs fn and closes the backend.
func (c *cli) withSession(fn func(s *session) error) error {
	s, err := c.open()
	if err != nil {
		return err
	}
	defer func() {
		if err := s.close(); err != nil {
			c.logger.Warn("close storage", zap.Error(err))
		}
	}()
	return fn(s)
}

func (c *cli) newResolver() *icon.Resolver {
	return icon.NewResolver(icon.ResolverParams{
		Timeout:        time.Duration(c.cfg.IconTimeout),
		FetchMetadata:  c.cfg.FetchMetadata,
		PreviewService: c.cfg.PreviewService,
		Logger:         c.logger.Named("icon"),
	})
}

// runTUI runs the full interactive board.
func (c *cli) runTUI(cmd *cobra.Command, args []string) error {
	return c.withSession(func(s *session) error {
		app := tui.NewApp(tui.AppParams{
			Store:    s.store,
			Storage:  s.storage,
			Resolver: c.newResolver(),
			Config:   c.cfg,
			Logger:   c.logger.Named("tui"),
		})

		p := tea.NewProgram(app, tea.WithAltScreen())
		finalModel, err := p.Run()
		if err != nil {
			return fmt.Errorf("run app: %w", err)
		}

		finalApp := finalModel.(tui.App)
		s.store = finalApp.Store()
		return s.save()
	})
}

// findShortcut resolves a full ID or a unique ID prefix.
func findShortcut(store *model.Store, ref string) (*model.Shortcut, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, model.ErrShortcutNotFound
	}
	if sc := store.ShortcutByID(ref); sc != nil {
		return sc, nil
	}

	var found *model.Shortcut
	for i := range store.Shortcuts {
		if strings.HasPrefix(store.Shortcuts[i].ID, ref) {
			if found != nil {
				return nil, fmt.Errorf("%w: %q", errAmbiguousID, ref)
			}
			found = &store.Shortcuts[i]
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %q", model.ErrShortcutNotFound, ref)
	}
	return found, nil
}

// confirm asks a y/N question on the command's input.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
