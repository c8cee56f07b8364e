// Package cli implements the bgviz commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jwulff/bgviz-go/internal/bloodsugar"
	"github.com/jwulff/bgviz-go/internal/config"
	"github.com/jwulff/bgviz-go/internal/storage"
	"github.com/jwulff/bgviz-go/internal/storage/sqlite"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries the state shared by every command of one invocation.
type app struct {
	configPath string
	dbPath     string
	patientID  string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
	// presetLogger skips building a logger from the config.
	presetLogger bool
}

// NewRootCmd returns the top-level bgviz command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(nil)
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	a := &app{logger: logger, presetLogger: logger != nil}

	root := &cobra.Command{
		Use:   "bgviz",
		Short: "Blood glucose range classification and reports",
		Long: `bgviz classifies blood glucose readings into clinical ranges using
per-patient thresholds and renders the basics, daily and settings views.

Data and preferences are kept in a local SQLite database.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Config file (default: $BGVIZ_CONFIG or bgviz.yaml)")
	flags.StringVarP(&a.dbPath, "db", "d", "", "Database path (overrides config)")
	flags.StringVarP(&a.patientID, "patient", "p", "", "Patient ID (overrides config)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		a.initCmd(),
		a.classifyCmd(),
		a.labelsCmd(),
		a.importCmd(),
		a.prefsCmd(),
		a.reportCmd(),
		a.pruneCmd(),
		a.encodeImageCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	if a.patientID != "" {
		cfg.PatientID = a.patientID
	}
	a.cfg = cfg

	if a.presetLogger {
		return nil
	}

	zc := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if a.verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	a.logger, err = zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func (a *app) openStore() (*sqlite.Store, error) {
	a.logger.Debug("opening store", zap.String("path", a.cfg.DBPath))
	return sqlite.NewFileStore(a.cfg.DBPath)
}

// Where loaded preferences came from.
const (
	prefsFromStore  = "store"
	prefsFromConfig = "config"
)

// loadPrefs returns the patient's stored preferences, falling back to the
// config file when none were saved. A configuration error is logged and
// returned; nothing is ever defaulted.
func (a *app) loadPrefs(ctx context.Context, s storage.Store) (bloodsugar.Prefs, string, error) {
	if s != nil {
		prefs, err := s.GetPrefs(ctx, a.cfg.PatientID)
		switch {
		case err == nil:
			return prefs, prefsFromStore, nil
		case !storage.IsNotFound(err):
			a.logConfigError(err)
			return bloodsugar.Prefs{}, "", fmt.Errorf("failed to load stored prefs: %w", err)
		}
	}

	prefs, err := a.cfg.Prefs()
	if err != nil {
		a.logConfigError(err)
		return bloodsugar.Prefs{}, "", err
	}
	return prefs, prefsFromConfig, nil
}

func (a *app) logConfigError(err error) {
	if bloodsugar.IsConfigurationError(err) {
		a.logger.Error("bg preferences are not usable", zap.String("patient", a.cfg.PatientID), zap.Error(err))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
