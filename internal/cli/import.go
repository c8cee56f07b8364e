package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jwulff/bgviz-go/internal/bloodsugar"
	"github.com/jwulff/bgviz-go/internal/view"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type unitsSummary struct {
	Total   int                        `json:"total"`
	Mean    float64                    `json:"mean"`
	Percent map[bloodsugar.Tag]float64 `json:"percent"`
}

type importResult struct {
	Imported int                     `json:"imported"`
	Skipped  int                     `json:"skipped"`
	ByUnits  map[string]unitsSummary `json:"byUnits,omitempty"`
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import data points from a JSON file",
		Long: `Imports a JSON array of data points ("-" reads stdin). Points without
an id are given one. When preferences are available, bg readings are
tallied per reporting unit system.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			var data []bloodsugar.Datum
			if err := json.Unmarshal(raw, &data); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.SaveData(cmd.Context(), a.cfg.PatientID, data); err != nil {
				return fmt.Errorf("failed to save data: %w", err)
			}
			a.logger.Info("data imported", zap.String("patient", a.cfg.PatientID), zap.Int("count", len(data)))

			result := importResult{Imported: len(data)}
			prefs, _, err := a.loadPrefs(cmd.Context(), s)
			if err != nil {
				a.logger.Warn("no usable prefs, skipping summary", zap.Error(err))
				return writeJSON(cmd.OutOrStdout(), result)
			}
			session, err := view.NewSession(prefs, a.logger)
			if err != nil {
				return err
			}

			registry, skipped := session.SourceSummary(data)
			result.Skipped = skipped
			result.ByUnits = make(map[string]unitsSummary)
			for _, u := range bloodsugar.AllUnits() {
				state := registry.For(u).View(bloodsugar.ViewDaily)
				if state.Total() == 0 {
					continue
				}
				summary := unitsSummary{Total: state.Total(), Percent: make(map[bloodsugar.Tag]float64)}
				summary.Mean, _ = state.Mean()
				for _, tag := range bloodsugar.AllTags() {
					summary.Percent[tag] = state.Percent(tag)
				}
				result.ByUnits[u.String()] = summary
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
