package cli

import (
	"fmt"

	"github.com/jwulff/bgviz-go/internal/bloodsugar"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type prefsResult struct {
	Patient string            `json:"patient"`
	Source  string            `json:"source"`
	Prefs   bloodsugar.Prefs  `json:"prefs"`
	Labels  map[string]string `json:"labels"`
}

func (a *app) prefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage the patient's bg preferences",
	}

	save := &cobra.Command{
		Use:   "save",
		Short: "Validate the config thresholds and store them for the patient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := a.cfg.Prefs()
			if err != nil {
				a.logConfigError(err)
				return err
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.SavePrefs(cmd.Context(), a.cfg.PatientID, prefs); err != nil {
				return fmt.Errorf("failed to save prefs: %w", err)
			}
			a.logger.Info("prefs saved", zap.String("patient", a.cfg.PatientID), zap.Stringer("bgUnits", prefs.Units))
			return a.printPrefs(cmd, prefs, prefsFromStore)
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the preferences in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			prefs, source, err := a.loadPrefs(cmd.Context(), s)
			if err != nil {
				return err
			}
			return a.printPrefs(cmd, prefs, source)
		},
	}

	cmd.AddCommand(save, show)
	return cmd
}

func (a *app) printPrefs(cmd *cobra.Command, prefs bloodsugar.Prefs, source string) error {
	labels := make(map[string]string)
	for tag, label := range bloodsugar.RangeLabels(prefs) {
		labels[string(tag)] = label
	}
	return writeJSON(cmd.OutOrStdout(), prefsResult{
		Patient: a.cfg.PatientID,
		Source:  source,
		Prefs:   prefs,
		Labels:  labels,
	})
}
