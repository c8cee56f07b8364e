package cli

import (
	"fmt"
	"time"

	"github.com/jwulff/bgviz-go/internal/bloodsugar"
	"github.com/jwulff/bgviz-go/internal/view"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// defaultPeriod is the report window when --since is not given.
const defaultPeriod = 14 * 24 * time.Hour

func (a *app) reportCmd() *cobra.Command {
	var (
		viewName string
		since    string
		until    string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the patient's data as JSON",
		Long: `Renders stored data for a period. By default the basics, daily and
settings views are rendered together; --view selects a single one.

Times are RFC 3339 or YYYY-MM-DD. The period defaults to the two weeks
before --until (itself defaulting to now).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			end := time.Now().UTC()
			if until != "" {
				t, err := parseTime(until)
				if err != nil {
					return fmt.Errorf("invalid --until: %w", err)
				}
				end = t
			}
			start := end.Add(-defaultPeriod)
			if since != "" {
				t, err := parseTime(since)
				if err != nil {
					return fmt.Errorf("invalid --since: %w", err)
				}
				start = t
			}
			if start.After(end) {
				return fmt.Errorf("--since %s is after --until %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			prefs, source, err := a.loadPrefs(cmd.Context(), s)
			if err != nil {
				return err
			}
			session, err := view.NewSession(prefs, a.logger)
			if err != nil {
				return err
			}
			session = session.ForPeriod(view.Period{Start: start, End: end})

			data, err := s.QueryData(cmd.Context(), a.cfg.PatientID, start, end)
			if err != nil {
				return fmt.Errorf("failed to query data: %w", err)
			}
			a.logger.Debug("rendering report",
				zap.String("patient", a.cfg.PatientID),
				zap.String("prefsSource", source),
				zap.Int("data", len(data)),
				zap.Time("since", start),
				zap.Time("until", end),
			)

			var report *view.Report
			if viewName == "" || viewName == "all" {
				report, err = session.Render(cmd.Context(), data)
				if err != nil {
					return err
				}
			} else {
				v, err := bloodsugar.ParseView(viewName)
				if err != nil {
					return err
				}
				report = session.RenderView(v, data)
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&viewName, "view", "all", "View to render: all, basics, daily or settings")
	cmd.Flags().StringVar(&since, "since", "", "Start of the period (inclusive)")
	cmd.Flags().StringVar(&until, "until", "", "End of the period (inclusive)")
	return cmd
}

func (a *app) pruneCmd() *cobra.Command {
	var before string
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete data points older than a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if before == "" {
				return fmt.Errorf("--before is required")
			}
			t, err := parseTime(before)
			if err != nil {
				return fmt.Errorf("invalid --before: %w", err)
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.DeleteOldData(cmd.Context(), a.cfg.PatientID, t); err != nil {
				return fmt.Errorf("failed to delete data: %w", err)
			}
			a.logger.Info("old data deleted", zap.String("patient", a.cfg.PatientID), zap.Time("before", t))
			fmt.Fprintf(cmd.OutOrStdout(), "deleted data before %s\n", t.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "Delete data strictly before this time")
	return cmd
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.DateOnly, s)
}
