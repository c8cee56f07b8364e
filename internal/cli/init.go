package cli

import (
	"fmt"
	"os"

	"github.com/jwulff/bgviz-go/internal/bloodsugar"
	"github.com/jwulff/bgviz-go/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) initCmd() *cobra.Command {
	var (
		units string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample config file",
		Long: `Writes a config file holding the consensus thresholds for the chosen
units. Edit it to match the patient's prescribed targets.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := bloodsugar.ParseUnits(units)
			if err != nil {
				return err
			}
			path := a.configPath
			if path == "" {
				path = config.DefaultPath
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Write(path, config.Sample(u)); err != nil {
				return err
			}
			a.logger.Info("config written", zap.String("path", path), zap.Stringer("bgUnits", u))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&units, "units", "u", "mg/dL", "Units: mg/dL or mmol/L")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
