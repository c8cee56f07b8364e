package cli

import (
	"fmt"
	"strconv"

	"github.com/jwulff/bgviz-go/internal/bloodsugar"
	"github.com/spf13/cobra"
)

type classifyResult struct {
	Value       float64                 `json:"value"`
	Units       bloodsugar.Units        `json:"units"`
	Tag         bloodsugar.Tag          `json:"tag"`
	ThreeWay    bloodsugar.Tag          `json:"threeWay"`
	Label       string                  `json:"label"`
	Annotations []bloodsugar.Annotation `json:"annotations,omitempty"`
}

func (a *app) classifyCmd() *cobra.Command {
	var (
		units    string
		viewName string
	)
	cmd := &cobra.Command{
		Use:   "classify VALUE",
		Short: "Classify a single glucose value",
		Long: `Classifies one reading against the patient's thresholds. The value is
taken in the preference units unless --units says otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[0], err)
			}
			view, err := bloodsugar.ParseView(viewName)
			if err != nil {
				return err
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			prefs, _, err := a.loadPrefs(cmd.Context(), s)
			if err != nil {
				return err
			}
			d := bloodsugar.Datum{Type: bloodsugar.TypeSMBG, Value: value, Units: prefs.Units}
			if units != "" {
				if d.Units, err = bloodsugar.ParseUnits(units); err != nil {
					return err
				}
			}

			classifiers, err := bloodsugar.GenerateClassifiers(prefs)
			if err != nil {
				return err
			}
			if err := bloodsugar.Annotate(&d, classifiers.For(view)); err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), classifyResult{
				Value:       d.Value,
				Units:       d.Units,
				Tag:         d.Tag,
				ThreeWay:    d.Tag.ThreeWay(),
				Label:       bloodsugar.RangeLabels(prefs)[d.Tag],
				Annotations: d.Annotations,
			})
		},
	}
	cmd.Flags().StringVarP(&units, "units", "u", "", "Units of VALUE (default: preference units)")
	cmd.Flags().StringVar(&viewName, "view", "daily", "View whose classifier to use: basics, daily or settings")
	return cmd
}

func (a *app) labelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "Print the range label of every tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			prefs, _, err := a.loadPrefs(cmd.Context(), s)
			if err != nil {
				return err
			}
			labels := bloodsugar.RangeLabels(prefs)
			for _, tag := range bloodsugar.AllTags() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-9s %s\n", tag, labels[tag])
			}
			return nil
		},
	}
}
