package cli

import (
	"fmt"

	"github.com/jwulff/bgviz-go/internal/export"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) encodeImageCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "encode-image FILE",
		Short: "Encode an image as a data URI for printable reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			a.logger.Debug("encoding image", zap.String("file", args[0]), zap.Int("bytes", len(buf)))
			if raw {
				fmt.Fprintln(cmd.OutOrStdout(), export.ArrayBufferToBase64(buf))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), export.ImageDataURI(buf))
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print plain base64 without the data URI prefix")
	return cmd
}
