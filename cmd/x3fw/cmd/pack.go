package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/woozymasta/x3fw"
)

var packCmd = &cobra.Command{
	Use:   "pack <fwfile> <fwdir>",
	Short: "Build a firmware file from an unpacked directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := x3fw.Pack(args[1], args[0]); err != nil {
			return err
		}
		logrus.WithField("file", args[0]).Debug("firmware packed")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(packCmd)
}
