package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/woozymasta/x3fw"
)

var unpackCmd = &cobra.Command{
	Use:   "unpack <fwfile> <fwdir>",
	Short: "Extract a firmware file into a directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := x3fw.Unpack(args[0], args[1]); err != nil {
			return err
		}
		logrus.WithField("dir", args[1]).Debug("firmware unpacked")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(unpackCmd)
}
