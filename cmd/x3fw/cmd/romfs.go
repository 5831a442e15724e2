package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/woozymasta/x3fw"
)

var packRomFSCmd = &cobra.Command{
	Use:   "pack-romfs <romfsfile> <romfsdir>",
	Short: "Build a RomFS archive from an unpacked directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := x3fw.PackRomFS(args[1], args[0]); err != nil {
			return err
		}
		logrus.WithField("file", args[0]).Debug("romfs packed")

		return nil
	},
}

var unpackRomFSCmd = &cobra.Command{
	Use:   "unpack-romfs <romfsfile> <romfsdir>",
	Short: "Extract a RomFS archive into a directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := x3fw.UnpackRomFS(args[0], args[1]); err != nil {
			return err
		}
		logrus.WithField("dir", args[1]).Debug("romfs unpacked")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(packRomFSCmd)
	rootCmd.AddCommand(unpackRomFSCmd)
}
