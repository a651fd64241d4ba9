// Init command bootstraps the config and data directories.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize taskboard config and data directories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Config dir and default config.yaml are created by the
		// persistent pre-run; attaching once creates the data dir and
		// schema.
		_, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		dataDir, err := resolveDataDir()
		if err != nil {
			return err
		}
		fmt.Println("initialized taskboard data dir:", dataDir)
		return nil
	},
}
