package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gauntlet/pkg/gauntlet"
)

const modulePath = "github.com/mesh-intelligence/gauntlet"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the gauntlet version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "gauntlet v%s\nmodule: %s\n", gauntlet.Version, modulePath)
		return nil
	},
}
