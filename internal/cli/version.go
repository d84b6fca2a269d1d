package cli

import (
	"github.com/spf13/cobra"

	"github.com/foodworks-dev/catagen"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the catagen version",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Println("catagen " + catagen.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
