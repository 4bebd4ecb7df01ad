package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Arcterus/iron/repl"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive Iron session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadCommandConfig()
		if err != nil {
			return err
		}
		in, err := cfg.NewInterpreter()
		if err != nil {
			return err
		}
		return repl.RunRepl(in, "iron> ")
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
