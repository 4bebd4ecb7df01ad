package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var astExpression bool

// astCmd represents the ast command
var astCmd = &cobra.Command{
	Use:   "ast [files...]",
	Short: "Print the syntax tree of Iron code",
	Long: `Print the forms of a program, one per line, as they would be executed.
Unless in debug mode the forms are printed after optimization.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadCommandConfig()
		if err != nil {
			return err
		}
		for _, arg := range args {
			in, err := cfg.NewInterpreter()
			if err != nil {
				return err
			}
			if astExpression {
				in.LoadCode(arg)
			} else {
				source, err := os.ReadFile(arg)
				if err != nil {
					return err
				}
				in.SetFile(arg)
				in.LoadCode(string(source))
			}
			err = in.DumpAST(cmd.OutOrStdout())
			if err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(astCmd)

	astCmd.Flags().BoolVarP(&astExpression, "expression", "e", false,
		"Interpret arguments as Iron expressions")
}
