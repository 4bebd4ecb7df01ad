package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var runExpression bool

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [files...]",
	Short: "Run Iron code",
	Long: `Run Iron code provided supplied via the command line or a file.  Every
top-level form of a program is evaluated even when an earlier form fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadCommandConfig()
		if err != nil {
			return err
		}
		status := 0
		for _, arg := range args {
			code, err := runExecute(cfg, arg)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
			if code != 0 {
				status = code
			}
		}
		if status != 0 {
			os.Exit(status)
		}
		return nil
	},
}

// runExecute runs a single program and returns its exit status.
func runExecute(cfg *Config, arg string) (int, error) {
	in, err := cfg.NewInterpreter()
	if err != nil {
		return 1, err
	}
	if runExpression {
		in.LoadCode(arg)
	} else {
		source, err := os.ReadFile(arg)
		if err != nil {
			return 1, err
		}
		in.SetFile(arg)
		in.LoadCode(string(source))
	}
	return in.Execute()
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Here flags for the run command are defined
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as Iron expressions")
}
