package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	rootConfig string
	rootParser string
	rootDebug  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "iron",
	Short: "The Iron language interpreter",
	Long: `Iron is a small lisp.  The iron command runs Iron programs, provides an
interactive REPL, and dumps the syntax trees of programs.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.  This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfig, "config", "",
		"Configuration file (default is ./"+defaultConfigFile+" when present)")
	rootCmd.PersistentFlags().StringVar(&rootParser, "parser", "",
		"Source reader to use: rd or parsec")
	rootCmd.PersistentFlags().BoolVarP(&rootDebug, "debug", "d", false,
		"Run in debug mode: skip optimization and log evaluation to stderr")
}
