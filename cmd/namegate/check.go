package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/creamcroissant/namegate/internal/config"
	"github.com/creamcroissant/namegate/internal/validate"
)

var (
	checkExplain bool
	checkQuiet   bool
)

var checkCmd = &cobra.Command{
	Use:   "check <username>",
	Short: "Check a username against the acceptance policy",
	Long: `Check evaluates one username and prints the verdict. The command always
exits 0: an invalid username is a result, not a failure.`,
	Args: cobra.ExactArgs(1),
	// Overrides the root pre-run: a broken config file must not turn a
	// verdict into a non-zero exit. runCheck falls back to the stock policy.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run:               runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkExplain, "explain", false, "List the reasons for an invalid verdict")
	checkCmd.Flags().BoolVar(&checkQuiet, "quiet", false, "Suppress output (the exit code is still always 0)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	policy := validate.DefaultPolicy()
	if cfg, err := config.Load(); err == nil {
		policy = cfg.Policy.Rules()
	}

	username := validate.Normalize(args[0])
	result := policy.Check(username)

	if checkQuiet {
		return
	}

	fmt.Println(validate.Message(username, result.Valid))

	if checkExplain && !result.Valid {
		for _, v := range result.Violations {
			fmt.Printf("  - %s: %s\n", v.Code, v.Reason)
		}
	}
}
