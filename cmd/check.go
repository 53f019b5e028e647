package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/reviewgate/internal/git"
	"github.com/joescharf/reviewgate/internal/pipeline"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Review staged files and gate the commit",
	Long: `Review all staged and new files and decide whether the commit may
proceed. This is the command the installed pre-commit hook runs.

Exit status 0 allows the commit; any other status blocks it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkRun(cmd)
	},
}

func init() {
	checkCmd.Flags().Int("threshold", 70, "Minimum passing score (1-100)")
	checkCmd.Flags().Int("concurrency", 4, "Max concurrent review calls")
	checkCmd.Flags().Duration("timeout", 60*time.Second, "Per-file review timeout")
	checkCmd.Flags().Bool("fail-open", false, "Allow files whose review could not be obtained")

	_ = viper.BindPFlag("threshold", checkCmd.Flags().Lookup("threshold"))
	_ = viper.BindPFlag("concurrency", checkCmd.Flags().Lookup("concurrency"))
	_ = viper.BindPFlag("timeout", checkCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("fail_open", checkCmd.Flags().Lookup("fail-open"))

	rootCmd.AddCommand(checkCmd)
}

func checkRun(cmd *cobra.Command) error {
	client, err := newReviewClient()
	if err != nil {
		return err
	}

	p, err := pipeline.New(git.NewClient(), client, ui, gateConfig())
	if err != nil {
		return err
	}

	decision, err := p.Run(cmd.Context(), ".")
	if err != nil {
		return err
	}
	if decision == pipeline.Block {
		return fmt.Errorf("commit blocked by code review")
	}
	return nil
}
