package cmd

import (
	"github.com/spf13/cobra"

	"github.com/joescharf/reviewgate/internal/gate"
	"github.com/joescharf/reviewgate/internal/git"
	"github.com/joescharf/reviewgate/internal/models"
	"github.com/joescharf/reviewgate/internal/pipeline"
	"github.com/joescharf/reviewgate/internal/render"
	"github.com/joescharf/reviewgate/internal/selector"
)

var reviewCmd = &cobra.Command{
	Use:   "review [paths...]",
	Short: "Review files without gating a commit",
	Long: `Run the same LLM review as the pre-commit gate and print the report,
but always exit 0. With no arguments, reviews all staged and new files;
with paths, reviews exactly those files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reviewRun(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func reviewRun(cmd *cobra.Command, paths []string) error {
	client, err := newReviewClient()
	if err != nil {
		return err
	}
	cfg := gateConfig()

	gc := git.NewClient()
	p, err := pipeline.New(gc, client, ui, cfg)
	if err != nil {
		return err
	}

	root, err := gc.RepoRoot(".")
	if err != nil {
		return err
	}

	sel := selector.New(gc, cfg.Extensions, ui)
	var files []models.ReviewableFile
	if len(paths) == 0 {
		files, err = sel.Select(root)
		if err != nil {
			return err
		}
	} else {
		for _, path := range paths {
			if !sel.Supported(path) {
				ui.Warning("skipping %s: unsupported file type", path)
				continue
			}
			f, err := sel.Load(root, path)
			if err != nil {
				ui.Warning("skipping %s: %v", path, err)
				continue
			}
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		ui.Info("no files to review")
		return nil
	}

	report := p.Review(cmd.Context(), files)
	res := gate.Gate{Threshold: cfg.Threshold, FailOpen: cfg.FailOpen}.Evaluate(report)
	render.New(ui).Render(report, res, cfg.Threshold)

	// Informational only: never block, just summarize
	if !res.Passed {
		ui.Warning("these files would block a commit at threshold %d", cfg.Threshold)
	}
	return nil
}
