package cmd

import (
	"github.com/spf13/cobra"

	"github.com/joescharf/reviewgate/internal/git"
	"github.com/joescharf/reviewgate/internal/hook"
)

var installForce bool

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the pre-commit hook in the current repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		return installRun()
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the pre-commit hook from the current repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		return uninstallRun()
	},
}

func init() {
	installCmd.Flags().BoolVar(&installForce, "force", false, "Overwrite an existing pre-commit hook")
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
}

func installRun() error {
	root, err := git.NewClient().RepoRoot(".")
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would install pre-commit hook: %s", hook.Path(root))
		return nil
	}

	path, err := hook.Install(root, installForce)
	if err != nil {
		return err
	}
	ui.Success("Pre-commit hook installed: %s", path)
	ui.Info("Staged .py, .ts, and .mjs files will be reviewed on every commit")
	return nil
}

func uninstallRun() error {
	root, err := git.NewClient().RepoRoot(".")
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would remove pre-commit hook: %s", hook.Path(root))
		return nil
	}

	if err := hook.Uninstall(root); err != nil {
		return err
	}
	ui.Success("Pre-commit hook removed")
	return nil
}
