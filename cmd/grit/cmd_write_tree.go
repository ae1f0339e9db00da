package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"grit/pkg/repo"
)

func newWriteTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write-tree",
		Short: "Snapshot the worktree into a tree object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			id, ok, err := r.SnapshotWorktree()
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("empty worktree, no files to write")
			}

			fmt.Fprintln(cmd.OutOrStdout(), id.Hex())
			return nil
		},
	}
}
