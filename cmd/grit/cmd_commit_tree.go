package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"grit/pkg/object"
	"grit/pkg/repo"
)

func newCommitTreeCmd() *cobra.Command {
	var message string
	var parentHex string

	cmd := &cobra.Command{
		Use:   "commit-tree <tree>",
		Short: "Create a commit object for an existing tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" {
				return fmt.Errorf("commit message is required (-m)")
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			tree, err := object.ParseID(args[0])
			if err != nil {
				return err
			}

			var parents []object.ID
			if parentHex != "" {
				parent, err := object.ParseID(parentHex)
				if err != nil {
					return err
				}
				parents = append(parents, parent)
			}

			id, err := r.WriteCommit(tree, parents, message, nil)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), id.Hex())
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().StringVarP(&parentHex, "parent", "p", "", "parent commit id")

	return cmd
}
