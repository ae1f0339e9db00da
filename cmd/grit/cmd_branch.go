package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"grit/pkg/repo"
)

func newBranchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "branch",
		Short: "List branches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			refs, err := r.ListRefs("refs/heads")
			if err != nil {
				return err
			}

			current := ""
			if head, err := r.Head(); err == nil {
				current = head
			}

			out := cmd.OutOrStdout()
			for _, ref := range refs {
				marker := "  "
				if ref == current {
					marker = "* "
				}
				fmt.Fprintf(out, "%s%s\n", marker, strings.TrimPrefix(ref, "refs/heads/"))
			}
			return nil
		},
	}
}
