package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"grit/pkg/repo"
)

func newLogCmd() *cobra.Command {
	var oneline bool
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show commit history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			head, err := r.ResolveRef("HEAD")
			if err != nil {
				return fmt.Errorf("cannot resolve HEAD: %w", err)
			}

			commits, err := r.Log(head, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, c := range commits {
				message := strings.TrimRight(c.Message, "\n")
				if oneline {
					first, _, _ := strings.Cut(message, "\n")
					fmt.Fprintf(out, "%s %s\n", c.ID.Hex()[:8], first)
					continue
				}
				fmt.Fprintf(out, "commit %s\n", c.ID.Hex())
				fmt.Fprintf(out, "Author: %s\n", c.Author)
				fmt.Fprintln(out)
				for _, line := range strings.Split(message, "\n") {
					fmt.Fprintf(out, "    %s\n", line)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "compact one-line format")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of commits to show (0 shows all)")

	return cmd
}
