package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"grit/pkg/repo"
)

func newCommitCmd() *cobra.Command {
	var message string
	var author string
	var sign bool
	var signKeyPath string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record the current worktree as a commit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" {
				return fmt.Errorf("commit message is required (-m)")
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			var who *repo.Identity
			if author != "" {
				parsed, err := parseAuthor(author)
				if err != nil {
					return err
				}
				who = &parsed
			}

			var signer repo.CommitSigner
			if sign || signKeyPath != "" {
				s, keyPath, err := newSSHCommitSigner(signKeyPath)
				if err != nil {
					return err
				}
				signer = s
				fmt.Fprintf(cmd.ErrOrStderr(), "signing with %s\n", keyPath)
			}

			id, err := r.CommitAs(message, who, signer)
			if err != nil {
				return err
			}

			// Determine current branch name for output.
			branch := "HEAD"
			head, err := r.Head()
			if err == nil && strings.HasPrefix(head, "refs/heads/") {
				branch = strings.TrimPrefix(head, "refs/heads/")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "[%s %s] %s\n", branch, id.Hex()[:8], message)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().StringVar(&author, "author", "", `override the commit author ("Name <email>")`)
	cmd.Flags().BoolVarP(&sign, "sign", "S", false, "sign the commit with the default SSH key")
	cmd.Flags().StringVar(&signKeyPath, "sign-key", "", "sign the commit with the SSH key at this path")

	return cmd
}

// parseAuthor splits an "A U Thor <author@example.com>" override into its
// name and email parts.
func parseAuthor(s string) (repo.Identity, error) {
	name, rest, ok := strings.Cut(s, "<")
	if !ok || !strings.HasSuffix(rest, ">") {
		return repo.Identity{}, fmt.Errorf("author %q: want \"Name <email>\"", s)
	}
	name = strings.TrimSpace(name)
	email := strings.TrimSpace(strings.TrimSuffix(rest, ">"))
	if name == "" || email == "" {
		return repo.Identity{}, fmt.Errorf("author %q: want \"Name <email>\"", s)
	}
	return repo.Identity{Name: name, Email: email}, nil
}
