package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"grit/pkg/object"
	"grit/pkg/repo"
)

func newLsTreeCmd() *cobra.Command {
	var nameOnly bool

	cmd := &cobra.Command{
		Use:   "ls-tree <tree>",
		Short: "List the contents of a tree object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			id, err := object.ParseID(args[0])
			if err != nil {
				return err
			}

			kind, data, err := r.Store.ReadAll(id)
			if err != nil {
				return err
			}
			if kind != object.KindTree {
				return fmt.Errorf("object %s is a %s, not a tree", id, kind)
			}

			return printTree(cmd.OutOrStdout(), data, nameOnly)
		},
	}

	cmd.Flags().BoolVar(&nameOnly, "name-only", false, "list only entry names")

	return cmd
}

// printTree renders a tree payload one entry per line:
// "<mode> <type> <hex>\t<name>", with the mode zero-padded to six digits
// for display.
func printTree(w io.Writer, payload []byte, nameOnly bool) error {
	entries, err := object.ParseTree(bytes.NewReader(payload))
	if err != nil {
		return err
	}
	for _, e := range entries {
		if nameOnly {
			fmt.Fprintln(w, e.Name)
			continue
		}
		entryType := "blob"
		if e.IsDir() {
			entryType = "tree"
		}
		fmt.Fprintf(w, "%s %s %s\t%s\n", paddedMode(e.Mode), entryType, e.ID.Hex(), e.Name)
	}
	return nil
}

func paddedMode(mode string) string {
	for len(mode) < 6 {
		mode = "0" + mode
	}
	return mode
}
