package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"grit/pkg/object"
	"grit/pkg/repo"
)

func newHashObjectCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "hash-object <file>",
		Short: "Compute a blob id, optionally storing the object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]

			var id object.ID
			if write {
				r, err := repo.Open(".")
				if err != nil {
					return err
				}
				id, err = r.Store.WriteBlobFile(file)
				if err != nil {
					return err
				}
			} else {
				obj, err := object.BlobFromFile(file)
				if err != nil {
					return err
				}
				defer obj.Close()
				id, err = obj.Encode(io.Discard)
				if err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), id.Hex())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the object into the object store")

	return cmd
}
