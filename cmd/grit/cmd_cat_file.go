package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"grit/pkg/object"
	"grit/pkg/repo"
)

func newCatFileCmd() *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "cat-file <object>",
		Short: "Show the contents of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !pretty {
				return fmt.Errorf("cat-file: only -p output is supported")
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			id, err := object.ParseID(args[0])
			if err != nil {
				return err
			}

			obj, err := r.Store.Read(id)
			if err != nil {
				return err
			}
			defer obj.Close()

			out := cmd.OutOrStdout()
			if obj.Kind == object.KindTree {
				data, err := io.ReadAll(obj.R)
				if err != nil {
					return fmt.Errorf("read tree %s: %w", id, err)
				}
				if uint64(len(data)) != obj.Size {
					return fmt.Errorf("object %s: declared %d bytes, read %d: %w", id, obj.Size, len(data), object.ErrSizeMismatch)
				}
				return printTree(out, data, false)
			}

			n, err := io.Copy(out, obj.R)
			if err != nil {
				return fmt.Errorf("stream object %s: %w", id, err)
			}
			if uint64(n) != obj.Size {
				return fmt.Errorf("object %s: declared %d bytes, read %d: %w", id, obj.Size, n, object.ErrSizeMismatch)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "pretty-print object contents based on type")

	return cmd
}
