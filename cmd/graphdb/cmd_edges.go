package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEdgesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edges <source-id>",
		Short: "List the outgoing edges of a node as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := db.LoadEdgesJSON(args[0])
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "save <file.json>",
		Short: "Save a JSON array of edges from a file (\"-\" for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			return db.SaveEdgesJSON(data)
		},
	})

	return cmd
}
