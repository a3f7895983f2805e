package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AntoniPochopien/graph-db/boxio"
	"github.com/AntoniPochopien/graph-db/model"
)

func newExportCmd() *cobra.Command {
	var flagCompress string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the whole box to an archive file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			compression, err := boxio.ParseCompression(flagCompress)
			if err != nil {
				return err
			}

			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			if err := boxio.Export(db, f, func(o *boxio.Options) {
				o.Compression = compression
			}); err != nil {
				return err
			}
			return f.Close()
		},
	}

	cmd.Flags().StringVar(&flagCompress, "compress", "none", "Archive compression: none|zstd|lz4")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import an archive file into the box",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			archive, err := boxio.Import(db, f)
			if err != nil {
				return err
			}
			fmt.Printf("imported %d nodes, %d edges (archive %s)\n",
				len(archive.Nodes), len(archive.Edges), archive.ID)
			return nil
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <box>",
		Short: "Create the box directory tree (falls back to --box when omitted)",
		Args:  cobra.MaximumNArgs(1),
		// Overrides the root hook so the positional box wins over --box and
		// GRAPHDB_BOX_PATH.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				flagBox = args[0]
			}
			return openBox(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Opening the box created nodes/ and edges/ already.
			fmt.Printf("initialized box at %s\n", db.Path())
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print box statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			edges := 0
			if err := db.ScanEdges(func(model.Edge) error {
				edges++
				return nil
			}); err != nil {
				return err
			}
			fmt.Printf("box: %s\nnodes: %d\nedges: %d\n", db.Path(), db.NodeCount(), edges)
			return nil
		},
	}
}
