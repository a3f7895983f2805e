// Command graphdb is a maintenance CLI for graphdb boxes: it inspects
// nodes and edges, deletes records and moves whole boxes through archive
// files.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	graphdb "github.com/AntoniPochopien/graph-db"
	"github.com/AntoniPochopien/graph-db/config"
)

// Build-time variables set via ldflags.
var (
	version = "0.1.0"
	commit  = ""
)

var (
	db      *graphdb.DB
	flagBox string
)

func versionString() string {
	if commit != "" {
		return fmt.Sprintf("graphdb version %s (commit: %s)", version, commit)
	}
	return fmt.Sprintf("graphdb version %s-dev", version)
}

func newLogger(cfg config.Config) *graphdb.Logger {
	if cfg.LogFormat == "json" {
		return graphdb.NewJSONLogger(cfg.LogLevel)
	}
	return graphdb.NewTextLogger(cfg.LogLevel)
}

func openBox(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	box := flagBox
	if box == "" {
		box = cfg.BoxPath
	}
	if box == "" {
		return fmt.Errorf("no box path: pass --box or set GRAPHDB_BOX_PATH")
	}

	var err error
	db, err = graphdb.Open(box, graphdb.WithLogger(newLogger(cfg)))
	return err
}

func main() {
	rootCmd := &cobra.Command{
		Use:               "graphdb",
		Short:             "graphdb — embedded graph box maintenance",
		Version:           versionString(),
		PersistentPreRunE: openBox,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if db != nil {
				_ = db.Close()
			}
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagBox, "box", "", "Box directory (env: GRAPHDB_BOX_PATH)")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newNodeCmd())
	rootCmd.AddCommand(newEdgesCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newStatsCmd())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
