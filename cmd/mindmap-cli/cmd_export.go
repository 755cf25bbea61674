package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/persistorai/mindmap/internal/domain"
	"github.com/persistorai/mindmap/internal/models"
	"github.com/persistorai/mindmap/internal/service"
	"github.com/persistorai/mindmap/internal/state"
)

type exportResult struct {
	ID       models.NodeID `json:"id"`
	Artifact string        `json:"artifact"`
	Nodes    int           `json:"nodes"`
}

func newExportCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a node and its descendants to mindmap_export_<id>.json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := models.ParseNodeID(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", err, args[0])
			}

			var sink domain.ExportSink = service.NewFileSink(outputDir)
			if outputDir == "-" {
				sink = service.NewWriterSink(os.Stdout)
			}

			ctx := cmd.Context()
			sess, _, err := openSession(ctx, sink)
			if err != nil {
				return err
			}
			defer sess.Close()

			if _, err := sess.selectNode(ctx, id); err != nil {
				return err
			}

			st, err := sess.run(ctx, state.ExportRequested{})
			if err != nil {
				return err
			}

			if outputDir == "-" {
				return nil
			}

			status(fmt.Sprintf("exported %d nodes under node %d to %s", st.LastExportNodes, id, st.LastExport))
			output(exportResult{ID: id, Artifact: st.LastExport, Nodes: st.LastExportNodes}, st.LastExport)

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Directory to write the export to, or - for stdout")

	return cmd
}
