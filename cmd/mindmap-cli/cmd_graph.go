package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/persistorai/mindmap/internal/models"
)

func newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print the mind map without the hidden root node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := fetchGraph(cmd.Context())
			if err != nil {
				return err
			}

			switch flagFmt {
			case "table":
				formatTable([]string{"ID", "NAME", "CHILDREN"}, graphRows(g))
			case "quiet":
				ids := make([]string, len(g.Nodes))
				for i, n := range g.Nodes {
					ids[i] = n.ID.String()
				}
				formatQuiet(strings.Join(ids, "\n"))
			default:
				formatJSON(g)
			}

			return nil
		},
	}
}

// graphRows lists each node with the number of links it is the source of.
func graphRows(g models.Graph) [][]string {
	children := make(map[models.NodeID]int, len(g.Nodes))
	for _, l := range g.Links {
		children[l.Source]++
	}

	rows := make([][]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		rows = append(rows, []string{n.ID.String(), n.Name, strconv.Itoa(children[n.ID])})
	}

	return rows
}
