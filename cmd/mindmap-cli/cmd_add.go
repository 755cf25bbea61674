package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/persistorai/mindmap/internal/models"
	"github.com/persistorai/mindmap/internal/service"
	"github.com/persistorai/mindmap/internal/state"
)

type addResult struct {
	Keyword string `json:"keyword"`
	Nodes   int    `json:"nodes"`
	Links   int    `json:"links"`
}

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <keyword>",
		Short: "Expand a keyword into the mind map",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := models.NormalizeKeyword(strings.Join(args, " "))
			if err := models.ValidateKeyword(keyword); err != nil {
				return err
			}

			ctx := cmd.Context()
			sess, _, err := openSession(ctx, service.NewWriterSink(io.Discard))
			if err != nil {
				return err
			}
			defer sess.Close()

			st, err := sess.run(ctx, state.KeywordSubmitted{Text: keyword})
			if err != nil {
				return err
			}

			status(fmt.Sprintf("added %q, the mind map now has %d nodes", keyword, len(st.Graph.Nodes)))
			output(addResult{Keyword: keyword, Nodes: len(st.Graph.Nodes), Links: len(st.Graph.Links)}, keyword)

			return nil
		},
	}
}
