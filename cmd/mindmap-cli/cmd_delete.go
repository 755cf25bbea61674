package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/persistorai/mindmap/internal/models"
	"github.com/persistorai/mindmap/internal/service"
	"github.com/persistorai/mindmap/internal/state"
)

type deleteResult struct {
	ID    models.NodeID `json:"id"`
	Nodes int           `json:"nodes"`
}

func newDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a node and all of its descendants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := models.ParseNodeID(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", err, args[0])
			}
			if rootRule().IsRoot(id) {
				return models.ErrReservedRoot
			}

			ctx := cmd.Context()
			sess, _, err := openSession(ctx, service.NewWriterSink(io.Discard))
			if err != nil {
				return err
			}
			defer sess.Close()

			st, err := sess.selectNode(ctx, id)
			if err != nil {
				return err
			}

			confirmed := yes
			if !confirmed {
				node, _ := st.Graph.Node(id)
				confirmed = confirm(cmd.InOrStdin(), cmd.ErrOrStderr(),
					fmt.Sprintf("Delete %q (%d) and all of its descendants?", node.Name, id))
			}
			if !confirmed {
				status("aborted, nothing was deleted")
				return nil
			}

			st, err = sess.run(ctx, state.DeleteRequested{Confirmed: true})
			if err != nil {
				return err
			}

			status(fmt.Sprintf("deleted node %d, the mind map now has %d nodes", id, len(st.Graph.Nodes)))
			output(deleteResult{ID: id, Nodes: len(st.Graph.Nodes)}, id.String())

			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

// confirm asks a yes/no question and reports whether the answer was yes.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}

	return false
}
