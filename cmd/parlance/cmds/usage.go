package cmds

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/go-go-golems/parlance/pkg/session"
	"github.com/go-go-golems/parlance/pkg/usage"
)

func NewUsageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "usage <session-file>",
		Short: "Print the usage records of a saved session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// no boundary needed to inspect a saved session
			sess, err := session.Load(args[0], nil)
			if err != nil {
				return err
			}

			printUsage(sess.Usage)
			return nil
		},
	}
}

func printUsage(tracker *usage.Tracker) {
	if tracker.Len() == 0 {
		fmt.Println("no usage recorded")
		return
	}

	tbl := tracker.Table()

	writer := tablewriter.NewWriter(os.Stdout)
	writer.SetHeader(tbl.Header())
	writer.SetAutoFormatHeaders(false)
	for _, row := range tbl.Rows {
		writer.Append(row)
	}
	writer.Render()

	totals := tracker.Totals()
	if value, ok := totals["total_tokens"]; ok && !value.IsMap() {
		fmt.Printf("total tokens across %d requests: %.0f\n", tracker.Len(), value.Num)
	}
}
