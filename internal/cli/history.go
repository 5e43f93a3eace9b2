package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/agenda/internal/history"
	"github.com/idilsaglam/agenda/internal/ui"
)

func newHistoryCommand(getApp func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the action history, newest first",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			th := ui.Current()
			entries := getApp().history.Entries()
			lines := []string{
				fmt.Sprintf("%s  %s",
					ui.C(th.Title, "History"),
					ui.Dim(fmt.Sprintf("%d/%d", len(entries), history.MaxEntries))),
				"",
			}
			if len(entries) == 0 {
				lines = append(lines, ui.C(th.Muted, "no history yet"))
			}
			for _, e := range entries {
				lines = append(lines, ui.C(th.Muted, e.Timestamp)+"  "+ui.Truncate(e.Action, ui.Width(80)-16))
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.PanelString(lines))
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all history entries",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := getApp().history.Clear(); err != nil {
				return err
			}
			ui.OK("history cleared")
			return nil
		},
	})
	return cmd
}
