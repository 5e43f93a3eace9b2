package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/agenda/internal/model"
	"github.com/idilsaglam/agenda/internal/ui"
)

// parseIndex turns a 1-based index argument into a 0-based one.
func parseIndex(cmdName, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, usagef("%s: not a number: %s", cmdName, arg)
	}
	return n - 1, nil
}

func newAddCommand(getApp func() *app) *cobra.Command {
	var minutes, seconds int
	cmd := &cobra.Command{
		Use:   "add <topic...>",
		Short: "Add a topic (topic can be multiple words)",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			it, err := a.book.Add(strings.Join(args, " "), minutes, seconds)
			if err != nil {
				return err
			}
			ui.OK(fmt.Sprintf("added %q (%s)", it.Topic, model.Clock(it.TotalSeconds())))
			return nil
		},
	}
	cmd.Flags().IntVarP(&minutes, "minutes", "m", model.DefaultMinutes, "minutes (floored at 0)")
	cmd.Flags().IntVarP(&seconds, "seconds", "s", 0, "seconds (clamped to 0-59)")
	return cmd
}

func newListCommand(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List agenda topics",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			fmt.Fprint(cmd.OutOrStdout(), ui.PanelString(listLines(a.book.Items(), ui.Width(80))))
			return nil
		},
	}
}

func newRemoveCommand(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <index>",
		Short: "Remove the topic at a 1-based index",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parseIndex("rm", args[0])
			if err != nil {
				return err
			}
			it, err := getApp().book.Remove(i)
			if err != nil {
				return err
			}
			ui.OK(fmt.Sprintf("removed %q", it.Topic))
			return nil
		},
	}
}

func newEditCommand(getApp func() *app) *cobra.Command {
	var (
		topic            string
		minutes, seconds int
	)
	cmd := &cobra.Command{
		Use:   "edit <index>",
		Short: "Change the topic or duration at a 1-based index",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parseIndex("edit", args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("topic") && !flags.Changed("minutes") && !flags.Changed("seconds") {
				return usagef("edit: nothing to change, pass --topic, -m or -s")
			}
			book := getApp().book
			items := book.Items()
			if i < 0 || i >= len(items) {
				// let the book produce the canonical range error
				return book.Update(i, model.AgendaItem{})
			}
			it := items[i]
			if flags.Changed("topic") {
				it.Topic = topic
			}
			if flags.Changed("minutes") {
				it.SetMinutes(minutes)
			}
			if flags.Changed("seconds") {
				it.SetSeconds(seconds)
			}
			if err := book.Update(i, it); err != nil {
				return err
			}
			ui.OK("updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "new topic")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "minutes (floored at 0)")
	cmd.Flags().IntVarP(&seconds, "seconds", "s", 0, "seconds (clamped to 0-59)")
	return cmd
}

func listLines(items []model.AgendaItem, width int) []string {
	th := ui.Current()
	total := 0
	for _, it := range items {
		total += it.TotalSeconds()
	}

	lines := []string{
		fmt.Sprintf("%s  %s %d  %s %s",
			ui.C(th.Title, "Agenda"),
			ui.C(th.Accent, "Topics"), len(items),
			ui.C(th.Accent, "Total"), model.Clock(total)),
		"",
	}
	if len(items) == 0 {
		lines = append(lines, ui.C(th.Muted, "no topics"), "")
		return append(lines, ui.C(th.Muted, "Tip: add with `agenda add \"Intro\" -m 5`"))
	}

	topicWidth := width - 30
	if topicWidth < 12 {
		topicWidth = 12
	}
	for i, it := range items {
		bar := ui.ProgressBar(it.TotalSeconds(), total, 10)
		lines = append(lines, fmt.Sprintf("%s %6s %s %s",
			ui.Dim(fmt.Sprintf("%2d.", i+1)),
			ui.C(th.Pending, model.Clock(it.TotalSeconds())),
			ui.C(th.Muted, bar),
			ui.Truncate(it.Topic, topicWidth)))
	}
	return lines
}
