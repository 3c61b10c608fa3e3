package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/tgienger/todo/internal/tasklist"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a task",
		Example: `  todo add Buy milk --date 2024-05-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withController(cmd, opts, nil, func(c *tasklist.Controller) error {
				task, err := c.Add(strings.Join(args, " "), date)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d: %s (%s)\n", task.ID, task.Text, task.Date.Long())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "Due date (YYYY-MM-DD)")
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var status, date string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withController(cmd, opts, nil, func(c *tasklist.Controller) error {
				if cmd.Flags().Changed("status") {
					f, err := tasklist.ParseStatusFilter(status)
					if err != nil {
						return err
					}
					c.SetStatusFilter(f)
				}
				if cmd.Flags().Changed("date") {
					f, err := tasklist.ParseDateFilter(date)
					if err != nil {
						return err
					}
					c.SetDateFilter(f)
				}

				v := c.View()
				if len(v.Rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), v.Empty)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(v))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status: all, completed or pending")
	cmd.Flags().StringVar(&date, "date", "", "Filter by date: all, today, past or future")
	return cmd
}

func renderTable(v tasklist.View) string {
	rows := make([][]string, 0, len(v.Rows))
	for _, r := range v.Rows {
		check := "[ ]"
		if r.Completed {
			check = "[x]"
		}
		rows = append(rows, []string{check, strconv.FormatInt(r.ID, 10), r.Text, r.Date})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("", "ID", "Task", "Date").
		Rows(rows...).
		String()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

func newToggleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle ID",
		Aliases: []string{"done"},
		Short:   "Mark a task done, or pending again",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withController(cmd, opts, nil, func(c *tasklist.Controller) error {
				if err := c.Toggle(id); err != nil {
					return err
				}
				if task, ok := c.Get(id); ok {
					state := "pending"
					if task.Completed {
						state = "done"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Marked %s: %s\n", state, task.Text)
				}
				return nil
			})
		},
	}
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withController(cmd, opts, promptConfirm(cmd, yes), func(c *tasklist.Controller) error {
				task, found := c.Get(id)
				removed, err := c.Delete(id)
				if err != nil {
					return err
				}
				switch {
				case removed:
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", task.Text)
				case found:
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newClearCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withController(cmd, opts, promptConfirm(cmd, yes), func(c *tasklist.Controller) error {
				n := c.Len()
				cleared, err := c.DeleteAll()
				if err != nil {
					return err
				}
				if cleared {
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d tasks.\n", n)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
