package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/runoshun/taskbot/internal/app"
	"github.com/runoshun/taskbot/internal/domain"
	"github.com/runoshun/taskbot/internal/usecase"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats for task list and show.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// Identity recorded for tasks created from the command line.
const (
	defaultCLIOwner     = "admin"
	defaultCLIOwnerName = "Admin"
)

var priorityStyles = map[domain.Priority]lipgloss.Style{
	domain.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	domain.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	domain.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
}

// newTaskCommand creates the task command.
func newTaskCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks directly in the store",
		Long: `Manage tasks directly in the store.

These commands act as an administrator: they see and change every task
regardless of [tasks] mode. Chat users are not notified of changes.`,
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(
		newTaskListCommand(c),
		newTaskShowCommand(c),
		newTaskAddCommand(c),
		newTaskEditCommand(c),
		newTaskRmCommand(c),
	)

	return cmd
}

// newTaskListCommand creates the task list subcommand.
func newTaskListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Owner  string
		Format string
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List tasks ordered by priority (High, Medium, Low) and then by
creation time.

Examples:
  # List every task
  taskbot task list

  # List the tasks of one chat user
  taskbot task list --owner 12345

  # Export as YAML
  taskbot task list --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(opts.Format); err != nil {
				return err
			}
			if err := c.Open(cmd.Context()); err != nil {
				return err
			}

			out, err := c.ListTasksUseCase().Execute(cmd.Context(), usecase.ListTasksInput{
				Owner: opts.Owner,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch opts.Format {
			case formatJSON:
				return writeJSON(w, nonNil(out.Tasks))
			case formatYAML:
				return writeYAML(w, nonNil(out.Tasks))
			default:
				printTaskTable(w, out.Tasks)
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&opts.Owner, "owner", "", "Only tasks created by this user ID")
	cmd.Flags().StringVarP(&opts.Format, "format", "o", formatTable, "Output format: table, json, yaml")

	return cmd
}

// newTaskShowCommand creates the task show subcommand.
func newTaskShowCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}
			if err := c.Open(cmd.Context()); err != nil {
				return err
			}

			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: taskID})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch format {
			case formatJSON:
				return writeJSON(w, out.Task)
			case formatYAML:
				return writeYAML(w, out.Task)
			default:
				printTaskDetails(w, out.Task)
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", formatTable, "Output format: table, json, yaml")

	return cmd
}

// newTaskAddCommand creates the task add subcommand.
func newTaskAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Priority  string
		Owner     string
		OwnerName string
	}

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Create a task",
		Long: `Create a task.

Examples:
  taskbot task add "Buy milk"
  taskbot task add "Renew passport" --priority high
  taskbot task add "Water plants" --owner 12345 --name Alice`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			priority, err := domain.ParsePriority(opts.Priority)
			if err != nil {
				return err
			}
			if err := c.Open(cmd.Context()); err != nil {
				return err
			}

			out, err := c.NewTaskUseCase().Execute(cmd.Context(), usecase.NewTaskInput{
				Owner:       opts.Owner,
				OwnerName:   opts.OwnerName,
				Description: strings.Join(args, " "),
				Priority:    priority,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task #%d\n", out.TaskID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", string(domain.PriorityMedium), "Priority: high, medium, low")
	cmd.Flags().StringVar(&opts.Owner, "owner", defaultCLIOwner, "Owner user ID")
	cmd.Flags().StringVar(&opts.OwnerName, "name", defaultCLIOwnerName, "Owner display name")

	return cmd
}

// newTaskEditCommand creates the task edit subcommand.
func newTaskEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Description string
		Priority    string
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the description or priority of a task",
		Long: `Change the description or priority of a task.

At least one of --description or --priority is required.

Examples:
  taskbot task edit 3 --description "Buy oat milk"
  taskbot task edit "#3" --priority low`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}

			var in usecase.EditTaskInput
			in.TaskID = taskID
			if cmd.Flags().Changed("description") {
				in.Description = &opts.Description
			}
			if cmd.Flags().Changed("priority") {
				p, err := domain.ParsePriority(opts.Priority)
				if err != nil {
					return err
				}
				in.Priority = &p
			}
			if in.Description == nil && in.Priority == nil {
				return domain.ErrNoFieldsToUpdate
			}

			if err := c.Open(cmd.Context()); err != nil {
				return err
			}
			out, err := c.EditTaskUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d: %s (%s priority)\n",
				out.After.ID, out.After.Description, out.After.Priority)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "New description")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "New priority: high, medium, low")

	return cmd
}

// newTaskRmCommand creates the task rm subcommand.
func newTaskRmCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Long: `Delete a task permanently. Its ID is never reused.

Examples:
  taskbot task rm 1
  taskbot task rm "#1"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}
			if err := c.Open(cmd.Context()); err != nil {
				return err
			}

			out, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{
				TaskID: taskID,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d: %s\n", out.Task.ID, out.Task.Description)
			return nil
		},
	}

	return cmd
}

// parseTaskID parses a task ID string to int.
func parseTaskID(s string) (int, error) {
	// Remove leading # if present
	s = strings.TrimPrefix(s, "#")
	var id int
	_, err := fmt.Sscanf(s, "%d", &id)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("task ID must be positive")
	}
	return id, nil
}

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("invalid --format: %s (expected table, json, yaml)", format)
	}
}

func nonNil(tasks []*domain.Task) []*domain.Task {
	if tasks == nil {
		return []*domain.Task{}
	}
	return tasks
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// printTaskTable prints tasks as aligned columns. Widths are measured in
// terminal cells so wide descriptions and owner names line up.
func printTaskTable(w io.Writer, tasks []*domain.Task) {
	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(w, "No tasks found.")
		return
	}

	header := []string{"ID", "PRIORITY", "OWNER", "CREATED", "DESCRIPTION"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		owner := t.Owner
		if t.OwnerName != "" {
			owner = fmt.Sprintf("%s (%s)", t.OwnerName, t.Owner)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.ID),
			string(t.Priority),
			owner,
			t.Created.Local().Format("2006-01-02 15:04"),
			t.Description,
		})
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	printRow(w, header, widths, nil)
	for i, row := range rows {
		style, ok := priorityStyles[tasks[i].Priority]
		if !ok {
			style = lipgloss.NewStyle()
		}
		printRow(w, row, widths, &style)
	}
}

// printRow pads every cell but the last. The priority column (index 1)
// is styled after padding so escape codes do not skew the alignment.
func printRow(w io.Writer, cells []string, widths []int, priority *lipgloss.Style) {
	var b strings.Builder
	for i, cell := range cells {
		if i == len(cells)-1 {
			b.WriteString(cell)
			break
		}
		padded := runewidth.FillRight(cell, widths[i])
		if i == 1 && priority != nil {
			padded = priority.Render(cell) + strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell))
		}
		b.WriteString(padded)
		b.WriteString("   ")
	}
	_, _ = fmt.Fprintln(w, b.String())
}

// printTaskDetails prints a single task.
func printTaskDetails(w io.Writer, task *domain.Task) {
	_, _ = fmt.Fprintf(w, "# Task %d\n\n", task.ID)
	_, _ = fmt.Fprintf(w, "%s\n\n", task.Description)
	_, _ = fmt.Fprintf(w, "Priority: %s %s\n", task.Priority.Icon(), task.Priority)
	if task.OwnerName != "" {
		_, _ = fmt.Fprintf(w, "Owner: %s (%s)\n", task.OwnerName, task.Owner)
	} else {
		_, _ = fmt.Fprintf(w, "Owner: %s\n", task.Owner)
	}
	_, _ = fmt.Fprintf(w, "Created: %s\n", task.Created.Format(time.RFC3339))
}
