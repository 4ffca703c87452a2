package bot

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"

	"github.com/runoshun/taskbot/internal/domain"
)

// labelWidth is the display width of a task description inside an option label.
const labelWidth = 20

const (
	msgGenericError      = "An error occurred. Please try again."
	msgUnknownCommand    = "Unknown command. Use /help to see what I can do."
	msgNotFound          = "⚠️ Task not found!"
	msgAddFailed         = "⚠️ Failed to add task. Please try again."
	msgDeleteFailed      = "⚠️ Failed to delete task. Please try again."
	msgDescriptionFailed = "⚠️ Failed to update description. Please try again."
	msgPriorityFailed    = "⚠️ Failed to update priority. Please try again."
	msgListFailed        = "⚠️ Failed to load tasks. Please try again."
	msgEmptyDescription  = "Task description cannot be empty."
	msgSelectPriority    = "Please select the task priority:"
	msgSelectNewPriority = "Select the new priority:"
	msgSendNewDesc       = "Please send the new task description:"
	msgDescUpdated       = "✅ Task description updated!"
	msgEditCancelled     = "Edit operation cancelled."
	msgCancelled         = "Operation cancelled."
	msgNothingToCancel   = "Nothing to cancel."
	msgSelectEdit        = "Select a task to edit:"
	msgSelectDelete      = "Select a task to delete:"
	msgNoTasks           = "No tasks yet! Use /add to create the first one."
	msgNoTasksToEdit     = "No tasks to edit yet! Use /add to create one."
	msgNoTasksToDelete   = "No tasks to delete yet! Use /add to create one."
)

var priorityLabels = map[domain.Priority]string{
	domain.PriorityHigh:   "High 🔴",
	domain.PriorityMedium: "Medium 🟡",
	domain.PriorityLow:    "Low 🟢",
}

func (b *Bot) welcomeText() string {
	var sb strings.Builder
	if b.mode == domain.VisibilityShared {
		sb.WriteString("📝 Shared Task Manager Bot 📝\n\n")
		sb.WriteString("All users see and manage the same task list.\n\n")
	} else {
		sb.WriteString("📝 Task Manager Bot 📝\n\n")
		sb.WriteString("Your tasks are visible only to you.\n\n")
	}
	sb.WriteString("Commands:\n")
	sb.WriteString("/start - Show this message\n")
	sb.WriteString(b.commandLines())
	sb.WriteString("\nTasks can have High, Medium, or Low priority.")
	return sb.String()
}

func (b *Bot) helpText() string {
	var sb strings.Builder
	sb.WriteString("📝 Available Commands 📝\n\n")
	sb.WriteString(b.commandLines())
	if b.mode == domain.VisibilityShared {
		sb.WriteString("\nAll changes are visible to everyone immediately!")
	}
	return sb.String()
}

func (b *Bot) commandLines() string {
	add, list := "/add - Add a new task\n", "/list - Show your tasks\n"
	if b.mode == domain.VisibilityShared {
		add, list = "/add - Add a new shared task (notifies all users)\n", "/list - Show all tasks\n"
	}
	return add + list +
		"/edit - Edit an existing task\n" +
		"/delete - Remove a task\n" +
		"/cancel - Cancel the current operation\n" +
		"/help - Show this help message\n"
}

func (b *Bot) descriptionPrompt() string {
	if b.mode == domain.VisibilityShared {
		return "Please enter the task description (visible to all users):"
	}
	return "Please enter the task description:"
}

func (b *Bot) addedText(p domain.Priority) string {
	text := fmt.Sprintf("✅ Task added with %s priority!", p)
	if b.broadcasting() {
		text += "\nAll users have been notified."
	}
	return text
}

func (b *Bot) listText(tasks []*domain.Task) string {
	if len(tasks) == 0 {
		return msgNoTasks
	}
	var sb strings.Builder
	if b.mode == domain.VisibilityShared {
		sb.WriteString("📋 Shared Task List 📋\n")
	} else {
		sb.WriteString("📋 Your Tasks 📋\n")
	}
	for _, t := range tasks {
		fmt.Fprintf(&sb, "\n%d. %s %s", t.ID, t.Priority.Icon(), t.Description)
		if b.mode == domain.VisibilityShared && t.OwnerName != "" {
			fmt.Fprintf(&sb, " (by %s)", t.OwnerName)
		}
	}
	return sb.String()
}

func editMenuText(t *domain.Task) string {
	return fmt.Sprintf("What would you like to edit for this task?\n\nCurrent: %s (%s priority)", t.Description, t.Priority)
}

func addedNotice(actor string, t *domain.Task) string {
	return fmt.Sprintf("📢 New shared task added by %s:\n\n%s\nPriority: %s", actor, t.Description, t.Priority)
}

func deletedNotice(actor string, t *domain.Task) string {
	return fmt.Sprintf("🗑 Task deleted by %s:\n\n%s", actor, t.Description)
}

func descriptionNotice(actor, before, after string) string {
	return fmt.Sprintf("✏️ Task updated by %s:\n\nOld: %s\nNew: %s", actor, before, after)
}

func priorityNotice(actor string, t *domain.Task) string {
	return fmt.Sprintf("✏️ Task updated by %s:\n\n%s\nNew priority: %s", actor, t.Description, t.Priority)
}

// shortDescription truncates a description to labelWidth display cells.
func shortDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return truncate.StringWithTail(s, labelWidth, "...")
}

func priorityOptions(withCancel bool) [][]domain.Option {
	rows := make([][]domain.Option, 0, 4)
	for _, p := range domain.AllPriorities() {
		rows = append(rows, []domain.Option{{
			Label:  priorityLabels[p],
			Action: Action{Kind: ActionPriority, Priority: p}.Encode(),
		}})
	}
	if withCancel {
		rows = append(rows, []domain.Option{{Label: "Cancel", Action: Action{Kind: ActionCancel}.Encode()}})
	}
	return rows
}

func setPriorityOptions(taskID int) [][]domain.Option {
	rows := make([][]domain.Option, 0, 4)
	for _, p := range domain.AllPriorities() {
		rows = append(rows, []domain.Option{{
			Label:  priorityLabels[p],
			Action: Action{Kind: ActionEditSetPriority, TaskID: taskID, Priority: p}.Encode(),
		}})
	}
	rows = append(rows, []domain.Option{{
		Label:  "Cancel",
		Action: Action{Kind: ActionEditCancel, TaskID: taskID}.Encode(),
	}})
	return rows
}

func editMenuOptions(taskID int) [][]domain.Option {
	return [][]domain.Option{
		{
			{Label: "Edit Description", Action: Action{Kind: ActionEditDescription, TaskID: taskID}.Encode()},
			{Label: "Edit Priority", Action: Action{Kind: ActionEditPriority, TaskID: taskID}.Encode()},
		},
		{
			{Label: "Cancel", Action: Action{Kind: ActionEditCancel, TaskID: taskID}.Encode()},
		},
	}
}

func editPickOptions(tasks []*domain.Task) [][]domain.Option {
	rows := make([][]domain.Option, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []domain.Option{{
			Label:  fmt.Sprintf("%d. %s (%s)", t.ID, shortDescription(t.Description), t.Priority),
			Action: Action{Kind: ActionEditSelect, TaskID: t.ID}.Encode(),
		}})
	}
	return rows
}

func deletePickOptions(tasks []*domain.Task) [][]domain.Option {
	rows := make([][]domain.Option, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []domain.Option{{
			Label:  fmt.Sprintf("%d. %s", t.ID, shortDescription(t.Description)),
			Action: Action{Kind: ActionDelete, TaskID: t.ID}.Encode(),
		}})
	}
	return rows
}
