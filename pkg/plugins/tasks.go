package plugins

import (
	"context"
	"fmt"
	"strings"

	"concierge/pkg/tasks"
)

// TaskManager exposes the shared task store as assistant capabilities.
type TaskManager struct {
	store *tasks.Store
}

func NewTaskManager(store *tasks.Store) *TaskManager {
	return &TaskManager{store: store}
}

func (m *TaskManager) Plugins() []Plugin {
	return []Plugin{
		{
			Descriptor: Descriptor{
				Name:        "Tasks-GetTasks",
				Description: "Get the current task list, optionally filtered.",
				Params: []Param{
					{Name: "filter_by", Type: "string", Description: "Filter: all, today, pending, done, high, medium, low", Default: "all"},
				},
			},
			Invoke: m.getTasks,
		},
		{
			Descriptor: Descriptor{
				Name:        "Tasks-AddTask",
				Description: "Add a new task to the list.",
				Params: []Param{
					{Name: "task", Type: "string", Description: "The task description", Required: true},
					{Name: "priority", Type: "string", Description: "Priority: high, medium, or low", Default: "medium"},
					{Name: "due", Type: "string", Description: "When it is due (e.g. today, tomorrow)", Default: "today"},
				},
			},
			Invoke: m.addTask,
		},
		{
			Descriptor: Descriptor{
				Name:        "Tasks-CompleteTask",
				Description: "Mark a task as completed by its ID.",
				Params: []Param{
					{Name: "task_id", Type: "integer", Description: "The ID of the task to complete", Required: true},
				},
			},
			Invoke: m.completeTask,
		},
	}
}

func (m *TaskManager) getTasks(ctx context.Context, args Args) Result {
	filter := strings.ToLower(args.TextOr("filter_by", tasks.FilterAll))

	list := m.store.List(filter)
	if len(list) == 0 {
		return Okf("📋 No tasks found for filter: %s", filter)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Tasks (%s):\n", filter)
	for _, t := range list {
		status := "⬜"
		if t.Done {
			status = "✅"
		}
		fmt.Fprintf(&b, "  %s [%d] %s %s (Due: %s)\n", status, t.ID, priorityIcon(t.Priority), t.Description, t.Due)
	}
	return Ok(strings.TrimRight(b.String(), "\n"))
}

func (m *TaskManager) addTask(ctx context.Context, args Args) Result {
	desc, ok := args.Text("task")
	if !ok || desc == "" {
		return Failf("Could not add task: missing task description")
	}
	priority := strings.ToLower(args.TextOr("priority", tasks.PriorityMedium))
	switch priority {
	case tasks.PriorityHigh, tasks.PriorityMedium, tasks.PriorityLow:
	default:
		priority = tasks.PriorityMedium
	}
	due := args.TextOr("due", "today")

	id := m.store.Add(desc, priority, due)
	return Okf("✅ Task added: [%d] %s (Priority: %s, Due: %s)", id, desc, priority, due)
}

func (m *TaskManager) completeTask(ctx context.Context, args Args) Result {
	id, ok := args.Integer("task_id")
	if !ok {
		return Failf("Could not complete task: missing task_id")
	}

	t, found := m.store.Complete(id)
	if !found {
		return Okf("❌ Task with ID %d not found", id)
	}
	return Okf("✅ Completed: %s", t.Description)
}

func priorityIcon(priority string) string {
	switch priority {
	case tasks.PriorityHigh:
		return "🔴"
	case tasks.PriorityMedium:
		return "🟡"
	default:
		return "🟢"
	}
}
