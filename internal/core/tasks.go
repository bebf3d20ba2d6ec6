package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/agent-board/backend/internal/dto"
)

func messagesSnapshotFile(taskID string) string {
	return "agent_messages_" + taskID + ".json"
}

// LoadTasks returns every task belonging to a project.
func (c *Core) LoadTasks(projectID string) ([]dto.Task, error) {
	var tasks []dto.Task
	if _, err := c.Store.GetInto(tasksFile(projectID), "tasks", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// SaveTasks overwrites a project's full task list.
func (c *Core) SaveTasks(projectID string, tasks []dto.Task) error {
	file := tasksFile(projectID)
	if err := c.Store.Set(file, "tasks", tasks); err != nil {
		return err
	}
	return c.Store.Save(file)
}

// CreateTask appends a new ToDo task to a project.
func (c *Core) CreateTask(projectID, title, description string) (dto.Task, error) {
	tasks, err := c.LoadTasks(projectID)
	if err != nil {
		return dto.Task{}, err
	}
	t := dto.Task{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Status:      dto.StatusToDo,
		CreatedAt:   time.Now().UTC(),
	}
	tasks = append(tasks, t)
	if err := c.SaveTasks(projectID, tasks); err != nil {
		return dto.Task{}, err
	}
	return t, nil
}

// UpdateTask replaces the stored task whose id matches updated.ID with
// updated as a whole record.
func (c *Core) UpdateTask(projectID string, updated dto.Task) (dto.Task, error) {
	tasks, err := c.LoadTasks(projectID)
	if err != nil {
		return dto.Task{}, err
	}
	for i := range tasks {
		if tasks[i].ID == updated.ID {
			tasks[i] = updated
			if err := c.SaveTasks(projectID, tasks); err != nil {
				return dto.Task{}, err
			}
			return updated, nil
		}
	}
	return dto.Task{}, dto.NotFound("task")
}

// GetTask finds a task by id within a project.
func (c *Core) GetTask(projectID, taskID string) (dto.Task, error) {
	tasks, err := c.LoadTasks(projectID)
	if err != nil {
		return dto.Task{}, err
	}
	for _, t := range tasks {
		if t.ID == taskID {
			return t, nil
		}
	}
	return dto.Task{}, dto.NotFound("task")
}
