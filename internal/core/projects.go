package core

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agent-board/backend/internal/dto"
)

// LoadProjects returns every tracked project.
func (c *Core) LoadProjects() ([]dto.Project, error) {
	var projects []dto.Project
	if _, err := c.Store.GetInto(projectsFile, "projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// SaveProjects overwrites the full project list. Used by callers that have
// already computed the desired end state (e.g. after an in-place edit).
func (c *Core) SaveProjects(projects []dto.Project) error {
	if err := c.Store.Set(projectsFile, "projects", projects); err != nil {
		return err
	}
	return c.Store.Save(projectsFile)
}

// CreateProject appends a new project with a fresh id and persists it.
func (c *Core) CreateProject(name, repoPath string) (dto.Project, error) {
	projects, err := c.LoadProjects()
	if err != nil {
		return dto.Project{}, err
	}
	p := dto.Project{
		ID:        uuid.NewString(),
		Name:      name,
		RepoPath:  repoPath,
		CreatedAt: time.Now().UTC(),
	}
	projects = append(projects, p)
	if err := c.SaveProjects(projects); err != nil {
		return dto.Project{}, err
	}
	return p, nil
}

// DeleteProject removes a project and cascades to its tasks and their
// worktrees (spec §3, Project lifecycle).
func (c *Core) DeleteProject(ctx context.Context, projectID string) error {
	projects, err := c.LoadProjects()
	if err != nil {
		return err
	}
	var proj *dto.Project
	kept := make([]dto.Project, 0, len(projects))
	for i := range projects {
		if projects[i].ID == projectID {
			p := projects[i]
			proj = &p
			continue
		}
		kept = append(kept, projects[i])
	}
	if proj == nil {
		return dto.NotFound("project")
	}

	tasks, err := c.LoadTasks(projectID)
	if err != nil {
		return err
	}
	for _, t := range tasks {
		if t.WorktreePath != "" {
			if err := c.Worktrees.Remove(ctx, t.ID, proj.RepoPath); err != nil {
				return err
			}
		}
		_ = c.Store.Delete(messagesSnapshotFile(t.ID))
	}
	if err := c.Store.Delete(tasksFile(projectID)); err != nil {
		return err
	}
	return c.SaveProjects(kept)
}
