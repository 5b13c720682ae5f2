package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wzyjerry/llm-judge-client/internal/model"
)

// StartEvaluation submits an evaluation run and returns the created
// task ID.
func (c *Client) StartEvaluation(ctx context.Context, config *model.EvaluationConfig) (*model.EvaluateResponse, error) {
	var resp model.EvaluateResponse
	if err := c.do(ctx, http.MethodPost, "/evaluate", nil, config, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAllTasks returns all tasks of the current user.
func (c *Client) GetAllTasks(ctx context.Context) ([]model.TaskStatus, error) {
	var resp model.TaskListResponse
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// GetTaskStatus returns one task by ID.
func (c *Client) GetTaskStatus(ctx context.Context, taskID string) (*model.TaskStatus, error) {
	var resp model.TaskStatus
	if err := c.do(ctx, http.MethodGet, "/tasks/"+taskID, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateTask applies a partial update to one task.
func (c *Client) UpdateTask(ctx context.Context, taskID string, updates map[string]interface{}) error {
	req := model.UserTaskUpdate{Updates: updates}
	return c.do(ctx, http.MethodPut, "/tasks/"+taskID, nil, req, nil)
}

// CancelTask cancels a running task or deletes a terminal one; the
// web API exposes both through the same DELETE endpoint.
func (c *Client) CancelTask(ctx context.Context, taskID string) error {
	if taskID == "" {
		return fmt.Errorf("task id is required")
	}
	return c.do(ctx, http.MethodDelete, "/tasks/"+taskID, nil, nil, nil)
}
