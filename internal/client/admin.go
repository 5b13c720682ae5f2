package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/wzyjerry/llm-judge-client/internal/model"
)

// Admin endpoints. The web API gates these on the admin user; a
// non-admin token gets a 403 through the usual APIError path.

type adminUsersResponse struct {
	Users []model.User `json:"users"`
}

type adminDataResponse struct {
	Data []model.UserData `json:"data"`
}

// GetAdminUsers returns all users.
func (c *Client) GetAdminUsers(ctx context.Context) ([]model.User, error) {
	var resp adminUsersResponse
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// DeleteAdminUser removes a user and everything they own.
func (c *Client) DeleteAdminUser(ctx context.Context, userID int) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+strconv.Itoa(userID), nil, nil, nil)
}

// GetAdminTasks returns tasks across all users.
func (c *Client) GetAdminTasks(ctx context.Context) ([]model.TaskStatus, error) {
	var resp model.TaskListResponse
	if err := c.do(ctx, http.MethodGet, "/admin/tasks", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// TerminateAdminTask force-terminates any user's task.
func (c *Client) TerminateAdminTask(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodPost, "/admin/tasks/"+taskID+"/terminate", nil, nil, nil)
}

// GetAdminData returns data files across all users.
func (c *Client) GetAdminData(ctx context.Context) ([]model.UserData, error) {
	var resp adminDataResponse
	if err := c.do(ctx, http.MethodGet, "/admin/data", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// DeleteAdminData removes one data file of one user.
func (c *Client) DeleteAdminData(ctx context.Context, userID, dataID int) error {
	path := "/admin/users/" + strconv.Itoa(userID) + "/data/" + strconv.Itoa(dataID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// GetAdminModelConfigs returns all model configurations, active or not.
func (c *Client) GetAdminModelConfigs(ctx context.Context) ([]model.ModelConfig, error) {
	var resp model.ModelConfigListResponse
	if err := c.do(ctx, http.MethodGet, "/admin/model-configs", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.ModelConfigs, nil
}

// CreateAdminModelConfig creates a model configuration.
func (c *Client) CreateAdminModelConfig(ctx context.Context, create *model.ModelConfigCreate) (*model.ModelConfig, error) {
	var resp model.ModelConfig
	if err := c.do(ctx, http.MethodPost, "/admin/model-configs", nil, create, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateAdminModelConfig applies a partial update to a model
// configuration.
func (c *Client) UpdateAdminModelConfig(ctx context.Context, configID int, update *model.ModelConfigUpdate) error {
	return c.do(ctx, http.MethodPut, "/admin/model-configs/"+strconv.Itoa(configID), nil, update, nil)
}

// DeleteAdminModelConfig removes a model configuration.
func (c *Client) DeleteAdminModelConfig(ctx context.Context, configID int) error {
	return c.do(ctx, http.MethodDelete, "/admin/model-configs/"+strconv.Itoa(configID), nil, nil, nil)
}
