package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wzyjerry/llm-judge-client/internal/model"
)

// GetUserDataFiles returns the uploaded data files of the current user.
func (c *Client) GetUserDataFiles(ctx context.Context) ([]model.UserData, error) {
	var resp model.UserDataListResponse
	if err := c.do(ctx, http.MethodGet, "/user/data", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.DataFiles, nil
}

// UploadUserDataFile uploads a new data file (JSONL or CSV).
func (c *Client) UploadUserDataFile(ctx context.Context, filename string, content io.Reader, description string) error {
	fields := map[string]string{}
	if description != "" {
		fields["description"] = description
	}
	return c.upload(ctx, "/user/data", "file", filename, content, fields, nil)
}

// UpdateUserDataFile updates a data file's description.
func (c *Client) UpdateUserDataFile(ctx context.Context, dataID int, description string) error {
	query := url.Values{}
	query.Set("description", description)
	return c.do(ctx, http.MethodPut, "/user/data/"+strconv.Itoa(dataID), query, nil, nil)
}

// DeleteUserDataFile removes one data file.
func (c *Client) DeleteUserDataFile(ctx context.Context, dataID int) error {
	return c.do(ctx, http.MethodDelete, "/user/data/"+strconv.Itoa(dataID), nil, nil, nil)
}

// GetUserDataContent returns the decoded records of one data file.
func (c *Client) GetUserDataContent(ctx context.Context, dataID int) (*model.DataContentResponse, error) {
	var resp model.DataContentResponse
	if err := c.do(ctx, http.MethodGet, "/user/data/"+strconv.Itoa(dataID)+"/content", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EditUserDataContent applies a single-field or batch edit across the
// file's records.
func (c *Client) EditUserDataContent(ctx context.Context, dataID int, req *model.DataEditRequest) error {
	return c.do(ctx, http.MethodPut, "/user/data/"+strconv.Itoa(dataID)+"/edit", nil, req, nil)
}

// EditSingleItemComplete replaces one record wholesale. The caller is
// expected to have run the record through validator.Validate first;
// the server re-checks on its side.
func (c *Client) EditSingleItemComplete(ctx context.Context, dataID, itemIndex int, editedItem map[string]interface{}) error {
	if editedItem == nil {
		return fmt.Errorf("edited item is required")
	}
	req := model.SingleItemEditRequest{ItemIndex: itemIndex, EditedItem: editedItem}
	return c.do(ctx, http.MethodPut, "/user/data/"+strconv.Itoa(dataID)+"/edit-item", nil, req, nil)
}

// DeleteSingleItem removes one record by index.
func (c *Client) DeleteSingleItem(ctx context.Context, dataID, itemIndex int) error {
	path := "/user/data/" + strconv.Itoa(dataID) + "/items/" + strconv.Itoa(itemIndex)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// BatchDeleteItems removes several records by index in one call.
func (c *Client) BatchDeleteItems(ctx context.Context, dataID int, itemIndices []int) error {
	req := model.BatchDeleteItemsRequest{ItemIndices: itemIndices}
	return c.do(ctx, http.MethodDelete, "/user/data/"+strconv.Itoa(dataID)+"/items", nil, req, nil)
}

// AddSingleItem appends one record to the file.
func (c *Client) AddSingleItem(ctx context.Context, dataID int, newItem map[string]interface{}) error {
	req := model.AddItemRequest{NewItem: newItem}
	return c.do(ctx, http.MethodPost, "/user/data/"+strconv.Itoa(dataID)+"/items", nil, req, nil)
}

// AppendDataFile imports and appends a CSV or JSONL file to an
// existing data file.
func (c *Client) AppendDataFile(ctx context.Context, dataID int, filename string, content io.Reader) error {
	return c.upload(ctx, "/user/data/"+strconv.Itoa(dataID)+"/append", "file", filename, content, nil, nil)
}

// GetDataFiles returns the data file listing used by the evaluation
// form.
func (c *Client) GetDataFiles(ctx context.Context) ([]model.DataFile, error) {
	var resp model.DataFilesResponse
	if err := c.do(ctx, http.MethodGet, "/data-files", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.DataFiles, nil
}
