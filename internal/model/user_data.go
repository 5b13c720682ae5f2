package model

// UserData represents an uploaded user data file
type UserData struct {
	ID          int    `json:"id"`
	Filename    string `json:"filename"`
	Description string `json:"description"`
	FileSize    int    `json:"file_size"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// UserDataListResponse represents the GET /user/data response
type UserDataListResponse struct {
	DataFiles []UserData `json:"data_files"`
}

// DataContentResponse represents the GET /user/data/:id/content response
type DataContentResponse struct {
	Filename    string                   `json:"filename"`
	Description string                   `json:"description"`
	TotalCount  int                      `json:"total_count"`
	Data        []map[string]interface{} `json:"data"`
	Error       string                   `json:"error,omitempty"`
}

// DataEditRequest represents a PUT /user/data/:id/edit request
// (single-field or batch edit of meta_description / turn text)
type DataEditRequest struct {
	EditType  string `json:"edit_type"` // single | batch
	ItemIndex *int   `json:"item_index,omitempty"`
	FieldType string `json:"field_type"`
	Role      string `json:"role,omitempty"`
	TurnIndex *int   `json:"turn_index,omitempty"`
	NewValue  string `json:"new_value"`
}

// SingleItemEditRequest represents a PUT /user/data/:id/edit-item
// request: a complete replacement of one record, pre-checked by the
// structural edit validator.
type SingleItemEditRequest struct {
	ItemIndex  int                    `json:"item_index"`
	EditedItem map[string]interface{} `json:"edited_item"`
}

// BatchDeleteItemsRequest represents a DELETE /user/data/:id/items request
type BatchDeleteItemsRequest struct {
	ItemIndices []int `json:"item_indices"`
}

// AddItemRequest represents a POST /user/data/:id/items request
type AddItemRequest struct {
	NewItem map[string]interface{} `json:"new_item"`
}

// DataFile represents an entry of the GET /data-files listing used by
// the evaluation form
type DataFile struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Size        int    `json:"size"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// DataFilesResponse represents the GET /data-files response
type DataFilesResponse struct {
	DataFiles []DataFile `json:"data_files"`
}
