package store

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/wzyjerry/llm-judge-client/internal/model"
	"github.com/wzyjerry/llm-judge-client/internal/validator"
)

// FetchUserDataFiles replaces the user data file slice.
func (s *Store) FetchUserDataFiles(ctx context.Context) error {
	s.setLoading(true)

	files, err := s.api.GetUserDataFiles(ctx)
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.UserDataFiles = files
	s.state.Loading = false
	return nil
}

// UploadUserDataFile uploads a file and refreshes both the data
// management list and the evaluation form's data-file list.
func (s *Store) UploadUserDataFile(ctx context.Context, filename string, content io.Reader, description string) error {
	if err := s.api.UploadUserDataFile(ctx, filename, content, description); err != nil {
		s.fail(err)
		return err
	}
	if err := s.FetchUserDataFiles(ctx); err != nil {
		return err
	}
	return s.FetchDataFiles(ctx)
}

// UpdateUserDataFile updates a file's description and refreshes the
// listing.
func (s *Store) UpdateUserDataFile(ctx context.Context, dataID int, description string) error {
	if err := s.api.UpdateUserDataFile(ctx, dataID, description); err != nil {
		s.fail(err)
		return err
	}
	return s.FetchUserDataFiles(ctx)
}

// DeleteUserDataFile removes a file and refreshes both lists that
// show it.
func (s *Store) DeleteUserDataFile(ctx context.Context, dataID int) error {
	if err := s.api.DeleteUserDataFile(ctx, dataID); err != nil {
		s.fail(err)
		return err
	}
	if err := s.FetchUserDataFiles(ctx); err != nil {
		return err
	}
	return s.FetchDataFiles(ctx)
}

// FetchDataContent loads one file's records into CurrentDataDetail.
// Uses the detail-specific loading flag so the file list view is not
// affected.
func (s *Store) FetchDataContent(ctx context.Context, dataID int) (*model.DataContentResponse, error) {
	s.mu.Lock()
	s.state.DataDetailLoading = true
	s.mu.Unlock()

	detail, err := s.api.GetUserDataContent(ctx, dataID)
	if err != nil {
		s.mu.Lock()
		s.state.Error = err.Error()
		s.state.DataDetailLoading = false
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentDataDetail = detail
	s.state.DataDetailLoading = false
	return detail, nil
}

// ClearDataDetail drops the drill-down slice when the detail view
// goes away.
func (s *Store) ClearDataDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentDataDetail = nil
}

// EditSingleItem validates the edited JSON text against the original
// record at itemIndex and, only if the edit touches nothing but the
// whitelisted fields, submits the complete replacement. Validation
// failures are returned without any backend call and without touching
// the shared error flag: they are inline edit-site errors, not store
// errors.
func (s *Store) EditSingleItem(ctx context.Context, dataID, itemIndex int, editedJSON string) error {
	s.mu.Lock()
	detail := s.state.CurrentDataDetail
	s.mu.Unlock()

	if detail == nil || itemIndex < 0 || itemIndex >= len(detail.Data) {
		return fmt.Errorf("no record at index %d", itemIndex)
	}

	edited, err := validator.Validate(detail.Data[itemIndex], editedJSON)
	if err != nil {
		return err
	}

	if err := s.api.EditSingleItemComplete(ctx, dataID, itemIndex, edited); err != nil {
		s.fail(err)
		return err
	}

	zap.L().Info("Record edited",
		zap.Int("data_id", dataID),
		zap.Int("item_index", itemIndex))

	_, err = s.FetchDataContent(ctx, dataID)
	return err
}

// EditDataContent applies a single-field or batch edit and reloads
// the records.
func (s *Store) EditDataContent(ctx context.Context, dataID int, req *model.DataEditRequest) error {
	if err := s.api.EditUserDataContent(ctx, dataID, req); err != nil {
		s.fail(err)
		return err
	}
	_, err := s.FetchDataContent(ctx, dataID)
	return err
}

// DeleteSingleItem removes one record and reloads the records.
func (s *Store) DeleteSingleItem(ctx context.Context, dataID, itemIndex int) error {
	if err := s.api.DeleteSingleItem(ctx, dataID, itemIndex); err != nil {
		s.fail(err)
		return err
	}
	_, err := s.FetchDataContent(ctx, dataID)
	return err
}

// BatchDeleteItems removes several records and reloads the records.
func (s *Store) BatchDeleteItems(ctx context.Context, dataID int, itemIndices []int) error {
	if err := s.api.BatchDeleteItems(ctx, dataID, itemIndices); err != nil {
		s.fail(err)
		return err
	}
	_, err := s.FetchDataContent(ctx, dataID)
	return err
}

// AddSingleItem appends one record and reloads the records.
func (s *Store) AddSingleItem(ctx context.Context, dataID int, newItem map[string]interface{}) error {
	if err := s.api.AddSingleItem(ctx, dataID, newItem); err != nil {
		s.fail(err)
		return err
	}
	_, err := s.FetchDataContent(ctx, dataID)
	return err
}

// AppendDataFile imports a CSV/JSONL file into an existing data file
// and reloads the records.
func (s *Store) AppendDataFile(ctx context.Context, dataID int, filename string, content io.Reader) error {
	if err := s.api.AppendDataFile(ctx, dataID, filename, content); err != nil {
		s.fail(err)
		return err
	}
	_, err := s.FetchDataContent(ctx, dataID)
	return err
}
