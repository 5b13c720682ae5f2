package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wzyjerry/llm-judge-client/internal/model"
)

// FetchTasks replaces the tasks slice with the server's snapshot.
// silent skips the loading flag, used by the poller and by the
// reconcile step of the optimistic actions so the view doesn't
// flicker. Concurrent fetches are not sequenced: the last response to
// land wins, which is fine because every response is the same
// authoritative snapshot.
func (s *Store) FetchTasks(ctx context.Context, silent bool) error {
	if !silent {
		s.setLoading(true)
	}

	tasks, err := s.api.GetAllTasks(ctx)
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Tasks = tasks
	s.state.Loading = false
	return nil
}

// FetchTaskStatus loads one task into CurrentTask.
func (s *Store) FetchTaskStatus(ctx context.Context, taskID string) (*model.TaskStatus, error) {
	task, err := s.api.GetTaskStatus(ctx, taskID)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentTask = task
	return task, nil
}

// StartEvaluation submits a run and returns the created task ID.
func (s *Store) StartEvaluation(ctx context.Context, config *model.EvaluationConfig) (string, error) {
	s.setLoading(true)

	resp, err := s.api.StartEvaluation(ctx, config)
	if err != nil {
		s.fail(err)
		return "", err
	}

	s.mu.Lock()
	s.state.Loading = false
	s.mu.Unlock()

	zap.L().Info("Evaluation started", zap.String("task_id", resp.TaskID))
	return resp.TaskID, nil
}

// CancelTask removes the task optimistically, issues the cancel, then
// re-fetches the authoritative list silently on both outcomes. The
// visible state converges to server truth within one round trip
// whether the call succeeded or not.
func (s *Store) CancelTask(ctx context.Context, taskID string) error {
	return s.mutateTask(ctx, taskID, func() error {
		return s.api.CancelTask(ctx, taskID)
	}, func(tasks []model.TaskStatus) []model.TaskStatus {
		return removeTask(tasks, taskID)
	})
}

// DeleteTask removes a terminal task. The web API uses the same
// DELETE endpoint for cancel and delete, and so does the optimistic
// protocol.
func (s *Store) DeleteTask(ctx context.Context, taskID string) error {
	return s.CancelTask(ctx, taskID)
}

// UpdateTask merges updates into the matching task optimistically,
// issues the update, then reconciles silently.
func (s *Store) UpdateTask(ctx context.Context, taskID string, updates map[string]interface{}) error {
	return s.mutateTask(ctx, taskID, func() error {
		return s.api.UpdateTask(ctx, taskID, updates)
	}, func(tasks []model.TaskStatus) []model.TaskStatus {
		out := append([]model.TaskStatus(nil), tasks...)
		for i := range out {
			if out[i].TaskID == taskID {
				applyTaskUpdates(&out[i], updates)
			}
		}
		return out
	})
}

// mutateTask runs the shared optimistic-update protocol: apply the
// assumed-success slice value, call the backend, then silently
// re-fetch to reconcile. On failure the re-fetch is the rollback.
func (s *Store) mutateTask(ctx context.Context, taskID string, call func() error, optimistic func([]model.TaskStatus) []model.TaskStatus) error {
	s.mu.Lock()
	s.state.Tasks = optimistic(s.state.Tasks)
	s.mu.Unlock()

	if err := call(); err != nil {
		if refetchErr := s.FetchTasks(ctx, true); refetchErr != nil {
			zap.L().Warn("Task list rollback fetch failed",
				zap.String("task_id", taskID),
				zap.Error(refetchErr))
		}
		s.fail(err)
		return err
	}

	return s.FetchTasks(ctx, true)
}

func removeTask(tasks []model.TaskStatus, taskID string) []model.TaskStatus {
	out := make([]model.TaskStatus, 0, len(tasks))
	for _, task := range tasks {
		if task.TaskID != taskID {
			out = append(out, task)
		}
	}
	return out
}

// applyTaskUpdates maps the update body's known keys onto the local
// task copy. Unknown keys are left for the server to interpret.
func applyTaskUpdates(task *model.TaskStatus, updates map[string]interface{}) {
	if v, ok := updates["status"].(string); ok {
		task.Status = v
	}
	if v, ok := updates["message"].(string); ok {
		task.Message = v
	}
	if v, ok := updates["progress"].(float64); ok {
		task.Progress = v
	}
}

// StartPolling refreshes the task list silently on a fixed interval
// until ctx is cancelled (the task view tearing down). A timer tick
// and a user-triggered fetch may race; last response wins, as in the
// platform's store.
func (s *Store) StartPolling(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.FetchTasks(ctx, true); err != nil {
					zap.L().Debug("Task poll failed", zap.Error(err))
				}
			}
		}
	}()
}
