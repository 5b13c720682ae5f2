package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/wzyjerry/llm-judge-client/internal/client"
	"github.com/wzyjerry/llm-judge-client/internal/model"
	"github.com/wzyjerry/llm-judge-client/internal/pkg/localstore"
	"github.com/wzyjerry/llm-judge-client/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeBackend is an in-memory stand-in for the web API, with switches
// to make individual endpoints fail.
type fakeBackend struct {
	mu sync.Mutex

	tasks   []model.TaskStatus
	reports []model.ReportSummary
	files   []model.UserData
	records []map[string]interface{}

	failCancel   bool
	failTasks    bool
	unauthorized bool

	cancelCalls   int
	editItemCalls int
}

func (b *fakeBackend) router(t *testing.T) *gin.Engine {
	r := gin.New()
	api := r.Group("/api")

	api.POST("/auth/login", func(c *gin.Context) {
		var req model.UserLogin
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		if req.Password != "secret" {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid username or password"})
			return
		}
		c.JSON(http.StatusOK, model.TokenResponse{
			AccessToken: makeToken(t, time.Now().Add(time.Hour)),
			TokenType:   "bearer",
			User:        &model.UserInfo{ID: 1, Username: req.Username},
		})
	})

	api.POST("/auth/register", func(c *gin.Context) {
		var req model.UserRegister
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, model.TokenResponse{
			AccessToken: makeToken(t, time.Now().Add(time.Hour)),
			TokenType:   "bearer",
			User:        &model.UserInfo{ID: 2, Username: req.Username},
		})
	})

	api.GET("/tasks", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.unauthorized {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "token has expired"})
			return
		}
		if b.failTasks {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, model.TaskListResponse{Tasks: append([]model.TaskStatus(nil), b.tasks...)})
	})

	api.DELETE("/tasks/:task_id", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.cancelCalls++
		if b.failCancel {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "task store unavailable"})
			return
		}
		taskID := c.Param("task_id")
		kept := b.tasks[:0]
		for _, task := range b.tasks {
			if task.TaskID != taskID {
				kept = append(kept, task)
			}
		}
		b.tasks = kept
		c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
	})

	api.PUT("/tasks/:task_id", func(c *gin.Context) {
		var req model.UserTaskUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		taskID := c.Param("task_id")
		for i := range b.tasks {
			if b.tasks[i].TaskID == taskID {
				if v, ok := req.Updates["message"].(string); ok {
					b.tasks[i].Message = v
				}
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Task updated"})
	})

	api.GET("/reports", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, model.ReportListResponse{Reports: append([]model.ReportSummary(nil), b.reports...)})
	})

	api.GET("/user/data", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, model.UserDataListResponse{DataFiles: append([]model.UserData(nil), b.files...)})
	})

	api.GET("/user/data/:data_id/content", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, model.DataContentResponse{
			Filename:   "eval.jsonl",
			TotalCount: len(b.records),
			Data:       append([]map[string]interface{}(nil), b.records...),
		})
	})

	api.PUT("/user/data/:data_id/edit-item", func(c *gin.Context) {
		var req model.SingleItemEditRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		b.editItemCalls++
		if req.ItemIndex < 0 || req.ItemIndex >= len(b.records) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "item index out of range"})
			return
		}
		b.records[req.ItemIndex] = req.EditedItem
		c.JSON(http.StatusOK, gin.H{"message": "Item updated"})
	})

	api.GET("/data-files", func(c *gin.Context) {
		c.JSON(http.StatusOK, model.DataFilesResponse{DataFiles: []model.DataFile{}})
	})

	api.GET("/scoring-functions", func(c *gin.Context) {
		c.JSON(http.StatusOK, model.ScoringFunctionsResponse{ScoringFunctions: []string{"rouge", "exact_match"}})
	})

	return r
}

// makeToken mints a token shaped like the server's. The signature is
// irrelevant client-side; only the claims are read.
func makeToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := gojwt.MapClaims{
		"user_id":  1,
		"username": "alice",
		"exp":      expiresAt.Unix(),
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func newTestStore(t *testing.T, backend *fakeBackend) (*Store, *localstore.LocalStore) {
	t.Helper()

	server := httptest.NewServer(backend.router(t))
	t.Cleanup(server.Close)

	local, err := localstore.Open(filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { local.Close() })

	api := client.New(server.URL+"/api", 5*time.Second)
	return New(api, local, 20*time.Millisecond), local
}

func TestStore_LoginInstallsAndPersistsSession(t *testing.T) {
	backend := &fakeBackend{}
	store, local := newTestStore(t, backend)

	require.NoError(t, store.Login(context.Background(), "alice", "secret"))

	state := store.Snapshot()
	require.True(t, state.Session.IsAuthenticated)
	require.NotEmpty(t, state.Session.Token)
	require.Equal(t, "alice", state.Session.User.Username)
	require.False(t, state.Loading)
	require.Empty(t, state.Error)

	stored, err := local.Get(localstore.KeyToken)
	require.NoError(t, err)
	require.Equal(t, state.Session.Token, stored)
}

func TestStore_LoginFailureLeavesSessionUntouched(t *testing.T) {
	backend := &fakeBackend{}
	store, local := newTestStore(t, backend)

	err := store.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)

	state := store.Snapshot()
	require.False(t, state.Session.IsAuthenticated)
	require.Empty(t, state.Session.Token)
	// Both error channels agree.
	require.Equal(t, err.Error(), state.Error)

	stored, getErr := local.Get(localstore.KeyToken)
	require.NoError(t, getErr)
	require.Empty(t, stored)
}

func TestStore_SessionRehydration(t *testing.T) {
	t.Run("valid token survives restart", func(t *testing.T) {
		backend := &fakeBackend{}
		server := httptest.NewServer(backend.router(t))
		t.Cleanup(server.Close)

		local, err := localstore.Open(filepath.Join(t.TempDir(), "client.db"))
		require.NoError(t, err)
		t.Cleanup(func() { local.Close() })

		first := New(client.New(server.URL+"/api", time.Second), local, time.Second)
		require.NoError(t, first.Login(context.Background(), "alice", "secret"))

		second := New(client.New(server.URL+"/api", time.Second), local, time.Second)
		state := second.Snapshot()
		require.True(t, state.Session.IsAuthenticated)
		require.Equal(t, "alice", state.Session.User.Username)
	})

	t.Run("expired token is dropped", func(t *testing.T) {
		local, err := localstore.Open(filepath.Join(t.TempDir(), "client.db"))
		require.NoError(t, err)
		t.Cleanup(func() { local.Close() })

		require.NoError(t, local.Set(localstore.KeyToken, makeToken(t, time.Now().Add(-time.Hour))))
		require.NoError(t, local.Set(localstore.KeyUser, `{"id":1,"username":"alice"}`))

		store := New(client.New("http://localhost:0/api", time.Second), local, time.Second)
		state := store.Snapshot()
		require.False(t, state.Session.IsAuthenticated)
		require.Empty(t, state.Session.Token)

		stored, err := local.Get(localstore.KeyToken)
		require.NoError(t, err)
		require.Empty(t, stored)
	})
}

func TestStore_LogoutClearsEverything(t *testing.T) {
	backend := &fakeBackend{
		tasks:   []model.TaskStatus{{TaskID: "t1", Status: model.TaskStatusRunning}},
		reports: []model.ReportSummary{{ID: 1, Dataset: "d", Model: "m"}},
		files:   []model.UserData{{ID: 1, Filename: "eval.jsonl"}},
	}
	store, local := newTestStore(t, backend)
	ctx := context.Background()

	require.NoError(t, store.Login(ctx, "alice", "secret"))
	require.NoError(t, store.FetchTasks(ctx, false))
	require.NoError(t, store.FetchReports(ctx))
	require.NoError(t, store.FetchUserDataFiles(ctx))

	state := store.Snapshot()
	require.NotEmpty(t, state.Tasks)
	require.NotEmpty(t, state.Reports)
	require.NotEmpty(t, state.UserDataFiles)

	store.Logout()

	state = store.Snapshot()
	require.False(t, state.Session.IsAuthenticated)
	require.Empty(t, state.Session.Token)
	require.Nil(t, state.Session.User)
	require.Empty(t, state.Tasks)
	require.Empty(t, state.Reports)
	require.Empty(t, state.UserDataFiles)
	require.Nil(t, state.CurrentDataDetail)

	stored, err := local.Get(localstore.KeyToken)
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestStore_CancelTaskOptimisticSuccess(t *testing.T) {
	backend := &fakeBackend{tasks: []model.TaskStatus{
		{TaskID: "t1", Status: model.TaskStatusRunning},
		{TaskID: "t2", Status: model.TaskStatusCompleted},
	}}
	store, _ := newTestStore(t, backend)
	ctx := context.Background()

	require.NoError(t, store.FetchTasks(ctx, false))
	require.NoError(t, store.CancelTask(ctx, "t1"))

	state := store.Snapshot()
	require.Len(t, state.Tasks, 1)
	require.Equal(t, "t2", state.Tasks[0].TaskID)
	require.Empty(t, state.Error)
	require.Equal(t, 1, backend.cancelCalls)
}

func TestStore_CancelTaskRollbackOnFailure(t *testing.T) {
	backend := &fakeBackend{
		tasks:      []model.TaskStatus{{TaskID: "t1", Status: model.TaskStatusRunning}},
		failCancel: true,
	}
	store, _ := newTestStore(t, backend)
	ctx := context.Background()

	require.NoError(t, store.FetchTasks(ctx, false))

	err := store.CancelTask(ctx, "t1")
	require.Error(t, err)

	// The optimistic removal was rolled back by the silent re-fetch:
	// t1 is visible again, and the error is surfaced on both channels.
	state := store.Snapshot()
	require.Len(t, state.Tasks, 1)
	require.Equal(t, "t1", state.Tasks[0].TaskID)
	require.Equal(t, model.TaskStatusRunning, state.Tasks[0].Status)
	require.Equal(t, err.Error(), state.Error)
}

func TestStore_UpdateTaskReconciles(t *testing.T) {
	backend := &fakeBackend{tasks: []model.TaskStatus{
		{TaskID: "t1", Status: model.TaskStatusRunning, Message: "old"},
	}}
	store, _ := newTestStore(t, backend)
	ctx := context.Background()

	require.NoError(t, store.FetchTasks(ctx, false))
	require.NoError(t, store.UpdateTask(ctx, "t1", map[string]interface{}{"message": "new"}))

	state := store.Snapshot()
	require.Equal(t, "new", state.Tasks[0].Message)
}

func TestStore_FetchFailureKeepsStaleSlice(t *testing.T) {
	backend := &fakeBackend{tasks: []model.TaskStatus{{TaskID: "t1", Status: model.TaskStatusRunning}}}
	store, _ := newTestStore(t, backend)
	ctx := context.Background()

	require.NoError(t, store.FetchTasks(ctx, false))

	backend.mu.Lock()
	backend.failTasks = true
	backend.mu.Unlock()

	err := store.FetchTasks(ctx, false)
	require.Error(t, err)

	state := store.Snapshot()
	require.Len(t, state.Tasks, 1) // stale but consistent
	require.NotEmpty(t, state.Error)
	require.False(t, state.Loading)
}

func TestStore_ForcedLogoutOn401(t *testing.T) {
	backend := &fakeBackend{}
	store, _ := newTestStore(t, backend)
	ctx := context.Background()

	require.NoError(t, store.Login(ctx, "alice", "secret"))

	backend.mu.Lock()
	backend.unauthorized = true
	backend.mu.Unlock()

	err := store.FetchTasks(ctx, false)
	require.Error(t, err)

	state := store.Snapshot()
	require.False(t, state.Session.IsAuthenticated)
	require.Empty(t, state.Session.Token)
}

func TestStore_EditSingleItem(t *testing.T) {
	record := map[string]interface{}{
		"meta":  map[string]interface{}{"meta_description": "a"},
		"turns": []interface{}{map[string]interface{}{"role": "user", "text": "hi"}},
	}
	backend := &fakeBackend{records: []map[string]interface{}{record}}
	store, _ := newTestStore(t, backend)
	ctx := context.Background()

	_, err := store.FetchDataContent(ctx, 1)
	require.NoError(t, err)

	t.Run("rejected edit never reaches the backend", func(t *testing.T) {
		err := store.EditSingleItem(ctx, 1, 0, `{"meta":{"meta_description":"b"}}`)
		var structure *validator.StructureChangedError
		require.ErrorAs(t, err, &structure)
		require.Equal(t, 0, backend.editItemCalls)

		// A local rejection is an edit-site error, not a store error.
		require.Empty(t, store.Snapshot().Error)
	})

	t.Run("accepted edit is submitted and reloaded", func(t *testing.T) {
		edited := `{"meta":{"meta_description":"b"},"turns":[{"role":"user","text":"hello"}]}`
		require.NoError(t, store.EditSingleItem(ctx, 1, 0, edited))
		require.Equal(t, 1, backend.editItemCalls)

		state := store.Snapshot()
		require.NotNil(t, state.CurrentDataDetail)
		got := state.CurrentDataDetail.Data[0]
		require.Equal(t, "b", got["meta"].(map[string]interface{})["meta_description"])
		require.Equal(t, "hello", got["turns"].([]interface{})[0].(map[string]interface{})["text"])
	})
}

func TestStore_Polling(t *testing.T) {
	backend := &fakeBackend{}
	store, _ := newTestStore(t, backend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.StartPolling(ctx)

	backend.mu.Lock()
	backend.tasks = []model.TaskStatus{{TaskID: "t1", Status: model.TaskStatusPending}}
	backend.mu.Unlock()

	require.Eventually(t, func() bool {
		return len(store.Snapshot().Tasks) == 1
	}, time.Second, 10*time.Millisecond, "poller should pick up the new task")

	// Silent polling never flips the shared loading flag.
	require.False(t, store.Snapshot().Loading)

	cancel()
	time.Sleep(50 * time.Millisecond)
	backend.mu.Lock()
	backend.tasks = nil
	backend.mu.Unlock()
	time.Sleep(100 * time.Millisecond)
	require.Len(t, store.Snapshot().Tasks, 1, "poller should stop after ctx cancel")
}

func TestStore_FormDraftPersists(t *testing.T) {
	backend := &fakeBackend{}
	server := httptest.NewServer(backend.router(t))
	t.Cleanup(server.Close)

	local, err := localstore.Open(filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { local.Close() })

	first := New(client.New(server.URL+"/api", time.Second), local, time.Second)
	form := first.Snapshot().FormData
	form.Model = "qwen-7b"
	form.DataFile = "3"
	first.SetFormData(form)

	second := New(client.New(server.URL+"/api", time.Second), local, time.Second)
	restored := second.Snapshot().FormData
	require.Equal(t, "qwen-7b", restored.Model)
	require.Equal(t, "3", restored.DataFile)

	second.ResetFormData()
	require.Equal(t, DefaultFormData(), second.Snapshot().FormData)

	raw, err := local.Get(localstore.KeyFormDraft)
	require.NoError(t, err)
	require.Empty(t, raw)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	backend := &fakeBackend{tasks: []model.TaskStatus{{TaskID: "t1", Status: model.TaskStatusRunning}}}
	store, _ := newTestStore(t, backend)
	ctx := context.Background()

	require.NoError(t, store.FetchTasks(ctx, false))

	state := store.Snapshot()
	state.Tasks[0].Status = model.TaskStatusFailed

	require.Equal(t, model.TaskStatusRunning, store.Snapshot().Tasks[0].Status)
}

func TestDefaultFormData(t *testing.T) {
	form := DefaultFormData()
	require.Equal(t, "rouge", form.Scoring)
	require.Equal(t, 4, form.MaxWorkers)
	require.True(t, form.IsVLLM)

	raw, err := json.Marshal(form)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"scoring":"rouge"`)
}
