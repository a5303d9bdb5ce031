package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/oriana-monaldi/Hamster-habits/internal/auth"
	dom "github.com/oriana-monaldi/Hamster-habits/internal/domain"
	"github.com/oriana-monaldi/Hamster-habits/internal/dto"
	"github.com/oriana-monaldi/Hamster-habits/internal/live"
	"github.com/oriana-monaldi/Hamster-habits/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// memHabitRepo backs the handler tests without Postgres.
type memHabitRepo struct {
	habits map[string]dom.Habit
	nextID int
}

func newMemHabitRepo() *memHabitRepo {
	return &memHabitRepo{habits: make(map[string]dom.Habit)}
}

func (r *memHabitRepo) Create(_ context.Context, h dom.Habit) (dom.Habit, error) {
	r.nextID++
	h.ID = "habit-" + strconv.Itoa(r.nextID)
	h.CreatedAt = time.Now().UTC()
	h.LastUpdated = h.CreatedAt
	r.habits[h.ID] = h
	return h, nil
}

func (r *memHabitRepo) GetByID(_ context.Context, userID int64, id string) (dom.Habit, error) {
	h, ok := r.habits[id]
	if !ok || h.UserID != userID {
		return dom.Habit{}, pgx.ErrNoRows
	}
	return h, nil
}

func (r *memHabitRepo) List(_ context.Context, userID int64) ([]dom.Habit, error) {
	var list []dom.Habit
	for _, h := range r.habits {
		if h.UserID == userID {
			list = append(list, h)
		}
	}
	return list, nil
}

func (r *memHabitRepo) Update(_ context.Context, userID int64, id string, patch dom.Habit) (dom.Habit, error) {
	h, ok := r.habits[id]
	if !ok || h.UserID != userID {
		return dom.Habit{}, pgx.ErrNoRows
	}
	h.Title = patch.Title
	h.Description = patch.Description
	h.Level = patch.Level
	h.LastUpdated = time.Now().UTC()
	r.habits[id] = h
	return h, nil
}

func (r *memHabitRepo) Delete(_ context.Context, userID int64, id string) error {
	h, ok := r.habits[id]
	if !ok || h.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(r.habits, id)
	return nil
}

func (r *memHabitRepo) MarkCompleted(_ context.Context, userID int64, id string) (dom.Habit, error) {
	h, ok := r.habits[id]
	if !ok || h.UserID != userID {
		return dom.Habit{}, pgx.ErrNoRows
	}
	h.Completed = true
	h.Streak++
	h.LastUpdated = time.Now().UTC()
	r.habits[id] = h
	return h, nil
}

func (r *memHabitRepo) Search(_ context.Context, userID int64, _ string) ([]dom.Habit, error) {
	return r.List(context.Background(), userID)
}

// newTestRouter wires the habit routes behind a middleware that plays the
// role of RequireSession for a fixed user.
func newTestRouter(userID int64) (*gin.Engine, *live.Broker) {
	gin.SetMode(gin.TestMode)
	broker := live.NewBroker(nil)
	svc := service.NewHabitService(newMemHabitRepo(), nil, broker)
	h := NewHabitHandler(svc)
	s := NewStreamHandler(svc, broker)

	r := gin.New()
	api := r.Group("/api/v1", func(c *gin.Context) {
		c.Set(auth.ContextKeyUserID, userID)
	})
	api.POST("/habits", h.Create)
	api.GET("/habits", h.List)
	api.GET("/habits/stream", s.Subscribe)
	api.GET("/habits/:id", h.GetByID)
	api.PATCH("/habits/:id", h.Update)
	api.DELETE("/habits/:id", h.Delete)
	api.POST("/habits/:id/complete", h.Complete)
	return r, broker
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeHabit(t *testing.T, w *httptest.ResponseRecorder) dto.HabitResponse {
	t.Helper()
	var resp dto.HabitResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode habit: %v (body: %s)", err, w.Body.String())
	}
	return resp
}

func TestCreateThenListRoundTrip(t *testing.T) {
	r, _ := newTestRouter(42)

	w := doJSON(t, r, http.MethodPost, "/api/v1/habits", dto.CreateHabitRequest{
		Title:       "Drink water",
		Description: "8 glasses/day",
		Level:       "Low",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	created := decodeHabit(t, w)
	if created.ID == "" {
		t.Error("expected store-assigned id")
	}
	if created.Level != "Low" || created.LevelColor != "#32CD32" {
		t.Errorf("level/color = %q/%q", created.Level, created.LevelColor)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/habits", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var list dto.ListHabitsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].ID != created.ID || list.Items[0].Title != "Drink water" {
		t.Errorf("list = %+v, want exactly the created habit", list.Items)
	}
}

func TestCreateValidation(t *testing.T) {
	r, _ := newTestRouter(1)

	// Whitespace-only title passes binding but must fail service validation.
	w := doJSON(t, r, http.MethodPost, "/api/v1/habits", dto.CreateHabitRequest{
		Title:       "   ",
		Description: "desc",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank title status = %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/habits", dto.CreateHabitRequest{
		Title:       "Run",
		Description: "5 km",
		Level:       "asap",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad level status = %d, want 400", w.Code)
	}
}

func TestUpdateLevelOnly(t *testing.T) {
	r, _ := newTestRouter(1)

	created := decodeHabit(t, doJSON(t, r, http.MethodPost, "/api/v1/habits", dto.CreateHabitRequest{
		Title:       "Drink water",
		Description: "8 glasses/day",
		Level:       "Low",
	}))

	level := "High"
	w := doJSON(t, r, http.MethodPatch, "/api/v1/habits/"+created.ID, dto.UpdateHabitRequest{Level: &level})
	if w.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body %s", w.Code, w.Body.String())
	}
	updated := decodeHabit(t, w)
	if updated.Level != "High" {
		t.Errorf("level = %q, want High", updated.Level)
	}
	if updated.ID != created.ID || updated.Title != created.Title || updated.Description != created.Description {
		t.Error("patch must leave id/title/description unchanged")
	}
}

func TestUpdateMissingHabit(t *testing.T) {
	r, _ := newTestRouter(1)
	title := "x"
	w := doJSON(t, r, http.MethodPatch, "/api/v1/habits/ghost", dto.UpdateHabitRequest{Title: &title})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteFlow(t *testing.T) {
	r, _ := newTestRouter(1)

	created := decodeHabit(t, doJSON(t, r, http.MethodPost, "/api/v1/habits", dto.CreateHabitRequest{
		Title:       "Drink water",
		Description: "8 glasses/day",
	}))

	if w := doJSON(t, r, http.MethodDelete, "/api/v1/habits/"+created.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	// Gone from the list.
	var list dto.ListHabitsResponse
	w := doJSON(t, r, http.MethodGet, "/api/v1/habits", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Items) != 0 {
		t.Errorf("list after delete = %+v, want empty", list.Items)
	}
	// An already-deleted id is a visible failure, not a silent success.
	if w := doJSON(t, r, http.MethodDelete, "/api/v1/habits/"+created.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("repeat delete status = %d, want 404", w.Code)
	}
}

func TestCompleteEndpoint(t *testing.T) {
	r, _ := newTestRouter(1)

	created := decodeHabit(t, doJSON(t, r, http.MethodPost, "/api/v1/habits", dto.CreateHabitRequest{
		Title:       "Drink water",
		Description: "8 glasses/day",
	}))

	w := doJSON(t, r, http.MethodPost, "/api/v1/habits/"+created.ID+"/complete", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("complete status = %d", w.Code)
	}
	done := decodeHabit(t, w)
	if !done.Completed || done.Streak != 1 {
		t.Errorf("completed=%v streak=%d, want true/1", done.Completed, done.Streak)
	}
}

func TestWritesSignalLiveSubscribers(t *testing.T) {
	r, broker := newTestRouter(9)

	sub := broker.Subscribe(9)
	defer sub.Stop()
	<-sub.Notify() // initial

	doJSON(t, r, http.MethodPost, "/api/v1/habits", dto.CreateHabitRequest{
		Title:       "Drink water",
		Description: "8 glasses/day",
	})

	select {
	case <-sub.Notify():
	case <-time.After(time.Second):
		t.Fatal("create did not signal the live subscription")
	}
}
