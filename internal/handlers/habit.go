package handlers

import (
	"errors"
	"net/http"

	"github.com/oriana-monaldi/Hamster-habits/internal/auth"
	dom "github.com/oriana-monaldi/Hamster-habits/internal/domain"
	"github.com/oriana-monaldi/Hamster-habits/internal/dto"
	"github.com/oriana-monaldi/Hamster-habits/internal/service"

	"github.com/gin-gonic/gin"
)

type HabitHandler struct {
	svc *service.HabitService
}

func NewHabitHandler(svc *service.HabitService) *HabitHandler {
	return &HabitHandler{svc: svc}
}

// Create godoc
// @Summary      Create a habit
// @Tags         habits
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateHabitRequest  true  "Habit body"
// @Success      201   {object}  dto.HabitResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /habits [post]
func (h *HabitHandler) Create(c *gin.Context) {
	var req dto.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	habit, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), req.Title, req.Description, req.Level)
	if err != nil {
		if isValidationErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save habit"})
		return
	}
	c.JSON(http.StatusCreated, habitToResponse(habit))
}

// List godoc
// @Summary      List the current user's habits
// @Tags         habits
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListHabitsResponse
// @Failure      500  {object}  map[string]string
// @Router       /habits [get]
func (h *HabitHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch habits"})
		return
	}
	c.JSON(http.StatusOK, dto.ListHabitsResponse{Items: habitsToResponses(list)})
}

// GetByID godoc
// @Summary      Get a habit by ID
// @Tags         habits
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Habit ID"
// @Success      200  {object}  dto.HabitResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /habits/{id} [get]
func (h *HabitHandler) GetByID(c *gin.Context) {
	habit, err := h.svc.GetByID(c.Request.Context(), auth.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch habit"})
		return
	}
	c.JSON(http.StatusOK, habitToResponse(habit))
}

// Update godoc
// @Summary      Update a habit
// @Tags         habits
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string  true  "Habit ID"
// @Param        body  body      dto.UpdateHabitRequest  true  "Partial update (title, description, level only)"
// @Success      200   {object}  dto.HabitResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /habits/{id} [patch]
func (h *HabitHandler) Update(c *gin.Context) {
	var req dto.UpdateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	habit, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), c.Param("id"),
		req.Title, req.Description, req.Level)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		if isValidationErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update habit"})
		return
	}
	c.JSON(http.StatusOK, habitToResponse(habit))
}

// Delete godoc
// @Summary      Delete a habit
// @Tags         habits
// @Security     CookieAuth
// @Param        id   path  string  true  "Habit ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /habits/{id} [delete]
func (h *HabitHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			// Already gone (or never owned): report failure, not success.
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete habit"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Complete godoc
// @Summary      Mark a habit completed and bump its streak
// @Tags         habits
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Habit ID"
// @Success      200  {object}  dto.HabitResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /habits/{id}/complete [post]
func (h *HabitHandler) Complete(c *gin.Context) {
	habit, err := h.svc.Complete(c.Request.Context(), auth.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete habit"})
		return
	}
	c.JSON(http.StatusOK, habitToResponse(habit))
}

// Search godoc
// @Summary      Search habits by query
// @Tags         habits
// @Produce      json
// @Security     CookieAuth
// @Param        q    query     string  true  "Search query (title/description)"
// @Success      200  {object}  dto.ListHabitsResponse
// @Failure      500  {object}  map[string]string
// @Router       /habits/search [get]
func (h *HabitHandler) Search(c *gin.Context) {
	list, err := h.svc.Search(c.Request.Context(), auth.UserIDFromContext(c), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search habits"})
		return
	}
	c.JSON(http.StatusOK, dto.ListHabitsResponse{Items: habitsToResponses(list)})
}

func isValidationErr(err error) bool {
	return errors.Is(err, service.ErrEmptyTitle) ||
		errors.Is(err, service.ErrEmptyDescription) ||
		errors.Is(err, service.ErrTitleTooLong) ||
		errors.Is(err, service.ErrDescTooLong) ||
		errors.Is(err, service.ErrInvalidLevel)
}

func habitToResponse(h dom.Habit) dto.HabitResponse {
	return dto.HabitResponse{
		ID:          h.ID,
		Title:       h.Title,
		Description: h.Description,
		Level:       string(h.Level),
		LevelColor:  h.Level.Color(),
		Completed:   h.Completed,
		Streak:      h.Streak,
		CreatedAt:   h.CreatedAt,
		LastUpdated: h.LastUpdated,
	}
}

func habitsToResponses(list []dom.Habit) []dto.HabitResponse {
	out := make([]dto.HabitResponse, len(list))
	for i := range list {
		out[i] = habitToResponse(list[i])
	}
	return out
}
