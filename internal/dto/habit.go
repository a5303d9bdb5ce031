package dto

import "time"

// CreateHabitRequest is the JSON body for POST /habits. Level is optional
// and defaults to High; the service normalizes legacy spellings.
type CreateHabitRequest struct {
	Title       string `json:"title" binding:"required,max=120"`
	Description string `json:"description" binding:"required,max=1000"`
	Level       string `json:"level" binding:"max=20"`
}

// UpdateHabitRequest is the JSON body for PATCH /habits/:id.
// nil = не менять, значение = поставить. Ownership fields (id, user_id)
// are deliberately absent: they are not patchable.
type UpdateHabitRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=120"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Level       *string `json:"level" binding:"omitempty,max=20"`
}

type HabitResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Level       string    `json:"level"`
	LevelColor  string    `json:"level_color"`
	Completed   bool      `json:"completed"`
	Streak      int       `json:"streak"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

type ListHabitsResponse struct {
	Items []HabitResponse `json:"items"`
}
