package handlers

import (
	"io"
	"log"
	"time"

	"github.com/oriana-monaldi/Hamster-habits/internal/auth"
	"github.com/oriana-monaldi/Hamster-habits/internal/dto"
	"github.com/oriana-monaldi/Hamster-habits/internal/live"
	"github.com/oriana-monaldi/Hamster-habits/internal/service"

	"github.com/gin-gonic/gin"
)

const streamHeartbeat = 30 * time.Second

// StreamHandler serves the live habit subscription over SSE.
type StreamHandler struct {
	svc    *service.HabitService
	broker *live.Broker
}

func NewStreamHandler(svc *service.HabitService, broker *live.Broker) *StreamHandler {
	return &StreamHandler{svc: svc, broker: broker}
}

// Subscribe godoc
// @Summary      Live habit snapshots (SSE)
// @Description  Emits a full "snapshot" event on connect and after every change to the current user's habits.
// @Tags         habits
// @Produce      text/event-stream
// @Security     CookieAuth
// @Success      200  {string}  string  "event stream"
// @Router       /habits/stream [get]
func (h *StreamHandler) Subscribe(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	// One subscription per open stream; Stop always runs when the client
	// goes away so a revisit never leaves a stale listener behind.
	sub := h.broker.Subscribe(userID)
	defer sub.Stop()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		case <-sub.Notify():
			// Full snapshot per signal: the client replaces its whole
			// list, never patches it.
			list, err := h.svc.List(ctx, userID)
			if err != nil {
				log.Printf("stream: snapshot for user %d: %v", userID, err)
				c.SSEvent("error", gin.H{"error": "failed to fetch habits"})
				return false
			}
			c.SSEvent("snapshot", dto.ListHabitsResponse{Items: habitsToResponses(list)})
			return true
		}
	})
}
