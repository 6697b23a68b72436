// Package chat proxies the portal's assistant widget to the EZRA chat
// endpoint.
package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/dalemusser/ezraportal/internal/app/system/htmlsanitize"
	"github.com/dalemusser/ezraportal/internal/app/system/inputval"
	"github.com/dalemusser/ezraportal/internal/app/system/timeouts"
	"github.com/dalemusser/ezraportal/internal/app/system/viewdata"
	"github.com/dalemusser/ezraportal/internal/domain/models"
	"go.uber.org/zap"
)

const (
	// MaxMessages is how many of the most recent turns are forwarded.
	MaxMessages = 20
	// MaxContent caps one message, in characters.
	MaxContent = 2000

	maxBody = 256 << 10
)

// FailureReply is what the widget shows when the model cannot answer.
const FailureReply = "Unable to load model, try again later."

// API is the chat slice of the EZRA client.
type API interface {
	Chat(ctx context.Context, conversation []models.ChatMessage) (models.ChatReply, error)
}

type Handler struct {
	API API
	Log *zap.Logger
}

func NewHandler(api API, logger *zap.Logger) *Handler {
	return &Handler{API: api, Log: logger}
}

// Clean validates and sanitizes a conversation and trims it to the last
// MaxMessages turns.
func Clean(in []models.ChatMessage) ([]models.ChatMessage, error) {
	var c inputval.Checker
	c.Check(len(in) > 0, "conversation", "conversation is empty")

	out := make([]models.ChatMessage, 0, len(in))
	for i, m := range in {
		field := "conversation[" + strconv.Itoa(i) + "]"
		c.OneOf(field+".role", m.Role, "Role", []string{"user", "assistant"})
		content := htmlsanitize.PlainText(m.Content)
		c.Required(field+".content", content, "Message")
		c.Check(utf8.RuneCountInString(content) <= MaxContent, field+".content",
			"Message must be at most "+strconv.Itoa(MaxContent)+" characters")
		out = append(out, models.ChatMessage{Role: m.Role, Content: content})
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	if len(out) > MaxMessages {
		out = out[len(out)-MaxMessages:]
	}
	return out, nil
}

// ServeChat handles POST /api/chat.
func (h *Handler) ServeChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		viewdata.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	conv, err := Clean(req.Conversation)
	if err != nil {
		ve, _ := inputval.AsValidation(err)
		viewdata.JSON(w, http.StatusUnprocessableEntity, viewdata.ErrorVM{
			Error:  "Please check your message.",
			Fields: ve.Fields,
		})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "chat")
	defer cancel()

	reply, err := h.API.Chat(ctx, conv)
	if err != nil {
		h.Log.Warn("chat failed", zap.Int("turns", len(conv)), zap.Error(err))
		viewdata.JSON(w, http.StatusBadGateway, models.ChatReply{Reply: FailureReply})
		return
	}
	viewdata.JSON(w, http.StatusOK, reply)
}
