// internal/app/system/ezraapi/chat.go
package ezraapi

import (
	"context"
	"net/http"

	"github.com/dalemusser/ezraportal/internal/domain/models"
)

// Chat forwards a conversation to the assistant. The upstream endpoint is
// public, so no token is sent.
func (c *Client) Chat(ctx context.Context, conversation []models.ChatMessage) (models.ChatReply, error) {
	var out models.ChatReply
	err := c.do(ctx, nil, call{
		resource: ResourceChat,
		method:   http.MethodPost,
		path:     "/api/chat",
		body:     models.ChatRequest{Conversation: conversation},
		out:      &out,
		public:   true,
	})
	return out, err
}
