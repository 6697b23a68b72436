// internal/domain/models/chat.go
package models

// ChatMessage is one turn of an assistant conversation.
type ChatMessage struct {
	Role    string `json:"role"` // user | assistant
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Conversation []ChatMessage `json:"conversation"`
}

// ChatReply is the response of POST /api/chat.
type ChatReply struct {
	Reply string `json:"reply"`
}
