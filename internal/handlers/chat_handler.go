package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/swipecoach/backend/internal/middleware"
	"github.com/swipecoach/backend/internal/services"
	"github.com/swipecoach/backend/pkg/llm"
)

// ChatHandler handles assistant chat HTTP requests
type ChatHandler struct {
	chatService *services.ChatService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type chatTurn struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

type chatRequest struct {
	History    []chatTurn `json:"history"`
	NewMessage string     `json:"newMessage"`
}

// Respond handles POST /chat
func (h *ChatHandler) Respond(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	message := strings.TrimSpace(req.NewMessage)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "newMessage is required"})
		return
	}

	// Only well-formed prior turns are forwarded to the model.
	history := make([]llm.ChatMessage, 0, len(req.History))
	for _, turn := range req.History {
		author := strings.ToLower(strings.TrimSpace(turn.Author))
		if author != "user" && author != "assistant" {
			continue
		}
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		history = append(history, llm.ChatMessage{Author: author, Content: content})
	}

	reply, err := h.chatService.Respond(c.Request.Context(), user.ID, history, message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}
