package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clinic-booking-backend/logging"
	"clinic-booking-backend/middleware"
	"clinic-booking-backend/models"
	"clinic-booking-backend/services"
)

type ChatController struct {
	conversation *services.ConversationService
	sessions     *services.SessionService
	history      *services.HistoryService
	logger       *logging.Logger
}

func NewChatController(conversation *services.ConversationService, sessions *services.SessionService, history *services.HistoryService, logger *logging.Logger) *ChatController {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatController{
		conversation: conversation,
		sessions:     sessions,
		history:      history,
		logger:       logger,
	}
}

// HandleChat processes one chat turn and returns the reply envelope.
func (cc *ChatController) HandleChat(c *gin.Context) {
	var req models.ChatRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No message provided"})
		return
	}

	sessionID := cc.resolveSessionID(c, req.SessionID)

	var reply *models.ChatReply
	var stage int
	cc.sessions.Do(sessionID, func(state *models.ConversationState) {
		reply = cc.conversation.HandleMessage(c.Request.Context(), state, req.Message)
		stage = state.Stage
	})

	channel := req.Channel
	if channel == "" {
		channel = models.ChannelWeb
	}
	// Transcript write is best effort and must not delay the reply.
	go cc.history.Record(context.Background(), &models.Message{
		SessionID:   sessionID,
		UserMessage: req.Message,
		BotResponse: reply.Reply,
		Intent:      cc.conversation.DetectIntent(req.Message),
		Stage:       stage,
		Channel:     channel,
	})

	c.JSON(http.StatusOK, reply)
}

// GetChatHistory retrieves the persisted transcript for a session.
func (cc *ChatController) GetChatHistory(c *gin.Context) {
	if !cc.history.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Transcript persistence is not enabled"})
		return
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		sessionID = c.GetString(middleware.SessionIDKey)
	}
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	history, err := cc.history.RecentBySession(c.Request.Context(), sessionID, limit)
	if err != nil {
		cc.logger.Error("failed to retrieve chat history", "error", err, "session_id", sessionID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve chat history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": history,
		"count":   len(history),
	})
}

// GetSupportedIntents returns the message kinds the assistant understands.
func (cc *ChatController) GetSupportedIntents(c *gin.Context) {
	intents := []map[string]interface{}{
		{
			"intent":      "greeting",
			"description": "Say hello and restart the current prompt",
			"examples":    []string{"hello", "hi", "good morning"},
		},
		{
			"intent":      "appointment",
			"description": "Book an appointment with a specialist",
			"examples": []string{
				"book appointment",
				"I need to see a doctor",
				"schedule a visit",
			},
		},
		{
			"intent":      "medical_query",
			"description": "Ask a general medical question",
			"examples": []string{
				"What causes leg pain?",
				"How to treat a headache?",
				"Is fever dangerous?",
			},
		},
		{
			"intent":      "control",
			"description": "Conversation control messages",
			"examples":    []string{"start", "end", "return_back"},
		},
	}

	c.JSON(http.StatusOK, gin.H{"intents": intents})
}

func (cc *ChatController) resolveSessionID(c *gin.Context, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	if fromCookie := c.GetString(middleware.SessionIDKey); fromCookie != "" {
		return fromCookie
	}
	return uuid.NewString()
}
