package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"clinic-booking-backend/logging"
	"clinic-booking-backend/models"
	"clinic-booking-backend/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Configure properly for production
	},
}

type WebSocketController struct {
	conversation *services.ConversationService
	sessions     *services.SessionService
	history      *services.HistoryService
	logger       *logging.Logger
}

func NewWebSocketController(conversation *services.ConversationService, sessions *services.SessionService, history *services.HistoryService, logger *logging.Logger) *WebSocketController {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebSocketController{
		conversation: conversation,
		sessions:     sessions,
		history:      history,
		logger:       logger,
	}
}

// HandleWebSocket runs the chat over a websocket: one ChatRequest per frame
// in, one reply envelope per frame out. The whole connection shares a single
// session.
func (wc *WebSocketController) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		wc.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sessionID := c.Query("session_id")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	for {
		var req models.ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wc.logger.Error("websocket read failed", "error", err, "session_id", sessionID)
			}
			break
		}

		if strings.TrimSpace(req.Message) == "" {
			conn.WriteJSON(map[string]interface{}{"error": "No message provided"})
			continue
		}

		var reply *models.ChatReply
		var stage int
		wc.sessions.Do(sessionID, func(state *models.ConversationState) {
			reply = wc.conversation.HandleMessage(c.Request.Context(), state, req.Message)
			stage = state.Stage
		})

		go wc.history.Record(context.Background(), &models.Message{
			SessionID:   sessionID,
			UserMessage: req.Message,
			BotResponse: reply.Reply,
			Intent:      wc.conversation.DetectIntent(req.Message),
			Stage:       stage,
			Channel:     models.ChannelWebSocket,
		})

		if err := conn.WriteJSON(reply); err != nil {
			wc.logger.Error("websocket write failed", "error", err, "session_id", sessionID)
			break
		}
	}
}
