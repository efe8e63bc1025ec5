package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-booking-backend/logging"
	"clinic-booking-backend/models"
	"clinic-booking-backend/services"
)

type staticAnswerer struct {
	answer string
}

func (s staticAnswerer) Answer(context.Context, string) (string, error) {
	return s.answer, nil
}

func newChatTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logging.New("error")
	conversation := services.NewConversationService(
		services.NewDirectoryService(), staticAnswerer{answer: "Rest and hydrate."}, logger)
	sessions := services.NewSessionService(time.Hour, logger)
	history := services.NewHistoryService(nil, logger)
	controller := NewChatController(conversation, sessions, history, logger)

	router := gin.New()
	router.POST("/api/v1/chat", controller.HandleChat)
	router.GET("/api/v1/chat/history", controller.GetChatHistory)
	router.GET("/api/v1/intents", controller.GetSupportedIntents)

	t.Cleanup(sessions.Close)
	return router
}

func postChat(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeReply(t *testing.T, w *httptest.ResponseRecorder) models.ChatReply {
	t.Helper()
	var reply models.ChatReply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	return reply
}

func TestHandleChatRejectsMalformedBody(t *testing.T) {
	router := newChatTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request format")
}

func TestHandleChatRejectsEmptyMessage(t *testing.T) {
	router := newChatTestRouter(t)

	for _, message := range []string{"", "   "} {
		w := postChat(t, router, models.ChatRequest{Message: message, SessionID: "s1"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "No message provided")
	}
}

func TestHandleChatEndReturnsSilentEnvelope(t *testing.T) {
	router := newChatTestRouter(t)

	w := postChat(t, router, models.ChatRequest{Message: "end", SessionID: "s1"})
	require.Equal(t, http.StatusOK, w.Code)

	reply := decodeReply(t, w)
	assert.True(t, reply.Silent)
	assert.Empty(t, reply.Reply)
	// The buttons field serializes as an empty array, never null.
	assert.Contains(t, w.Body.String(), `"buttons":[]`)
}

func TestHandleChatMultiTurnSession(t *testing.T) {
	router := newChatTestRouter(t)

	w := postChat(t, router, models.ChatRequest{Message: "hi", SessionID: "s1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hi there! May I know your name?", decodeReply(t, w).Reply)

	w = postChat(t, router, models.ChatRequest{Message: "John", SessionID: "s1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeReply(t, w).Reply, "Hi John!")

	w = postChat(t, router, models.ChatRequest{Message: "john@x.com", SessionID: "s1"})
	require.Equal(t, http.StatusOK, w.Code)

	reply := decodeReply(t, w)
	assert.Contains(t, reply.Reply, "book an appointment or ask a medical-related question")
	require.Len(t, reply.Buttons, 3)
	assert.True(t, reply.HideInput)
}

func TestHandleChatSessionsAreIsolated(t *testing.T) {
	router := newChatTestRouter(t)

	postChat(t, router, models.ChatRequest{Message: "hi", SessionID: "s1"})
	postChat(t, router, models.ChatRequest{Message: "John", SessionID: "s1"})

	// A different session is still at the very beginning.
	w := postChat(t, router, models.ChatRequest{Message: "hi", SessionID: "s2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hi there! May I know your name?", decodeReply(t, w).Reply)
}

func TestHandleChatMedicalFlagInEnvelope(t *testing.T) {
	router := newChatTestRouter(t)

	for _, message := range []string{"hi", "John", "john@x.com"} {
		postChat(t, router, models.ChatRequest{Message: message, SessionID: "s1"})
	}

	w := postChat(t, router, models.ChatRequest{Message: "medical_inquiry", SessionID: "s1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeReply(t, w).IsMedicalInquiry)

	w = postChat(t, router, models.ChatRequest{Message: "What causes leg pain?", SessionID: "s1"})
	reply := decodeReply(t, w)
	assert.True(t, reply.IsMedicalInquiry)
	assert.Equal(t, "Rest and hydrate.", reply.Reply)

	w = postChat(t, router, models.ChatRequest{Message: "return_back", SessionID: "s1"})
	assert.False(t, decodeReply(t, w).IsMedicalInquiry)
}

func TestGetChatHistoryUnavailableWithoutDatabase(t *testing.T) {
	router := newChatTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/history?session_id=s1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetSupportedIntents(t *testing.T) {
	router := newChatTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/intents", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Intents []struct {
			Intent string `json:"intent"`
		} `json:"intents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Intents, 4)

	names := make([]string, 0, len(body.Intents))
	for _, intent := range body.Intents {
		names = append(names, intent.Intent)
	}
	assert.ElementsMatch(t, []string{"greeting", "appointment", "medical_query", "control"}, names)
}
