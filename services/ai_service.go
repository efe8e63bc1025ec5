package services

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"clinic-booking-backend/config"
	"clinic-booking-backend/logging"
)

// MedicalFallbackReply is returned verbatim whenever the Q&A provider cannot
// produce an answer. The conversation keeps going; the user just retries.
const MedicalFallbackReply = "Sorry, I couldn't process your medical question at this time. Please try again or ask another question."

const medicalSystemPrompt = "You are a medical information assistant. Provide accurate and concise answers " +
	"to medical-related questions, limiting responses to approximately 10 lines. Do not provide personal " +
	"medical advice or diagnoses, but offer general information. If the question is unclear or not " +
	"medical-related, politely redirect the user to ask a relevant medical question."

// AIService answers free-text medical questions through an OpenAI-compatible
// chat-completions endpoint (Groq by default). Provider failures are absorbed
// into the fixed fallback reply so callers never see a hard error.
type AIService struct {
	client    openai.Client
	model     string
	maxTokens int64
	timeout   time.Duration
	enabled   bool
	logger    *logging.Logger
}

func NewAIService(cfg config.AIConfig, logger *logging.Logger) *AIService {
	if logger == nil {
		logger = logging.Default()
	}

	if cfg.APIKey == "" {
		logger.Warn("GROQ_API_KEY not set, medical Q&A will answer with the fallback reply")
		return &AIService{enabled: false, logger: logger}
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &AIService{
		client:    openai.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
		timeout:   timeout,
		enabled:   true,
		logger:    logger,
	}
}

// Answer forwards a medical question to the provider and returns a short,
// general, non-diagnostic answer. Any provider or transport failure yields
// MedicalFallbackReply instead of an error.
func (s *AIService) Answer(ctx context.Context, question string) (string, error) {
	if !s.enabled {
		return MedicalFallbackReply, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(s.model),
		MaxTokens: openai.Int(s.maxTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(medicalSystemPrompt),
			openai.UserMessage(question),
		},
	})
	if err != nil {
		s.logger.Error("medical Q&A request failed", "error", err)
		return MedicalFallbackReply, nil
	}

	if len(resp.Choices) == 0 {
		s.logger.Error("medical Q&A returned no choices")
		return MedicalFallbackReply, nil
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return MedicalFallbackReply, nil
	}
	return answer, nil
}
