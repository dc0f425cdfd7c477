package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wallace-21/BirdNest/internal/domain/models"
	"github.com/wallace-21/BirdNest/internal/service/ai"
)

// ChatHandler exposes the chat relay and its health probe over HTTP.
type ChatHandler struct {
	provider *ai.Provider
	logger   *zap.Logger
}

// NewChatHandler constructs the HTTP handler adapter for the chat relay.
func NewChatHandler(provider *ai.Provider, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{provider: provider, logger: logger}
}

// Chat forwards a message to the AI agent. Provider failures come back
// inside a 200 envelope with success=false; only validation problems and
// a misconfigured provider map to HTTP errors.
func (h *ChatHandler) Chat(c *gin.Context) {
	start := time.Now()

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Message cannot be empty or whitespace only"})
		return
	}

	agent, err := h.provider.Agent()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "AI Agent service is currently unavailable"})
		return
	}

	result := agent.Query(c.Request.Context(), req.Message, req.WantsRetrieval())

	processingTime := time.Since(start).Seconds()

	// Analytics logging happens after the response; its failure must not
	// affect the reply already sent.
	go h.logConversation(req.Message, result, req.SessionID, processingTime)

	c.JSON(http.StatusOK, models.ChatResponse{
		Success:        result.Success,
		Responses:      result.Responses,
		MessageCount:   result.MessageCount,
		OriginalQuery:  result.OriginalQuery,
		Error:          result.Error,
		Timestamp:      time.Now().UTC(),
		ProcessingTime: processingTime,
	})
}

// Health reports relay availability. Always 200; the body carries the
// actual status.
func (h *ChatHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.Health())
}

func (h *ChatHandler) logConversation(message string, result ai.QueryResult, sessionID string, processingTime float64) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("failed to log conversation", zap.Any("panic", r))
		}
	}()

	echo := []rune(message)
	if len(echo) > 100 {
		echo = echo[:100]
	}

	h.logger.Info("conversation logged",
		zap.String("message", string(echo)),
		zap.Bool("success", result.Success),
		zap.Int("response_count", result.MessageCount),
		zap.String("session_id", sessionID),
		zap.Float64("processing_time", processingTime))
}
