package chat_http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"cisnr-assistant/internal/domain"
	"cisnr-assistant/internal/usecase"
)

const (
	serviceName    = "CISNR Research Assistant"
	serviceVersion = "1.0.0"
	responseSource = "cisnr-rag-system"

	// unavailableAnswer is the degraded-mode reply, distinct from the
	// per-request fallback answer produced by the pipeline.
	unavailableAnswer = "I apologize, but the research assistant system is currently unavailable. Please try again later."
)

// Dependencies reports which provider credentials were configured,
// for the health document.
type Dependencies struct {
	GoogleAPI bool
	Pinecone  bool
}

// Handler serves the chat API. A nil answer usecase puts the handler
// in degraded mode: every chat request is rejected before any
// provider is touched.
type Handler struct {
	answer usecase.AnswerUsecase
	deps   Dependencies
	logger *slog.Logger
}

func NewHandler(answer usecase.AnswerUsecase, deps Dependencies, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		answer: answer,
		deps:   deps,
		logger: logger,
	}
}

// Register wires the public routes.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/chat", h.Chat)
	e.GET("/api/health", h.Health)
	e.GET("/api/resources", h.Resources)
}

type chatRequest struct {
	// Message is a pointer so a missing field and an empty one can be
	// rejected with distinct errors.
	Message   *string `json:"message"`
	Role      string  `json:"role"`
	UserID    string  `json:"user_id"`
	SessionID string  `json:"session_id"`
}

type chatResponse struct {
	Question  string `json:"question"`
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
}

// Chat answers one question.
// (POST /chat)
func (h *Handler) Chat(ctx echo.Context) error {
	if h.answer == nil {
		return ctx.JSON(http.StatusServiceUnavailable, map[string]string{
			"error":    "RAG system is not available",
			"response": unavailableAnswer,
		})
	}

	var req chatRequest
	if err := ctx.Bind(&req); err != nil || req.Message == nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Message is required"})
	}

	message := strings.TrimSpace(*req.Message)
	if message == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Message cannot be empty"})
	}

	user := &domain.UserContext{
		Role:      valueOr(req.Role, domain.DefaultRole),
		UserID:    valueOr(req.UserID, "unknown"),
		SessionID: valueOr(req.SessionID, "unknown"),
	}

	requestID := uuid.NewString()
	h.logger.Info("chat_message_received",
		slog.String("request_id", requestID),
		slog.String("user_id", user.UserID),
		slog.String("role", user.Role),
		slog.Int("message_length", len(message)))

	output := h.answer.Execute(ctx.Request().Context(), usecase.AnswerInput{
		Question: message,
		User:     user,
	})
	if output.Fallback {
		h.logger.Warn("chat_answered_with_fallback", slog.String("request_id", requestID))
	}

	return ctx.JSON(http.StatusOK, chatResponse{
		Question:  message,
		Response:  output.Answer,
		Timestamp: time.Now().Format(time.RFC3339),
		Source:    responseSource,
	})
}

// Health reports service status and dependency configuration.
// (GET /api/health)
func (h *Handler) Health(ctx echo.Context) error {
	status := "healthy"
	code := http.StatusOK
	if h.answer == nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	return ctx.JSON(code, map[string]any{
		"status":    status,
		"service":   serviceName,
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   serviceVersion,
		"dependencies": map[string]bool{
			"rag_system": h.answer != nil,
			"google_api": h.deps.GoogleAPI,
			"pinecone":   h.deps.Pinecone,
		},
	})
}

type resource struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

var researchResources = []resource{
	{
		Title:       "Research Publications",
		URL:         "/publications",
		Icon:        "file-pdf",
		Category:    "academic",
		Description: "Access our latest research papers and publications",
	},
	{
		Title:       "Academic Programs",
		URL:         "/programs",
		Icon:        "graduation-cap",
		Category:    "education",
		Description: "Learn about our academic offerings and collaborations",
	},
	{
		Title:       "Research Team",
		URL:         "/team",
		Icon:        "users",
		Category:    "people",
		Description: "Meet our researchers and faculty members",
	},
	{
		Title:       "Facilities & Equipment",
		URL:         "/facilities",
		Icon:        "microscope",
		Category:    "infrastructure",
		Description: "Explore our laboratories and research equipment",
	},
}

// Resources lists the static research resources.
// (GET /api/resources)
func (h *Handler) Resources(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]any{
		"resources":    researchResources,
		"count":        len(researchResources),
		"last_updated": time.Now().Format("2006-01-02"),
	})
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
