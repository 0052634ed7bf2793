package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
	"github.com/madmonkey007/EchoListenultra/domain/repositories"
	"github.com/madmonkey007/EchoListenultra/internal/auth"
	"github.com/madmonkey007/EchoListenultra/internal/websocket"
	"github.com/madmonkey007/EchoListenultra/usecase"
)

// Upload cap for session audio.
const maxAudioBytes = 64 << 20 // 64MB

// Handlers bundles the services behind the HTTP surface.
type Handlers struct {
	users  *usecase.UserService
	imp    *usecase.ImportService
	vocab  *usecase.VocabularyService
	issuer *auth.TokenIssuer
	logger *zap.Logger
}

// NewHandlers creates the API handler set
func NewHandlers(
	users *usecase.UserService,
	imp *usecase.ImportService,
	vocab *usecase.VocabularyService,
	issuer *auth.TokenIssuer,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		users:  users,
		imp:    imp,
		vocab:  vocab,
		issuer: issuer,
		logger: logger,
	}
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, h *Handlers, hub *websocket.Hub) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "echolisten-server",
		})
	})

	// API v1 routes
	v1 := e.Group("/api/v1")

	// User Management APIs
	v1.POST("/users/register", h.userRegister)
	v1.POST("/users/login", h.userLogin)

	// Study Session APIs
	sessions := v1.Group("/sessions", h.requireAuth)
	sessions.POST("", h.createSession)
	sessions.GET("", h.listSessions)
	sessions.GET("/:id", h.getSession)
	sessions.DELETE("/:id", h.deleteSession)
	sessions.GET("/:id/turns", h.getSessionTurns)
	sessions.GET("/:id/audio", h.getSessionAudio)

	// Vocabulary APIs
	vocab := v1.Group("/vocabulary", h.requireAuth)
	vocab.GET("/due", h.listDueWords)
	vocab.GET("/:word", h.lookupWord)
	vocab.POST("/:word/review", h.reviewWord)
	vocab.GET("/:word/speech", h.wordSpeech)

	// WebSocket endpoint with JWT validation
	e.GET("/ws", func(c echo.Context) error {
		return h.websocketWithAuth(hub, c)
	})
}

// requireAuth validates the bearer token and stashes the user ID in the
// echo context.
func (h *Handlers) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "missing_token",
				Message: "JWT token is required in Authorization header",
			})
		}

		claims, err := h.issuer.ValidateToken(token)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "invalid_token",
				Message: "Invalid or expired JWT token",
			})
		}
		c.Set("userID", claims.UserID)
		return next(c)
	}
}

func bearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	// Browsers cannot set headers on websocket upgrades, so the token
	// may ride in the query string instead.
	return c.QueryParam("token")
}

func userID(c echo.Context) string {
	id, _ := c.Get("userID").(string)
	return id
}

func (h *Handlers) userRegister(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	user, token, err := h.users.Register(c.Request().Context(), req.Email, req.Name, req.Password)
	if err != nil {
		h.logger.Warn("Registration failed", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "registration_failed",
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusCreated, AuthResponse{Token: token, User: user})
}

func (h *Handlers) userLogin(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	user, token, err := h.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_failed",
			Message: "Invalid email or password",
		})
	}
	return c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

// createSession accepts a multipart upload: an "audio" file part plus
// title, language and slicing policy form fields.
func (h *Handlers) createSession(c echo.Context) error {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_audio",
			Message: "An audio file part is required",
		})
	}
	if fileHeader.Size > maxAudioBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "audio_too_large",
			Message: "Audio upload exceeds the size limit",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_audio",
			Message: "Failed to open audio part",
		})
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_audio",
			Message: "Failed to read audio part",
		})
	}

	policy, err := parsePolicy(c.FormValue("policy_kind"), c.FormValue("policy_value"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_policy",
			Message: err.Error(),
		})
	}

	duration, _ := strconv.ParseFloat(c.FormValue("duration"), 64)
	sampleRate, _ := strconv.Atoi(c.FormValue("sample_rate"))
	if sampleRate == 0 {
		sampleRate = 16000
	}
	language := c.FormValue("language")
	if language == "" {
		language = "en-US"
	}
	encoding := c.FormValue("encoding")
	if encoding == "" {
		encoding = "LINEAR16"
	}

	session, err := h.imp.Import(c.Request().Context(), usecase.ImportRequest{
		UserID:   userID(c),
		Title:    c.FormValue("title"),
		Language: language,
		Policy:   policy,
		Audio:    audio,
		AudioConfig: repositories.AudioConfig{
			SampleRate: sampleRate,
			Encoding:   encoding,
			Language:   language,
		},
		Duration: duration,
	})
	if err != nil {
		h.logger.Error("Session import failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "import_failed",
			Message: "Failed to import session",
		})
	}
	return c.JSON(http.StatusCreated, session)
}

// parsePolicy builds a slicing policy from form fields, defaulting to
// one segment per speaker turn.
func parsePolicy(kind, value string) (entities.SlicingPolicy, error) {
	if kind == "" {
		return entities.TurnPolicy(1), nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return entities.SlicingPolicy{}, fmt.Errorf("policy_value must be an integer")
	}

	var policy entities.SlicingPolicy
	switch entities.PolicyKind(kind) {
	case entities.PolicyTurns:
		policy = entities.TurnPolicy(n)
	case entities.PolicyDuration:
		policy = entities.DurationPolicy(n)
	default:
		return entities.SlicingPolicy{}, fmt.Errorf("unknown policy_kind %q", kind)
	}
	if err := policy.Validate(); err != nil {
		return entities.SlicingPolicy{}, err
	}
	return policy, nil
}

func (h *Handlers) listSessions(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	sessions, err := h.imp.ListSessions(c.Request().Context(), userID(c), limit)
	if err != nil {
		h.logger.Error("Failed to list sessions", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error"})
	}
	return c.JSON(http.StatusOK, sessions)
}

func (h *Handlers) getSession(c echo.Context) error {
	session, err := h.imp.GetSession(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to load session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error"})
	}
	if session == nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Session not found",
		})
	}
	return c.JSON(http.StatusOK, session)
}

func (h *Handlers) deleteSession(c echo.Context) error {
	if err := h.imp.DeleteSession(c.Request().Context(), userID(c), c.Param("id")); err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Session not found",
		})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handlers) getSessionTurns(c echo.Context) error {
	turns, err := h.imp.SessionTurns(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Session not found",
		})
	}
	return c.JSON(http.StatusOK, turns)
}

func (h *Handlers) getSessionAudio(c echo.Context) error {
	audio, err := h.imp.SessionAudio(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Session not found",
		})
	}
	return c.Blob(http.StatusOK, "application/octet-stream", audio)
}

func (h *Handlers) listDueWords(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	entries, err := h.vocab.Due(c.Request().Context(), userID(c), limit)
	if err != nil {
		h.logger.Error("Failed to list due words", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error"})
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handlers) lookupWord(c echo.Context) error {
	language := c.QueryParam("language")
	if language == "" {
		language = "en-US"
	}
	entry, err := h.vocab.Lookup(c.Request().Context(), userID(c), c.Param("word"), language)
	if err != nil {
		h.logger.Error("Word lookup failed",
			zap.String("word", c.Param("word")),
			zap.Error(err))
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "lookup_failed",
			Message: "Failed to analyze word",
		})
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *Handlers) reviewWord(c echo.Context) error {
	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	entry, err := h.vocab.Review(c.Request().Context(), userID(c), c.Param("word"), req.Known)
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, entry)
}

// wordSpeech streams pronunciation audio chunk by chunk.
func (h *Handlers) wordSpeech(c echo.Context) error {
	chunks, err := h.vocab.Pronounce(c.Request().Context(), c.Param("word"))
	if err != nil {
		h.logger.Error("Pronunciation failed",
			zap.String("word", c.Param("word")),
			zap.Error(err))
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "speech_failed",
			Message: "Failed to synthesize pronunciation",
		})
	}

	c.Response().Header().Set(echo.HeaderContentType, "audio/mpeg")
	c.Response().WriteHeader(http.StatusOK)
	for chunk := range chunks {
		if _, err := c.Response().Write(chunk); err != nil {
			return err
		}
		c.Response().Flush()
	}
	return nil
}

// websocketWithAuth handles WebSocket connections with JWT authentication
func (h *Handlers) websocketWithAuth(hub *websocket.Hub, c echo.Context) error {
	token := bearerToken(c)
	if token == "" {
		h.logger.Warn("WebSocket connection rejected: missing token")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_token",
			Message: "JWT token is required",
		})
	}

	claims, err := h.issuer.ValidateToken(token)
	if err != nil {
		h.logger.Warn("WebSocket connection rejected: invalid token", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired JWT token",
		})
	}

	h.logger.Info("WebSocket connection authenticated",
		zap.String("userID", claims.UserID))

	return websocket.HandleWebSocket(hub, c, claims.UserID, h.logger)
}
