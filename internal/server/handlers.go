package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kapu/anti-portfolio-go/internal/constants"
	"github.com/kapu/anti-portfolio-go/internal/domain"
	"github.com/kapu/anti-portfolio-go/internal/manifest"
	"github.com/kapu/anti-portfolio-go/internal/util"
	"github.com/kapu/anti-portfolio-go/pkg/errors"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
}

type startSessionRequest struct {
	PreviousID string `json:"previous_session_id"`
}

type healthResponse struct {
	Status       string                     `json:"status"`
	ModelEnabled bool                       `json:"model_enabled"`
	Provider     string                     `json:"provider,omitempty"`
	Model        string                     `json:"model,omitempty"`
	Circuit      *util.CircuitBreakerStatus `json:"circuit,omitempty"`
	Uptime       string                     `json:"uptime"`
}

func (s *Server) handleHealth(c *gin.Context) {
	resp := healthResponse{
		Status:       "ok",
		ModelEnabled: s.deps.Generator.ModelEnabled(),
		Uptime:       time.Since(s.startTime).Round(time.Second).String(),
	}
	if resp.ModelEnabled {
		resp.Provider = s.deps.Provider
		resp.Model = s.deps.Model
	}
	if s.deps.CircuitStatus != nil {
		resp.Circuit = s.deps.CircuitStatus()
	}
	c.JSON(http.StatusOK, resp)
}

// handleGenerate never fails once the input is accepted: the model path
// degrades to the procedural generator inside the service.
func (s *Server) handleGenerate(c *gin.Context) {
	var input domain.QuestionnaireInput
	if err := c.ShouldBindJSON(&input); err != nil {
		s.respondError(c, errors.NewRequestError("request body must be a JSON questionnaire object", ""))
		return
	}
	if !input.HasName() {
		s.respondError(c, errors.NewRequestError("fullName is required", domain.FieldFullName))
		return
	}

	sessionID := c.GetHeader(constants.HTTPHeaders.SessionID)
	if sessionID != "" {
		if _, err := s.deps.Sessions.Load(c.Request.Context(), sessionID); err != nil {
			s.respondError(c, err)
			return
		}
	}

	gen := s.deps.Generator.Generate(c.Request.Context(), input)

	if sessionID != "" {
		if _, err := s.deps.Sessions.Save(c.Request.Context(), sessionID, gen); err != nil {
			// 결과는 이미 생성됨. 저장 실패는 로그만 남긴다.
			s.logger.Warn("Failed to save generation to session",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
		} else {
			c.Header(constants.HTTPHeaders.SessionID, sessionID)
		}
	}

	if gen.UsedFallback() {
		c.Header(constants.HTTPHeaders.GeneratedBy, constants.HTTPHeaders.FallbackMarker)
	}
	c.JSON(http.StatusOK, gen.Manifest)
}

func (s *Server) handleValidate(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		s.respondError(c, errors.NewRequestError("failed to read request body", ""))
		return
	}

	m, err := manifest.Import(body)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) handleStartSession(c *gin.Context) {
	var req startSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.respondError(c, errors.NewRequestError("request body must be a JSON object", ""))
			return
		}
	}
	if req.PreviousID == "" {
		req.PreviousID = c.GetHeader(constants.HTTPHeaders.SessionID)
	}

	sess, err := s.deps.Sessions.Start(c.Request.Context(), req.PreviousID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Header(constants.HTTPHeaders.SessionID, sess.ID)
	c.JSON(http.StatusCreated, sessionResponse{SessionID: sess.ID})
}

func (s *Server) handleSessionManifest(c *gin.Context) {
	m, err := s.deps.Sessions.LoadManifest(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) handleSessionExport(c *gin.Context) {
	m, err := s.deps.Sessions.LoadManifest(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	data, err := manifest.Export(m)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+constants.HTTPHeaders.ExportFilename+`"`)
	c.Data(http.StatusOK, constants.HTTPHeaders.ContentTypeJSON, data)
}

func (s *Server) handleEndSession(c *gin.Context) {
	if err := s.deps.Sessions.End(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondError answers with the status err's type maps to. Server-side
// failures are attached to the context for the request logger and never
// echoed to the caller.
func (s *Server) respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, errorResponse{Error: errors.Message(err), Field: errors.Field(err)})
}
