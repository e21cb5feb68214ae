package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"typeforge/internal/domain"
	"typeforge/internal/service"
)

// AssessmentHandler mantiene dependencias para los endpoints del flujo
// de evaluacion.
type AssessmentHandler struct {
	logger      *zap.Logger
	assessments *service.AssessmentService
	limiter     service.SubmissionRateLimiter
}

func NewAssessmentHandler(logger *zap.Logger, assessments *service.AssessmentService, limiter service.SubmissionRateLimiter) *AssessmentHandler {
	return &AssessmentHandler{
		logger:      logger,
		assessments: assessments,
		limiter:     limiter,
	}
}

// StartSession maneja POST /assessment/sessions.
func (h *AssessmentHandler) StartSession(c *gin.Context) {
	var req struct {
		StudentName  string `json:"student_name"`
		StudentEmail string `json:"student_email"`
		Mode         string `json:"deployment_mode"`
		Language     string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		h.logger.Warn("invalid start session request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	session, err := h.assessments.StartSession(c.Request.Context(), service.StartSessionInput{
		StudentName:  req.StudentName,
		StudentEmail: req.StudentEmail,
		Mode:         req.Mode,
		Language:     req.Language,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// ListQuestions maneja GET /assessment/questions. Sin ?lang devuelve
// los registros bilingues completos; con ?lang=en|ar devuelve la vista
// localizada.
func (h *AssessmentHandler) ListQuestions(c *gin.Context) {
	if lang := c.Query("lang"); lang != "" {
		views, err := h.assessments.GetLocalizedQuestions(c.Request.Context(), lang)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"questions": views, "total": len(views)})
		return
	}

	questions, err := h.assessments.GetQuestions(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions, "total": len(questions)})
}

// GetState maneja GET /assessment/sessions/:token/state.
func (h *AssessmentHandler) GetState(c *gin.Context) {
	info, err := h.assessments.GetCurrentStateInfo(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// SubmitAnswer maneja POST /assessment/sessions/:token/answers.
func (h *AssessmentHandler) SubmitAnswer(c *gin.Context) {
	token := c.Param("token")
	if h.limiter != nil && !h.limiter.Allow(token) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many submissions"})
		return
	}

	var req struct {
		QuestionID     string `json:"question_id" binding:"required"`
		SelectedOption string `json:"selected_option" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid answer request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	progress, err := h.assessments.ProcessAnswerSubmission(c.Request.Context(), token, req.QuestionID, req.SelectedOption)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": progress})
}

// SubmitClusterRatings maneja POST /assessment/sessions/:token/cluster-ratings.
func (h *AssessmentHandler) SubmitClusterRatings(c *gin.Context) {
	token := c.Param("token")
	if h.limiter != nil && !h.limiter.Allow(token) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many submissions"})
		return
	}

	var req struct {
		Ratings []service.ClusterRatingInput `json:"ratings" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid cluster rating request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.assessments.ProcessClusterRatingSubmission(c.Request.Context(), token, req.Ratings)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, transitionBody(result))
}

// ResolveTies maneja POST /assessment/sessions/:token/tie-breaker.
func (h *AssessmentHandler) ResolveTies(c *gin.Context) {
	var req struct {
		Resolutions map[string]string `json:"resolutions" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid tie breaker request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.assessments.ProcessTieBreakerResolution(c.Request.Context(), c.Param("token"), req.Resolutions)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": result.Session})
}

// RateAssessment maneja POST /assessment/sessions/:token/rating.
func (h *AssessmentHandler) RateAssessment(c *gin.Context) {
	var req struct {
		Rating int `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid assessment rating request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.assessments.ProcessAssessmentRating(c.Request.Context(), c.Param("token"), req.Rating)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": result.Session})
}

// Transition maneja POST /assessment/sessions/:token/transitions para
// clientes que manejan el flujo de forma explicita.
func (h *AssessmentHandler) Transition(c *gin.Context) {
	var req struct {
		Target           string            `json:"target" binding:"required"`
		TieResolutions   map[string]string `json:"tie_resolutions"`
		AssessmentRating int               `json:"assessment_rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid transition request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	payload := service.TransitionPayload{AssessmentRating: req.AssessmentRating}
	if len(req.TieResolutions) > 0 {
		parsed, err := parseResolutions(req.TieResolutions)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		payload.TieResolutions = parsed
	}

	result, err := h.assessments.AttemptTransition(c.Request.Context(), c.Param("token"), req.Target, payload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, transitionBody(result))
}

// transitionBody arma la respuesta de una transicion; cuando el
// calculo corrio, ties_pending le indica al cliente si debe pasar por
// la etapa de desempate.
func transitionBody(result service.TransitionResult) gin.H {
	body := gin.H{"session": result.Session, "result": result.Result}
	if result.Result != nil {
		body["ties_pending"] = result.Result.HasTies()
	}
	return body
}

func parseResolutions(raw map[string]string) (map[domain.Dimension]string, error) {
	out := make(map[domain.Dimension]string, len(raw))
	for k, v := range raw {
		d, err := domain.ParseDimension(k)
		if err != nil {
			return nil, domain.Validationf("%v", err)
		}
		out[d] = v
	}
	return out, nil
}

// GetResults maneja GET /assessment/sessions/:token/results.
func (h *AssessmentHandler) GetResults(c *gin.Context) {
	view, err := h.assessments.GetResults(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
