package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"typeforge/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas base.
func NewRouter(
	logger *zap.Logger,
	assessmentH *AssessmentHandler,
	careerH *CareerHandler,
	adminH *AdminHandler,
	tokens *service.TokenService,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	assessment := r.Group("/assessment")
	assessment.GET("/questions", assessmentH.ListQuestions)
	assessment.POST("/sessions", assessmentH.StartSession)

	sessions := assessment.Group("/sessions/:token")
	sessions.GET("/state", assessmentH.GetState)
	sessions.POST("/answers", assessmentH.SubmitAnswer)
	sessions.POST("/cluster-ratings", assessmentH.SubmitClusterRatings)
	sessions.POST("/tie-breaker", assessmentH.ResolveTies)
	sessions.POST("/rating", assessmentH.RateAssessment)
	sessions.POST("/transitions", assessmentH.Transition)
	sessions.GET("/results", assessmentH.GetResults)
	sessions.GET("/careers", careerH.Recommendations)

	careers := r.Group("/careers")
	careers.GET("/clusters", careerH.ListClusters)

	admin := r.Group("/admin")
	admin.POST("/login", adminH.Login)
	admin.POST("/refresh", adminH.Refresh)
	admin.POST("/logout", adminH.Logout)

	protected := admin.Group("")
	protected.Use(JWTAuthMiddleware(tokens))
	protected.GET("/sessions", adminH.ListSessions)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
