// Package transport serves a finished run over HTTP: the aggregate
// summary, the per-target results and failures, and the raw artifacts.
package transport

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	apperrors "go-visual-diff/internal/errors"
	"go-visual-diff/internal/input"
	"go-visual-diff/internal/logger"
	"go-visual-diff/internal/report"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewHandler builds the results server for one run directory. The report
// is loaded once at startup; a run directory is immutable after the run.
func NewHandler(runDir string) (http.Handler, error) {
	rep, err := report.Load(runDir)
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/health", healthCheck)

	api := r.Group("/api")
	{
		api.GET("/report", func(c *gin.Context) {
			c.JSON(http.StatusOK, rep)
		})
		api.GET("/summary", func(c *gin.Context) {
			c.JSON(http.StatusOK, rep.Summary)
		})
		api.GET("/results", func(c *gin.Context) {
			c.JSON(http.StatusOK, rep.Results)
		})
		api.GET("/results/:target", resultByTarget(rep))
		api.GET("/failures", func(c *gin.Context) {
			c.JSON(http.StatusOK, rep.Failures)
		})
	}

	// Raw artifacts: /artifacts/baseline/<name>, /artifacts/diff/<name>, ...
	r.Static("/artifacts", runDir)

	return r, nil
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// resultByTarget looks a result up by its sanitized identifier or its raw
// path form.
func resultByTarget(rep *report.Report) gin.HandlerFunc {
	return func(c *gin.Context) {
		wanted := c.Param("target")
		for i := range rep.Results {
			r := &rep.Results[i]
			if r.Target == wanted || r.Target == "/"+wanted || input.Sanitize(r.Target) == wanted {
				c.JSON(http.StatusOK, r)
				return
			}
		}
		err := apperrors.NewNotFoundError("no result for target "+wanted, nil)
		c.JSON(apperrors.GetStatusCode(err), ErrorResponse{Error: "not_found", Message: err.Error()})
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"ip":       c.ClientIP(),
		}).Info("Handled request")
	}
}
