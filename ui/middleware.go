package ui

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"salesboard/domain/core"
	"salesboard/internal/logger"
)

// RunIDHeader carries the identifier of the run that served a request.
const RunIDHeader = "X-Run-ID"

const runIDKey = "run_id"

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery(), RunID(), RequestLogger(s.log))

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		s.log.Warnw("static assets unavailable", "error", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// RunID assigns every request a run identifier. A well-formed X-Run-ID sent by the
// client is kept so a caller can correlate its request with the server logs.
func RunID() gin.HandlerFunc {
	return func(c *gin.Context) {
		runID, err := core.ParseRunID(c.GetHeader(RunIDHeader))
		if err != nil {
			runID = core.NewRunID()
		}
		c.Set(runIDKey, runID)
		c.Header(RunIDHeader, runID.String())
		c.Next()
	}
}

// RequestLogger logs one line per request once the handler chain has finished.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
			"run_id", runIDFrom(c).String(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Errorw("request failed", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warnw("request rejected", fields...)
		default:
			log.Infow("request served", fields...)
		}
	}
}

func runIDFrom(c *gin.Context) core.RunID {
	if v, ok := c.Get(runIDKey); ok {
		if id, ok := v.(core.RunID); ok {
			return id
		}
	}
	return core.NewRunID()
}
