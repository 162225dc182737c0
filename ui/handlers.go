package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"salesboard/app"
	"salesboard/domain/sales"
	"salesboard/internal/config"
	"salesboard/internal/dashboard"
	"salesboard/internal/errors"
	"salesboard/internal/export"
	"salesboard/internal/narrative"
)

// Query parameters understood by the dashboard routes.
const (
	paramCountry  = "country"
	paramCategory = "category"
	paramTopN     = "top_n"
	paramPalette  = "palette"
	paramApplied  = "applied"
)

// dashboardPage is the view model of dashboard.html
type dashboardPage struct {
	*app.Dashboard
	SummaryHTML template.HTML
	ExportCSV   template.URL
	ExportXLSX  template.URL
}

// errorPage is the view model of error.html
type errorPage struct {
	Status  int
	Code    string
	Message string
	Fields  []string
	RunID   string
}

// parseSelection reads the sidebar state from the query string.
func parseSelection(c *gin.Context) (dashboard.Selection, error) {
	sel := dashboard.Selection{
		Countries:  c.QueryArray(paramCountry),
		Categories: c.QueryArray(paramCategory),
		Palette:    strings.TrimSpace(c.Query(paramPalette)),
		Explicit:   c.Query(paramApplied) == "1",
	}

	if raw := strings.TrimSpace(c.Query(paramTopN)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return sel, errors.InvalidInput(fmt.Sprintf("top_n must be an integer, got %q", raw))
		}
		if n == 0 {
			return sel, errors.InvalidInput(fmt.Sprintf("top_n must be between %d and %d, got 0", config.MinTopN, config.MaxTopN))
		}
		sel.TopN = n
	}
	return sel, nil
}

// run executes the pipeline for the request's selection.
func (s *Server) run(c *gin.Context) (*app.Dashboard, error) {
	req, err := parseSelection(c)
	if err != nil {
		return nil, err
	}
	return s.service.Run(c.Request.Context(), runIDFrom(c), req)
}

// handleIndex renders the full dashboard page
func (s *Server) handleIndex(c *gin.Context) {
	d, err := s.run(c)
	if err != nil {
		s.renderError(c, err)
		return
	}

	page := dashboardPage{
		Dashboard:  d,
		ExportCSV:  exportURL("/api/export.csv", c.Request.URL.RawQuery),
		ExportXLSX: exportURL("/api/export.xlsx", c.Request.URL.RawQuery),
	}
	if !d.Empty {
		page.SummaryHTML = narrative.HTML(d.Summary)
	}
	s.renderTemplate(c, http.StatusOK, "dashboard.html", page)
}

// handleDashboard returns the same run as JSON
func (s *Server) handleDashboard(c *gin.Context) {
	d, err := s.run(c)
	if err != nil {
		s.jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// exportURL carries the current selection over to an export route.
func exportURL(path, rawQuery string) template.URL {
	if rawQuery == "" {
		return template.URL(path)
	}
	return template.URL(path + "?" + rawQuery)
}

func (s *Server) handleExportCSV(c *gin.Context) {
	s.handleExport(c, "csv", export.ContentTypeCSV, export.CSV)
}

func (s *Server) handleExportXLSX(c *gin.Context) {
	s.handleExport(c, "xlsx", export.ContentTypeXLSX, export.XLSX)
}

func (s *Server) handleExport(c *gin.Context, ext, contentType string, write func(io.Writer, sales.Collection) error) {
	d, err := s.run(c)
	if err != nil {
		s.jsonError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, d.Rows); err != nil {
		appErr := errors.InternalError("failed to write " + ext + " export")
		appErr.Cause = err
		s.jsonError(c, appErr)
		return
	}

	filename := fmt.Sprintf("sales-%s.%s", d.RunID, ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// handleReload drops the cached dataset
func (s *Server) handleReload(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"invalidated": s.service.Reload()})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleNotFound answers unknown paths as JSON under /api and as the error page elsewhere.
func (s *Server) handleNotFound(c *gin.Context) {
	err := errors.NotFound(c.Request.URL.Path)
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		s.jsonError(c, err)
		return
	}
	s.renderError(c, err)
}

// coded gives errors from outside the application an INTERNAL_ERROR code.
func coded(err error) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.WithCode(errors.CodeInternalError, err)
}

func (s *Server) renderError(c *gin.Context, err error) {
	err = coded(err)
	status := errors.HTTPStatus(err)
	_ = c.Error(err)
	s.renderTemplate(c, status, "error.html", errorPage{
		Status:  status,
		Code:    errors.GetCode(err),
		Message: err.Error(),
		Fields:  errors.GetFields(err),
		RunID:   runIDFrom(c).String(),
	})
}

func (s *Server) jsonError(c *gin.Context, err error) {
	err = coded(err)
	status := errors.HTTPStatus(err)
	_ = c.Error(err)
	body := gin.H{"error": err.Error(), "code": errors.GetCode(err)}
	if fields := errors.GetFields(err); len(fields) > 0 {
		body["fields"] = fields
	}
	c.AbortWithStatusJSON(status, body)
}
