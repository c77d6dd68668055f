package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"claimscan/internal/service"
)

// bodyEnvelope is the allowance for JSON keys and template ids around the text.
const bodyEnvelope = 64 << 10

// BodyLimits caps request body sizes in bytes. Zero means no limit.
type BodyLimits struct {
	Document int64
	Batch    int64
}

// BodyLimitsFor derives body caps from the per-document text limit. JSON
// escaping can grow text, so one document may take twice maxTextBytes.
func BodyLimitsFor(maxTextBytes int64, maxBatchSize int) BodyLimits {
	if maxTextBytes <= 0 {
		return BodyLimits{}
	}
	limits := BodyLimits{Document: 2*maxTextBytes + bodyEnvelope}
	if maxBatchSize > 0 {
		limits.Batch = limits.Document * int64(maxBatchSize)
	}
	return limits
}

// ExtractionHandler handles extraction, detection and template endpoints.
type ExtractionHandler struct {
	extractionService service.ExtractionService
	limits            BodyLimits
	logger            *zap.Logger
}

// NewExtractionHandler creates a new ExtractionHandler.
func NewExtractionHandler(extractionService service.ExtractionService, limits BodyLimits, logger *zap.Logger) *ExtractionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExtractionHandler{
		extractionService: extractionService,
		limits:            limits,
		logger:            logger.Named("handler.Extraction"),
	}
}

// bindJSON decodes at most limit bytes of the body into dst. It writes the
// error response itself and reports whether the handler may continue.
func (h *ExtractionHandler) bindJSON(c *gin.Context, limit int64, dst any, msg string) bool {
	if limit > 0 && c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		RespondError(c, http.StatusRequestEntityTooLarge, "TEXT_TOO_LARGE", "request body exceeds maximum allowed size")
		return false
	}
	RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", msg)
	return false
}

type extractRequest struct {
	Text       string `json:"text"`
	Path       string `json:"path"`
	TemplateID string `json:"template_id"`
}

// Extract handles POST /api/v1/extractions
func (h *ExtractionHandler) Extract(c *gin.Context) {
	var req extractRequest
	if !h.bindJSON(c, h.limits.Document, &req, "invalid request body") {
		return
	}

	var (
		result *service.ExtractionResult
		err    error
	)
	switch {
	case strings.TrimSpace(req.Text) != "":
		result, err = h.extractionService.ExtractText(c.Request.Context(), service.ExtractTextInput{
			Text:       req.Text,
			TemplateID: req.TemplateID,
		})
	case strings.TrimSpace(req.Path) != "":
		result, err = h.extractionService.ExtractFile(c.Request.Context(), service.ExtractFileInput{
			Path:       req.Path,
			TemplateID: req.TemplateID,
		})
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "text or path is required")
		return
	}
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	RespondOK(c, result)
}

// ExtractBatch handles POST /api/v1/extractions/batch
func (h *ExtractionHandler) ExtractBatch(c *gin.Context) {
	var req struct {
		Documents []service.BatchInput `json:"documents" binding:"required"`
	}
	if !h.bindJSON(c, h.limits.Batch, &req, "documents are required") {
		return
	}

	results, err := h.extractionService.ExtractBatch(c.Request.Context(), req.Documents)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	RespondOK(c, results)
}

// Detect handles POST /api/v1/detections
func (h *ExtractionHandler) Detect(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if !h.bindJSON(c, h.limits.Document, &req, "text is required") {
		return
	}

	match, err := h.extractionService.DetectVersion(c.Request.Context(), req.Text)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	RespondOK(c, match)
}

// ListTemplates handles GET /api/v1/templates
func (h *ExtractionHandler) ListTemplates(c *gin.Context) {
	templates, err := h.extractionService.ListTemplates(c.Request.Context())
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	RespondOK(c, templates)
}

// GetTemplate handles GET /api/v1/templates/:id
func (h *ExtractionHandler) GetTemplate(c *gin.Context) {
	tmpl, err := h.extractionService.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	RespondOK(c, tmpl)
}
