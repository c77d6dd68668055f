package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"claimscan/internal/domain"
	"claimscan/internal/handler"
	"claimscan/internal/service"
	"claimscan/internal/template"
	"claimscan/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newExtractionHandler() (*handler.ExtractionHandler, *mocks.MockExtractionService) {
	return newLimitedExtractionHandler(handler.BodyLimits{})
}

func newLimitedExtractionHandler(limits handler.BodyLimits) (*handler.ExtractionHandler, *mocks.MockExtractionService) {
	mockSvc := new(mocks.MockExtractionService)
	h := handler.NewExtractionHandler(mockSvc, limits, nil)
	return h, mockSvc
}

func jsonContext(method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	raw, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(method, path, bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// --- Extract ---

func TestExtractionHandler_Extract_Text(t *testing.T) {
	h, mockSvc := newExtractionHandler()

	expected := &service.ExtractionResult{
		ID:         uuid.New(),
		PageCount:  1,
		Extraction: &domain.DocumentExtraction{TemplateID: template.StandardTemplateID},
	}
	mockSvc.On("ExtractText", mock.Anything, service.ExtractTextInput{
		Text:       "RENTAL AGREEMENT NUMBER: 12345678",
		TemplateID: "auto",
	}).Return(expected, nil)

	c, w := jsonContext(http.MethodPost, "/api/v1/extractions", map[string]string{
		"text":        "RENTAL AGREEMENT NUMBER: 12345678",
		"template_id": "auto",
	})
	h.Extract(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w).Success)
	mockSvc.AssertExpectations(t)
}

func TestExtractionHandler_Extract_Path(t *testing.T) {
	h, mockSvc := newExtractionHandler()

	mockSvc.On("ExtractFile", mock.Anything, mock.MatchedBy(func(input service.ExtractFileInput) bool {
		return input.Path == "agreements/a.txt" && input.TemplateID == ""
	})).Return(&service.ExtractionResult{ID: uuid.New(), Path: "agreements/a.txt"}, nil)

	c, w := jsonContext(http.MethodPost, "/api/v1/extractions", map[string]string{"path": "agreements/a.txt"})
	h.Extract(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
	mockSvc.AssertNotCalled(t, "ExtractText", mock.Anything, mock.Anything)
}

func TestExtractionHandler_Extract_MissingInput(t *testing.T) {
	h, mockSvc := newExtractionHandler()

	c, w := jsonContext(http.MethodPost, "/api/v1/extractions", map[string]string{"text": "   "})
	h.Extract(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
	mockSvc.AssertNotCalled(t, "ExtractText", mock.Anything, mock.Anything)
}

func TestExtractionHandler_Extract_MalformedBody(t *testing.T) {
	h, _ := newExtractionHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/extractions", bytes.NewReader([]byte("{not json")))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Extract(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExtractionHandler_Extract_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"template_not_found", &domain.ExtractionError{TemplateID: "nope", Err: domain.ErrTemplateNotFound}, http.StatusNotFound, "TEMPLATE_NOT_FOUND"},
		{"source_not_found", fmt.Errorf("%w: a.txt", domain.ErrSourceNotFound), http.StatusNotFound, "SOURCE_NOT_FOUND"},
		{"unsupported", domain.ErrUnsupportedSource, http.StatusBadRequest, "UNSUPPORTED_SOURCE"},
		{"too_large", domain.ErrTextTooLarge, http.StatusRequestEntityTooLarge, "TEXT_TOO_LARGE"},
		{"invalid_input", domain.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
		{"invalid_template", domain.ErrInvalidTemplate, http.StatusInternalServerError, "INVALID_TEMPLATE"},
		{"timeout", fmt.Errorf("extraction stopped: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "EXTRACTION_TIMEOUT"},
		{"canceled", context.Canceled, 499, "REQUEST_CANCELED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mockSvc := newExtractionHandler()
			mockSvc.On("ExtractText", mock.Anything, mock.AnythingOfType("service.ExtractTextInput")).Return(nil, tt.err)

			c, w := jsonContext(http.MethodPost, "/api/v1/extractions", map[string]string{"text": "RA # 1"})
			h.Extract(c)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestExtractionHandler_Extract_InvalidInputMessage(t *testing.T) {
	h, mockSvc := newExtractionHandler()
	mockSvc.On("ExtractFile", mock.Anything, mock.Anything).Return(nil, &domain.ExtractionError{
		Path: "../x.txt",
		Err:  fmt.Errorf("%w: path escapes the text root", domain.ErrInvalidInput),
	})

	c, w := jsonContext(http.MethodPost, "/api/v1/extractions", map[string]string{"path": "../x.txt"})
	h.Extract(c)

	resp := decode(t, w)
	assert.Equal(t, "invalid input: path escapes the text root", resp.Error.Message)
}

// --- ExtractBatch ---

func TestExtractionHandler_ExtractBatch_Success(t *testing.T) {
	h, mockSvc := newExtractionHandler()

	docs := []service.BatchInput{{Path: "a.txt"}, {Text: "RA # 12345678", TemplateID: "auto"}}
	mockSvc.On("ExtractBatch", mock.Anything, docs).Return([]service.BatchItemResult{
		{Index: 0, Path: "a.txt", Success: false, Error: "source not found"},
		{Index: 1, Success: true, Result: &service.ExtractionResult{ID: uuid.New()}},
	}, nil)

	c, w := jsonContext(http.MethodPost, "/api/v1/extractions/batch", map[string]any{"documents": docs})
	h.ExtractBatch(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 2)
	mockSvc.AssertExpectations(t)
}

func TestExtractionHandler_ExtractBatch_MissingDocuments(t *testing.T) {
	h, mockSvc := newExtractionHandler()

	c, w := jsonContext(http.MethodPost, "/api/v1/extractions/batch", map[string]any{})
	h.ExtractBatch(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "ExtractBatch", mock.Anything, mock.Anything)
}

func TestExtractionHandler_ExtractBatch_TooLarge(t *testing.T) {
	h, mockSvc := newExtractionHandler()
	mockSvc.On("ExtractBatch", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: batch of 3 exceeds 2 documents", domain.ErrInvalidInput))

	c, w := jsonContext(http.MethodPost, "/api/v1/extractions/batch", map[string]any{
		"documents": []service.BatchInput{{Text: "a"}, {Text: "b"}, {Text: "c"}},
	})
	h.ExtractBatch(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Detect ---

func TestExtractionHandler_Detect(t *testing.T) {
	h, mockSvc := newExtractionHandler()
	mockSvc.On("DetectVersion", mock.Anything, "RA # 55102938").Return(&domain.VersionMatch{
		VersionID:       "v2",
		TemplateID:      template.V2TemplateID,
		Confidence:      0.79,
		MatchedFeatures: []string{"raNumber"},
		TotalFeatures:   2,
	}, nil)

	c, w := jsonContext(http.MethodPost, "/api/v1/detections", map[string]string{"text": "RA # 55102938"})
	h.Detect(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "v2", data["version_id"])
	assert.Equal(t, 0.79, data["confidence"])
}

func TestExtractionHandler_Detect_MissingText(t *testing.T) {
	h, _ := newExtractionHandler()

	c, w := jsonContext(http.MethodPost, "/api/v1/detections", map[string]string{})
	h.Detect(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Templates ---

func TestExtractionHandler_ListTemplates(t *testing.T) {
	h, mockSvc := newExtractionHandler()
	mockSvc.On("ListTemplates", mock.Anything).Return([]service.TemplateSummary{
		{ID: template.StandardTemplateID, Name: "Standard Rental Agreement", FieldCount: 17},
	}, nil)

	c, w := jsonContext(http.MethodGet, "/api/v1/templates", nil)
	h.ListTemplates(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w).Data, 1)
}

func TestExtractionHandler_GetTemplate_NotFound(t *testing.T) {
	h, mockSvc := newExtractionHandler()
	mockSvc.On("GetTemplate", mock.Anything, "missing").Return(nil, &domain.ExtractionError{
		TemplateID: "missing",
		Err:        domain.ErrTemplateNotFound,
	})

	c, w := jsonContext(http.MethodGet, "/api/v1/templates/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	h.GetTemplate(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockSvc.AssertExpectations(t)
}

// --- Body limits ---

func TestBodyLimitsFor(t *testing.T) {
	assert.Equal(t, handler.BodyLimits{}, handler.BodyLimitsFor(0, 10))
	assert.Equal(t, handler.BodyLimits{Document: 2048 + 64<<10}, handler.BodyLimitsFor(1024, 0))
	assert.Equal(t, handler.BodyLimits{Document: 2048 + 64<<10, Batch: 3 * (2048 + 64<<10)}, handler.BodyLimitsFor(1024, 3))
}

func TestExtractionHandler_OversizedBodies(t *testing.T) {
	big := strings.Repeat("RENTAL AGREEMENT ", 64)

	tests := []struct {
		name string
		path string
		body any
		call func(h *handler.ExtractionHandler, c *gin.Context)
	}{
		{
			name: "extract",
			path: "/api/v1/extractions",
			body: map[string]string{"text": big},
			call: (*handler.ExtractionHandler).Extract,
		},
		{
			name: "detect",
			path: "/api/v1/detections",
			body: map[string]string{"text": big},
			call: (*handler.ExtractionHandler).Detect,
		},
		{
			name: "batch",
			path: "/api/v1/extractions/batch",
			body: map[string]any{"documents": []map[string]string{{"text": big}, {"text": big}}},
			call: (*handler.ExtractionHandler).ExtractBatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mockSvc := newLimitedExtractionHandler(handler.BodyLimits{Document: 256, Batch: 512})

			c, w := jsonContext(http.MethodPost, tt.path, tt.body)
			tt.call(h, c)

			assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
			resp := decode(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "TEXT_TOO_LARGE", resp.Error.Code)
			assert.Empty(t, mockSvc.Calls, "service is never reached")
		})
	}
}

func TestExtractionHandler_BodyWithinLimit(t *testing.T) {
	h, mockSvc := newLimitedExtractionHandler(handler.BodyLimits{Document: 256})
	mockSvc.On("DetectVersion", mock.Anything, "RENTAL AGREEMENT").
		Return(&domain.VersionMatch{VersionID: template.StandardTemplateID, Confidence: 0.5}, nil)

	c, w := jsonContext(http.MethodPost, "/api/v1/detections", map[string]string{"text": "RENTAL AGREEMENT"})
	h.Detect(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}
