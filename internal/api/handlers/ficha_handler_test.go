package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"ficha-service/internal/api/responses"
	"ficha-service/internal/core/ficha"
	"ficha-service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	consolidateErr error
	lastRequest    *ficha.DescontosRequest
}

func (f *fakeService) Consolidate(context.Context, []byte) (*ficha.ConsolidatedResult, error) {
	if f.consolidateErr != nil {
		return nil, f.consolidateErr
	}
	return &ficha.ConsolidatedResult{
		Servidor: domain.Servidor{Nome: "MARIA SILVA", Matricula: "123.456-7"},
		Anos:     domain.YearMap{1: "2021"},
		Table: domain.Table{
			Columns: []string{domain.ColPagina, domain.ColDiscriminacao, "JAN"},
			Rows:    []domain.TableRow{{Values: []string{"1", "IRRF", "100,00"}}},
		},
	}, nil
}

func (f *fakeService) AnalyzeDescontos(_ context.Context, _ []byte, req ficha.DescontosRequest) (*ficha.DescontosResult, error) {
	if f.consolidateErr != nil {
		return nil, f.consolidateErr
	}
	f.lastRequest = &req
	return &ficha.DescontosResult{
		Servidor: domain.Servidor{Nome: "MARIA SILVA"},
		Final: domain.Table{
			Columns: []string{domain.ColDatas, domain.ColDiscriminacao, domain.ColDescontos},
			Rows:    []domain.TableRow{{Values: []string{"JAN/2021", "IRRF", "100,00"}}},
		},
	}, nil
}

type formFile struct {
	field, name string
	content     []byte
}

func multipartRequest(t *testing.T, url string, fields map[string][]string, files ...formFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	for key, values := range fields {
		for _, v := range values {
			require.NoError(t, w.WriteField(key, v))
		}
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func newTestRouter(svc ficha.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router, NewFichaHandler(svc, []string{"IRRF", "PSS"}, ficha.DefaultThreshold, nil), 1<<20)
	return router
}

var pdfUpload = formFile{field: "pdfFile", name: "ficha.pdf", content: []byte("%PDF-1.4")}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) responses.APIResponse {
	t.Helper()
	var resp responses.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&fakeService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ficha-service")
}

func TestHandleConsolidar(t *testing.T) {
	tests := []struct {
		name       string
		svc        *fakeService
		files      []formFile
		wantStatus int
	}{
		{"ok", &fakeService{}, []formFile{pdfUpload}, http.StatusOK},
		{"missing file", &fakeService{}, nil, http.StatusBadRequest},
		{"wrong extension", &fakeService{}, []formFile{{field: "pdfFile", name: "ficha.txt", content: []byte("x")}}, http.StatusBadRequest},
		{"no tables", &fakeService{consolidateErr: ficha.ErrNoTables}, []formFile{pdfUpload}, http.StatusUnprocessableEntity},
		{"unexpected error", &fakeService{consolidateErr: assert.AnError}, []formFile{pdfUpload}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := multipartRequest(t, "/api/v1/ficha/consolidar", nil, tt.files...)
			newTestRouter(tt.svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeResponse(t, rec)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "success", resp.Status)
			} else {
				assert.Equal(t, "error", resp.Status)
			}
		})
	}
}

func TestHandleDescontosDefaults(t *testing.T) {
	svc := &fakeService{}
	rec := httptest.NewRecorder()
	req := multipartRequest(t, "/api/v1/ficha/descontos", map[string][]string{"valorRecebido": {"30.00"}}, pdfUpload)
	newTestRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastRequest)
	assert.Equal(t, []string{"IRRF", "PSS"}, svc.lastRequest.Glossary)
	assert.Equal(t, ficha.DefaultThreshold, svc.lastRequest.Threshold)
	assert.Nil(t, svc.lastRequest.Selecionados)
	assert.Equal(t, "30.00", svc.lastRequest.ValorRecebido)
}

func TestHandleDescontosCustomInputs(t *testing.T) {
	svc := &fakeService{}
	rec := httptest.NewRecorder()
	req := multipartRequest(t, "/api/v1/ficha/descontos",
		map[string][]string{
			"threshold":    {"0,9"},
			"selecionados": {"IRRF", " ", "PENSÃO"},
		},
		pdfUpload,
		formFile{field: "glossaryFile", name: "rubricas.txt", content: []byte("PENSÃO\nIRRF\n")},
	)
	newTestRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastRequest)
	assert.Equal(t, []string{"PENSÃO", "IRRF"}, svc.lastRequest.Glossary)
	assert.InDelta(t, 90, svc.lastRequest.Threshold, 1e-9)
	assert.Equal(t, []string{"IRRF", "PENSÃO"}, svc.lastRequest.Selecionados)
}

func TestHandleDescontosBadThreshold(t *testing.T) {
	rec := httptest.NewRecorder()
	req := multipartRequest(t, "/api/v1/ficha/descontos", map[string][]string{"threshold": {"150"}}, pdfUpload)
	newTestRouter(&fakeService{}).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRelatorio(t *testing.T) {
	tests := []struct {
		name            string
		url             string
		formato         string
		wantStatus      int
		wantDisposition string
	}{
		{"consolidado pdf", "/api/v1/ficha/relatorio/consolidado", "", http.StatusOK, "extrato_financeiro_unico_MARIA_SILVA.pdf"},
		{"descontos xlsx", "/api/v1/ficha/relatorio/descontos", "xlsx", http.StatusOK, "Descontos_Finais_Cronologico_MARIA_SILVA.xlsx"},
		{"descontos csv", "/api/v1/ficha/relatorio/descontos", "csv", http.StatusOK, "Descontos_Finais_Cronologico_MARIA_SILVA.csv"},
		{"unknown tipo", "/api/v1/ficha/relatorio/outro", "pdf", http.StatusBadRequest, ""},
		{"descontos docx", "/api/v1/ficha/relatorio/descontos", "docx", http.StatusOK, "Descontos_Finais_Cronologico_MARIA_SILVA.docx"},
		{"unknown formato", "/api/v1/ficha/relatorio/descontos", "odt", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := map[string][]string{}
			if tt.formato != "" {
				fields["formato"] = []string{tt.formato}
			}
			rec := httptest.NewRecorder()
			newTestRouter(&fakeService{}).ServeHTTP(rec, multipartRequest(t, tt.url, fields, pdfUpload))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantDisposition != "" {
				assert.Contains(t, rec.Header().Get("Content-Disposition"), tt.wantDisposition)
				assert.NotEmpty(t, rec.Body.Bytes())
			}
		})
	}
}

func TestParseThreshold(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{"", 85, false},
		{"85", 85, false},
		{"0.85", 85, false},
		{"0,5", 50, false},
		{"1", 100, false},
		{"0", 0, false},
		{"100", 100, false},
		{"101", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseThreshold(tt.raw, 85)
		if tt.wantErr {
			assert.Error(t, err, tt.raw)
			continue
		}
		require.NoError(t, err, tt.raw)
		assert.InDelta(t, tt.want, got, 1e-9, tt.raw)
	}
}
