package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"ficha-service/internal/api/responses"
	"ficha-service/internal/core/ficha"
	"ficha-service/internal/core/glossary"
	"ficha-service/internal/core/report"
	"ficha-service/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FichaHandler lida com as requisições da API da ficha financeira.
type FichaHandler struct {
	service          ficha.Service
	defaultGlossary  []string
	defaultThreshold float64
	logger           *zap.Logger
}

// NewFichaHandler cria o handler. defaultGlossary é usado quando a requisição
// não envia glossaryFile.
func NewFichaHandler(service ficha.Service, defaultGlossary []string, defaultThreshold float64, logger *zap.Logger) *FichaHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FichaHandler{
		service:          service,
		defaultGlossary:  defaultGlossary,
		defaultThreshold: defaultThreshold,
		logger:           logger,
	}
}

// MaxBodySize limita o tamanho do corpo das requisições.
func MaxBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

// readPDF lê o arquivo pdfFile do formulário. Em caso de falha já responde com erro.
func readPDF(c *gin.Context) ([]byte, bool) {
	fileHeader, err := c.FormFile("pdfFile")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Arquivo PDF da ficha financeira não encontrado ou inválido")
		return nil, false
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".pdf" {
		responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Extensão de arquivo não suportada: %s", ext))
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Não foi possível abrir o arquivo PDF")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Não foi possível ler o arquivo PDF", err.Error())
		return nil, false
	}
	return data, true
}

// ParseThreshold aceita o nível de similaridade de 0 a 100 ou como valor do
// controle deslizante (0,1 a 1,0), que é multiplicado por 100.
func ParseThreshold(raw string, fallback float64) (float64, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("nível de similaridade inválido: %s", raw)
	}
	if v > 0 && v <= 1 {
		v *= 100
	}
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("nível de similaridade fora do intervalo 0-100: %s", raw)
	}
	return v, nil
}

// getSelection devolve nil quando o campo não foi enviado, mantendo todas as
// discriminações aceitas.
func getSelection(c *gin.Context, formKey string) []string {
	values, ok := c.GetPostFormArray(formKey)
	if !ok {
		return nil
	}
	selected := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			selected = append(selected, trimmed)
		}
	}
	return selected
}

// descontosRequest monta a requisição de análise a partir do formulário.
func (h *FichaHandler) descontosRequest(c *gin.Context) (ficha.DescontosRequest, bool) {
	threshold, err := ParseThreshold(c.PostForm("threshold"), h.defaultThreshold)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Nível de similaridade inválido", err.Error())
		return ficha.DescontosRequest{}, false
	}

	rubricas := h.defaultGlossary
	if fileHeader, err := c.FormFile("glossaryFile"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			responses.Error(c, http.StatusInternalServerError, "Não foi possível abrir o arquivo de rubricas")
			return ficha.DescontosRequest{}, false
		}
		defer file.Close()

		rubricas, err = glossary.Load(file, fileHeader.Filename)
		if err != nil {
			responses.Error(c, http.StatusBadRequest, "Arquivo de rubricas inválido", err.Error())
			return ficha.DescontosRequest{}, false
		}
	}

	return ficha.DescontosRequest{
		Glossary:      rubricas,
		Threshold:     threshold,
		Selecionados:  getSelection(c, "selecionados"),
		ValorRecebido: c.PostForm("valorRecebido"),
	}, true
}

func (h *FichaHandler) serviceError(c *gin.Context, err error) {
	if errors.Is(err, ficha.ErrNoTables) {
		responses.Error(c, http.StatusUnprocessableEntity, "Nenhuma tabela foi detectada no PDF. Verifique se o arquivo é uma ficha financeira válida.", err.Error())
		return
	}
	h.logger.Error("erro ao processar ficha financeira", zap.Error(err))
	responses.Error(c, http.StatusInternalServerError, "Erro ao processar a ficha financeira", err.Error())
}

// HandleConsolidar extrai e consolida as tabelas da ficha financeira.
func (h *FichaHandler) HandleConsolidar(c *gin.Context) {
	data, ok := readPDF(c)
	if !ok {
		return
	}

	result, err := h.service.Consolidate(c.Request.Context(), data)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	responses.Success(c, result, "Extrato consolidado com sucesso")
}

// HandleDescontos cruza os descontos com o glossário e calcula o indébito.
func (h *FichaHandler) HandleDescontos(c *gin.Context) {
	data, ok := readPDF(c)
	if !ok {
		return
	}
	req, ok := h.descontosRequest(c)
	if !ok {
		return
	}

	result, err := h.service.AnalyzeDescontos(c.Request.Context(), data, req)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	responses.Success(c, result, "Descontos analisados com sucesso")
}

// HandleRelatorio gera o relatório consolidado ou o de descontos finais em
// PDF, XLSX, DOCX ou CSV.
func (h *FichaHandler) HandleRelatorio(c *gin.Context) {
	tipo := strings.ToLower(c.Param("tipo"))
	if tipo != "consolidado" && tipo != "descontos" {
		responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Tipo de relatório desconhecido: %s", tipo))
		return
	}

	renderer, err := report.ForFormat(c.DefaultPostForm("formato", "pdf"))
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Formato de relatório inválido", err.Error())
		return
	}

	data, ok := readPDF(c)
	if !ok {
		return
	}

	var (
		table    domain.Table
		title    string
		prefix   string
		servidor domain.Servidor
	)
	switch tipo {
	case "consolidado":
		result, err := h.service.Consolidate(c.Request.Context(), data)
		if err != nil {
			h.serviceError(c, err)
			return
		}
		table, servidor = result.Table, result.Servidor
		title, prefix = report.TitleConsolidado, "extrato_financeiro_unico_"
	case "descontos":
		req, ok := h.descontosRequest(c)
		if !ok {
			return
		}
		result, err := h.service.AnalyzeDescontos(c.Request.Context(), data, req)
		if err != nil {
			h.serviceError(c, err)
			return
		}
		table, servidor = result.Final, result.Servidor
		title, prefix = report.TitleDescontos, "Descontos_Finais_Cronologico_"
	}

	output, err := renderer.Render(table, title)
	if err != nil {
		h.logger.Error("erro ao gerar relatório", zap.String("tipo", tipo), zap.Error(err))
		responses.Error(c, http.StatusInternalServerError, "Erro ao gerar o relatório", err.Error())
		return
	}

	fileName := prefix + ficha.SanitizeFilename(servidor.Nome) + renderer.Extension()
	responses.File(c, renderer.ContentType(), fileName, output)
}
