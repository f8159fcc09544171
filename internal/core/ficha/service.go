package ficha

import (
	"context"
	"fmt"

	"ficha-service/internal/domain"

	"go.uber.org/zap"
)

// Extractor é o motor que lê o PDF. Tables devolve uma tabela de células por
// página; Text devolve o texto de todas as páginas separadas por PageBreak.
type Extractor interface {
	Tables(ctx context.Context, pdf []byte) ([]domain.RawTable, error)
	Text(ctx context.Context, pdf []byte) (string, error)
}

// Service define as operações sobre a ficha financeira.
type Service interface {
	Consolidate(ctx context.Context, pdf []byte) (*ConsolidatedResult, error)
	AnalyzeDescontos(ctx context.Context, pdf []byte, req DescontosRequest) (*DescontosResult, error)
}

// ConsolidatedResult é o extrato consolidado de um PDF.
type ConsolidatedResult struct {
	Servidor domain.Servidor `json:"servidor"`
	Anos     domain.YearMap  `json:"anos"`
	Ledger   domain.Ledger   `json:"-"`
	Table    domain.Table    `json:"tabela"`
}

// DescontosRequest reúne as escolhas do usuário para a análise de descontos.
// Selecionados nil mantém todas as discriminações aceitas pelo glossário.
type DescontosRequest struct {
	Glossary      []string
	Threshold     float64
	Selecionados  []string
	ValorRecebido string
}

// DescontosResult é o resultado da análise de descontos.
type DescontosResult struct {
	Servidor       domain.Servidor           `json:"servidor"`
	Matches        []domain.MatchResult      `json:"rubricas"`
	Disponiveis    []domain.DescriptionCount `json:"disponiveis"`
	Registros      []domain.DatedRecord      `json:"registros"`
	Final          domain.Table              `json:"tabela_final"`
	Reconciliation domain.Reconciliation     `json:"indebito"`
}

type service struct {
	extractor  Extractor
	yearMarker string
	logger     *zap.Logger
}

// NewService cria o serviço da ficha financeira.
func NewService(extractor Extractor, yearMarker string, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if yearMarker == "" {
		yearMarker = DefaultYearMarker
	}
	return &service{extractor: extractor, yearMarker: yearMarker, logger: logger}
}

func (svc *service) Consolidate(ctx context.Context, pdf []byte) (*ConsolidatedResult, error) {
	servidor := domain.Servidor{Nome: NotAvailable, Matricula: NotAvailable}
	if text, err := svc.extractor.Text(ctx, pdf); err != nil {
		svc.logger.Warn("falha ao extrair texto do PDF", zap.Error(err))
	} else {
		servidor = ExtractServidor(text)
	}

	tables, err := svc.extractor.Tables(ctx, pdf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoTables, err)
	}
	if len(tables) == 0 {
		return nil, ErrNoTables
	}

	years := ResolveYears(tables, svc.yearMarker)
	if len(years) == 0 {
		svc.logger.Warn("nenhuma célula com ano de referência encontrada", zap.String("marcador", svc.yearMarker))
	}

	ledger, skipped := normalizeTables(tables, years)
	if len(skipped) > 0 {
		svc.logger.Debug("páginas ignoradas sem limites TIPO/TOTAL BRUTO", zap.Ints("paginas", skipped))
	}
	if len(ledger) == 0 {
		return nil, ErrNoTables
	}
	ledger = ForwardFillTipo(ledger)

	svc.logger.Info("extrato consolidado",
		zap.Int("paginas", len(tables)),
		zap.Int("linhas", len(ledger)),
		zap.Int("anos", len(years)),
	)

	return &ConsolidatedResult{
		Servidor: servidor,
		Anos:     years,
		Ledger:   ledger,
		Table:    LedgerTable(ledger),
	}, nil
}

func (svc *service) AnalyzeDescontos(ctx context.Context, pdf []byte, req DescontosRequest) (*DescontosResult, error) {
	consolidated, err := svc.Consolidate(ctx, pdf)
	if err != nil {
		return nil, err
	}

	descontos := FilterDescontos(consolidated.Ledger)
	if len(req.Glossary) == 0 {
		svc.logger.Warn("glossário vazio, nenhum desconto será aceito")
	}
	matcher := NewMatcher(req.Glossary, req.Threshold)
	matched, matches := matcher.Match(descontos)

	selected := matched
	if req.Selecionados != nil {
		selected = SelectDescriptions(matched, req.Selecionados)
	}

	records := PivotDates(selected)
	final, rec, err := Reconcile(DatedTable(records, domain.ColDescontos), domain.ColDescontos, req.ValorRecebido)
	if err != nil {
		return nil, fmt.Errorf("erro ao calcular indébito: %w", err)
	}

	svc.logger.Info("descontos analisados",
		zap.Int("descontos", len(descontos)),
		zap.Float64("limiar", matcher.Threshold()),
		zap.Int("aceitos", len(matched)),
		zap.Int("selecionados", len(selected)),
		zap.Int("registros", len(records)),
		zap.String("indebito", DisplayAmount(rec.Indebito)),
	)

	return &DescontosResult{
		Servidor:       consolidated.Servidor,
		Matches:        matches,
		Disponiveis:    DistinctDescriptions(matched),
		Registros:      records,
		Final:          final,
		Reconciliation: rec,
	}, nil
}
