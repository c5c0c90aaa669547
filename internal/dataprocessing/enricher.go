package dataprocessing

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "retaileda/internal/errors"
	"retaileda/pkg/contracts/domain"
)

// Enricher converts cleaned raw rows into typed transactions and derives
// total sales, month and weekday.
type Enricher struct {
	logger *slog.Logger
}

// NewEnricher creates an enricher
func NewEnricher(logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{logger: logger}
}

// Enrich converts every row of table. The first unparseable cell aborts the
// conversion with a DATA_FORMAT error naming its row and column.
func (e *Enricher) Enrich(ctx context.Context, table *domain.RawTable) ([]domain.Transaction, error) {
	txns := make([]domain.Transaction, 0, table.Len())
	if table == nil {
		return txns, nil
	}

	for _, rec := range table.Records {
		txn, err := toTransaction(rec)
		if err != nil {
			e.logger.ErrorContext(ctx, "row conversion failed",
				slog.Int("row_number", rec.Row),
				slog.String("error", err.Error()))
			return nil, err
		}
		txns = append(txns, txn)
	}

	e.logger.InfoContext(ctx, "transactions enriched",
		slog.Int("rows", len(txns)))
	return txns, nil
}

func toTransaction(rec domain.RawRecord) (domain.Transaction, error) {
	quantity, err := parseQuantity(rec.Get(domain.ColQuantity))
	if err != nil {
		return domain.Transaction{}, cellError(rec, domain.ColQuantity, err)
	}

	price, err := parsePrice(rec.Get(domain.ColUnitPrice))
	if err != nil {
		return domain.Transaction{}, cellError(rec, domain.ColUnitPrice, err)
	}

	date, err := parseTimestamp(rec.Get(domain.ColInvoiceDate))
	if err != nil {
		return domain.Transaction{}, cellError(rec, domain.ColInvoiceDate, err)
	}

	return domain.Transaction{
		InvoiceNo:   strings.TrimSpace(rec.Get(domain.ColInvoiceNo)),
		StockCode:   strings.TrimSpace(rec.Get(domain.ColStockCode)),
		Description: strings.TrimSpace(rec.Get(domain.ColDescription)),
		Quantity:    quantity,
		InvoiceDate: date,
		UnitPrice:   price,
		CustomerID:  rec.Get(domain.ColCustomerID),
		Country:     strings.TrimSpace(rec.Get(domain.ColCountry)),
		TotalSales:  decimal.NewFromInt(quantity).Mul(price),
		Month:       date.Month(),
		Weekday:     date.Weekday(),
	}, nil
}

func cellError(rec domain.RawRecord, col domain.Column, cause error) error {
	return apperrors.NewDataFormatError(rec.Row, col.String(), rec.Get(col), cause)
}
