package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos-terminal/internal/domain"
)

// ProductWriter is the part of the product repository the importer needs.
type ProductWriter interface {
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error)
}

// Result counts what a run did.
type Result struct {
	Created int
	Updated int
}

func (r Result) Total() int {
	return r.Created + r.Updated
}

// CSVImporter reads inventory CSV files with the header
// name,category,price,stock,status,sku,description (any order; status, sku
// and description optional) and creates or updates products on the backend.
// Rows match existing products by SKU, or by name when the row has no SKU.
type CSVImporter struct {
	reader *csv.Reader
	repo   ProductWriter
	logger *zap.Logger
}

func NewCSVImporter(r io.Reader, repo ProductWriter, logger *zap.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVImporter{reader: csvr, repo: repo, logger: logger}
}

// Run imports every row. It stops at the first invalid row or backend error
// and reports how far it got.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result

	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"name", "category", "price", "stock"} {
		if _, ok := index[required]; !ok {
			return res, fmt.Errorf("missing column %q", required)
		}
	}

	existing, err := i.repo.List(ctx)
	if err != nil {
		return res, fmt.Errorf("list products: %w", err)
	}
	bySKU := make(map[string]int64)
	byName := make(map[string]int64)
	for _, p := range existing {
		if p.SKU != "" {
			bySKU[strings.ToLower(p.SKU)] = p.ID
		}
		byName[strings.ToLower(p.Name)] = p.ID
	}

	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return res, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		in, err := parseRow(record, index)
		if err != nil {
			return res, fmt.Errorf("row %d: %w", line, err)
		}

		id, found := bySKU[strings.ToLower(in.SKU)]
		if in.SKU == "" || !found {
			id, found = byName[strings.ToLower(in.Name)]
		}
		if found {
			if _, err := i.repo.Update(ctx, id, in); err != nil {
				return res, fmt.Errorf("row %d: update %q: %w", line, in.Name, err)
			}
			res.Updated++
			continue
		}

		p, err := i.repo.Create(ctx, in)
		if err != nil {
			return res, fmt.Errorf("row %d: create %q: %w", line, in.Name, err)
		}
		res.Created++
		byName[strings.ToLower(p.Name)] = p.ID
		if p.SKU != "" {
			bySKU[strings.ToLower(p.SKU)] = p.ID
		}
	}

	i.logger.Info("import finished", zap.Int("created", res.Created), zap.Int("updated", res.Updated))
	return res, nil
}

func parseRow(record []string, index map[string]int) (domain.ProductInput, error) {
	in := domain.ProductInput{
		Name:        pick(record, index, "name"),
		Category:    pick(record, index, "category"),
		SKU:         pick(record, index, "sku"),
		Description: pick(record, index, "description"),
		Status:      domain.ProductStatus(strings.ToLower(pick(record, index, "status"))),
	}
	if in.Name == "" {
		return in, errors.New("name required")
	}
	if in.Category == "" {
		return in, errors.New("category required")
	}
	if in.Status == "" {
		in.Status = domain.ProductActive
	}
	if !in.Status.Valid() {
		return in, fmt.Errorf("invalid status %q", in.Status)
	}

	price, err := decimal.NewFromString(pick(record, index, "price"))
	if err != nil || price.IsNegative() {
		return in, fmt.Errorf("invalid price %q", pick(record, index, "price"))
	}
	in.Price = price

	stock, err := strconv.Atoi(pick(record, index, "stock"))
	if err != nil || stock < 0 {
		return in, fmt.Errorf("invalid stock %q", pick(record, index, "stock"))
	}
	in.Stock = stock
	return in, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
