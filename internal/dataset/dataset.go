// Package dataset decodes uploaded product dumps. Two formats are
// accepted: header-mapped CSV and JSON, either a bare array or an object
// with a "products" key.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/greencart/ecostore/internal/core/domain"
	"github.com/greencart/ecostore/internal/core/ecoscore"
)

var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// Decode reads one dump in the named format. Rows without a title or a
// positive price are dropped rather than failing the whole import.
func Decode(r io.Reader, format string) ([]domain.Product, error) {
	const op = "dataset.Decode"

	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "csv":
		return decodeCSV(r)
	case "json":
		return decodeJSON(r)
	default:
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnsupportedFormat, format)
	}
}

func decodeCSV(r io.Reader) ([]domain.Product, error) {
	const op = "dataset.decodeCSV"

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(strings.ToLower(name))] = i
	}

	var ps []domain.Product
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		row := csvRow{record: record, colIdx: colIdx}
		p := domain.Product{
			Title:         strings.TrimSpace(row.field("title")),
			Text:          strings.TrimSpace(row.field("text")),
			Category:      strings.TrimSpace(row.field("category")),
			MainCategory:  strings.TrimSpace(row.field("main_category")),
			Price:         parsePrice(row.field("price")),
			AverageRating: parseFloat(row.field("average_rating")),
			EcoScore:      ecoscore.Normalize(rowEcoScore(row)),
			Images:        strings.TrimSpace(row.field("images")),
			ASIN:          strings.TrimSpace(row.field("asin")),
			ParentASIN:    strings.TrimSpace(row.field("parent_asin")),
			Details:       parseDetails(row.field("details")),
		}

		if p.Title == "" || p.Price <= 0 {
			continue
		}
		ps = append(ps, p)
	}
	return ps, nil
}

type csvRow struct {
	record []string
	colIdx map[string]int
}

func (r csvRow) field(name string) string {
	i, ok := r.colIdx[name]
	if !ok || i >= len(r.record) {
		return ""
	}
	return r.record[i]
}

// rowEcoScore resolves the score column chain: the hand-labeled columns
// win, then the mean of the two model scores when both are present, then
// whichever single model score is.
func rowEcoScore(row csvRow) float64 {
	if v := parseFloat(row.field("eco-score")); v != 0 {
		return v
	}
	if v := parseFloat(row.field("eco_score")); v != 0 {
		return v
	}

	mistral := parseFloat(row.field("mistral_eco_score"))
	llama := parseFloat(row.field("llama_eco_score"))
	switch {
	case mistral > 0 && llama > 0:
		return (mistral + llama) / 2
	case mistral > 0:
		return mistral
	default:
		return llama
	}
}

func parsePrice(s string) float64 {
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	return parseFloat(s)
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseDetails(s string) map[string]string {
	s = strings.TrimSpace(s)
	if s == "" || s == "{}" {
		return nil
	}
	var details map[string]string
	if err := json.Unmarshal([]byte(s), &details); err != nil {
		return nil
	}
	return details
}

type jsonProduct struct {
	Title         string            `json:"title"`
	Price         float64           `json:"price"`
	Text          string            `json:"text"`
	Category      string            `json:"category"`
	MainCategory  string            `json:"main_category"`
	AverageRating float64           `json:"average_rating"`
	EcoScore      float64           `json:"eco_score"`
	Images        string            `json:"images"`
	ASIN          string            `json:"asin"`
	ParentASIN    string            `json:"parent_asin"`
	Details       map[string]string `json:"details"`
}

func decodeJSON(r io.Reader) ([]domain.Product, error) {
	const op = "dataset.decodeJSON"

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var rows []jsonProduct
	if err := json.Unmarshal(raw, &rows); err != nil {
		var wrapped struct {
			Products []jsonProduct `json:"products"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		rows = wrapped.Products
	}

	var ps []domain.Product
	for _, row := range rows {
		p := domain.Product{
			Title:         strings.TrimSpace(row.Title),
			Text:          strings.TrimSpace(row.Text),
			Category:      strings.TrimSpace(row.Category),
			MainCategory:  strings.TrimSpace(row.MainCategory),
			Price:         row.Price,
			AverageRating: row.AverageRating,
			EcoScore:      ecoscore.Normalize(row.EcoScore),
			Images:        strings.TrimSpace(row.Images),
			ASIN:          strings.TrimSpace(row.ASIN),
			ParentASIN:    strings.TrimSpace(row.ParentASIN),
			Details:       row.Details,
		}
		if p.Title == "" || p.Price <= 0 {
			continue
		}
		ps = append(ps, p)
	}
	return ps, nil
}
