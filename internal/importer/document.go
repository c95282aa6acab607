// Package importer expands bulk bill descriptions (JSON or YAML) into ledger
// records and writes them through a BillWriter.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/splitledger/internal/apperr"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
)

// Format selects the decoder for a document.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a file extension or format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatAuto, apperr.Validation("unsupported import format %q", s)
}

// Import limits. Quantities are expanded into one item per unit before
// anything is written, so both are checked ahead of allocation.
const (
	// MaxItemQuantity is the largest quantity a single item may carry.
	MaxItemQuantity = 1000
	// MaxDocumentItems caps the expanded item count across a whole document.
	MaxDocumentItems = 10000
)

// amount decodes a money value from a JSON number or string, or a YAML scalar.
type amount struct {
	decimal.Decimal
}

func (a *amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", node.Line)
	}
	v, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %q is not a number", node.Line, node.Value)
	}
	a.Decimal = v
	return nil
}

type itemDoc struct {
	Name               string   `json:"name" yaml:"name"`
	Price              amount   `json:"price" yaml:"price"`
	Quantity           *int     `json:"quantity" yaml:"quantity"`
	DiscountRatio      *amount  `json:"discount_ratio" yaml:"discount_ratio"`
	DiscountAdjustment *amount  `json:"discount_adjustment" yaml:"discount_adjustment"`
	Participants       []string `json:"participants" yaml:"participants"`
}

type billDoc struct {
	Title        string    `json:"title" yaml:"title"`
	Date         string    `json:"date" yaml:"date"`
	Description  string    `json:"description" yaml:"description"`
	Payer        string    `json:"payer" yaml:"payer"`
	Image        string    `json:"image" yaml:"image"`
	Participants []string  `json:"participants" yaml:"participants"`
	Items        []itemDoc `json:"items" yaml:"items"`
}

type document struct {
	Bills   []billDoc `json:"bills" yaml:"bills"`
	billDoc `yaml:",inline"`
}

// Decode parses a document holding one bill, a list of bills, or an object
// with a "bills" list, and returns one draft per bill.
//
// An item with quantity n becomes n single-unit items. Its discount
// adjustment is a one-time amount and is applied to the first unit only.
// Bills without a date are dated today. Documents exceeding MaxItemQuantity
// or MaxDocumentItems are rejected.
func Decode(data []byte, format Format) ([]models.BillDraft, error) {
	if format == FormatAuto {
		format = detect(data)
	}

	var docs []billDoc
	var err error
	switch format {
	case FormatJSON:
		docs, err = decodeJSON(data)
	case FormatYAML:
		docs, err = decodeYAML(data)
	default:
		return nil, apperr.Validation("unsupported import format %q", format)
	}
	if err != nil {
		return nil, apperr.Validation("malformed %s document: %v", format, err)
	}
	if len(docs) == 0 {
		return nil, apperr.Validation("document contains no bills")
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	drafts := make([]models.BillDraft, 0, len(docs))
	remaining := MaxDocumentItems
	for i, doc := range docs {
		draft, err := doc.draft(today, &remaining)
		if err != nil {
			return nil, apperr.Validation("bill %d (%q): %v", i+1, doc.Title, err)
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

func detect(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

func decodeJSON(data []byte) ([]billDoc, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var docs []billDoc
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, err
		}
		return docs, nil
	}
	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	return doc.bills(), nil
}

func decodeYAML(data []byte) ([]billDoc, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 {
		return nil, nil
	}
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 && root.Content[0].Kind == yaml.SequenceNode {
		var docs []billDoc
		if err := root.Decode(&docs); err != nil {
			return nil, err
		}
		return docs, nil
	}
	var doc document
	if err := root.Decode(&doc); err != nil {
		return nil, err
	}
	return doc.bills(), nil
}

func (d document) bills() []billDoc {
	if len(d.Bills) > 0 {
		return d.Bills
	}
	if d.Title == "" && len(d.Items) == 0 && len(d.Participants) == 0 {
		return nil
	}
	return []billDoc{d.billDoc}
}

func (b billDoc) draft(today time.Time, remaining *int) (models.BillDraft, error) {
	draft := models.BillDraft{
		Title:        strings.TrimSpace(b.Title),
		Description:  b.Description,
		Payer:        strings.TrimSpace(b.Payer),
		ImageRef:     b.Image,
		Participants: b.Participants,
		Date:         today,
	}
	if b.Date != "" {
		date, err := time.Parse(models.DateLayout, b.Date)
		if err != nil {
			return models.BillDraft{}, fmt.Errorf("date %q must be YYYY-MM-DD", b.Date)
		}
		draft.Date = date
	}
	if err := ledger.ValidateDraft(&draft); err != nil {
		return models.BillDraft{}, err
	}
	if len(b.Items) == 0 {
		return models.BillDraft{}, fmt.Errorf("at least one item is required")
	}

	for _, it := range b.Items {
		units, err := it.expand(*remaining)
		if err != nil {
			return models.BillDraft{}, err
		}
		*remaining -= len(units)
		draft.Items = append(draft.Items, units...)
	}
	return draft, nil
}

// expand returns one draft per unit, refusing to produce more than limit.
func (it itemDoc) expand(limit int) ([]models.ItemDraft, error) {
	quantity := 1
	if it.Quantity != nil {
		quantity = *it.Quantity
	}
	if quantity < 1 {
		return nil, fmt.Errorf("item %q: quantity must be at least 1", it.Name)
	}
	if quantity > MaxItemQuantity {
		return nil, fmt.Errorf("item %q: quantity %d exceeds the maximum of %d", it.Name, quantity, MaxItemQuantity)
	}
	if quantity > limit {
		return nil, fmt.Errorf("item %q: document expands to more than %d items", it.Name, MaxDocumentItems)
	}
	if it.Price.IsNegative() {
		return nil, fmt.Errorf("item %q: price must not be negative", it.Name)
	}

	ratio := decimal.NewFromInt(1)
	if it.DiscountRatio != nil {
		ratio = it.DiscountRatio.Decimal
	}
	if ratio.IsNegative() {
		return nil, fmt.Errorf("item %q: discount ratio must not be negative", it.Name)
	}
	adjustment := decimal.Zero
	if it.DiscountAdjustment != nil {
		adjustment = it.DiscountAdjustment.Decimal
	}

	units := make([]models.ItemDraft, quantity)
	for i := range units {
		units[i] = models.ItemDraft{
			Name:               it.Name,
			UnitPrice:          it.Price.Decimal,
			DiscountRatio:      ratio,
			DiscountAdjustment: decimal.Zero,
			Participants:       it.Participants,
		}
	}
	units[0].DiscountAdjustment = adjustment
	return units, nil
}
