package workflow

import (
	"warehouse-desk/internal/core"

	"github.com/shopspring/decimal"
)

// Prompt tells the transport what to ask next. Only the fields relevant to
// Step are populated:
//
//	StepProduct           Products (the selection list)
//	StepQuantity          nothing extra
//	StepStockInsufficient Requested, Available
//	StepPrice             Quote
//	StepNewPrice          nothing extra
//	StepAddMore           LineCount
//
// When Done is set the flow has finished and Document carries the committed
// result for rendering.
type Prompt struct {
	Step Step              `json:"step,omitempty"`
	Kind core.DocumentKind `json:"kind"`

	Products []core.Product `json:"products,omitempty"`

	// Always serialized: decimal.Decimal is a struct, so omitempty would
	// never fire. Zero values are meaningful off the stock-insufficient
	// step anyway.
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`

	Quote *core.PriceQuote `json:"quote,omitempty"`

	LineCount int `json:"line_count,omitempty"`

	Done     bool           `json:"done,omitempty"`
	Document *core.Document `json:"document,omitempty"`
}
