package app

import "warehouse-desk/internal/core"

// ProductListResult is returned by ListProducts.
type ProductListResult struct {
	Products []core.Product `json:"products"`
}

// CounterpartyListResult is returned by ListCounterparties.
type CounterpartyListResult struct {
	Counterparties []core.Counterparty `json:"counterparties"`
}

// StockResult is returned by GetStockLevels.
type StockResult struct {
	Levels []core.StockLevel `json:"levels"`
}

// DocumentResult is returned by GetDocument.
type DocumentResult struct {
	Document *core.Document `json:"document"`
}
