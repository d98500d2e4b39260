package repl

import (
	"fmt"
	"strings"

	"warehouse-desk/internal/app"
	"warehouse-desk/internal/core"
)

func printProducts(result *app.ProductListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 76))
	fmt.Println("  PRODUCTS")
	fmt.Println(strings.Repeat("=", 76))
	if len(result.Products) == 0 {
		fmt.Println("  No products found.")
		fmt.Println(strings.Repeat("=", 76))
		return
	}
	fmt.Printf("  %-5s %-6s %-36s %12s %12s\n", "ID", "CODE", "NAME", "RETAIL", "PURCHASE")
	fmt.Println(strings.Repeat("-", 76))
	for _, p := range result.Products {
		fmt.Printf("  %-5d %-6d %-36s %12s %12s\n",
			p.ID, p.Code, p.Name, core.FormatCents(p.RetailPriceCents), core.FormatCents(p.PurchasePriceCents))
	}
	fmt.Println(strings.Repeat("=", 76))
}

// printProductChoices renders the in-wizard selection list.
func printProductChoices(products []core.Product) {
	fmt.Println("  Choose a product:")
	for _, p := range products {
		fmt.Printf("    %3d  [%d] %s\n", p.ID, p.Code, p.Name)
	}
}

func printCounterparties(result *app.CounterpartyListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 56))
	fmt.Println("  COUNTERPARTIES")
	fmt.Println(strings.Repeat("=", 56))
	if len(result.Counterparties) == 0 {
		fmt.Println("  No counterparties found.")
		fmt.Println(strings.Repeat("=", 56))
		return
	}
	fmt.Printf("  %-5s %s\n", "ID", "NAME")
	fmt.Println(strings.Repeat("-", 56))
	for _, c := range result.Counterparties {
		fmt.Printf("  %-5d %s\n", c.ID, c.Name)
	}
	fmt.Println(strings.Repeat("=", 56))
}

func printStockLevels(result *app.StockResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 68))
	fmt.Println("  STOCK BALANCES")
	fmt.Println(strings.Repeat("=", 68))
	if len(result.Levels) == 0 {
		fmt.Println("  No products found.")
		fmt.Println(strings.Repeat("=", 68))
		return
	}
	fmt.Printf("  %-6s %-40s %15s\n", "CODE", "NAME", "BALANCE")
	fmt.Println(strings.Repeat("-", 68))
	shown := 0
	for _, s := range result.Levels {
		if s.Balance.IsZero() {
			continue
		}
		shown++
		fmt.Printf("  %-6d %-40s %15s\n", s.ProductCode, s.ProductName, s.Balance.StringFixed(3))
	}
	if shown == 0 {
		fmt.Println("  All balances are zero.")
	}
	fmt.Println(strings.Repeat("=", 68))
}

func printDocument(d *core.Document) {
	label := "RECEIPT"
	if d.Kind == core.Shipment {
		label = "SHIPMENT"
	}
	fmt.Println()
	fmt.Println(strings.Repeat("-", 72))
	fmt.Printf("  %s No. %d\n", label, d.DocNumber)
	fmt.Printf("  Counterparty: %s\n", d.CounterpartyName)
	fmt.Printf("  Date:         %s\n", d.CreatedAt.Format("02.01.2006 15:04"))
	fmt.Println(strings.Repeat("-", 72))
	fmt.Printf("  %-5s %-6s %-28s %10s %12s %12s\n", "LINE", "CODE", "PRODUCT", "QTY", "PRICE", "TOTAL")
	fmt.Println(strings.Repeat("-", 72))
	for _, it := range d.Items {
		fmt.Printf("  %-5d %-6d %-28s %10s %12s %12s\n",
			it.LineNumber, it.ProductCode, it.ProductName,
			it.Quantity.StringFixed(3), core.FormatCents(it.UnitPriceCents), core.FormatCents(it.TotalCents()))
	}
	fmt.Println(strings.Repeat("-", 72))
	fmt.Printf("  TOTAL: %s\n", core.FormatCents(d.TotalCents()))
	if d.Kind == core.Shipment {
		fmt.Printf("  PROFIT: %s\n", core.FormatCents(d.ProfitCents()))
	}
	fmt.Println(strings.Repeat("-", 72))
}
