package repl

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"warehouse-desk/internal/app"
)

// Run starts the interactive REPL loop. It reads slash commands from reader
// and dispatches them deterministically; /ship and /receive enter the
// step-by-step document wizard.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	fmt.Println("Warehouse Desk")
	fmt.Println("Create shipments and receipts, check stock, export sales. Type /help for commands.")
	fmt.Println(strings.Repeat("-", 70))

	errExit := fmt.Errorf("exit")

	dispatchSlash := func(input string) error {
		tokens := strings.Fields(strings.TrimPrefix(input, "/"))
		if len(tokens) == 0 {
			return nil
		}
		cmd := strings.ToLower(tokens[0])
		args := tokens[1:]

		switch cmd {
		case "products":
			result, err := svc.ListProducts(ctx)
			if err != nil {
				return err
			}
			printProducts(result)

		case "counterparties", "partners":
			result, err := svc.ListCounterparties(ctx)
			if err != nil {
				return err
			}
			printCounterparties(result)

		case "stock":
			result, err := svc.GetStockLevels(ctx)
			if err != nil {
				return err
			}
			printStockLevels(result)

		case "ship":
			if len(args) < 1 {
				fmt.Println("Usage: /ship <counterparty-id>")
				fmt.Println("  Starts a shipment wizard for the given buyer. See /counterparties for ids.")
				return nil
			}
			cpID, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Printf("Invalid counterparty id: %s\n", args[0])
				return nil
			}
			runDocumentWizard(ctx, reader, svc, shipmentWizard, cpID)

		case "receive":
			if len(args) < 1 {
				fmt.Println("Usage: /receive <counterparty-id>")
				fmt.Println("  Starts a receipt wizard for the given supplier. See /counterparties for ids.")
				return nil
			}
			cpID, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Printf("Invalid counterparty id: %s\n", args[0])
				return nil
			}
			runDocumentWizard(ctx, reader, svc, receiptWizard, cpID)

		case "doc", "document":
			if len(args) < 1 {
				fmt.Println("Usage: /doc <document-id>")
				return nil
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Printf("Invalid document id: %s\n", args[0])
				return nil
			}
			result, err := svc.GetDocument(ctx, id)
			if err != nil {
				return err
			}
			printDocument(result.Document)

		case "export":
			// Usage: /export [from] [to]  (dates as YYYY-MM-DD, default: current month)
			from, to, err := parseExportPeriod(args)
			if err != nil {
				fmt.Printf("Invalid period: %v\n", err)
				fmt.Println("Usage: /export [from YYYY-MM-DD] [to YYYY-MM-DD]")
				return nil
			}
			name := fmt.Sprintf("sales_%s_%s.csv", from.Format("2006-01-02"), to.Format("2006-01-02"))
			f, err := os.Create(name)
			if err != nil {
				return err
			}
			rows, err := svc.ExportSalesCSV(ctx, f, from, to)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			fmt.Printf("Wrote %d rows to %s\n", rows, name)

		case "help", "h":
			printHelp()

		case "exit", "quit", "e", "q":
			return errExit

		default:
			fmt.Printf("Unknown command: /%s  (type /help for all commands)\n", cmd)
		}
		return nil
	}

	for {
		fmt.Print("\n> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !strings.HasPrefix(input, "/") {
			fmt.Println("Commands start with a slash. Type /help for the list.")
			continue
		}
		if err := dispatchSlash(input); err != nil {
			if err == errExit {
				fmt.Println("Goodbye!")
				break
			}
			fmt.Printf("Error: %v\n", err)
		}
	}
}

// parseExportPeriod resolves the /export arguments. With no arguments the
// period is the current calendar month.
func parseExportPeriod(args []string) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)

	if len(args) >= 1 {
		parsed, err := time.Parse("2006-01-02", args[0])
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
		to = from.AddDate(0, 1, 0)
	}
	if len(args) >= 2 {
		parsed, err := time.Parse("2006-01-02", args[1])
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		// The upper bound is exclusive; include the named day in full.
		to = parsed.AddDate(0, 0, 1)
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date precedes start date")
	}
	return from, to, nil
}

func printHelp() {
	fmt.Println(`
Commands:
  /products                      List the product catalog
  /counterparties                List buyers and suppliers
  /stock                         Show current stock balances
  /ship <counterparty-id>        Create a shipment (sale) step by step
  /receive <counterparty-id>     Create a receipt (purchase) step by step
  /doc <document-id>             Show a committed document
  /export [from] [to]            Export shipment lines as CSV (YYYY-MM-DD)
  /help                          This help
  /exit                          Quit

Inside a wizard, type 'cancel' at any prompt to discard the draft.`)
}
