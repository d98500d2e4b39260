package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"warehouse-desk/internal/app"
	"warehouse-desk/internal/core"
	"warehouse-desk/internal/workflow"

	"github.com/google/uuid"
)

type wizardKind int

const (
	shipmentWizard wizardKind = iota
	receiptWizard
)

// runDocumentWizard drives a document-creation session prompt by prompt
// until the draft is committed or the user cancels.
func runDocumentWizard(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService, kind wizardKind, counterpartyID int) {
	sessionID := uuid.NewString()

	var prompt *workflow.Prompt
	var err error
	if kind == shipmentWizard {
		prompt, err = svc.StartShipment(ctx, sessionID, counterpartyID)
	} else {
		prompt, err = svc.StartReceipt(ctx, sessionID, counterpartyID)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	// readLine returns false when the user aborts the wizard.
	readLine := func(label string) (string, bool) {
		fmt.Print(label)
		raw, rerr := reader.ReadString('\n')
		if rerr != nil {
			svc.Cancel(ctx, sessionID)
			return "", false
		}
		raw = strings.TrimSpace(raw)
		if strings.EqualFold(raw, "cancel") {
			svc.Cancel(ctx, sessionID)
			fmt.Println("Draft discarded.")
			return "", false
		}
		return raw, true
	}

	for {
		if prompt.Done {
			fmt.Println("\nDocument committed.")
			printDocument(prompt.Document)
			return
		}

		var next *workflow.Prompt
		switch prompt.Step {
		case workflow.StepProduct:
			printProductChoices(prompt.Products)
			raw, ok := readLine("  Product id: ")
			if !ok {
				return
			}
			id, convErr := strconv.Atoi(raw)
			if convErr != nil {
				fmt.Println("  Enter a numeric product id from the list.")
				continue
			}
			next, err = svc.ChooseProduct(ctx, sessionID, id)

		case workflow.StepQuantity:
			raw, ok := readLine("  Quantity: ")
			if !ok {
				return
			}
			next, err = svc.SubmitQuantity(ctx, sessionID, raw)

		case workflow.StepStockInsufficient:
			fmt.Printf("  Not enough stock: requested %s, available %s.\n",
				prompt.Requested.StringFixed(3), prompt.Available.StringFixed(3))
			raw, ok := readLine("  Enter a smaller quantity, or 'take' for all available: ")
			if !ok {
				return
			}
			if strings.EqualFold(raw, "take") {
				next, err = svc.AcceptAvailable(ctx, sessionID)
			} else {
				next, err = svc.SubmitQuantity(ctx, sessionID, raw)
			}

		case workflow.StepPrice:
			if prompt.Quote.IsDefault {
				fmt.Printf("  No price history; default price is %s.\n", core.FormatCents(prompt.Quote.PriceCents))
			} else {
				fmt.Printf("  Last price for this counterparty: %s.\n", core.FormatCents(prompt.Quote.PriceCents))
			}
			raw, ok := readLine("  Accept? (y = accept / n = enter another): ")
			if !ok {
				return
			}
			switch strings.ToLower(raw) {
			case "y", "yes":
				next, err = svc.AcceptSuggestedPrice(ctx, sessionID)
			case "n", "no":
				next, err = svc.RequestCustomPrice(ctx, sessionID)
			default:
				fmt.Println("  Answer y or n.")
				continue
			}

		case workflow.StepNewPrice:
			raw, ok := readLine("  Price: ")
			if !ok {
				return
			}
			next, err = svc.SubmitCustomPrice(ctx, sessionID, raw)

		case workflow.StepAddMore:
			fmt.Printf("  Line added. Draft has %d line(s).\n", prompt.LineCount)
			raw, ok := readLine("  Add another product? (y/n): ")
			if !ok {
				return
			}
			switch strings.ToLower(raw) {
			case "y", "yes":
				next, err = svc.AddAnother(ctx, sessionID)
			case "n", "no":
				next, err = svc.Finish(ctx, sessionID)
			default:
				fmt.Println("  Answer y or n.")
				continue
			}

		default:
			fmt.Printf("Unexpected wizard state %q; discarding draft.\n", prompt.Step)
			svc.Cancel(ctx, sessionID)
			return
		}

		if err != nil {
			if errors.Is(err, core.ErrValidation) {
				// Bad input leaves the step unchanged; re-prompt.
				fmt.Printf("  %v\n", err)
				err = nil
				continue
			}
			fmt.Printf("Error: %v\n", err)
			svc.Cancel(ctx, sessionID)
			return
		}
		prompt = next
	}
}
