package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// nextDocNumber allocates the next document number for a kind. It must run
// inside the same transaction that persists the document, so the counter and
// the document land together or not at all.
//
// Concurrent allocations serialize on the sequence row: the upsert takes a
// row lock until the owning transaction commits, so two finalizations never
// increment from the same base value. When no counter row exists yet, the
// insert seeds it from max(doc_number) of existing documents of that kind —
// this is also the recovery baseline after a crash that rolled back a
// previous allocation.
func nextDocNumber(ctx context.Context, tx pgx.Tx, kind DocumentKind) (int, error) {
	var n int
	err := tx.QueryRow(ctx, `
		INSERT INTO document_sequences (kind, last_number)
		VALUES ($1, (SELECT COALESCE(MAX(doc_number), 0) + 1 FROM documents WHERE kind = $1))
		ON CONFLICT (kind)
		DO UPDATE SET last_number = document_sequences.last_number + 1
		RETURNING last_number
	`, string(kind)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s document number: %w", kind, err)
	}
	return n, nil
}
