package core_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Clean and seed. Fixed ids keep the tests readable:
	//   counterparty 1 = Вектор, 2 = Ариф
	//   product 1 = Лосось (retail 131150, purchase 130000)
	//   product 2 = Форель (retail 99500, purchase 96018)
	//   product 3 = Навага  (both prices zero)
	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE document_items, documents, document_sequences, products, counterparties RESTART IDENTITY CASCADE;

		INSERT INTO counterparties (id, name) VALUES
		(1, 'Вектор'),
		(2, 'Ариф');

		INSERT INTO products (id, code, name, retail_price_cents, purchase_price_cents) VALUES
		(1, 23, 'Лосось 6-7', 131150, 130000),
		(2, 40, 'Форель радужная 1.8-2.7', 99500, 96018),
		(3, 49, 'Навага М', 0, 0);

		SELECT setval('counterparties_id_seq', 10);
		SELECT setval('products_id_seq', 10);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}
