package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"marketplace-service/internal/logger"
)

// Connect initializes the database connection and runs migrations.
func Connect(dsn string, log *logger.Logger) (*sqlx.DB, error) {
	database, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := runMigrations(database); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	log.Info("database migrations applied")
	return database, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id SERIAL PRIMARY KEY,
        username TEXT NOT NULL UNIQUE,
        role TEXT NOT NULL DEFAULT 'user',
        created_at TIMESTAMPTZ DEFAULT NOW()
    );`,
	`CREATE TABLE IF NOT EXISTS products (
        id TEXT PRIMARY KEY,
        seller_id INT NOT NULL REFERENCES users(id),
        type TEXT NOT NULL,
        name TEXT NOT NULL,
        shape TEXT NOT NULL DEFAULT '',
        carat DOUBLE PRECISION NOT NULL DEFAULT 0,
        price DOUBLE PRECISION NOT NULL DEFAULT 0,
        color TEXT NOT NULL DEFAULT '',
        clarity TEXT NOT NULL DEFAULT '',
        cut TEXT NOT NULL DEFAULT '',
        lab_grown BOOLEAN NOT NULL DEFAULT FALSE,
        image TEXT NOT NULL DEFAULT '',
        attributes JSONB NOT NULL DEFAULT '{}',
        created_at TIMESTAMPTZ DEFAULT NOW(),
        updated_at TIMESTAMPTZ DEFAULT NOW()
    );`,
	`CREATE TABLE IF NOT EXISTS chats (
        id SERIAL PRIMARY KEY,
        user_id INT NOT NULL REFERENCES users(id),
        seller_id INT NOT NULL REFERENCES users(id),
        product_id TEXT,
        created_at TIMESTAMPTZ DEFAULT NOW(),
        UNIQUE(user_id, seller_id, product_id)
    );`,
	// The UNIQUE constraint above never fires for NULL product ids, so the
	// general thread needs its own partial index to stay singular.
	`CREATE UNIQUE INDEX IF NOT EXISTS chats_general_thread_uniq
        ON chats (user_id, seller_id) WHERE product_id IS NULL;`,
	`CREATE TABLE IF NOT EXISTS messages (
        id SERIAL PRIMARY KEY,
        chat_id INT NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
        sender_id INT NOT NULL,
        content TEXT NOT NULL,
        created_at TIMESTAMPTZ DEFAULT NOW()
    );`,
	`CREATE TABLE IF NOT EXISTS cart_items (
        id SERIAL PRIMARY KEY,
        user_id INT NOT NULL REFERENCES users(id),
        product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
        quantity INT NOT NULL DEFAULT 1,
        created_at TIMESTAMPTZ DEFAULT NOW(),
        UNIQUE(user_id, product_id)
    );`,
	`CREATE TABLE IF NOT EXISTS wishlist_items (
        id SERIAL PRIMARY KEY,
        user_id INT NOT NULL REFERENCES users(id),
        product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
        created_at TIMESTAMPTZ DEFAULT NOW(),
        UNIQUE(user_id, product_id)
    );`,
	`CREATE TABLE IF NOT EXISTS auctions (
        id SERIAL PRIMARY KEY,
        product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
        current_bid DOUBLE PRECISION NOT NULL DEFAULT 0,
        ends_at TIMESTAMPTZ NOT NULL,
        created_at TIMESTAMPTZ DEFAULT NOW()
    );`,
}

func runMigrations(database *sqlx.DB) error {
	for _, m := range migrations {
		if _, err := database.Exec(m); err != nil {
			return err
		}
	}
	return nil
}
