package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"wizard/internal/config"
)

func main() {
	drop := flag.Bool("drop", false, "drop all tables instead of creating them")
	flag.Parse()

	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	cfg := config.Load()
	prefix := cfg.TablePrefix

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	if *drop {
		dropSQL := fmt.Sprintf(`
			DROP TABLE IF EXISTS %sdocument_histories CASCADE;
			DROP TABLE IF EXISTS %sdocuments CASCADE;
			DROP TABLE IF EXISTS %sprojects CASCADE;
		`, prefix, prefix, prefix)

		if _, err := db.Exec(dropSQL); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}

		fmt.Printf("All tables dropped (prefix: %s)\n", prefix)
		return
	}

	createSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]sprojects (
			id         BIGSERIAL PRIMARY KEY,
			user_id    TEXT NOT NULL,
			name       VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS %[1]sdocuments (
			id                BIGSERIAL PRIMARY KEY,
			project_id        BIGINT NOT NULL REFERENCES %[1]sprojects(id),
			pid               BIGINT NOT NULL DEFAULT 0,
			title             VARCHAR(255) NOT NULL,
			description       TEXT NOT NULL DEFAULT '',
			content           TEXT NOT NULL DEFAULT '',
			type              SMALLINT NOT NULL DEFAULT 1,
			status            SMALLINT NOT NULL DEFAULT 1,
			user_id           TEXT NOT NULL,
			last_modified_uid TEXT NOT NULL,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_%[1]sdocuments_project ON %[1]sdocuments(project_id);
		CREATE INDEX IF NOT EXISTS idx_%[1]sdocuments_pid ON %[1]sdocuments(project_id, pid);

		CREATE TABLE IF NOT EXISTS %[1]sdocument_histories (
			id                BIGSERIAL PRIMARY KEY,
			page_id           BIGINT NOT NULL,
			project_id        BIGINT NOT NULL,
			pid               BIGINT NOT NULL DEFAULT 0,
			title             VARCHAR(255) NOT NULL,
			description       TEXT NOT NULL DEFAULT '',
			content           TEXT NOT NULL DEFAULT '',
			type              SMALLINT NOT NULL DEFAULT 1,
			status            SMALLINT NOT NULL DEFAULT 1,
			user_id           TEXT NOT NULL,
			operation_user_id TEXT NOT NULL,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_%[1]sdocument_histories_page ON %[1]sdocument_histories(project_id, page_id);
	`, prefix)

	if _, err := db.Exec(createSQL); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	fmt.Printf("Tables created (prefix: %s)\n", prefix)
}
