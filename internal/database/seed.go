package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// defaultRelatedTypes are created on a fresh development database so the
// inline editor has something to choose from.
var defaultRelatedTypes = []string{"articles", "images"}

// Seed populates the database with initial development data: a default
// admin user, the default related types and a couple of sample objects.
// Each part is skipped when its table already has rows.
func Seed(db *sql.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	if err := seedRelatedTypes(db); err != nil {
		return err
	}
	return seedObjects(db)
}

func seedAdmin(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("users already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
	`, "admin@relatedcontent.local", string(hash), "Admin", "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@relatedcontent.local",
		"password", "admin",
	)
	return nil
}

func seedRelatedTypes(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM related_types").Scan(&count); err != nil {
		return fmt.Errorf("seed check related types: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, title := range defaultRelatedTypes {
		if _, err := db.Exec(`INSERT INTO related_types (title) VALUES ($1)`, title); err != nil {
			return fmt.Errorf("seed related type %q: %w", title, err)
		}
	}

	slog.Info("database seeded with related types", "titles", defaultRelatedTypes)
	return nil
}

func seedObjects(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&count); err != nil {
		return fmt.Errorf("seed check articles: %w", err)
	}
	if count > 0 {
		return nil
	}

	if _, err := db.Exec(`INSERT INTO articles (title) VALUES ('Welcome'), ('Second article')`); err != nil {
		return fmt.Errorf("seed sample articles: %w", err)
	}
	if _, err := db.Exec(`INSERT INTO images (title) VALUES ('Header image')`); err != nil {
		return fmt.Errorf("seed sample images: %w", err)
	}
	return nil
}
