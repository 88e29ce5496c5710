package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user, the starter category set, and a couple of sample resources.
// It is a no-op when users already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password. 2FA is not enabled; they must set
	// it up on first login.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, "admin@superguide.local", string(hash), "Admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// Starter categories matching the public filter dropdown.
	starter := []string{
		"Housing", "Food Shelf", "Mental Health", "Chemical Dependency",
		"Employment", "Legal", "Medical", "Crisis", "Other",
	}
	for i, name := range starter {
		if _, err := db.Exec(`
			INSERT INTO categories (name, sequence) VALUES ($1, $2)
		`, name, i); err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
	}

	// A couple of sample resources so the browse view isn't empty in dev.
	samples := []struct {
		name, category, cityDir, transit, walk, snap, cost, address, desc string
		stages                                                            []string
	}{
		{
			name: "Downtown Food Bank", category: "Food Shelf",
			cityDir: "Saint Paul Central", transit: "On Major Bus Line",
			walk: "Walkable ≤ 15 minutes", snap: "Yes", cost: "Free",
			address: "123 Main St, Saint Paul, MN",
			desc:    "Walk-in food shelf with fresh produce and shelf-stable staples.",
			stages:  []string{"crisis", "stabilizing"},
		},
		{
			name: "Northside Housing Intake", category: "Housing",
			cityDir: "Minneapolis North", transit: "Multiple Transit Options",
			walk: "Walkable 16–30 minutes", snap: "N/A", cost: "Free",
			address: "456 Broadway Ave N, Minneapolis, MN",
			desc:    "Coordinated entry point for emergency shelter and transitional housing.",
			stages:  []string{"crisis"},
		},
	}
	for _, s := range samples {
		if _, err := db.Exec(`
			INSERT INTO resources (name, category, city_direction, recovery_stage,
			                       transit_accessibility, walkability, snap_accepted,
			                       cost, address, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, s.name, s.category, s.cityDir, pq.Array(s.stages),
			s.transit, s.walk, s.snap, s.cost, s.address, s.desc); err != nil {
			return fmt.Errorf("seed resource %q: %w", s.name, err)
		}
	}

	slog.Info("database seeded with default admin user and starter data",
		"email", "admin@superguide.local",
		"password", "admin",
	)

	return nil
}
