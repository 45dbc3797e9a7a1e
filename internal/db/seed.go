package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts demo accounts and campaigns so a fresh environment has
// something to click through. Inserts are idempotent via the unique
// email and ON CONFLICT guards.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	type account struct {
		email string
		role  string
		first string
		last  string
	}
	accounts := []account{
		{"broker@brandreach.dev", "broker", "Billie", "Broker"},
		{"acme@brandreach.dev", "business", "Ada", "Acme"},
		{"globex@brandreach.dev", "business", "Glen", "Globex"},
		{"nora@brandreach.dev", "influencer", "Nora", "North"},
		{"iris@brandreach.dev", "influencer", "Iris", "Ives"},
		{"milo@brandreach.dev", "influencer", "Milo", "Mars"},
	}

	ids := make(map[string]uuid.UUID, len(accounts))
	for _, a := range accounts {
		id := uuid.New()
		err := db.QueryRow(ctx, `INSERT INTO users (id, email, role, first_name, last_name, is_active)
VALUES ($1,$2,$3,$4,$5,true)
ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role
RETURNING id`, id, a.email, a.role, a.first, a.last).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", a.email, err)
		}
		ids[a.email] = id
	}

	audience, _ := json.Marshal(map[string]any{
		"age_range": "18-34",
		"regions":   []string{"US", "CA"},
		"interests": []string{"fitness", "travel"},
	})
	deliverables, _ := json.Marshal([]string{"1 reel", "2 stories"})

	campaigns := []struct {
		owner  string
		title  string
		budget string
		status string
		max    int
	}{
		{"acme@brandreach.dev", "Spring Launch", "5000.00", "active", 3},
		{"acme@brandreach.dev", "Summer Teaser", "1500.00", "draft", 1},
		{"globex@brandreach.dev", "Brand Refresh", "8000.00", "pending_approval", 5},
	}
	start := time.Now().AddDate(0, 0, -7)
	end := time.Now().AddDate(0, 1, 0)
	for _, c := range campaigns {
		_, err := db.Exec(ctx, `INSERT INTO campaigns
    (id, business_id, title, description, budget, currency, start_date, end_date,
     deliverables, target_audience, content_guidelines, approval_required, max_influencers, status)
VALUES ($1,$2,$3,$4,$5,'USD',$6,$7,$8,$9,'Keep it on brand.',true,$10,$11)
ON CONFLICT DO NOTHING`,
			uuid.New(), ids[c.owner], c.title, "Demo campaign", c.budget,
			start, end, deliverables, audience, c.max, c.status)
		if err != nil {
			return fmt.Errorf("seed campaign %q: %w", c.title, err)
		}
	}
	return nil
}
