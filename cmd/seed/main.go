// Command seed loads demo data for local development: a few sessions, a
// subscriber, a completed payment, and a course enrollment.
package main

import (
	"database/sql"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"live-session-gateway/internal/config"
	"live-session-gateway/internal/db"
	"live-session-gateway/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.Env, os.Getenv("LOG_LEVEL"))

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	if err := seed(database); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().Msg("demo data loaded")
}

func seed(database *sql.DB) error {
	now := time.Now().UTC()

	sessions := []struct {
		id       string
		title    string
		start    time.Time
		end      time.Time
		isFree   bool
		price    int64
		currency string
		courseID string
		status   string
	}{
		{"demo-free-session", "Open Q&A: Getting Started", now.Add(10 * time.Minute), now.Add(70 * time.Minute), true, 0, "", "", "scheduled"},
		{"demo-paid-session", "Masterclass: Advanced Calculus", now.Add(15 * time.Minute), now.Add(2 * time.Hour), false, 10000, "TZS", "", "scheduled"},
		{"demo-course-session", "Physics Form 4: Week 3 Live", now.Add(-5 * time.Minute), now.Add(55 * time.Minute), false, 5000, "TZS", "demo-course-physics", "live"},
	}
	for _, s := range sessions {
		_, err := database.Exec(`
			INSERT INTO live_sessions (id, title, scheduled_start, scheduled_end, is_free, price, currency, meeting_url, course_id, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10)
			ON CONFLICT (id) DO NOTHING`,
			s.id, s.title, s.start, s.end, s.isFree, s.price, s.currency,
			"https://meet.example.com/"+s.id, s.courseID, s.status,
		)
		if err != nil {
			return err
		}
	}

	if _, err := database.Exec(`
		INSERT INTO user_subscriptions (user_id, tier)
		VALUES ('demo-subscriber', 'pro')
		ON CONFLICT (user_id) DO UPDATE SET tier = EXCLUDED.tier, updated_at = now()`,
	); err != nil {
		return err
	}

	if _, err := database.Exec(`
		INSERT INTO session_payments (id, user_id, session_id, status, amount, currency)
		VALUES ('demo-payment-1', 'demo-buyer', 'demo-paid-session', 'completed', 10000, 'TZS')
		ON CONFLICT (id) DO NOTHING`,
	); err != nil {
		return err
	}

	if _, err := database.Exec(`
		INSERT INTO course_enrollments (id, user_id, course_id, expires_at)
		VALUES ('demo-enrollment', 'demo-student', 'demo-course-physics', $1)
		ON CONFLICT (id) DO NOTHING`,
		now.Add(90*24*time.Hour),
	); err != nil {
		return err
	}

	return nil
}
