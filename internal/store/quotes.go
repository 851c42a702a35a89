package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/orca/internal/analysis"
	"github.com/Simplici0/orca/internal/pricing"
)

const timeLayout = "2006-01-02 15:04:05"

// QuoteRecord is a saved quote together with the inputs it was priced from.
type QuoteRecord struct {
	PublicID  string            `json:"id"`
	UserID    int64             `json:"user_id,omitempty"`
	Client    string            `json:"client"`
	Room      string            `json:"room"`
	Analysis  analysis.Analysis `json:"analysis"`
	Quote     pricing.Quote     `json:"quote"`
	CreatedAt time.Time         `json:"created_at"`
}

// QuoteSummary is one row of the quote history list.
type QuoteSummary struct {
	PublicID   string    `json:"id"`
	Client     string    `json:"client"`
	Room       string    `json:"room"`
	FileName   string    `json:"file_name"`
	Material   string    `json:"material"`
	GrandTotal float64   `json:"grand_total"`
	CreatedAt  time.Time `json:"created_at"`
}

type snapshot struct {
	Analysis analysis.Analysis `json:"analysis"`
	Quote    pricing.Quote     `json:"quote"`
}

// SaveQuote stores rec and returns it with its public id and creation time set.
func (s *Store) SaveQuote(ctx context.Context, rec QuoteRecord) (QuoteRecord, error) {
	rec.PublicID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC().Truncate(time.Second)
	rec.Client = strings.TrimSpace(rec.Client)
	rec.Room = strings.TrimSpace(rec.Room)

	body, err := json.Marshal(snapshot{Analysis: rec.Analysis, Quote: rec.Quote})
	if err != nil {
		return QuoteRecord{}, fmt.Errorf("encode quote snapshot: %w", err)
	}

	var userID sql.NullInt64
	if rec.UserID > 0 {
		userID = sql.NullInt64{Int64: rec.UserID, Valid: true}
	}

	cfg := rec.Quote.Config
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quotes (
			public_id, user_id, client, room, file_name,
			material, hardware_tier, complexity, profit_margin_pct,
			grand_total, snapshot_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.PublicID, userID, rec.Client, rec.Room, rec.Analysis.FileName,
		cfg.Material, cfg.HardwareTier, string(cfg.Complexity), cfg.ProfitMarginPct,
		rec.Quote.GrandTotal, string(body), rec.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return QuoteRecord{}, fmt.Errorf("insert quote: %w", err)
	}
	return rec, nil
}

// GetQuote loads a saved quote by public id.
func (s *Store) GetQuote(ctx context.Context, publicID string) (QuoteRecord, error) {
	var (
		rec       QuoteRecord
		userID    sql.NullInt64
		body      string
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT public_id, user_id, client, room, snapshot_json, created_at
		FROM quotes
		WHERE public_id = ?
	`, publicID).Scan(&rec.PublicID, &userID, &rec.Client, &rec.Room, &body, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return QuoteRecord{}, fmt.Errorf("quote %q: %w", publicID, ErrNotFound)
		}
		return QuoteRecord{}, fmt.Errorf("query quote: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		return QuoteRecord{}, fmt.Errorf("decode quote snapshot: %w", err)
	}
	rec.UserID = userID.Int64
	rec.Analysis = snap.Analysis
	rec.Quote = snap.Quote
	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

// ListQuotes returns saved quotes newest first. userID 0 lists every user's quotes.
// A non-empty query filters by client, room or file name.
func (s *Store) ListQuotes(ctx context.Context, userID int64, query string) ([]QuoteSummary, error) {
	query = strings.TrimSpace(query)
	search := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT public_id, client, room, file_name, material, grand_total, created_at
		FROM quotes
		WHERE (? = 0 OR user_id = ?)
		  AND (? = '' OR client LIKE ? OR room LIKE ? OR file_name LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, userID, userID, query, search, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]QuoteSummary, 0)
	for rows.Next() {
		var item QuoteSummary
		var createdAt string
		if err := rows.Scan(&item.PublicID, &item.Client, &item.Room, &item.FileName, &item.Material, &item.GrandTotal, &createdAt); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		item.CreatedAt = parseTime(createdAt)
		quotes = append(quotes, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}

	return quotes, nil
}

func parseTime(raw string) time.Time {
	for _, layout := range []string{timeLayout, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
