// Package store persists summaries and the article text they came from.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is a saved summary of one URL.
type Record struct {
	ID                string    `json:"id"`
	URL               string    `json:"url"`
	SummaryEN         string    `json:"summary_en"`
	SummaryTranslated string    `json:"summary_translated"`
	Language          string    `json:"language"`
	CreatedAt         time.Time `json:"created_at"`
}

// FullText is the archived article text behind a summary.
type FullText struct {
	URL       string    `json:"url" bson:"url"`
	Text      string    `json:"full_text" bson:"fullText"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}

// Summaries stores summary records.
type Summaries interface {
	SaveSummary(ctx context.Context, rec *Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
}

// Archive stores full article text.
type Archive interface {
	SaveFullText(ctx context.Context, ft FullText) error
	FullTexts(ctx context.Context, url string, limit int) ([]FullText, error)
}

// prepare fills in the generated fields of a record before it is written.
func prepare(rec *Record, now time.Time) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now.UTC()
	}
}
