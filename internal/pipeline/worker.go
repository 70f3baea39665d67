package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/blogsum/internal/scrape"
	"github.com/dgallion1/blogsum/internal/store"
	"github.com/dgallion1/blogsum/internal/summarizer"
	"github.com/dgallion1/blogsum/internal/translate"
)

// ErrNoSummary is returned when a page has text but no sentence qualifies
// for the summary.
var ErrNoSummary = errors.New("no summary could be generated")

// Fetcher downloads a page and extracts its article text.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*scrape.Page, error)
}

// Result is the outcome of summarizing one URL.
type Result struct {
	URL               string                `json:"url"`
	Title             string                `json:"title"`
	SummaryEN         string                `json:"summary_en"`
	SummaryTranslated string                `json:"summary_translated"`
	Language          string                `json:"language"`
	Sentences         []summarizer.Sentence `json:"sentences"`
	ContentHash       string                `json:"content_hash"`
	RecordID          string                `json:"record_id,omitempty"`
	Warnings          []string              `json:"warnings,omitempty"`
}

// Worker runs the fetch, summarize, translate and store steps for a URL.
type Worker struct {
	fetcher    Fetcher
	translator translate.Translator
	summaries  store.Summaries
	archive    store.Archive
	language   string
	log        *slog.Logger

	backoff func(int) time.Duration
}

// NewWorker creates a Worker. translator, summaries and archive may be nil,
// in which case the corresponding step is skipped.
func NewWorker(fetcher Fetcher, translator translate.Translator, summaries store.Summaries, archive store.Archive, language string, log *slog.Logger) *Worker {
	return &Worker{
		fetcher:    fetcher,
		translator: translator,
		summaries:  summaries,
		archive:    archive,
		language:   language,
		log:        log,
		backoff:    Backoff,
	}
}

// Run summarizes the page at url in sentenceCount sentences. Storage
// failures are logged and reported as warnings; every other failure is
// returned.
func (w *Worker) Run(ctx context.Context, url string, sentenceCount int) (*Result, error) {
	return w.run(ctx, url, sentenceCount, w.log, func(JobStatus, string) {})
}

// Process runs a queued job and records its outcome on the job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "url", job.URL)

	res, err := w.run(ctx, job.URL, job.Sentences, log, job.SetStatus)
	if err != nil {
		log.Error("summarize failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "failed")
		return
	}

	job.SetResult(res)
	for _, warn := range res.Warnings {
		job.AddError(warn)
	}
	if len(res.Warnings) > 0 {
		job.SetStatus(StatusPartial, "done")
		return
	}
	job.SetStatus(StatusCompleted, "done")
}

func (w *Worker) run(ctx context.Context, url string, sentenceCount int, log *slog.Logger, progress func(JobStatus, string)) (*Result, error) {
	// Phase 1: Fetch
	progress(StatusFetching, "fetching")
	page, err := withRetry(ctx, log, w.backoff, "fetch", func() (*scrape.Page, error) {
		return w.fetcher.Fetch(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	log.Info("fetched page", "chars", len(page.Text), "title", page.Title)

	// Phase 2: Summarize
	progress(StatusSummarizing, "summarizing")
	picked := summarizer.Select(summarizer.Rank(page.Text), sentenceCount)
	if len(picked) == 0 {
		return nil, ErrNoSummary
	}
	res := &Result{
		URL:         page.URL,
		Title:       page.Title,
		SummaryEN:   summarizer.Render(picked),
		Language:    w.language,
		Sentences:   picked,
		ContentHash: ContentHashHex([]byte(page.Text)),
	}

	// Phase 3: Translate
	if w.translator != nil {
		progress(StatusTranslating, "translating")
		translated, err := withRetry(ctx, log, w.backoff, "translate", func() (string, error) {
			return w.translator.Translate(ctx, res.SummaryEN, w.language)
		})
		if err != nil {
			return nil, fmt.Errorf("translate summary: %w", err)
		}
		res.SummaryTranslated = translated
	}

	// Phase 4: Store
	progress(StatusStoring, "storing")
	if w.archive != nil {
		err := w.archive.SaveFullText(ctx, store.FullText{URL: res.URL, Text: page.Text})
		if err != nil {
			log.Error("archive full text failed", "error", err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("archive: %s", err))
		}
	}
	if w.summaries != nil {
		rec := &store.Record{
			URL:               res.URL,
			SummaryEN:         res.SummaryEN,
			SummaryTranslated: res.SummaryTranslated,
			Language:          res.Language,
		}
		if err := w.summaries.SaveSummary(ctx, rec); err != nil {
			log.Error("save summary failed", "error", err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("save summary: %s", err))
		} else {
			res.RecordID = rec.ID
		}
	}

	log.Info("summary complete", "sentences", len(picked), "record_id", res.RecordID)
	return res, nil
}
