package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/blogsum/internal/config"
	"github.com/dgallion1/blogsum/internal/logging"
	"github.com/dgallion1/blogsum/internal/pipeline"
	"github.com/dgallion1/blogsum/internal/scrape"
	"github.com/dgallion1/blogsum/internal/store"
	"github.com/dgallion1/blogsum/internal/translate"
)

const catsArticle = "Cats are great. The weather today is sunny. Cats love to sleep."

// newSite serves a small blog with a few fixed pages.
func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/cats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "<html><head><title>Cats</title></head><body><p>%s</p></body></html>", catsArticle)
	})
	mux.HandleFunc("/blocked", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body></body></html>")
	})
	mux.HandleFunc("/short", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><p>Short. Tiny.</p></body></html>")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type testEnv struct {
	server *Server
	store  *store.Memory
	orch   *pipeline.Orchestrator
}

func newTestEnv(t *testing.T, apiKey string) *testEnv {
	t.Helper()
	cfg := config.Config{
		APIKey:           apiKey,
		DefaultSentences: 3,
		MaxSentences:     5,
		TargetLanguage:   "ur",
		RecentLimit:      5,
		WorkerCount:      2,
		MaxQueueSize:     10,
		MaxBatchURLs:     3,
		MaxUploadBytes:   1 << 20,
		JobTTL:           time.Hour,
	}
	log := logging.Discard()
	mem := store.NewMemory()
	fetcher := scrape.NewFetcher(scrape.Options{UserAgent: "blogsum-test", Timeout: 5 * time.Second})
	worker := pipeline.NewWorker(fetcher, translate.NewDictionaryTranslator(), mem, mem, cfg.TargetLanguage, log)
	orch := pipeline.NewOrchestrator(pipeline.Options{
		WorkerCount:  cfg.WorkerCount,
		MaxQueueSize: cfg.MaxQueueSize,
		JobTTL:       cfg.JobTTL,
	}, worker, log)
	orch.Start(context.Background())
	t.Cleanup(orch.Stop)

	return &testEnv{
		server: NewServer(orch, mem, mem, translate.NewDictionaryTranslator(), log, cfg),
		store:  mem,
		orch:   orch,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	return decode[map[string]string](t, rec)["error"]
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, "")
	rec := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]any](t, rec)["status"])
}

func TestSummarize_URL(t *testing.T) {
	site := newSite(t)
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPost, "/api/summarize", map[string]any{"url": site.URL + "/cats", "sentences": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "Cats are great. Cats love to sleep.", body["summary_en"])
	assert.Equal(t, "cats ہیں great cats love to sleep", body["summary_ur"])
	assert.Equal(t, body["summary_ur"], body["summary_translated"])
	assert.Equal(t, "Cats", body["title"])
	assert.NotEmpty(t, body["record_id"])

	recent, err := env.store.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, site.URL+"/cats", recent[0].URL)
}

func TestSummarize_Errors(t *testing.T) {
	site := newSite(t)
	env := newTestEnv(t, "")

	tests := []struct {
		name string
		body any
		code int
		msg  string
	}{
		{"missing url", map[string]any{}, http.StatusBadRequest, msgURLRequired},
		{"blank url", map[string]any{"url": "   "}, http.StatusBadRequest, msgURLRequired},
		{"bad scheme", map[string]any{"url": "ftp://example.com/post"}, http.StatusBadRequest, msgInvalidURL},
		{"blocked", map[string]any{"url": site.URL + "/blocked"}, http.StatusBadGateway, msgBlocked},
		{"no text", map[string]any{"url": site.URL + "/empty"}, http.StatusBadRequest, msgNoText},
		{"no summary", map[string]any{"url": site.URL + "/short"}, http.StatusInternalServerError, msgNoSummary},
		{"not found", map[string]any{"url": site.URL + "/missing"}, http.StatusInternalServerError, msgProcessError},
		{"too many sentences", map[string]any{"url": site.URL + "/cats", "sentences": 6}, http.StatusBadRequest, "sentences must be between 1 and 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/summarize", tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.msg, errorOf(t, rec))
		})
	}

	recent, err := env.store.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestSummarize_MalformedJSON(t *testing.T) {
	env := newTestEnv(t, "")
	req := httptest.NewRequest(http.MethodPost, "/api/summarize", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorOf(t, rec), "invalid JSON body")
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err  error
		msg  string
		code int
	}{
		{fmt.Errorf("x: %w", scrape.ErrInvalidURL), msgInvalidURL, http.StatusBadRequest},
		{&scrape.StatusError{StatusCode: 403}, msgBlocked, http.StatusBadGateway},
		{&scrape.StatusError{StatusCode: 404}, msgProcessError, http.StatusInternalServerError},
		{scrape.ErrNoText, msgNoText, http.StatusBadRequest},
		{pipeline.ErrNoSummary, msgNoSummary, http.StatusInternalServerError},
		{fmt.Errorf("translate summary: %w", &translate.RetryableError{StatusCode: 429, Err: errors.New("slow down")}), msgBusy, http.StatusServiceUnavailable},
		{&translate.RetryableError{StatusCode: 529, Err: errors.New("overloaded")}, msgProcessError, http.StatusInternalServerError},
		{errors.New("boom"), msgProcessError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		msg, code := classifyError(tt.err)
		assert.Equal(t, tt.msg, msg, tt.err.Error())
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}

func TestSummarizeText(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPost, "/api/summarize/text", map[string]any{"text": catsArticle, "sentences": 2, "detail": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Summary    string `json:"summary"`
		Candidates int    `json:"candidates"`
		Sentences  []struct {
			Text  string `json:"text"`
			Index int    `json:"index"`
			Score int    `json:"score"`
		} `json:"sentences"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Cats are great. Cats love to sleep.", body.Summary)
	assert.Equal(t, 3, body.Candidates)
	require.Len(t, body.Sentences, 2)
	assert.Equal(t, 0, body.Sentences[0].Index)
	assert.Equal(t, 2, body.Sentences[1].Index)

	recent, err := env.store.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, recent, "text summaries are not stored")
}

func TestSummarizeText_DefaultsAndValidation(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPost, "/api/summarize/text", map[string]any{"text": catsArticle})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, catsArticle, body["summary"])
	assert.NotContains(t, body, "sentences")

	rec = env.do(t, http.MethodPost, "/api/summarize/text", map[string]any{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/summarize/text", map[string]any{"text": catsArticle, "sentences": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func uploadRequest(t *testing.T, filename, content string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/summarize/file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSummarizeFile(t *testing.T) {
	env := newTestEnv(t, "")
	md := "# Pets\n\nCats are great. The weather today is sunny.\n\n```\ncode block ignored here\n```\n\nCats love to sleep.\n"

	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, uploadRequest(t, "pets.md", md, map[string]string{"sentences": "2"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "Pets", body["title"])
	assert.Equal(t, "pets.md", body["filename"])
	assert.Equal(t, "Cats are great. Cats love to sleep.", body["summary"])
}

func TestSummarizeFile_Rejections(t *testing.T) {
	env := newTestEnv(t, "")

	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, uploadRequest(t, "data.csv", "a,b,c", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorOf(t, rec), "unsupported file type")

	rec = httptest.NewRecorder()
	env.server.ServeHTTP(rec, uploadRequest(t, "notes.txt", "plenty of words here.", map[string]string{"sentences": "many"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	env.server.ServeHTTP(rec, uploadRequest(t, "blank.txt", "\n\n", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatch_QueuesAndCompletes(t *testing.T) {
	site := newSite(t)
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPost, "/api/summarize/batch", map[string]any{
		"urls":      []string{site.URL + "/cats", "not a url", site.URL + "/blocked"},
		"sentences": 2,
	})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var body struct {
		BatchID string           `json:"batch_id"`
		Jobs    []map[string]any `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.BatchID)
	require.Len(t, body.Jobs, 3)
	assert.Equal(t, msgInvalidURL, body.Jobs[1]["error"])

	okID, _ := body.Jobs[0]["job_id"].(string)
	blockedID, _ := body.Jobs[2]["job_id"].(string)
	require.NotEmpty(t, okID)
	require.NotEmpty(t, blockedID)

	snap := pollJob(t, env, okID)
	assert.Equal(t, pipeline.StatusCompleted, snap.Status)
	assert.Equal(t, body.BatchID, snap.BatchID)
	require.NotNil(t, snap.Result)
	assert.Equal(t, "Cats are great. Cats love to sleep.", snap.Result.SummaryEN)

	snap = pollJob(t, env, blockedID)
	assert.Equal(t, pipeline.StatusFailed, snap.Status)
	assert.Len(t, snap.Errors, 1)
}

func pollJob(t *testing.T, env *testEnv, id string) pipeline.JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		rec := env.do(t, http.MethodGet, "/api/jobs/"+id, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		snap := decode[pipeline.JobSnapshot](t, rec)
		if snap.Status.Done() {
			return snap
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", id)
	return pipeline.JobSnapshot{}
}

func TestBatch_Validation(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPost, "/api/summarize/batch", map[string]any{"urls": []string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/summarize/batch", map[string]any{
		"urls": []string{"https://a.example", "https://b.example", "https://c.example", "https://d.example"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "at most 3 URLs per batch", errorOf(t, rec))
}

func TestJobStatus_NotFound(t *testing.T) {
	env := newTestEnv(t, "")
	rec := env.do(t, http.MethodGet, "/api/jobs/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecent(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	for i := range 7 {
		require.NoError(t, env.store.SaveSummary(ctx, &store.Record{
			URL:       fmt.Sprintf("https://example.com/%d", i),
			SummaryEN: "Summary.",
			CreatedAt: time.Date(2024, 1, 1, 0, i, 0, 0, time.UTC),
		}))
	}

	rec := env.do(t, http.MethodGet, "/api/recent", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	records := decode[[]store.Record](t, rec)
	require.Len(t, records, 5)
	assert.Equal(t, "https://example.com/6", records[0].URL)
	assert.Equal(t, "https://example.com/2", records[4].URL)

	rec = env.do(t, http.MethodGet, "/api/recent?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]store.Record](t, rec), 2)

	rec = env.do(t, http.MethodGet, "/api/recent?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecent_EmptyIsArray(t *testing.T) {
	env := newTestEnv(t, "")
	rec := env.do(t, http.MethodGet, "/api/recent", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestArchive(t *testing.T) {
	site := newSite(t)
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPost, "/api/summarize", map[string]any{"url": site.URL + "/cats"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/archive?url="+site.URL+"/cats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	texts := decode[[]store.FullText](t, rec)
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0].Text, catsArticle)

	rec = env.do(t, http.MethodGet, "/api/archive?url=nope", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranslationStats_UnavailableForDictionary(t *testing.T) {
	env := newTestEnv(t, "")
	rec := env.do(t, http.MethodGet, "/api/stats/translation", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuth(t *testing.T) {
	env := newTestEnv(t, "secret")

	rec := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "health stays public")

	rec = env.do(t, http.MethodGet, "/api/recent", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing authorization", errorOf(t, rec))

	for token, want := range map[string]int{"wrong": http.StatusUnauthorized, "secret": http.StatusOK} {
		req := httptest.NewRequest(http.MethodGet, "/api/recent", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		env.server.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, token)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"notes.md":         "notes.md",
		"../../etc/passwd": "passwd",
		"a..b.txt":         "a_b.txt",
		"":                 "unnamed",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeFilename(in), in)
	}
}
