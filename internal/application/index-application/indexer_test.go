// internal/application/index-application/indexer_test.go
package indexapplication

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"internship-portal/internal/common/logger"
	"internship-portal/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

type fakeElasticsearch struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeElasticsearch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	f.handler(w, r)
}

func (f *fakeElasticsearch) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func newTestIndexer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Indexer, *fakeElasticsearch) {
	t.Helper()
	fake := &fakeElasticsearch{handler: handler}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	cfg := &Config{IndexName: "applications", DefaultLimit: 20, MaxLimit: 100, Timeout: 2 * time.Second}
	return NewIndexer(cfg, client, logger.NewTestLogger(t)), fake
}

func createTestApplication() models.Application {
	return models.NewApplication("INT-2026-0003", models.Submission{
		FullName:        "Asha Rao",
		Email:           "asha@example.com",
		PreferredDomain: "Data Science",
		Skills:          []string{"Python"},
	}, time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestIndexer_Index_UsesApplicationIDAsDocumentID(t *testing.T) {
	indexer, fake := newTestIndexer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"result":"created"}`)
	})

	err := indexer.Index(context.Background(), createTestApplication())

	require.NoError(t, err)
	reqs := fake.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.Equal(t, "/applications/_doc/INT-2026-0003", reqs[0].Path)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(reqs[0].Body), &doc))
	assert.Equal(t, "asha@example.com", doc["email"])
	assert.Equal(t, "pending", doc["status"])
}

func TestIndexer_Index_ErrorResponse(t *testing.T) {
	indexer, _ := newTestIndexer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"type":"mapper_parsing_exception"}}`)
	})

	err := indexer.Index(context.Background(), createTestApplication())

	assert.True(t, errors.Is(err, ErrIndexFailed))
}

func TestIndexer_IndexAsync_FailureIsSwallowed(t *testing.T) {
	indexer, fake := newTestIndexer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"boom"}`)
	})

	indexer.IndexAsync(createTestApplication())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, indexer.Wait(ctx))
	assert.NotEmpty(t, fake.recorded())
}

func TestIndexer_IndexAsync_AfterWaitIsSkipped(t *testing.T) {
	indexer, fake := newTestIndexer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"result":"created"}`)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, indexer.Wait(ctx))

	indexer.IndexAsync(createTestApplication())

	require.NoError(t, indexer.Wait(ctx))
	assert.Empty(t, fake.recorded())
}

func TestIndexer_Search(t *testing.T) {
	indexer, fake := newTestIndexer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"took": 3,
			"hits": {
				"total": {"value": 1, "relation": "eq"},
				"hits": [
					{"_id": "INT-2026-0003", "_source": {"applicationId": "INT-2026-0003", "fullName": "Asha Rao", "status": "pending"}}
				]
			}
		}`)
	})

	out, err := indexer.Search(context.Background(), SearchInput{Query: "asha", Size: 500})

	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	assert.Equal(t, int64(3), out.Took)
	require.Len(t, out.Applications, 1)
	assert.Equal(t, "Asha Rao", out.Applications[0].FullName)

	reqs := fake.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/applications/_search", reqs[0].Path)
	assert.True(t, strings.Contains(reqs[0].Body, `"multi_match"`))
	assert.True(t, strings.Contains(reqs[0].Body, `"asha"`))
}

func TestIndexer_Search_ErrorResponse(t *testing.T) {
	indexer, _ := newTestIndexer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":{"type":"index_not_found_exception"}}`)
	})

	_, err := indexer.Search(context.Background(), SearchInput{Query: "asha"})

	assert.True(t, errors.Is(err, ErrSearchQueryFailed))
}

func TestIndexer_EnsureIndex_CreatesWhenMissing(t *testing.T) {
	indexer, fake := newTestIndexer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		io.WriteString(w, `{"acknowledged":true}`)
	})

	require.NoError(t, indexer.EnsureIndex(context.Background()))

	reqs := fake.recorded()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodPut, reqs[1].Method)
	assert.Contains(t, reqs[1].Body, `"applicationId":{"type":"keyword"}`)
}

func TestIndexer_EnsureIndex_ExistingIndex(t *testing.T) {
	indexer, fake := newTestIndexer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, indexer.EnsureIndex(context.Background()))
	assert.Len(t, fake.recorded(), 1)
}
