// internal/application/index-application/indexer.go
package indexapplication

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"internship-portal/internal/common/logger"
	"internship-portal/internal/common/metrics"
	"internship-portal/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const TaskType = "index-application"

var (
	ErrElasticsearchConnectionFailed = errors.New("ELASTICSEARCH_CONNECTION_FAILED")
	ErrIndexFailed                   = errors.New("INDEX_FAILED")
	ErrSearchQueryFailed             = errors.New("SEARCH_QUERY_FAILED")
)

// Indexer mirrors committed applications into elasticsearch for admin search.
// Postgres stays the source of truth; the index may lag or miss records.
type Indexer struct {
	config   *Config
	client   *elasticsearch.Client
	logger   logger.Logger
	mu       sync.Mutex
	draining bool
	inflight sync.WaitGroup
}

func NewIndexer(config *Config, client *elasticsearch.Client, log logger.Logger) *Indexer {
	return &Indexer{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{i.config.IndexName}}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrElasticsearchConnectionFailed, err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	body, _ := json.Marshal(indexMapping)
	res, err = esapi.IndicesCreateRequest{
		Index: i.config.IndexName,
		Body:  bytes.NewReader(body),
	}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrElasticsearchConnectionFailed, err)
	}
	defer res.Body.Close()
	if res.IsError() && !strings.Contains(res.String(), "resource_already_exists_exception") {
		return fmt.Errorf("%w: create index: %s", ErrIndexFailed, res.String())
	}

	i.logger.Info("search index created", map[string]interface{}{"index": i.config.IndexName})
	return nil
}

// Index writes app under its public identifier.
func (i *Indexer) Index(ctx context.Context, app models.Application) error {
	body, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrIndexFailed, err)
	}

	res, err := esapi.IndexRequest{
		Index:      i.config.IndexName,
		DocumentID: app.ApplicationID,
		Body:       bytes.NewReader(body),
	}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrElasticsearchConnectionFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrIndexFailed, res.String())
	}
	return nil
}

// IndexAsync indexes app in the background. Failures are logged only.
// Once Wait has been called the write is skipped.
func (i *Indexer) IndexAsync(app models.Application) {
	i.mu.Lock()
	if i.draining {
		i.mu.Unlock()
		metrics.IndexFailures.Inc()
		i.logger.Warn("indexer is draining, application not indexed", map[string]interface{}{
			"applicationId": app.ApplicationID,
		})
		return
	}
	i.inflight.Add(1)
	i.mu.Unlock()

	go func() {
		defer i.inflight.Done()

		ctx := context.Background()
		if i.config.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, i.config.Timeout)
			defer cancel()
		}

		if err := i.Index(ctx, app); err != nil {
			metrics.IndexFailures.Inc()
			i.logger.Warn("application indexing failed", map[string]interface{}{
				"error":         err,
				"applicationId": app.ApplicationID,
			})
		}
	}()
}

// Wait stops accepting background writes and blocks until those in flight
// have finished or ctx is done.
func (i *Indexer) Wait(ctx context.Context) error {
	i.mu.Lock()
	i.draining = true
	i.mu.Unlock()

	done := make(chan struct{})
	go func() {
		i.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Search runs a full-text query over the indexed applications.
func (i *Indexer) Search(ctx context.Context, input SearchInput) (*SearchOutput, error) {
	size := input.Size
	if size < 1 {
		size = i.config.DefaultLimit
	}
	if i.config.MaxLimit > 0 && size > i.config.MaxLimit {
		size = i.config.MaxLimit
	}
	from := input.From
	if from < 0 {
		from = 0
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  input.Query,
				"fields": searchFields,
				"type":   "best_fields",
			},
		},
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"submittedAt": map[string]interface{}{"order": "desc"}},
		},
	}
	body, _ := json.Marshal(query)

	if i.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.config.Timeout)
		defer cancel()
	}

	res, err := esapi.SearchRequest{
		Index: []string{i.config.IndexName},
		Body:  bytes.NewReader(body),
		From:  &from,
		Size:  &size,
	}.Do(ctx, i.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrElasticsearchConnectionFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchQueryFailed, res.String())
	}

	var r struct {
		Took int64 `json:"took"`
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Application `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrSearchQueryFailed, err)
	}

	apps := make([]models.Application, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		apps = append(apps, hit.Source)
	}

	return &SearchOutput{
		Applications: apps,
		Total:        r.Hits.Total.Value,
		Took:         r.Took,
	}, nil
}

// Clear removes every document from the index.
func (i *Indexer) Clear(ctx context.Context) error {
	body := strings.NewReader(`{"query":{"match_all":{}}}`)
	res, err := esapi.DeleteByQueryRequest{
		Index: []string{i.config.IndexName},
		Body:  body,
	}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrElasticsearchConnectionFailed, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("%w: clear index: %s", ErrIndexFailed, res.String())
	}
	return nil
}
