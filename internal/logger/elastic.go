package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sirupsen/logrus"
)

const (
	// indexPrefix is the base name of the daily log indices
	indexPrefix = "exchange_logs"

	// indexTemplateName is the name of the index template applied to log indices
	indexTemplateName = "exchange-logs-template"

	// shipBuffer is the size of the async shipping queue. Entries are dropped
	// when the queue is full so logging never blocks request handling.
	shipBuffer = 1024

	shipTimeout = 5 * time.Second
)

// indexTemplateBody mirrors the field mapping the log documents are written with.
const indexTemplateBody = `{
  "index_patterns": ["` + indexPrefix + `-*"],
  "template": {
    "settings": {
      "number_of_shards": 1,
      "number_of_replicas": 0
    },
    "mappings": {
      "properties": {
        "timestamp": {"type": "date"},
        "level": {"type": "keyword"},
        "message": {"type": "text"},
        "host": {"type": "keyword"}
      }
    }
  }
}`

// ElasticHook is a logrus hook that ships log entries to Elasticsearch.
// Shipping is asynchronous: Fire enqueues a document and a background
// goroutine indexes it into a daily index.
type ElasticHook struct {
	client *elasticsearch.Client
	host   string
	queue  chan map[string]interface{}
	done   chan struct{}
}

// NewElasticHook creates a hook shipping to the given Elasticsearch endpoint
// and starts its background shipper.
func NewElasticHook(esURL string) (*ElasticHook, error) {
	if !strings.HasPrefix(esURL, "http://") && !strings.HasPrefix(esURL, "https://") {
		esURL = "http://" + esURL
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{esURL},
		RetryOnStatus: []int{502, 503, 504},
		MaxRetries:    3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	hostname, _ := os.Hostname()

	h := &ElasticHook{
		client: client,
		host:   hostname,
		queue:  make(chan map[string]interface{}, shipBuffer),
		done:   make(chan struct{}),
	}
	go h.ship()
	return h, nil
}

// SetupIndexTemplate creates or updates the index template for the log
// indices so field types map correctly in Kibana.
func (h *ElasticHook) SetupIndexTemplate(ctx context.Context) error {
	res, err := h.client.Indices.PutIndexTemplate(
		indexTemplateName,
		strings.NewReader(indexTemplateBody),
		h.client.Indices.PutIndexTemplate.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to put index template: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("failed to put index template: %s", res.String())
	}
	return nil
}

// Levels implements logrus.Hook
func (h *ElasticHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.ErrorLevel,
		logrus.WarnLevel,
		logrus.InfoLevel,
	}
}

// Fire implements logrus.Hook. It never blocks: when the queue is full the
// entry is dropped and only written to the primary output.
func (h *ElasticHook) Fire(entry *logrus.Entry) error {
	doc := map[string]interface{}{
		"timestamp": entry.Time.UTC().Format(time.RFC3339Nano),
		"level":     entry.Level.String(),
		"message":   entry.Message,
		"host":      h.host,
	}
	for k, v := range entry.Data {
		doc[k] = v
	}

	select {
	case h.queue <- doc:
	default:
	}
	return nil
}

// Close stops the background shipper after draining the queue.
func (h *ElasticHook) Close() {
	close(h.queue)
	<-h.done
}

func (h *ElasticHook) ship() {
	defer close(h.done)
	for doc := range h.queue {
		h.index(doc)
	}
}

func (h *ElasticHook) index(doc map[string]interface{}) {
	body, err := json.Marshal(doc)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shipTimeout)
	defer cancel()

	index := fmt.Sprintf("%s-%s", indexPrefix, time.Now().UTC().Format("2006.01.02"))
	res, err := h.client.Index(
		index,
		bytes.NewReader(body),
		h.client.Index.WithContext(ctx),
	)
	if err != nil {
		return
	}
	_ = res.Body.Close()
}
