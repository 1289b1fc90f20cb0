package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/iancoleman/strcase"
	"github.com/valyala/fastjson"

	"logview/internal/app/errors"
	"logview/internal/config"
	"logview/internal/config/logger"
)

// Backend field names and highlight tags
const (
	TimestampField   = "@timestamp"
	MessageField     = "message"
	HighlightPreTag  = "<span class='highlight'>"
	HighlightPostTag = "</span>"
)

// Hit is one search result with its source keys normalised to mixedCase
type Hit struct {
	ID        string                     `json:"_id"`
	Index     string                     `json:"_index,omitempty"`
	Source    map[string]json.RawMessage `json:"_source"`
	Highlight json.RawMessage            `json:"highlight,omitempty"`
	Sort      json.RawMessage            `json:"sort,omitempty"`
}

// Searcher runs log searches against the configured index pattern
type Searcher interface {
	Search(ctx context.Context, filter Filter) ([]Hit, error)
	Index() string
	SetIndex(pattern string)
}

type searcher struct {
	client  *elasticsearch.Client
	timeout time.Duration
	parser  fastjson.ParserPool

	mu    sync.RWMutex
	index string

	log logger.Logger
}

// NewSearcher creates an Elasticsearch backed searcher
func NewSearcher(cfg *config.Config, log logger.Logger) (Searcher, error) {
	return newSearcher(cfg, nil, log)
}

func newSearcher(cfg *config.Config, transport http.RoundTripper, log logger.Logger) (*searcher, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.Elastic.URL},
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrSearchFailed, err)
	}

	return &searcher{
		client:  client,
		timeout: cfg.Elastic.Timeout,
		index:   cfg.Elastic.Index,
		log:     log.WithComponent("SEARCH"),
	}, nil
}

// Index returns the index pattern searches run against
func (s *searcher) Index() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.index
}

// SetIndex swaps the index pattern used by subsequent searches
func (s *searcher) SetIndex(pattern string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index != pattern {
		s.log.Info().Str("from", s.index).Str("to", pattern).Msg("Index pattern changed")
	}

	s.index = pattern
}

// Search runs filter and returns the hits in sort order
func (s *searcher) Search(ctx context.Context, filter Filter) ([]Hit, error) {
	body, err := json.Marshal(filter.Body())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrSearchFailed, err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	index := s.Index()
	s.log.Debug().Str("index", index).RawJSON("body", body).Msg("Searching")

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrSearchFailed, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrSearchFailed, err)
	}

	if res.IsError() {
		return nil, fmt.Errorf("%w: %d %s", errors.ErrSearchBadStatus, res.StatusCode, errorReason(data))
	}

	return s.decode(data)
}

// decode extracts hits.hits and normalises every _source key
func (s *searcher) decode(data []byte) ([]Hit, error) {
	p := s.parser.Get()
	defer s.parser.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrMalformedResults, err)
	}

	items := v.Get("hits", "hits")
	if items == nil {
		return nil, fmt.Errorf("%w: missing hits.hits", errors.ErrMalformedResults)
	}

	array, err := items.Array()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrMalformedResults, err)
	}

	hits := make([]Hit, 0, len(array))

	for _, item := range array {
		raw := item.Get("_source")
		if raw == nil {
			return nil, fmt.Errorf("%w: hit without _source", errors.ErrMalformedResults)
		}

		source, err := raw.Object()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrMalformedResults, err)
		}

		h := Hit{
			ID:     string(item.GetStringBytes("_id")),
			Index:  string(item.GetStringBytes("_index")),
			Source: make(map[string]json.RawMessage, source.Len()),
		}

		source.Visit(func(key []byte, value *fastjson.Value) {
			h.Source[NormalizeKey(string(key))] = json.RawMessage(value.MarshalTo(nil))
		})

		if highlight := item.Get("highlight"); highlight != nil {
			h.Highlight = json.RawMessage(highlight.MarshalTo(nil))
		}

		if sort := item.Get("sort"); sort != nil {
			h.Sort = json.RawMessage(sort.MarshalTo(nil))
		}

		hits = append(hits, h)
	}

	return hits, nil
}

// NormalizeKey turns a dotted backend key into mixedCase: log.level becomes logLevel.
// Any rune that is not a letter or digit separates words; letters outside ASCII are kept.
func NormalizeKey(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	if len(words) == 0 {
		return key
	}

	var b strings.Builder

	for i, word := range words {
		if isASCII(word) {
			word = strcase.ToLowerCamel(word)
		} else {
			word = mapFirstRune(word, unicode.ToLower)
		}

		if i > 0 {
			word = mapFirstRune(word, unicode.ToUpper)
		}

		b.WriteString(word)
	}

	return b.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}

	return true
}

func mapFirstRune(s string, fn func(rune) rune) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(fn(r)) + s[size:]
}

// errorReason pulls error.reason out of an Elasticsearch error body
func errorReason(data []byte) string {
	v, err := fastjson.ParseBytes(data)
	if err != nil {
		return ""
	}

	if reason := v.GetStringBytes("error", "reason"); reason != nil {
		return string(reason)
	}

	return string(v.GetStringBytes("error"))
}
