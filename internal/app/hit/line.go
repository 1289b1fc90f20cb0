package hit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Friendly source keys read by the table
const (
	KeyTimestamp = "timestamp"
	KeyLevel     = "logLevel"
	KeyLogger    = "logLogger"
	KeyService   = "serviceName"
	KeyMessage   = "message"
)

// TimeLayout is the table timestamp format
const TimeLayout = "02.01.2006 15:04"

// Entry is one key of a hit as listed in the detail view
type Entry struct {
	Key   string
	Value string
	Pivot string
}

// LogLine reads typed values out of a hit's source
type LogLine struct {
	hit    Hit
	fields Fields
}

// NewLogLine creates a log line view over h
func NewLogLine(h Hit, fields Fields) LogLine {
	if fields == nil {
		fields = DefaultFields()
	}

	return LogLine{hit: h, fields: fields}
}

// Hit returns the underlying hit
func (l LogLine) Hit() Hit {
	return l.hit
}

// Value looks up the friendly key first, then its backend name
func (l LogLine) Value(key string) (any, bool) {
	if v, ok := l.hit.Source[key]; ok {
		return v, true
	}

	if backend := l.fields.Backend(key); backend != key {
		if v, ok := l.hit.Source[backend]; ok {
			return v, true
		}
	}

	return nil, false
}

// String returns the value of key as display text
func (l LogLine) String(key string) string {
	v, ok := l.Value(key)
	if !ok || v == nil {
		return ""
	}

	if s, ok := v.(string); ok {
		return s
	}

	return compact(v)
}

// Timestamp parses the timestamp field, accepting RFC 3339 strings and epoch milliseconds
func (l LogLine) Timestamp() (time.Time, bool) {
	v, ok := l.Value(KeyTimestamp)
	if !ok {
		return time.Time{}, false
	}

	switch ts := v.(type) {
	case string:
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return time.Time{}, false
		}

		return t, true
	case json.Number:
		ms, err := ts.Int64()
		if err != nil {
			return time.Time{}, false
		}

		return time.UnixMilli(ms).UTC(), true
	case float64:
		return time.UnixMilli(int64(ts)).UTC(), true
	default:
		return time.Time{}, false
	}
}

// FormatTime renders the timestamp in loc, or the raw value when it cannot be parsed
func (l LogLine) FormatTime(loc *time.Location) string {
	t, ok := l.Timestamp()
	if !ok {
		return l.String(KeyTimestamp)
	}

	if loc == nil {
		loc = time.UTC
	}

	return t.In(loc).Format(TimeLayout)
}

// Level returns the log level
func (l LogLine) Level() string {
	return l.String(KeyLevel)
}

// Logger returns the logger name
func (l LogLine) Logger() string {
	return l.String(KeyLogger)
}

// Service returns the service name
func (l LogLine) Service() string {
	return l.String(KeyService)
}

// Message returns the highlighted message fragment when present, otherwise the source message.
// The result may contain highlight markup and must be rendered through Segments.
func (l LogLine) Message() string {
	if l.hit.Highlight != nil && len(l.hit.Highlight.Message) > 0 {
		return l.hit.Highlight.Message[0]
	}

	return l.String(KeyMessage)
}

// Entries lists every source key once, sorted, with its JSON value and pivot query
func (l LogLine) Entries() []Entry {
	keys := make([]string, 0, len(l.hit.Source))
	for key := range l.hit.Source {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		value := l.hit.Source[key]

		entries = append(entries, Entry{
			Key:   key,
			Value: compact(value),
			Pivot: Pivot(l.fields, key, value),
		})
	}

	return entries
}

// Pivot builds the query `<backend-key>: "<value>"` that filters on a single field value
func Pivot(fields Fields, key string, value any) string {
	var text string

	switch v := value.(type) {
	case string:
		text = v
	case nil:
		text = "null"
	default:
		text = compact(v)
	}

	text = strings.ReplaceAll(text, `"`, `\"`)

	return fmt.Sprintf(`%s: "%s"`, fields.Backend(key), text)
}

func compact(v any) string {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}

	return strings.TrimSuffix(buf.String(), "\n")
}
