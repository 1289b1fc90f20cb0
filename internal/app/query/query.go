package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Known filter keys
const (
	KeyQuery       = "query"
	KeyStartDate   = "startDate"
	KeyEndDate     = "endDate"
	KeySize        = "size"
	KeyAutoRefresh = "autoRefresh"
	KeyOrder       = "order"
)

// Filter is the decoded form of a location search string.
// Empty strings and zero values mean the key is absent.
type Filter struct {
	Query       string
	StartDate   string
	EndDate     string
	Size        int
	AutoRefresh bool
	// Extra keeps unknown keys in dot notation so they survive a round trip
	Extra map[string][]string
}

// IsEmpty reports whether the filter would encode to an empty string
func (f Filter) IsEmpty() bool {
	return f.Query == "" && f.StartDate == "" && f.EndDate == "" && f.Size == 0 && !f.AutoRefresh && len(f.Extra) == 0
}

// Get returns the last value of an extra key; all values still round trip through Encode
func (f Filter) Get(key string) string {
	if values := f.Extra[key]; len(values) > 0 {
		return values[len(values)-1]
	}

	return ""
}

// Clone returns a deep copy of the filter
func (f Filter) Clone() Filter {
	clone := f
	clone.Extra = nil

	if len(f.Extra) > 0 {
		clone.Extra = make(map[string][]string, len(f.Extra))
		for key, values := range f.Extra {
			clone.Extra[key] = append([]string(nil), values...)
		}
	}

	return clone
}

// WithPageSize returns a copy of f with the size forced to n
func WithPageSize(f Filter, n int) Filter {
	clone := f.Clone()
	clone.Size = n

	return clone
}

// Decode parses a search string, with or without a leading '?', into a Filter.
// Malformed pairs are skipped rather than reported.
func Decode(search string) Filter {
	var f Filter

	search = strings.TrimPrefix(search, "?")
	if search == "" {
		return f
	}

	for _, pair := range strings.Split(search, "&") {
		if pair == "" {
			continue
		}

		rawKey, rawValue, _ := strings.Cut(pair, "=")

		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			continue
		}

		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			continue
		}

		key = normalizeKey(key)
		if key == "" {
			continue
		}

		f.set(key, value)
	}

	return f
}

func (f *Filter) set(key, value string) {
	switch key {
	case KeyQuery:
		f.Query = value
	case KeyStartDate:
		f.StartDate = value
	case KeyEndDate:
		f.EndDate = value
	case KeySize:
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			f.Size = n
		}
	case KeyAutoRefresh:
		f.AutoRefresh = value == "true"
	default:
		if f.Extra == nil {
			f.Extra = make(map[string][]string)
		}

		f.Extra[key] = append(f.Extra[key], value)
	}
}

// normalizeKey rewrites bracket notation to dot notation: a[b] -> a.b, a[] and a[0] -> a
func normalizeKey(key string) string {
	var b strings.Builder

	for {
		open := strings.IndexByte(key, '[')
		if open < 0 {
			b.WriteString(key)
			break
		}

		end := strings.IndexByte(key[open:], ']')
		if end < 0 {
			b.WriteString(key)
			break
		}

		b.WriteString(key[:open])

		inner := key[open+1 : open+end]
		if inner != "" && !isIndex(inner) {
			b.WriteByte('.')
			b.WriteString(inner)
		}

		key = key[open+end+1:]
	}

	return b.String()
}

func isIndex(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// Encode serializes f into a search string with a leading '?'.
// An empty filter encodes to the empty string.
func Encode(f Filter) string {
	var parts []string

	add := func(key, value string) {
		parts = append(parts, escape(key)+"="+escape(value))
	}

	if f.Query != "" {
		add(KeyQuery, f.Query)
	}

	if f.StartDate != "" {
		add(KeyStartDate, f.StartDate)
	}

	if f.EndDate != "" {
		add(KeyEndDate, f.EndDate)
	}

	if f.Size > 0 {
		add(KeySize, strconv.Itoa(f.Size))
	}

	if f.AutoRefresh {
		add(KeyAutoRefresh, "true")
	}

	keys := make([]string, 0, len(f.Extra))
	for key := range f.Extra {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		for _, value := range f.Extra[key] {
			add(key, value)
		}
	}

	if len(parts) == 0 {
		return ""
	}

	return "?" + strings.Join(parts, "&")
}

// escape percent-encodes s, using %20 rather than '+' for spaces
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Lookup returns the decoded value of key in search, normalising bracket keys.
// A repeated key resolves to its last value, the same as Decode.
func Lookup(search, key string) (string, bool) {
	var (
		value string
		found bool
	)

	for _, pair := range strings.Split(strings.TrimPrefix(search, "?"), "&") {
		rawKey, rawValue, _ := strings.Cut(pair, "=")

		name, err := url.QueryUnescape(rawKey)
		if err != nil || normalizeKey(name) != key {
			continue
		}

		decoded, err := url.QueryUnescape(rawValue)
		if err != nil {
			continue
		}

		value, found = decoded, true
	}

	return value, found
}
