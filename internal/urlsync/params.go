package urlsync

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// params is an insertion-ordered query string builder. url.Values sorts on Encode,
// which would lose the schema order the codecs promise.
type params struct {
	pairs [][2]string
}

func (p *params) set(key, value string) {
	p.pairs = append(p.pairs, [2]string{key, value})
}

func (p *params) setString(key, value, def string) {
	if value != "" && value != def {
		p.set(key, value)
	}
}

func (p *params) setInt(key string, value, def int) {
	if value > 0 && value != def {
		p.set(key, strconv.Itoa(value))
	}
}

func (p *params) encode() string {
	var b strings.Builder
	for i, kv := range p.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv[0]))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv[1]))
	}
	return b.String()
}

// Normalize canonicalises a raw query string for order-independent comparison:
// pairs are sorted by key, then value, and re-encoded.
func Normalize(rawQuery string) string {
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		return rawQuery
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var p params
	for _, k := range keys {
		vs := append([]string(nil), values[k]...)
		sort.Strings(vs)
		for _, v := range vs {
			p.set(k, v)
		}
	}
	return p.encode()
}

// Equivalent reports whether two raw query strings carry the same pairs in any order.
func Equivalent(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Parse parses a raw query string, ignoring malformed pairs.
func Parse(rawQuery string) url.Values {
	values, _ := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if values == nil {
		values = url.Values{}
	}
	return values
}

func positiveInt(v url.Values, key string) *int {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

func nonEmpty(v url.Values, key string) *string {
	t := strings.TrimSpace(v.Get(key))
	if t == "" {
		return nil
	}
	return &t
}

func oneOf(v url.Values, key string, allowed ...string) *string {
	raw := v.Get(key)
	for _, a := range allowed {
		if raw == a {
			return &a
		}
	}
	return nil
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
