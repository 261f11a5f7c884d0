package api

import (
	"net/url"
	"strings"
)

// Param is a single request parameter.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered parameter list. Unlike url.Values it keeps insertion
// order, so auth parameters always precede operation parameters on the wire.
type Params []Param

// Add returns p with key=value appended.
func (p Params) Add(key, value string) Params {
	return append(p, Param{Key: key, Value: value})
}

// Get returns the first value for key.
func (p Params) Get(key string) (string, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Keys returns the parameter names in order.
func (p Params) Keys() []string {
	keys := make([]string, len(p))
	for i, kv := range p {
		keys[i] = kv.Key
	}
	return keys
}

// Encode renders p as a query string in order, percent-encoding keys and
// values as UTF-8.
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}
	var buf strings.Builder
	for i, kv := range p {
		if i > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(url.QueryEscape(kv.Key))
		buf.WriteByte('=')
		buf.WriteString(url.QueryEscape(kv.Value))
	}
	return buf.String()
}

// Values converts p to url.Values. Order is lost.
func (p Params) Values() url.Values {
	v := make(url.Values, len(p))
	for _, kv := range p {
		v.Add(kv.Key, kv.Value)
	}
	return v
}
