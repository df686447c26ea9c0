package postgres

import (
	"net/url"
	"strings"
)

const (
	disableBinaryParam = "disable_prepared_binary_result"
	maxTraceQueryLen   = 512
)

// DSN adds disable_prepared_binary_result=yes to a URL or key=value
// connection string unless it already sets the parameter.
func DSN(raw string, disableBinary bool) string {
	if !disableBinary || strings.Contains(raw, disableBinaryParam+"=") {
		return raw
	}

	if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
		q := u.Query()
		q.Set(disableBinaryParam, "yes")
		u.RawQuery = q.Encode()
		return u.String()
	}

	return strings.TrimSpace(raw) + " " + disableBinaryParam + "=yes"
}

// DatabaseName returns the dbname of a URL or key=value connection string,
// or "" when none is set.
func DatabaseName(raw string) string {
	raw = strings.TrimSpace(raw)
	if u, err := url.Parse(raw); err == nil && (u.Scheme == "postgres" || u.Scheme == "postgresql") {
		return strings.Trim(u.Path, "/")
	}

	for _, field := range strings.Fields(raw) {
		name, ok := strings.CutPrefix(field, "dbname=")
		if !ok {
			continue
		}
		if name = strings.Trim(name, `"'`); name != "" {
			return name
		}
	}
	return ""
}

// TraceQuery flattens whitespace and caps the length of a query recorded on
// database spans.
func TraceQuery(query string) string {
	flat := strings.Join(strings.Fields(query), " ")
	if len(flat) <= maxTraceQueryLen {
		return flat
	}
	return flat[:maxTraceQueryLen] + "..."
}
