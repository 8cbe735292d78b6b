package app

import (
	"net/url"
	"strings"
)

// pgx-only flag older DB_URLs carry; lib/pq would forward it to the server
// as a runtime parameter and fail the handshake.
const pgxBinaryResultParam = "disable_prepared_binary_result"

// NormalizeDBURL prepares a DB_URL for lib/pq. With pgbouncerSafe set it
// enables binary_parameters so queries skip the unnamed prepare round trip,
// which transaction-pooling proxies cannot follow.
func NormalizeDBURL(raw string, pgbouncerSafe bool) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	_, hadPgxFlag := query[pgxBinaryResultParam]
	query.Del(pgxBinaryResultParam)
	if pgbouncerSafe && query.Get("binary_parameters") == "" {
		query.Set("binary_parameters", "yes")
	} else if !hadPgxFlag {
		return raw
	}
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		name, found := strings.CutPrefix(token, "dbname=")
		if !found {
			continue
		}
		name = strings.Trim(strings.TrimSpace(name), `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}
