package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// pathInt64 parses a numeric path parameter
func pathInt64(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	if raw == "" {
		return 0, fmt.Errorf("missing %s", name)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}

	return id, nil
}

// langFromRequest picks a message catalog language from the Accept-Language
// header. Only the primary tag matters here.
func langFromRequest(r *http.Request) string {
	header := r.Header.Get("Accept-Language")
	primary, _, _ := strings.Cut(header, ",")
	primary = strings.TrimSpace(primary)

	if strings.HasPrefix(primary, "en") {
		return "en"
	}
	return "zh_CN"
}
