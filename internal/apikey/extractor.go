package apikey

import (
	"errors"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/folio-org/edge-common-sub000/internal/config"
)

// ErrNoAPIKeyFound is returned when no configured source yields a key.
var ErrNoAPIKeyFound = errors.New("no api key found")

// Source identifies where in a request an API key may be carried.
type Source string

// Supported extraction sources.
const (
	SourceParam  Source = "PARAM"
	SourceHeader Source = "HEADER"
	SourcePath   Source = "PATH"
)

// Request locations the sources read from.
const (
	// ParamName is the query parameter carrying the key.
	ParamName = "apikey"
	// HeaderName is the header carrying the key.
	HeaderName = "Authorization"
	// PathParamName is the route parameter carrying the key.
	PathParamName = "apiKeyPath"
)

// headerPattern matches authorization-scheme-like header values; only
// the token after the scheme word is the key.
var headerPattern = regexp.MustCompile(`(?i)apikey\s+(.+)`)

// ParseSources parses a comma-separated source list. An empty list or an
// unknown token is a configuration error, raised at construction rather
// than per request.
func ParseSources(spec string) ([]Source, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, config.NewConfigError("apiKey.sources", "source list is empty")
	}

	parts := strings.Split(spec, ",")
	sources := make([]Source, 0, len(parts))
	for _, part := range parts {
		switch s := Source(strings.TrimSpace(part)); s {
		case SourceParam, SourceHeader, SourcePath:
			sources = append(sources, s)
		default:
			return nil, config.NewConfigError("apiKey.sources",
				"unknown source "+strings.TrimSpace(part))
		}
	}
	return sources, nil
}

// Extractor pulls raw API keys out of incoming requests.
type Extractor struct {
	sources []Source
}

// NewExtractor builds an extractor from a comma-separated source list.
func NewExtractor(spec string) (*Extractor, error) {
	sources, err := ParseSources(spec)
	if err != nil {
		return nil, err
	}
	return &Extractor{sources: sources}, nil
}

// Extract tries each configured source in order and returns the first
// non-empty value. Sources are never merged or cross-checked.
func (e *Extractor) Extract(c *gin.Context) (string, error) {
	for _, source := range e.sources {
		var key string
		switch source {
		case SourceParam:
			key = c.Query(ParamName)
		case SourceHeader:
			key = fromHeader(c.GetHeader(HeaderName))
		case SourcePath:
			key = c.Param(PathParamName)
		}
		if key != "" {
			return key, nil
		}
	}
	return "", ErrNoAPIKeyFound
}

// fromHeader returns the token of an "ApiKey <token>" shaped value, or
// the whole header value verbatim when it has no recognizable scheme.
func fromHeader(value string) string {
	if value == "" {
		return ""
	}
	if m := headerPattern.FindStringSubmatch(value); m != nil {
		return strings.TrimSpace(m[1])
	}
	return value
}
