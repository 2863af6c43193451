package collector

import (
	"errors"
	"fmt"

	"RiskSentinel/internal/platform/httpclient"
)

// Sources holds what the providers need to be constructed.
type Sources struct {
	BaseURL string
	APIKey  string
	CSVDir  string
	Client  *httpclient.Client
}

// NewFetcher builds the named provider: yahoo, rest, csv or mock.
func NewFetcher(name string, src Sources) (Fetcher, error) {
	switch name {
	case "yahoo":
		return NewYahooFetcher(src.Client), nil
	case "rest":
		if src.BaseURL == "" {
			return nil, errors.New("rest provider: base url is required")
		}
		return NewRESTFetcher(src.BaseURL, src.APIKey, src.Client), nil
	case "csv":
		if src.CSVDir == "" {
			return nil, errors.New("csv provider: directory is required")
		}
		return NewCSVFetcher(src.CSVDir), nil
	case "mock":
		return &MockFetcher{}, nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", name)
	}
}

// NewFetchers builds the primary provider followed by its fallbacks. A single
// provider is returned as is; several are tried in order through a Chain.
func NewFetchers(primary string, fallback []string, src Sources) (Fetcher, error) {
	names := append([]string{primary}, fallback...)
	fetchers := make([]Fetcher, 0, len(names))
	for _, name := range names {
		f, err := NewFetcher(name, src)
		if err != nil {
			return nil, err
		}
		fetchers = append(fetchers, f)
	}
	if len(fetchers) == 1 {
		return fetchers[0], nil
	}
	return NewChain(fetchers...), nil
}
