package collector

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"RiskSentinel/internal/model"
)

// CSVFetcher reads prices from <Dir>/<SYMBOL>.csv files with a header row
// containing a Date column and an "Adj Close" (or "Close") column, the layout
// Yahoo's download button produces.
type CSVFetcher struct {
	Dir string
}

// NewCSVFetcher creates a fetcher reading files from dir.
func NewCSVFetcher(dir string) *CSVFetcher {
	return &CSVFetcher{Dir: dir}
}

func (f *CSVFetcher) Name() string { return "csv" }

func (f *CSVFetcher) Fetch(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(f.Name(), symbol, err)
	}
	path := filepath.Join(f.Dir, strings.ToUpper(symbol)+".csv")
	file, err := os.Open(path)
	if err != nil {
		return nil, unavailable(f.Name(), symbol, err)
	}
	defer file.Close()

	points, err := ReadPriceCSV(file)
	if err != nil {
		return nil, unavailable(f.Name(), symbol, fmt.Errorf("%s: %w", path, err))
	}
	series, err := buildSeries(symbol, points, start, end)
	if err != nil {
		return nil, unavailable(f.Name(), symbol, err)
	}
	return series, nil
}

// ReadPriceCSV decodes date/price rows. Rows with an empty or "null" price are skipped.
func ReadPriceCSV(r io.Reader) ([]model.PricePoint, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	dateCol, priceCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date":
			dateCol = i
		case "adj close", "adj_close", "adjclose":
			priceCol = i
		case "close":
			if priceCol < 0 {
				priceCol = i
			}
		}
	}
	if dateCol < 0 || priceCol < 0 {
		return nil, errors.New("header needs Date and Adj Close columns")
	}

	var points []model.PricePoint
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		raw := strings.TrimSpace(rec[priceCol])
		if raw == "" || strings.EqualFold(raw, "null") {
			continue
		}
		date, err := model.ParseDate(rec[dateCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse price %q: %w", line, raw, err)
		}
		points = append(points, model.PricePoint{Date: date, AdjClose: price})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}
