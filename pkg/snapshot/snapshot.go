// Package snapshot persists the last successfully assembled news and stock
// tables to flat CSV files, so a failed acquisition can serve last-known-good
// data instead of nothing.
package snapshot

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"marketboard/pkg/market"
)

// ErrNoSnapshot means a fallback was requested but no snapshot file exists.
var ErrNoSnapshot = errors.New("no snapshot on disk")

const (
	newsFile     = "news.csv"
	stocksFile   = "stocks.csv"
	manifestFile = "manifest.json"

	dateLayout   = "2006-01-02"
	tagDelimiter = "|"
)

var newsHeader = []string{"company", "href", "title", "author", "section", "tags", "published_time", "description", "lecture_time"}
var stocksHeader = []string{"date", "open", "high", "low", "close", "volume", "company"}

// manifest records what the snapshot directory currently holds.
type manifest struct {
	BatchID   string `json:"batch_id"`
	CreatedAt string `json:"created_at"`
	NewsRows  int    `json:"news_rows"`
	StockRows int    `json:"stock_rows"`
}

// Store reads and writes snapshot files under one directory. Each Store
// carries the batch ID of the run that created it; the ID lands in the
// manifest next to the tables.
type Store struct {
	dir      string
	batchID  uuid.UUID
	manifest manifest
	logger   *zap.Logger
}

func NewStore(dir string, logger *zap.Logger) *Store {
	id := uuid.New()
	return &Store{
		dir:      dir,
		batchID:  id,
		manifest: manifest{BatchID: id.String()},
		logger:   logger,
	}
}

// WriteNews persists the news table. Absent fields are written as empty
// cells so they read back as absent, never as a literal "None".
func (s *Store) WriteNews(articles []market.Article) error {
	records := make([][]string, 0, len(articles))
	for _, a := range articles {
		records = append(records, []string{
			string(a.Company),
			a.URL,
			deref(a.Title),
			deref(a.Author),
			deref(a.Section),
			strings.Join(a.Tags, tagDelimiter),
			deref(a.PublishedTime),
			deref(a.Description),
			deref(a.LectureTime),
		})
	}
	if err := s.writeCSV(newsFile, newsHeader, records); err != nil {
		return err
	}
	s.manifest.NewsRows = len(articles)
	return s.writeManifest()
}

// ReadNews loads the last persisted news table, or ErrNoSnapshot.
func (s *Store) ReadNews() ([]market.Article, error) {
	records, err := s.readCSV(newsFile, len(newsHeader))
	if err != nil {
		return nil, err
	}

	articles := make([]market.Article, 0, len(records))
	for _, rec := range records {
		var tags []string
		if rec[5] != "" {
			tags = strings.Split(rec[5], tagDelimiter)
		}
		articles = append(articles, market.Article{
			Company:       market.Company(rec[0]),
			URL:           rec[1],
			Title:         ref(rec[2]),
			Author:        ref(rec[3]),
			Section:       ref(rec[4]),
			Tags:          tags,
			PublishedTime: ref(rec[6]),
			Description:   ref(rec[7]),
			LectureTime:   ref(rec[8]),
		})
	}
	return articles, nil
}

// WriteStocks persists the stock table with dates in an unambiguous,
// re-parseable format.
func (s *Store) WriteStocks(points []market.PricePoint) error {
	records := make([][]string, 0, len(points))
	for _, p := range points {
		records = append(records, []string{
			p.Date.Format(dateLayout),
			p.Open.String(),
			p.High.String(),
			p.Low.String(),
			p.Close.String(),
			strconv.FormatInt(p.Volume, 10),
			string(p.Company),
		})
	}
	if err := s.writeCSV(stocksFile, stocksHeader, records); err != nil {
		return err
	}
	s.manifest.StockRows = len(points)
	return s.writeManifest()
}

// ReadStocks loads the last persisted stock table, or ErrNoSnapshot.
func (s *Store) ReadStocks() ([]market.PricePoint, error) {
	records, err := s.readCSV(stocksFile, len(stocksHeader))
	if err != nil {
		return nil, err
	}

	points := make([]market.PricePoint, 0, len(records))
	for _, rec := range records {
		date, err := time.Parse(dateLayout, rec[0])
		if err != nil {
			return nil, fmt.Errorf("snapshot date %q: %w", rec[0], err)
		}
		open, err := decimal.NewFromString(rec[1])
		if err != nil {
			return nil, fmt.Errorf("snapshot open %q: %w", rec[1], err)
		}
		high, err := decimal.NewFromString(rec[2])
		if err != nil {
			return nil, fmt.Errorf("snapshot high %q: %w", rec[2], err)
		}
		low, err := decimal.NewFromString(rec[3])
		if err != nil {
			return nil, fmt.Errorf("snapshot low %q: %w", rec[3], err)
		}
		closing, err := decimal.NewFromString(rec[4])
		if err != nil {
			return nil, fmt.Errorf("snapshot close %q: %w", rec[4], err)
		}
		volume, err := strconv.ParseInt(rec[5], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("snapshot volume %q: %w", rec[5], err)
		}
		points = append(points, market.PricePoint{
			Company: market.Company(rec[6]),
			Date:    date,
			Open:    open,
			High:    high,
			Low:     low,
			Close:   closing,
			Volume:  volume,
		})
	}
	return points, nil
}

func (s *Store) writeCSV(name string, header []string, records [][]string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s header: %w", name, err)
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	s.logger.Info("snapshot written", zap.String("file", name), zap.Int("rows", len(records)))
	return nil
}

func (s *Store) readCSV(name string, want int) ([][]string, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	for i, rec := range records[1:] { // skip header
		if len(rec) != want {
			return nil, fmt.Errorf("read %s: row %d has %d fields, want %d", name, i+1, len(rec), want)
		}
	}
	return records[1:], nil
}

func (s *Store) writeManifest() error {
	s.manifest.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	data, err := json.Marshal(s.manifest)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dir, manifestFile), pretty.Pretty(data), 0644)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ref(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
