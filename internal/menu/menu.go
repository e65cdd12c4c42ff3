// Package menu reads the restaurant catalog from the backend or a local file.
package menu

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"menucart/internal/models"

	"gopkg.in/yaml.v3"
)

// OfflineName is the restaurant name reported when no source answers.
const OfflineName = "Menu (Offline)"

// Source provides the catalog.
type Source interface {
	Menu(ctx context.Context) (*models.MenuData, error)
}

// MenuFetcher is the backend call Remote depends on.
type MenuFetcher interface {
	GetMenu(ctx context.Context) (*models.MenuData, error)
}

// Remote reads the catalog from the backend.
type Remote struct {
	client MenuFetcher
}

func NewRemote(client MenuFetcher) *Remote {
	return &Remote{client: client}
}

func (r *Remote) Menu(ctx context.Context) (*models.MenuData, error) {
	m, err := r.client.GetMenu(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch menu: %w", err)
	}
	return m, nil
}

// Static serves a catalog loaded once from a YAML document.
type Static struct {
	data *models.MenuData
}

// LoadFile parses a YAML menu file. Categories are ordered by displayOrder.
func LoadFile(path string) (*Static, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML menu document.
func Parse(raw []byte) (*Static, error) {
	var data models.MenuData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse menu: %w", err)
	}
	sort.SliceStable(data.Categories, func(i, j int) bool {
		return data.Categories[i].DisplayOrder < data.Categories[j].DisplayOrder
	})
	for ci := range data.Categories {
		for ii := range data.Categories[ci].Items {
			data.Categories[ci].Items[ii].CategoryID = data.Categories[ci].ID
		}
	}
	return &Static{data: &data}, nil
}

// Data returns the parsed catalog. Callers must not modify it.
func (s *Static) Data() *models.MenuData {
	return s.data
}

func (s *Static) Menu(ctx context.Context) (*models.MenuData, error) {
	return s.data, nil
}

// Offline is the placeholder catalog used when the source is unreachable.
func Offline() *models.MenuData {
	return &models.MenuData{RestaurantName: OfflineName, Categories: []models.Category{}}
}

// Loader fetches through a Source and keeps the most recently requested result.
// A response that arrives after a newer request was issued is discarded.
type Loader struct {
	source Source
	logger *slog.Logger

	mu      sync.Mutex
	issued  uint64
	applied uint64
	current *models.MenuData
	live    bool
}

func NewLoader(source Source, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{source: source, logger: logger}
}

// Load fetches the catalog. On failure the error is returned together with
// the last catalog the source delivered, or the offline placeholder when it
// never delivered one. The returned menu is whatever is current once this call
// completes, which may come from a newer request.
func (l *Loader) Load(ctx context.Context) (*models.MenuData, error) {
	l.mu.Lock()
	l.issued++
	seq := l.issued
	l.mu.Unlock()

	data, err := l.source.Menu(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq <= l.applied {
		l.logger.Debug("discarding stale menu response", "seq", seq, "applied", l.applied)
		return l.current, err
	}
	l.applied = seq
	switch {
	case err == nil:
		l.current = data
		l.live = true
	case l.live:
		l.logger.Warn("menu refresh failed, keeping last catalog", "error", err)
	default:
		l.logger.Warn("menu unavailable, using offline placeholder", "error", err)
		l.current = Offline()
	}
	return l.current, err
}

// Current returns the last published catalog, or nil before the first Load.
func (l *Loader) Current() *models.MenuData {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// FindItem returns the item with id from the current catalog.
func (l *Loader) FindItem(id string) *models.MenuItem {
	return l.Current().FindItem(id)
}
