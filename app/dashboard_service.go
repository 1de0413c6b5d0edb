package app

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"failboard/domain/core"
	"failboard/domain/survey"
	"failboard/domain/view"
	"failboard/internal"
	"failboard/internal/errors"
	"failboard/internal/summary"
	"failboard/ports"
)

// DashboardService wires one dataset to the view registry: it loads and
// cleans rows, memoizes the cleaning on the dataset's content hash, and
// computes every configured view for a filter/selection snapshot.
type DashboardService struct {
	mu          sync.RWMutex
	source      ports.RecordSource
	datasetID   core.DatasetID
	preparer    *survey.Preparer
	coordinator *view.Coordinator
	registry    []view.ViewConfig
	log         *internal.Logger

	memoHash  core.DatasetHash
	memoClean []survey.CleanRecord
}

// ViewResult is one computed panel plus the config the shell renders it with.
type ViewResult struct {
	Config view.ViewConfig   `json:"config"`
	Groups []view.GroupCount `json:"groups"`
}

// DashboardData is everything one render of the dashboard needs.
type DashboardData struct {
	DatasetID   core.DatasetID           `json:"dataset_id"`
	DatasetName string                   `json:"dataset_name"`
	TotalRows   int                      `json:"total_rows"`
	MatchedRows int                      `json:"matched_rows"`
	Views       []ViewResult             `json:"views"`
	Usage       []summary.GroupSummary   `json:"usage"`
	Balance     map[survey.Field]float64 `json:"balance"`
}

// NewDashboardService creates a dashboard service over a record source.
func NewDashboardService(source ports.RecordSource, registry []view.ViewConfig, log *internal.Logger) *DashboardService {
	return &DashboardService{
		source:      source,
		datasetID:   core.NewDatasetID(),
		preparer:    survey.NewPreparer(),
		coordinator: view.NewCoordinator(),
		registry:    registry,
		log:         log.With("Dashboard"),
	}
}

// Registry returns the configured views.
func (s *DashboardService) Registry() []view.ViewConfig {
	return s.registry
}

// DatasetName reports the active source's display name.
func (s *DashboardService) DatasetName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source.Name()
}

func (s *DashboardService) dataset() (core.DatasetID, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.datasetID, s.source.Name()
}

// ReplaceSource swaps the active dataset, e.g. after an upload, and returns
// the new dataset's identifier. The memo is keyed by content hash, so a
// re-upload of identical bytes reuses the cached cleaning.
func (s *DashboardService) ReplaceSource(source ports.RecordSource) core.DatasetID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = source
	s.datasetID = core.NewDatasetID()
	s.log.Info("dataset replaced with %s (id %s)", source.Name(), s.datasetID)
	return s.datasetID
}

// Records returns the cleaned rows, reusing the memoized cleaning when the
// raw content is unchanged. A memo hit and miss are indistinguishable to
// callers: Prepare is deterministic over the hashed bytes.
func (s *DashboardService) Records() ([]survey.CleanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.source.Records()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load records")
	}

	hash := hashRows(raw)
	if hash == s.memoHash && s.memoClean != nil {
		return s.memoClean, nil
	}

	s.memoClean = s.preparer.Prepare(raw)
	s.memoHash = hash
	s.log.Debug("prepared %d rows (hash %.12s)", len(s.memoClean), hash)
	return s.memoClean, nil
}

// Render computes every configured view for the given snapshots. Panels are
// independent, so they fan out on an errgroup; the record slice is read-only
// across goroutines.
func (s *DashboardService) Render(ctx context.Context, filter view.FilterState, sel view.SelectionState) (*DashboardData, error) {
	records, err := s.Records()
	if err != nil {
		return nil, err
	}

	matched := 0
	for _, r := range records {
		if filter.Pass(r) {
			matched++
		}
	}

	id, name := s.dataset()
	data := &DashboardData{
		DatasetID:   id,
		DatasetName: name,
		TotalRows:   len(records),
		MatchedRows: matched,
		Views:       make([]ViewResult, len(s.registry)),
		Balance:     make(map[survey.Field]float64),
	}

	g, _ := errgroup.WithContext(ctx)
	for i, cfg := range s.registry {
		i, cfg := i, cfg
		g.Go(func() error {
			groups, err := cfg.Compute(s.coordinator, records, filter, sel)
			if err != nil {
				return err
			}
			data.Views[i] = ViewResult{Config: cfg, Groups: groups}
			return nil
		})
	}
	g.Go(func() error {
		data.Usage = summary.Frequency(records, filter, survey.FieldGender)
		return nil
	})
	g.Go(func() error {
		// Each goroutine writes a distinct field of data, so no locking.
		balance := make(map[survey.Field]float64)
		for _, f := range []survey.Field{survey.FieldGender, survey.FieldRace, survey.FieldAccent} {
			balance[f] = summary.Balance(records, filter, f)
		}
		data.Balance = balance
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "failed to compute dashboard views")
	}
	return data, nil
}

// RenderView computes a single named view.
func (s *DashboardService) RenderView(ctx context.Context, name string, filter view.FilterState, sel view.SelectionState) (*ViewResult, error) {
	cfg, ok := view.FindView(s.registry, name)
	if !ok {
		return nil, errors.NotFound("no view named " + name)
	}
	records, err := s.Records()
	if err != nil {
		return nil, err
	}
	groups, err := cfg.Compute(s.coordinator, records, filter, sel)
	if err != nil {
		return nil, err
	}
	return &ViewResult{Config: cfg, Groups: groups}, nil
}

// hashRows serializes the raw rows with nil markers and length prefixes so
// distinct row sets cannot collide on concatenation.
func hashRows(rows []survey.RawRecord) core.DatasetHash {
	var b strings.Builder
	writeCell := func(v *string) {
		if v == nil {
			b.WriteString("~|")
			return
		}
		b.WriteString(strconv.Itoa(len(*v)))
		b.WriteByte(':')
		b.WriteString(*v)
		b.WriteByte('|')
	}
	for _, r := range rows {
		writeCell(r.FailureType)
		writeCell(r.FailureSource)
		writeCell(r.Gender)
		writeCell(r.Age)
		writeCell(r.Race)
		writeCell(r.Accent)
		writeCell(r.Frequency)
		b.WriteByte('\n')
	}
	return core.NewDatasetHash([]byte(b.String()))
}
