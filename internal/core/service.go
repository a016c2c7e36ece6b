package core

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TableReader decodes a file into a RawTable for the declared source kind.
// It reports absent required columns as *MissingColumnsError.
// The ingest package's Reader satisfies it.
type TableReader interface {
	ReadFile(path string, kind SourceKind) (*RawTable, Format, error)
}

// Service owns the most recently loaded table of each source and the last
// comparison result. Loads and comparisons run one at a time through a Gate.
type Service struct {
	reader TableReader
	gate   *Gate
	logger *slog.Logger
	now    func() time.Time

	mu     sync.RWMutex
	slots  [len(profiles)]*LoadedSource
	result *ComparisonResult
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOperationWait sets how long an operation waits for the gate.
func WithOperationWait(d time.Duration) Option {
	return func(s *Service) {
		s.gate = NewGate(d)
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a Service reading files through reader.
func NewService(reader TableReader, opts ...Option) *Service {
	s := &Service{
		reader: reader,
		gate:   NewGate(DefaultOperationWait),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads path as kind and, on success, replaces that source's slot and
// discards the last comparison result. On failure nothing changes.
func (s *Service) Load(ctx context.Context, kind SourceKind, path string) (*LoadedSource, error) {
	return s.LoadNamed(ctx, kind, path, filepath.Base(path))
}

// LoadNamed is Load with an explicit display name, used when path is a
// temporary copy of an uploaded file.
func (s *Service) LoadNamed(ctx context.Context, kind SourceKind, path, displayName string) (*LoadedSource, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	if err := s.gate.Acquire(ctx, "load "+kind.Key()); err != nil {
		return nil, err
	}
	defer s.gate.Release()

	start := s.now()
	log := s.logger.With(
		slog.String("kind", kind.String()),
		slog.String("file", displayName),
	)

	raw, format, err := s.reader.ReadFile(path, kind)
	if err != nil {
		log.Warn("load failed", slog.String("error", err.Error()))
		return nil, err
	}

	loaded := &LoadedSource{
		ID:       uuid.New(),
		Kind:     kind,
		FileName: displayName,
		Format:   format,
		LoadedAt: s.now(),
		Columns:  append([]string(nil), raw.Columns...),
		Table:    Normalize(raw, kind),
	}
	loaded.RowCount = loaded.Table.Len()

	s.mu.Lock()
	s.slots[kind] = loaded
	s.result = nil
	s.mu.Unlock()

	log.Info("source loaded",
		slog.String("format", string(format)),
		slog.Int("rows", loaded.Rows()),
		slog.Duration("duration", s.now().Sub(start)),
	)
	return loaded, nil
}

// Compare reconciles the two loaded sources and stores the result.
// Returns ErrComparisonPrecondition when either slot is empty.
func (s *Service) Compare(ctx context.Context) (*ComparisonResult, error) {
	if err := s.gate.Acquire(ctx, "compare"); err != nil {
		return nil, err
	}
	defer s.gate.Release()

	s.mu.RLock()
	a, b := s.slots[KindAlterdata], s.slots[KindSantri]
	s.mu.RUnlock()

	if a == nil || b == nil {
		return nil, ErrComparisonPrecondition
	}

	result := compareAt(a.Table, b.Table, s.now())

	s.mu.Lock()
	s.result = &result
	s.mu.Unlock()

	s.logger.Info("comparison finished",
		slog.String("result_id", result.ID.String()),
		slog.Int("rows_a", a.Rows()),
		slog.Int("rows_b", b.Rows()),
		slog.Int("matched", result.Matched),
		slog.Int("only_in_a", len(result.OnlyInA)),
		slog.Int("only_in_b", len(result.OnlyInB)),
	)
	return &result, nil
}

// Source returns the loaded source for kind, or nil.
func (s *Service) Source(kind SourceKind) *LoadedSource {
	if !kind.Valid() {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots[kind]
}

// LastResult returns the last comparison result, or nil if there is none
// or a file was loaded since.
func (s *Service) LastResult() *ComparisonResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Clear empties the slot for kind and discards the last result.
func (s *Service) Clear(kind SourceKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}

	s.mu.Lock()
	s.slots[kind] = nil
	s.result = nil
	s.mu.Unlock()

	s.logger.Info("source cleared", slog.String("kind", kind.String()))
	return nil
}

// Status is a snapshot of the service for display.
type Status struct {
	Alterdata  *LoadedSource `json:"alterdata"`
	Santri     *LoadedSource `json:"santri"`
	CanCompare bool          `json:"can_compare"`
	HasResult  bool          `json:"has_result"`
	Gate       GateStatus    `json:"gate"`
}

// Source returns the status entry for kind.
func (st Status) Source(kind SourceKind) *LoadedSource {
	if kind == KindSantri {
		return st.Santri
	}
	return st.Alterdata
}

// Status returns the current state of both slots and the gate.
func (s *Service) Status() Status {
	s.mu.RLock()
	st := Status{
		Alterdata: s.slots[KindAlterdata],
		Santri:    s.slots[KindSantri],
		HasResult: s.result != nil,
	}
	s.mu.RUnlock()

	st.CanCompare = st.Alterdata != nil && st.Santri != nil
	st.Gate = s.gate.Status()
	return st
}

// WaitIdle blocks until the running operation, if any, finishes.
func (s *Service) WaitIdle(ctx context.Context) error {
	return s.gate.WaitForDrain(ctx)
}
