package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader serves canned tables keyed by path.
type fakeReader struct {
	mu     sync.Mutex
	tables map[string]*RawTable
	errs   map[string]error
	block  chan struct{}
	calls  int
}

func newFakeReader() *fakeReader {
	return &fakeReader{tables: map[string]*RawTable{}, errs: map[string]error{}}
}

func (f *fakeReader) ReadFile(path string, kind SourceKind) (*RawTable, Format, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	t, err := f.tables[path], f.errs[path]
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, "", err
	}
	if t == nil {
		return nil, "", &UnsupportedFormatError{Path: path, Reason: "not found"}
	}
	if missing := ValidateColumns(t.Columns, kind); missing != nil {
		return nil, FormatCSV, missing
	}
	return t, FormatCSV, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(r TableReader, opts ...Option) *Service {
	return NewService(r, append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func alterdataFile(rows ...[]string) *RawTable {
	return rawTable([]string{"Número", "Nome Forn/Cliente", "Valor Contábil"}, rows...)
}

func santriFile(rows ...[]string) *RawTable {
	return rawTable([]string{"Número", "Cadastro", "Valor contábil"}, rows...)
}

func TestService_LoadAndCompare(t *testing.T) {
	r := newFakeReader()
	r.tables["a.csv"] = alterdataFile([]string{"1", "X", "10"}, []string{"2", "Y", "20"})
	r.tables["b.csv"] = santriFile([]string{"1", "X", "10,00"}, []string{"3", "Z", "30"})

	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(r, WithClock(func() time.Time { return fixed }))
	ctx := context.Background()

	la, err := svc.Load(ctx, KindAlterdata, "a.csv")
	require.NoError(t, err)
	assert.Equal(t, "a.csv", la.FileName)
	assert.Equal(t, FormatCSV, la.Format)
	assert.Equal(t, 2, la.Rows())
	assert.Equal(t, fixed, la.LoadedAt)

	_, err = svc.LoadNamed(ctx, KindSantri, "b.csv", "santri-março.csv")
	require.NoError(t, err)

	st := svc.Status()
	assert.True(t, st.CanCompare)
	assert.False(t, st.HasResult)
	assert.Equal(t, "santri-março.csv", st.Source(KindSantri).FileName)

	res, err := svc.Compare(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Matched)
	assert.Len(t, res.OnlyInA, 1)
	assert.Len(t, res.OnlyInB, 1)
	assert.Equal(t, fixed, res.ComparedAt)
	assert.Same(t, res, svc.LastResult())
}

func TestService_ComparePrecondition(t *testing.T) {
	r := newFakeReader()
	r.tables["a.csv"] = alterdataFile([]string{"1", "X", "10"})
	svc := newTestService(r)
	ctx := context.Background()

	_, err := svc.Compare(ctx)
	assert.ErrorIs(t, err, ErrComparisonPrecondition)

	_, err = svc.Load(ctx, KindAlterdata, "a.csv")
	require.NoError(t, err)

	_, err = svc.Compare(ctx)
	assert.ErrorIs(t, err, ErrComparisonPrecondition)
	assert.Nil(t, svc.LastResult())
}

func TestService_FailedLoadKeepsState(t *testing.T) {
	r := newFakeReader()
	r.tables["a.csv"] = alterdataFile([]string{"1", "X", "10"})
	r.tables["b.csv"] = santriFile([]string{"1", "X", "10"})
	r.tables["wrong.csv"] = rawTable([]string{"Número", "Nome"}, []string{"1", "X"})
	r.errs["broken.xls"] = &DecodeFailureError{Path: "broken.xls", Format: FormatSpreadsheet}

	svc := newTestService(r)
	ctx := context.Background()

	_, err := svc.Load(ctx, KindAlterdata, "a.csv")
	require.NoError(t, err)
	_, err = svc.Load(ctx, KindSantri, "b.csv")
	require.NoError(t, err)
	prev, err := svc.Compare(ctx)
	require.NoError(t, err)

	before := svc.Source(KindSantri)

	_, err = svc.Load(ctx, KindSantri, "wrong.csv")
	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"Cadastro", "Valor contábil"}, missing.Missing)

	_, err = svc.Load(ctx, KindSantri, "broken.xls")
	var decode *DecodeFailureError
	require.ErrorAs(t, err, &decode)

	assert.Same(t, before, svc.Source(KindSantri))
	assert.Same(t, prev, svc.LastResult(), "failed loads keep the last result")
}

func TestService_LoadDiscardsResult(t *testing.T) {
	r := newFakeReader()
	r.tables["a.csv"] = alterdataFile([]string{"1", "X", "10"})
	r.tables["b.csv"] = santriFile([]string{"1", "X", "10"})
	svc := newTestService(r)
	ctx := context.Background()

	_, _ = svc.Load(ctx, KindAlterdata, "a.csv")
	_, _ = svc.Load(ctx, KindSantri, "b.csv")
	_, err := svc.Compare(ctx)
	require.NoError(t, err)
	require.NotNil(t, svc.LastResult())

	_, err = svc.Load(ctx, KindAlterdata, "a.csv")
	require.NoError(t, err)
	assert.Nil(t, svc.LastResult())
	assert.False(t, svc.Status().HasResult)
}

func TestService_Clear(t *testing.T) {
	r := newFakeReader()
	r.tables["a.csv"] = alterdataFile([]string{"1", "X", "10"})
	r.tables["b.csv"] = santriFile([]string{"1", "X", "10"})
	svc := newTestService(r)
	ctx := context.Background()

	_, _ = svc.Load(ctx, KindAlterdata, "a.csv")
	_, _ = svc.Load(ctx, KindSantri, "b.csv")
	_, _ = svc.Compare(ctx)

	require.NoError(t, svc.Clear(KindAlterdata))
	assert.Nil(t, svc.Source(KindAlterdata))
	assert.NotNil(t, svc.Source(KindSantri))
	assert.Nil(t, svc.LastResult())
	assert.False(t, svc.Status().CanCompare)

	assert.ErrorIs(t, svc.Clear(SourceKind(9)), ErrUnknownKind)
}

func TestService_UnknownKind(t *testing.T) {
	svc := newTestService(newFakeReader())

	_, err := svc.Load(context.Background(), SourceKind(5), "x.csv")
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Nil(t, svc.Source(SourceKind(5)))
}

func TestService_OperationsDoNotOverlap(t *testing.T) {
	r := newFakeReader()
	r.tables["a.csv"] = alterdataFile([]string{"1", "X", "10"})
	r.block = make(chan struct{})

	svc := newTestService(r, WithOperationWait(50*time.Millisecond))
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := svc.Load(ctx, KindAlterdata, "a.csv")
		done <- err
	}()

	require.Eventually(t, func() bool { return svc.Status().Gate.Busy }, time.Second, 5*time.Millisecond)

	_, err := svc.Compare(ctx)
	assert.True(t, errors.Is(err, ErrOperationBusy), "got %v", err)

	close(r.block)
	require.NoError(t, <-done)
	assert.False(t, svc.Status().Gate.Busy)
}
