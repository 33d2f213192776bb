// internal/application/allocate-application-id/generator_test.go
package allocateapplicationid

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"internship-portal/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAllocator struct {
	next  int64
	err   error
	calls int
}

func (f *fakeAllocator) AllocateNext(ctx context.Context, counterName string) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	f.next++
	return f.next, nil
}

func (f *fakeAllocator) Reset(ctx context.Context, counterName string) error {
	f.next = 0
	return nil
}

func fixedClock(year int) Clock {
	return func() time.Time {
		return time.Date(year, time.March, 14, 9, 30, 0, 0, time.UTC)
	}
}

func testConfig() *Config {
	return &Config{
		Backend:     "test",
		CounterName: "applicationId",
		Prefix:      "INT",
		Timeout:     time.Second,
	}
}

func TestFormatter_Format(t *testing.T) {
	f := Formatter{Prefix: "INT"}

	tests := []struct {
		year int
		seq  int64
		want string
	}{
		{2026, 1, "INT-2026-0001"},
		{2026, 7, "INT-2026-0007"},
		{2026, 9999, "INT-2026-9999"},
		{2026, 12345, "INT-2026-12345"},
		{2030, 42, "INT-2030-0042"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Format(tt.year, tt.seq))
	}
}

func TestFormatter_DefaultPrefix(t *testing.T) {
	assert.Equal(t, "INT-2025-0003", Formatter{}.Format(2025, 3))
}

func TestGenerator_Next_UsesClockYear(t *testing.T) {
	alloc := &fakeAllocator{}
	g := NewGenerator(testConfig(), alloc, logger.NewTestLogger(t)).WithClock(fixedClock(2026))

	id, err := g.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "INT-2026-0001", id)
	assert.Regexp(t, regexp.MustCompile(`^INT-\d{4}-\d{4,}$`), id)
}

func TestGenerator_Next_CounterIsNotYearScoped(t *testing.T) {
	alloc := &fakeAllocator{}
	g := NewGenerator(testConfig(), alloc, logger.NewTestLogger(t)).WithClock(fixedClock(2026))

	first, err := g.Next(context.Background())
	require.NoError(t, err)

	g.WithClock(fixedClock(2027))
	second, err := g.Next(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "INT-2026-0001", first)
	assert.Equal(t, "INT-2027-0002", second)
}

func TestGenerator_Next_AllocationFailure(t *testing.T) {
	alloc := &fakeAllocator{err: ErrStorageUnavailable}
	g := NewGenerator(testConfig(), alloc, logger.NewTestLogger(t))

	id, err := g.Next(context.Background())

	assert.Empty(t, id)
	assert.True(t, errors.Is(err, ErrStorageUnavailable))
	assert.Equal(t, 1, alloc.calls)
}

func TestGenerator_Reset(t *testing.T) {
	alloc := &fakeAllocator{next: 9}
	g := NewGenerator(testConfig(), alloc, logger.NewTestLogger(t)).WithClock(fixedClock(2026))

	require.NoError(t, g.Reset(context.Background()))
	id, err := g.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "INT-2026-0001", id)
}
