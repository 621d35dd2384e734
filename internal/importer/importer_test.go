package importer_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendlog/internal/importer"
)

func TestReadEntries(t *testing.T) {
	input := "# October\n\nLunch 200 at Cafe X\n- Uber 350\n  * Netflix 649  \n• Coffee $4\n\n"

	got, err := importer.ReadEntries(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"Lunch 200 at Cafe X", "Uber 350", "Netflix 649", "Coffee $4"}, got)
}

func TestReadEntries_Empty(t *testing.T) {
	got, err := importer.ReadEntries(strings.NewReader("\n# nothing here\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadEntries_Encodings(t *testing.T) {
	type testCase struct {
		name  string
		input []byte
		want  []string
	}

	tests := []testCase{
		{
			name:  "UTF8",
			input: []byte("Café 120\nCrème brûlée 80\n"),
			want:  []string{"Café 120", "Crème brûlée 80"},
		},
		{
			name:  "UTF8BOM",
			input: append([]byte{0xEF, 0xBB, 0xBF}, []byte("Café 120\n")...),
			want:  []string{"Café 120"},
		},
		{
			// Windows-1252: é = 0xE9.
			name:  "Latin1",
			input: []byte{'C', 'a', 'f', 0xE9, ' ', '1', '2', '0', '\n'},
			want:  []string{"Café 120"},
		},
		{
			name:  "UTF16LE",
			input: []byte{0xFF, 0xFE, 'T', 0, 'e', 0, 'a', 0, ' ', 0, '5', 0, '\n', 0},
			want:  []string{"Tea 5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := importer.ReadEntries(bytes.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun_CollectsResultsInOrder(t *testing.T) {
	entries := []string{"Lunch 200", "hello", "Uber 350", "Metro 40"}

	var calls atomic.Int32

	summary, err := importer.Run(context.Background(), entries, 2, func(_ context.Context, input string) error {
		calls.Add(1)

		if input == "hello" {
			return errors.New("Could not extract amount")
		}

		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, int32(4), calls.Load())
	require.Len(t, summary.Results, 4)
	assert.Equal(t, 3, summary.Succeeded())
	assert.Equal(t, 1, summary.Failed())

	for i, r := range summary.Results {
		assert.Equal(t, i+1, r.Line)
		assert.Equal(t, entries[i], r.Input)
	}

	assert.Error(t, summary.Results[1].Err)
}

func TestRun_BoundsConcurrency(t *testing.T) {
	entries := make([]string, 12)
	for i := range entries {
		entries[i] = "Tea 5"
	}

	var inFlight, peak atomic.Int32

	_, err := importer.Run(context.Background(), entries, 3, func(context.Context, string) error {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)

		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}

		return nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := importer.Run(ctx, []string{"Lunch 200", "Uber 350"}, 1, func(context.Context, string) error {
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, summary.Failed())
}
