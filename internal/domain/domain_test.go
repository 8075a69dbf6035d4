package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUsername(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "plain login", input: "octocat", expected: "octocat"},
		{name: "surrounding whitespace", input: "  octocat\n", expected: "octocat"},
		{name: "leading at sign", input: "@octo-cat", expected: "octo-cat"},
		{name: "max length", input: strings.Repeat("a", 39), expected: strings.Repeat("a", 39)},
		{name: "empty", input: "", wantErr: true},
		{name: "only whitespace", input: "   ", wantErr: true},
		{name: "too long", input: strings.Repeat("a", 40), wantErr: true},
		{name: "leading hyphen", input: "-octocat", wantErr: true},
		{name: "trailing hyphen", input: "octocat-", wantErr: true},
		{name: "double hyphen", input: "octo--cat", wantErr: true},
		{name: "inner space", input: "octo cat", wantErr: true},
		{name: "path traversal", input: "../repos", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeUsername(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidUsername)
				assert.Empty(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestTrailingYear(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, loc)

	w := TrailingYear(now)

	assert.Equal(t, time.UTC, w.To.Location())
	assert.True(t, w.To.Equal(now))
	assert.Equal(t, 365*24*time.Hour, w.To.Sub(w.From))
	assert.True(t, w.Contains(w.From))
	assert.False(t, w.Contains(w.To))
	assert.True(t, w.Contains(w.To.Add(-time.Nanosecond)))
}

func TestLineStats_Add(t *testing.T) {
	got := LineStats{Additions: 10, Deletions: 2}.Add(LineStats{Additions: 5, Deletions: 1})
	assert.Equal(t, LineStats{Additions: 15, Deletions: 3}, got)
}
