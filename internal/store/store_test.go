// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/regulaai/pkg/types"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(types.StoreConfig{IndexDir: filepath.Join(dir, "index")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func testContract(id string, score int, uploaded time.Time) types.Contract {
	level := types.RiskLow
	if score >= 60 {
		level = types.RiskHigh
	}
	return types.Contract{
		ID:          id,
		Name:        id + ".pdf",
		SourcePath:  "/tmp/" + id + ".pdf",
		TextPath:    "/tmp/" + id + ".txt",
		RiskScore:   score,
		RiskLevel:   level,
		RiskReasons: []string{"Liability clause detected"},
		CharCount:   1200,
		UploadedAt:  uploaded,
	}
}

func TestAddGetRoundTrip(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	uploaded := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	want := testContract("nda-abc12345", 65, uploaded)
	require.NoError(t, s.Add(ctx, want, []string{"chunk one", "chunk two"}))

	got, err := s.Get(ctx, "nda-abc12345")
	require.NoError(t, err)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.RiskScore, got.RiskScore)
	assert.Equal(t, types.RiskHigh, got.RiskLevel)
	assert.Equal(t, want.RiskReasons, got.RiskReasons)
	assert.True(t, got.UploadedAt.Equal(uploaded))
}

func TestGetNotFound(t *testing.T) {
	s, _ := testStore(t)
	_, err := s.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdering(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(48 * time.Hour)
	require.NoError(t, s.Add(ctx, testContract("old-contract", 10, older), nil))
	require.NoError(t, s.Add(ctx, testContract("new-contract", 10, newer), nil))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new-contract", list[0].ID)
	assert.Equal(t, "old-contract", list[1].ID)
}

func TestRemove(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, testContract("gone", 10, time.Now()), []string{"indemnification clause"}))
	require.NoError(t, s.Remove(ctx, "gone"))

	_, err := s.Get(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)

	// Chunks disappear from the index too.
	results, err := s.Search(ctx, SearchOptions{Query: "indemnification"})
	require.NoError(t, err)
	assert.Empty(t, results)

	assert.ErrorIs(t, s.Remove(ctx, "gone"), ErrNotFound)
}

func TestAddReplacesChunks(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	c := testContract("revised", 10, time.Now())
	require.NoError(t, s.Add(ctx, c, []string{"arbitration in london"}))
	require.NoError(t, s.Add(ctx, c, []string{"arbitration in geneva"}))

	results, err := s.Search(ctx, SearchOptions{Query: "london"})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = s.Search(ctx, SearchOptions{Query: "geneva"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Seq)
}

func TestSearch(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	a := testContract("contract-a", 10, time.Now())
	b := testContract("contract-b", 10, time.Now())
	require.NoError(t, s.Add(ctx, a, []string{
		"the supplier may terminate this agreement with thirty days notice",
		"payment is due within sixty days of invoice",
	}))
	require.NoError(t, s.Add(ctx, b, []string{
		"termination for convenience is excluded",
	}))

	t.Run("match across contracts", func(t *testing.T) {
		results, err := s.Search(ctx, SearchOptions{Query: "terminate OR termination"})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("contract filter", func(t *testing.T) {
		results, err := s.Search(ctx, SearchOptions{Query: "terminate OR termination", ContractID: "contract-b"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "contract-b", results[0].ContractID)
		assert.Equal(t, "contract-b.pdf", results[0].ContractName)
	})

	t.Run("limit", func(t *testing.T) {
		results, err := s.Search(ctx, SearchOptions{Query: "days", MaxResults: 1})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("empty query rejected", func(t *testing.T) {
		_, err := s.Search(ctx, SearchOptions{Query: "   "})
		assert.Error(t, err)
	})
}

func TestMatchQuery(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"what about termination?", `"what" OR "about" OR "termination"`},
		{"clause 4.2 (liability)", `"clause" OR "4" OR "2" OR "liability"`},
		{"???", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchQuery(tt.input), "input %q", tt.input)
	}
}

func TestSummarize(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	sum, err := s.Summarize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Total)
	assert.Nil(t, sum.LastUploaded)

	older := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Add(ctx, testContract("low-risk", 20, older), nil))
	require.NoError(t, s.Add(ctx, testContract("boundary", 50, older.Add(time.Hour)), nil))
	require.NoError(t, s.Add(ctx, testContract("high-risk", 85, older.Add(2*time.Hour)), nil))

	sum, err = s.Summarize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 1, sum.HighRisk, "threshold is strictly above 50")
	require.NotNil(t, sum.LastUploaded)
	assert.Equal(t, "high-risk", sum.LastUploaded.ID)
}

func TestSetRisk(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, testContract("rescored", 10, time.Now()), []string{"liability is unlimited"}))

	err := s.SetRisk(ctx, "rescored", 45, types.RiskMedium, []string{"Liability clause detected", "Unlimited or indefinite obligation detected"})
	require.NoError(t, err)

	got, err := s.Get(ctx, "rescored")
	require.NoError(t, err)
	assert.Equal(t, 45, got.RiskScore)
	assert.Equal(t, types.RiskMedium, got.RiskLevel)
	assert.Len(t, got.RiskReasons, 2)

	// Chunks survive a rescore.
	results, err := s.Search(ctx, SearchOptions{Query: "unlimited"})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	assert.ErrorIs(t, s.SetRisk(ctx, "missing", 10, types.RiskLow, nil), ErrNotFound)
}

func TestText(t *testing.T) {
	s, dir := testStore(t)
	ctx := context.Background()

	textPath := filepath.Join(dir, "body.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("the full contract body"), 0o644))

	c := testContract("with-text", 10, time.Now())
	c.TextPath = textPath
	require.NoError(t, s.Add(ctx, c, nil))

	got, err := s.Text(ctx, "with-text")
	require.NoError(t, err)
	assert.Equal(t, "the full contract body", got)
}

func TestExport(t *testing.T) {
	s, dir := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, testContract("exported", 65, time.Now()), nil))

	require.NoError(t, s.ExportYAML(ctx))
	require.NoError(t, s.ExportJSON(ctx))

	var fromYAML []types.Contract
	data, err := os.ReadFile(filepath.Join(dir, "index", "export.yaml"))
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Len(t, fromYAML, 1)
	assert.Equal(t, "exported", fromYAML[0].ID)

	var fromJSON []types.Contract
	data, err = os.ReadFile(filepath.Join(dir, "index", "export.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	require.Len(t, fromJSON, 1)
	assert.Equal(t, 65, fromJSON[0].RiskScore)
}
