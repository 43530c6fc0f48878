package sqlite

import (
	"context"
	"testing"

	"github.com/jusunglee/kanadeck/internal/dict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestLookupByExpressionAndReading(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.InsertEntries(ctx, []dict.Entry{
		{
			EntSeq:     1171270,
			Expression: "学校",
			Reading:    "がっこう",
			Glosses:    []string{"school"},
			Pos:        "n",
			Common:     true,
		},
	})
	require.NoError(t, err)

	byExpr, err := repo.Lookup(ctx, "学校")
	require.NoError(t, err)
	assert.Equal(t, "がっこう", byExpr.Reading)
	assert.Equal(t, []string{"school"}, byExpr.Glosses)
	assert.True(t, byExpr.Common)

	byReading, err := repo.Lookup(ctx, "がっこう")
	require.NoError(t, err)
	assert.Equal(t, byExpr.EntSeq, byReading.EntSeq)
}

func TestLookupPrefersCommon(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.InsertEntries(ctx, []dict.Entry{
		{EntSeq: 1, Expression: "かみ", Glosses: []string{"paper deity"}, Common: false},
		{EntSeq: 2, Expression: "神", Reading: "かみ", Glosses: []string{"god", "deity"}, Common: true},
	})
	require.NoError(t, err)

	got, err := repo.Lookup(ctx, "かみ")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.EntSeq)
	assert.Equal(t, []string{"god", "deity"}, got.Glosses)
}

func TestLookupMiss(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Lookup(context.Background(), "ないことば")
	assert.True(t, dict.IsNoRows(err))
}

func TestInsertReplacesAndCounts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	entry := dict.Entry{EntSeq: 10, Expression: "猫", Reading: "ねこ", Glosses: []string{"cat"}}
	require.NoError(t, repo.InsertEntries(ctx, []dict.Entry{entry}))

	entry.Glosses = []string{"cat", "feline"}
	require.NoError(t, repo.InsertEntries(ctx, []dict.Entry{entry}))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := repo.Lookup(ctx, "ねこ")
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "feline"}, got.Glosses)
}

func TestEntryKeyFallsBackToExpression(t *testing.T) {
	kanaOnly := dict.Entry{Expression: "ラーメン"}
	assert.Equal(t, "ラーメン", kanaOnly.Key())

	withReading := dict.Entry{Expression: "拉麺", Reading: "らーめん"}
	assert.Equal(t, "らーめん", withReading.Key())
}
