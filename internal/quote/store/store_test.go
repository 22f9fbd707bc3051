package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenciaiam/crm/internal/apperr"
	"github.com/agenciaiam/crm/internal/quote"
	"github.com/agenciaiam/crm/internal/quote/store"
	"github.com/agenciaiam/crm/internal/storage"
)

func TestStore_ReloadPreservesRecords(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	rs, err := storage.New(dir, 10)
	require.NoError(t, err)

	s := store.New(rs)

	expires := time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC)
	seed := []*quote.Quote{
		{
			ClientID:    "CLI001",
			ClientName:  "Histocell",
			Items:       []string{"Marketing Integral Mensual"},
			Amount:      600000,
			Status:      quote.StatusApproved,
			Probability: 100,
			Owner:       "Juan Riquelme",
			ExpiresAt:   &expires,
		},
		{
			ClientID:   "CLI002",
			ClientName: "Cefes Garage",
			Items:      []string{"Proyecto Sitio Web"},
			Amount:     300000,
			Status:     quote.StatusSent,
		},
	}
	for _, q := range seed {
		require.NoError(t, s.CreateQuote(ctx, q))
	}

	// A fresh store over the same directory must see identical records in
	// the same order.
	reloaded, err := store.New(storageMust(t, dir)).ListQuotes(ctx, quote.ListFilter{})
	require.NoError(t, err)
	require.Len(t, reloaded, 2)

	for i, got := range reloaded {
		assert.Equal(t, *seed[i], *got, "record %d", i)
	}

	// The sequence survives the reload too: the next ID continues.
	next := &quote.Quote{ClientID: "CLI001", ClientName: "Histocell", Items: []string{"SEO"}, Status: quote.StatusDraft}
	require.NoError(t, store.New(storageMust(t, dir)).CreateQuote(ctx, next))
	assert.Equal(t, "COT003", next.ID)
}

func storageMust(t *testing.T, dir string) *storage.Store {
	t.Helper()

	rs, err := storage.New(dir, 10)
	require.NoError(t, err)

	return rs
}

func TestStore_GetAndDeleteUnknown(t *testing.T) {
	rs, err := storage.New(t.TempDir(), 10)
	require.NoError(t, err)

	s := store.New(rs)
	ctx := context.Background()

	_, err = s.GetQuote(ctx, "COT404")
	assert.True(t, apperr.IsNotFound(err))

	err = s.DeleteQuote(ctx, "COT404")
	assert.True(t, apperr.IsNotFound(err))

	err = s.UpdateQuote(ctx, &quote.Quote{ID: "COT404"})
	assert.True(t, apperr.IsNotFound(err))
}

func TestStore_StartsEmptyOnCorruptState(t *testing.T) {
	dir := t.TempDir()

	rs, err := storage.New(dir, 10)
	require.NoError(t, err)

	require.NoError(t, rs.Save(storage.KindQuotes, 1, []string{"not a quote"}))

	s := store.New(storageMust(t, dir))

	got, err := s.ListQuotes(context.Background(), quote.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}
