package client_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenciaiam/crm/internal/apperr"
	"github.com/agenciaiam/crm/internal/client"
	"github.com/agenciaiam/crm/internal/client/store"
	"github.com/agenciaiam/crm/internal/confirm"
	"github.com/agenciaiam/crm/internal/storage"
)

func newService(t *testing.T) *client.Service {
	t.Helper()

	rs, err := storage.New(t.TempDir(), 10)
	require.NoError(t, err)

	return client.NewService(store.New(rs))
}

func TestService_CreateAssignsSequentialIDs(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, client.CreateParams{Name: "Histocell", Status: client.StatusActive})
	require.NoError(t, err)

	second, err := svc.Create(ctx, client.CreateParams{Name: "Cefes Garage", Status: client.StatusProspect})
	require.NoError(t, err)

	assert.Equal(t, "CLI001", first.ID)
	assert.Equal(t, "CLI002", second.ID)
}

func TestService_IDsNeverReusedAfterDelete(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, client.CreateParams{Name: "Histocell", Status: client.StatusActive})
	require.NoError(t, err)

	require.NoError(t, svc.RequestDelete(ctx, first.ID))
	require.NoError(t, svc.ConfirmDelete(ctx, first.ID))

	second, err := svc.Create(ctx, client.CreateParams{Name: "Clínica Regional", Status: client.StatusProspect})
	require.NoError(t, err)

	assert.Equal(t, "CLI002", second.ID)
}

func TestService_CreateValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		params client.CreateParams
	}{
		{"MissingName", client.CreateParams{Status: client.StatusActive}},
		{"UnknownStatus", client.CreateParams{Name: "Acme", Status: client.Status("Activo")}},
		{"NegativeRetainer", client.CreateParams{Name: "Acme", Status: client.StatusActive, MonthlyRetainer: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.params)
			assert.True(t, apperr.IsValidation(err), "got %v", err)
		})
	}

	// Nothing was written.
	all, err := svc.List(ctx, client.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestService_UpdateMergesPatch(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, client.CreateParams{
		Name:     "Histocell",
		Industry: "Salud",
		City:     "Antofagasta",
		Status:   client.StatusProspect,
	})
	require.NoError(t, err)

	status := client.StatusActive
	retainer := int64(600000)

	got, err := svc.Update(ctx, c.ID, client.Patch{Status: &status, MonthlyRetainer: &retainer})
	require.NoError(t, err)

	assert.Equal(t, client.StatusActive, got.Status)
	assert.Equal(t, int64(600000), got.MonthlyRetainer)
	assert.Equal(t, "Salud", got.Industry, "untouched field must survive")
	assert.NotNil(t, got.UpdatedAt)
}

func TestService_DeleteRequiresPriorRequest(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, client.CreateParams{Name: "Acme", Status: client.StatusActive})
	require.NoError(t, err)

	err = svc.ConfirmDelete(ctx, c.ID)
	require.ErrorIs(t, err, confirm.ErrNotRequested)

	// Still there.
	_, err = svc.Get(ctx, c.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RequestDelete(ctx, c.ID))
	require.NoError(t, svc.ConfirmDelete(ctx, c.ID))

	_, err = svc.Get(ctx, c.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_ListFilters(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	seed := []client.CreateParams{
		{Name: "Histocell", Industry: "Salud", Status: client.StatusActive},
		{Name: "Cefes Garage", Industry: "Automotriz", Status: client.StatusActive},
		{Name: "Clínica Regional", Industry: "Salud", Status: client.StatusProspect},
	}
	for _, p := range seed {
		_, err := svc.Create(ctx, p)
		require.NoError(t, err)
	}

	salud := "Salud"
	got, err := svc.List(ctx, client.ListFilter{Industry: &salud})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Insertion order preserved.
	assert.Equal(t, "Histocell", got[0].Name)
	assert.Equal(t, "Clínica Regional", got[1].Name)

	active := client.StatusActive
	got, err = svc.List(ctx, client.ListFilter{Status: &active, Industry: &salud})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Histocell", got[0].Name)
}
