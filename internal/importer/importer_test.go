package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenciaiam/crm/internal/apperr"
	"github.com/agenciaiam/crm/internal/client"
	"github.com/agenciaiam/crm/internal/importer"
)

func TestParse_EnglishHeader(t *testing.T) {
	roster := strings.Join([]string{
		"name,industry,city,contact_email,status,monthly_retainer",
		"Histocell,Salud,Antofagasta,contacto@histocell.cl,activo,600000",
		"Cefes Garage,Automotriz,Antofagasta,,prospecto,",
	}, "\n")

	got, err := importer.NewService().Parse(strings.NewReader(roster))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, client.CreateParams{
		Name:            "Histocell",
		Industry:        "Salud",
		City:            "Antofagasta",
		ContactEmail:    "contacto@histocell.cl",
		Status:          client.StatusActive,
		MonthlyRetainer: 600000,
	}, got[0])

	assert.Equal(t, "Cefes Garage", got[1].Name)
	assert.Equal(t, client.StatusProspect, got[1].Status)
	assert.Zero(t, got[1].MonthlyRetainer)
}

func TestParse_SemicolonSpanishLatin1(t *testing.T) {
	// Excel export with Chilean regional settings: semicolons, Latin-1
	// accents (0xE9 is é) and thousand separators in amounts.
	roster := []byte("nombre;industria;tel\xe9fono;estado;valor_mensual\n" +
		"Cl\xednica And\xe9s;Salud;+56 9 1234 5678;activo;1.200.000\n")

	got, err := importer.NewService().Parse(strings.NewReader(string(roster)))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "Clínica Andés", got[0].Name)
	assert.Equal(t, "Salud", got[0].Industry)
	assert.Equal(t, "+56 9 1234 5678", got[0].ContactPhone)
	assert.Equal(t, client.StatusActive, got[0].Status)
	assert.Equal(t, int64(1200000), got[0].MonthlyRetainer)
}

func TestParse_DefaultsToProspect(t *testing.T) {
	got, err := importer.NewService().Parse(strings.NewReader("nombre\nHistocell\n"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, client.StatusProspect, got[0].Status)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		roster string
	}{
		{"MissingNameColumn", "industria,ciudad\nSalud,Antofagasta\n"},
		{"HeaderOnly", "nombre,industria\n"},
		{"Empty", ""},
		{"BlankName", "nombre,estado\n,activo\n"},
		{"UnknownStatus", "nombre,estado\nHistocell,congelado\n"},
		{"BadRetainer", "nombre,valor_mensual\nHistocell,mucho\n"},
		{"NegativeRetainer", "nombre,valor_mensual\nHistocell,-5\n"},
		{"RaggedRows", "nombre,industria\nHistocell,Salud,extra,cells\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := importer.NewService().Parse(strings.NewReader(tt.roster))
			assert.True(t, apperr.IsValidation(err), "got %v", err)
		})
	}
}
