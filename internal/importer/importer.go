// Package importer parses client roster files exported from spreadsheets
// into client creation parameters.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/agenciaiam/crm/internal/apperr"
	"github.com/agenciaiam/crm/internal/client"
	"github.com/agenciaiam/crm/internal/encoding"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// headerAliases maps accepted column names (the agency's spreadsheets are in
// Spanish, API consumers use English) to canonical field names.
var headerAliases = map[string]string{
	"name":             "name",
	"nombre":           "name",
	"industry":         "industry",
	"industria":        "industry",
	"city":             "city",
	"ciudad":           "city",
	"contact_name":     "contact_name",
	"contacto":         "contact_name",
	"contact_email":    "contact_email",
	"email":            "contact_email",
	"contact_phone":    "contact_phone",
	"telefono":         "contact_phone",
	"teléfono":         "contact_phone",
	"status":           "status",
	"estado":           "status",
	"monthly_retainer": "monthly_retainer",
	"valor_mensual":    "monthly_retainer",
	"notes":            "notes",
	"notas":            "notes",
}

var statusAliases = map[string]client.Status{
	"active":    client.StatusActive,
	"activo":    client.StatusActive,
	"inactive":  client.StatusInactive,
	"inactivo":  client.StatusInactive,
	"prospect":  client.StatusProspect,
	"prospecto": client.StatusProspect,
}

// Parse reads a CSV roster and returns one CreateParams per data row. The
// file may be comma- or semicolon-separated and in any encoding the encoding
// package can detect. A name column is mandatory; everything else is
// optional. Rows missing a name fail the whole parse so a bad export is not
// half-imported.
func (s *Service) Parse(r io.Reader) ([]client.CreateParams, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}

	rows, err := readRows(data)
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, &apperr.ValidationError{Field: "file", Reason: "roster must have a header row and at least one client"}
	}

	columns, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	params := make([]client.CreateParams, 0, len(rows)-1)

	for n, row := range rows[1:] {
		p, err := parseRow(columns, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}

		params = append(params, p)
	}

	return params, nil
}

// readRows parses the CSV, retrying with a semicolon separator when the
// header looks like a single semicolon-joined field (Excel's regional
// default in Chile).
func readRows(data []byte) ([][]string, error) {
	rows, err := parseCSV(data, ',')
	if err != nil {
		return nil, err
	}

	if len(rows) > 0 && len(rows[0]) == 1 && strings.Contains(rows[0][0], ";") {
		return parseCSV(data, ';')
	}

	return rows, nil
}

func parseCSV(data []byte, comma rune) ([][]string, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = comma
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, &apperr.ValidationError{Field: "file", Reason: fmt.Sprintf("malformed CSV: %v", err)}
	}

	return rows, nil
}

func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))

	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := headerAliases[key]; ok {
			columns[canonical] = i
		}
	}

	if _, ok := columns["name"]; !ok {
		return nil, &apperr.ValidationError{Field: "file", Reason: "missing name column"}
	}

	return columns, nil
}

func parseRow(columns map[string]int, row []string) (client.CreateParams, error) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}

		return strings.TrimSpace(row[i])
	}

	p := client.CreateParams{
		Name:         field("name"),
		Industry:     field("industry"),
		City:         field("city"),
		ContactName:  field("contact_name"),
		ContactEmail: field("contact_email"),
		ContactPhone: field("contact_phone"),
		Notes:        field("notes"),
		Status:       client.StatusProspect,
	}

	if p.Name == "" {
		return client.CreateParams{}, &apperr.ValidationError{Field: "name", Reason: "required"}
	}

	if raw := field("status"); raw != "" {
		status, ok := statusAliases[strings.ToLower(raw)]
		if !ok {
			return client.CreateParams{}, &apperr.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", raw)}
		}

		p.Status = status
	}

	if raw := field("monthly_retainer"); raw != "" {
		v, err := strconv.ParseInt(strings.ReplaceAll(raw, ".", ""), 10, 64)
		if err != nil || v < 0 {
			return client.CreateParams{}, &apperr.ValidationError{Field: "monthly_retainer", Reason: fmt.Sprintf("bad amount %q", raw)}
		}

		p.MonthlyRetainer = v
	}

	return p, nil
}
