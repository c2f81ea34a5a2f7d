package tabular

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdbpricing/backend/internal/domain"
)

// quoteHeader renders CSV header cells, quoting names that contain commas
func quoteHeader(names ...string) string {
	cells := make([]string, len(names))
	for i, n := range names {
		if strings.ContainsAny(n, ",\"") {
			n = `"` + strings.ReplaceAll(n, `"`, `""`) + `"`
		}
		cells[i] = n
	}
	return strings.Join(cells, ",")
}

func sampleCSV() string {
	header := quoteHeader(append([]string{"Unnamed: 0", domain.ColYear}, domain.IndicatorColumns...)...)
	return strings.Join([]string{
		header,
		"0,2027,2.9,700000,95000,400000,2.1,1.5,11000,120,98,4300000,1.1",
		"1,2028.0,3.0,720000,97000,410000,2.0,1.6,11200,121,97,4350000,",
		"",
		"2,2029,,,,,,,,,,,NaN",
	}, "\n") + "\n"
}

func TestReadCSV(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(sampleCSV()))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 2027, rows[0].Year)
	assert.True(t, rows[0].Indicators.Complete())
	assert.Equal(t, 2.9, *rows[0].Indicators.BondYield5Y)
	assert.Equal(t, 4300000.0, *rows[0].Indicators.ResidentPopulation)

	assert.Equal(t, 2028, rows[1].Year)
	assert.Nil(t, rows[1].Indicators.ResidentPopulationGR)
	assert.Equal(t, 11200.0, *rows[1].Indicators.MedianHouseholdInc)

	assert.Equal(t, 2029, rows[2].Year)
	assert.Len(t, rows[2].Indicators.Values(), len(domain.IndicatorColumns))
	for _, v := range rows[2].Indicators.Values() {
		assert.Nil(t, v)
	}
}

func TestReadCSV_ColumnOrderIndependent(t *testing.T) {
	cols := append([]string{}, domain.IndicatorColumns...)
	for i, j := 0, len(cols)-1; i < j; i, j = i+1, j-1 {
		cols[i], cols[j] = cols[j], cols[i]
	}
	doc := quoteHeader(append(cols, domain.ColYear)...) + "\n" +
		"1.1,4200000,130,99,11500,1.7,2.2,420000,99000,750000,3.1,2030\n"

	rows, err := ReadCSV(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2030, rows[0].Year)
	assert.Equal(t, 3.1, *rows[0].Indicators.BondYield5Y)
	assert.Equal(t, 1.1, *rows[0].Indicators.ResidentPopulationGR)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		is   error
	}{
		{name: "Empty document", doc: "", is: ErrMissingColumn},
		{name: "Missing year column", doc: quoteHeader(domain.IndicatorColumns...) + "\n", is: ErrMissingColumn},
		{
			name: "Missing indicator column",
			doc:  quoteHeader(append([]string{domain.ColYear}, domain.IndicatorColumns[1:]...)...) + "\n",
			is:   ErrMissingColumn,
		},
		{
			name: "Bad year",
			doc:  quoteHeader(append([]string{domain.ColYear}, domain.IndicatorColumns...)...) + "\nsoon,1,2,3,4,5,6,7,8,9,10,11\n",
		},
		{
			name: "Bad indicator",
			doc:  quoteHeader(append([]string{domain.ColYear}, domain.IndicatorColumns...)...) + "\n2020,high,2,3,4,5,6,7,8,9,10,11\n",
		},
		{name: "Unterminated quote", doc: "year,\"abc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.doc))
			assert.Error(t, err)
			if tt.is != nil {
				assert.True(t, errors.Is(err, tt.is))
			}
		})
	}
}

func TestCSVRepository_LoadIndicators(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(sampleCSV()))
	}))
	defer srv.Close()

	repo := NewCSVRepository(srv.URL+"/econ.csv", 5*time.Second)
	rows, err := repo.LoadIndicators(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestCSVRepository_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	repo := NewCSVRepository(srv.URL+"/econ.csv", 5*time.Second)
	_, err := repo.LoadIndicators(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestFileRepository_LoadIndicators(t *testing.T) {
	path := filepath.Join(t.TempDir(), "econ.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV()), 0o644))

	rows, err := NewFileRepository(path).LoadIndicators(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	_, err = NewFileRepository(filepath.Join(t.TempDir(), "missing.csv")).LoadIndicators(context.Background())
	assert.Error(t, err)
}
