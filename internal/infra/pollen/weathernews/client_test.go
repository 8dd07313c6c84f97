package weathernews

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchParsesCSV(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("citycode,date,pollen\n261009,2025-06-27T00:00:00+09:00,-9999\n261009,2025-06-27T01:00:00+09:00,3\n"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	records, err := client.Fetch(context.Background(), "261009", "20250620", "20250627")
	require.NoError(t, err)

	require.Equal(t, "citycode=261009&start=20250620&end=20250627", gotQuery)
	require.Len(t, records, 2)
	require.Equal(t, "2025-06-27T00:00:00+09:00", records[0].Date)
	require.Equal(t, -9999.0, records[0].Pollen)
	require.Equal(t, 3.0, records[1].Pollen)
}

func TestFetchMissingColumns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("citycode,timestamp,count\n261009,2025-06-27T00:00:00+09:00,3\n"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Fetch(context.Background(), "261009", "20250620", "20250627")
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing date or pollen")
}

func TestFetchNonNumericValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("date,pollen\n2025-06-27T00:00:00+09:00,n/a\n"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Fetch(context.Background(), "261009", "20250620", "20250627")
	require.Error(t, err)
}

func TestFetchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Fetch(context.Background(), "261009", "20250620", "20250627")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=502")
}

func TestParseCSVEmptyBody(t *testing.T) {
	_, err := parseCSV(strings.NewReader(""))
	require.Error(t, err)
}
