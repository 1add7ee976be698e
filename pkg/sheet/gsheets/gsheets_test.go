package gsheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/harrisonrobin/auditboard/pkg/model"
	"github.com/harrisonrobin/auditboard/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// fakeSheets serves the three Values endpoints against an in-memory grid.
type fakeSheets struct {
	mu      sync.Mutex
	values  [][]any
	cleared bool
	status  int
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status != 0 {
		w.WriteHeader(f.status)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": f.status, "message": "nope"}})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":clear"):
		f.cleared = true
		f.values = nil
		json.NewEncoder(w).Encode(map[string]any{"clearedRange": "Sheet1"})
	case r.Method == http.MethodPut:
		var body struct {
			Values [][]any `json:"values"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.values = body.Values
		json.NewEncoder(w).Encode(map[string]any{"updatedRows": len(body.Values)})
	case r.Method == http.MethodGet:
		json.NewEncoder(w).Encode(map[string]any{"range": "Sheet1", "values": f.values})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newSheet(t *testing.T, fake *fakeSheets) *Sheet {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	s, err := New(context.Background(), "sheet-id", "",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return s
}

func TestReadUnformattedValues(t *testing.T) {
	fake := &fakeSheets{values: [][]any{
		{"משימה", "תאריך יעד", `מס"ד`, "סטטוס"},
		{"Inspect line 3", 46174, 4, "🔄 בטיפול"},
		{},
		{"Clean silo", "", "", ""},
	}}
	s := newSheet(t, fake)

	records, err := s.Read(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Inspect line 3", records[0]["משימה"])
	assert.Equal(t, float64(46174), records[0]["תאריך יעד"])
	assert.Equal(t, 2, records[0][model.KeySourceRow])
	assert.Equal(t, 4, records[1][model.KeySourceRow])
}

func TestWriteClearsThenUpdates(t *testing.T) {
	fake := &fakeSheets{values: [][]any{{"stale"}}}
	s := newSheet(t, fake)

	err := s.Write(context.Background(), []model.Task{{Title: "fresh", Priority: model.PriorityLow}})

	require.NoError(t, err)
	assert.True(t, fake.cleared)
	require.Len(t, fake.values, 2)
	assert.Equal(t, "משימה", fake.values[0][5])
	assert.Equal(t, "fresh", fake.values[1][5])
	assert.Equal(t, "נמוך", fake.values[1][9])
}

func TestAuthFailureIsConnectionError(t *testing.T) {
	s := newSheet(t, &fakeSheets{status: http.StatusForbidden})

	_, err := s.Read(context.Background())

	require.Error(t, err)
	assert.True(t, store.IsConnection(err))
}

func TestNewRequiresSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), "", "")

	assert.Error(t, err)
}
