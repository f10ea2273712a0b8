package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.RecordCopy()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.CopiesTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CopiesTotal))
}

func TestRecordToggle(t *testing.T) {
	m := New()
	m.RecordToggle(true)
	m.RecordToggle(true)
	m.RecordToggle(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SaveTogglesTotal.WithLabelValues("save")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SaveTogglesTotal.WithLabelValues("unsave")))
}

func TestRecordSelectionAndHTTP(t *testing.T) {
	m := New()
	m.RecordSelection(3)
	m.RecordHTTPRequest("/prompts", 200, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SelectionsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/prompts", "200")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordSelection(1)
	m.RecordToggle(true)
	m.RecordCopy()
	m.RecordHTTPRequest("/", 200, time.Second)
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordCopy()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "shelf_copies_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}
