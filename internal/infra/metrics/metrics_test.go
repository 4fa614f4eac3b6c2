package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveFlush(t *testing.T) {
	rec := NewRecorder()
	rec.ObserveFlush("teachers", nil, 10*time.Millisecond)
	rec.ObserveFlush("teachers", errors.New("disk full"), time.Millisecond)
	rec.ObserveFlush("teachers", nil, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.flushTotal.WithLabelValues("teachers", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.flushTotal.WithLabelValues("teachers", "error")))
}

func TestObserveReload(t *testing.T) {
	rec := NewRecorder()
	rec.ObserveReload("teaching_requirements", 3, 2, nil)
	rec.ObserveReload("teaching_requirements", 0, 0, errors.New("corrupt"))

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.reloadTotal.WithLabelValues("teaching_requirements", "partial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.reloadTotal.WithLabelValues("teaching_requirements", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.skippedRecords.WithLabelValues("teaching_requirements")))
	assert.Equal(t, 0.0, testutil.ToFloat64(rec.loadedRecords.WithLabelValues("teaching_requirements")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	rec := NewRecorder()
	rec.ObserveFlush("teachers", nil, time.Millisecond)

	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `snapshot_flush_total{kind="teachers",result="ok"} 1`)
}
