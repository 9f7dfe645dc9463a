package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	r := NewRecorder()
	ctx := context.Background()

	r.Observe(ctx, "add_item", true, 2*time.Millisecond)
	r.Observe(ctx, "add_item", true, time.Millisecond)
	r.Observe(ctx, "add_item", false, time.Millisecond)
	r.Observe(ctx, "", true, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.operations.WithLabelValues("add_item", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.operations.WithLabelValues("add_item", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.durations))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.Observe(context.Background(), "transfer_item", true, time.Millisecond)

	path := filepath.Join(t.TempDir(), "skrinja.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `skrinja_store_operations_total{op="transfer_item",result="success"} 1`)
	assert.Contains(t, string(data), "skrinja_store_operation_duration_seconds_bucket")
}
