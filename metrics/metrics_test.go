package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/alphagraph/core"
	"github.com/poiesic/alphagraph/pipeline"
	"github.com/poiesic/alphagraph/search"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Search(t *testing.T) {
	r := NewRecorder()

	r.Start("AAPL earnings")
	r.AfterVectorSearch([]search.Neighbor{{ID: 0, Distance: 0.5}, {ID: 1, Distance: 2}})
	r.AfterLexicalScoring([]float64{1, 0})
	r.Finish([]core.ScoredResult{{Text: "a", Score: 0.75}}, 20*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.searchTotal))
	assert.Equal(t, 0.75, testutil.ToFloat64(r.topScore))
	assert.Equal(t, 1, testutil.CollectAndCount(r.searchDuration))
}

func TestRecorder_Build(t *testing.T) {
	r := NewRecorder()
	r.BuildFinished(10, 4, time.Second)
	r.BuildFinished(5, 5, time.Second)

	assert.Equal(t, 15.0, testutil.ToFloat64(r.buildChunks))
	assert.Equal(t, 9.0, testutil.ToFloat64(r.buildCacheHits))
}

func TestRecorder_Stages(t *testing.T) {
	r := NewRecorder()
	r.ObserveStage(pipeline.StagePlan, time.Millisecond, nil)
	r.ObserveStage(pipeline.StageRetrieve, time.Millisecond, errors.New("index not loaded"))
	r.ObserveStage(pipeline.StagePlan, time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.stageTotal.WithLabelValues(pipeline.StagePlan, "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.stageTotal.WithLabelValues(pipeline.StageRetrieve, "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.stageDuration))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.Start("q")
	r.ObserveStage(pipeline.StageSignals, time.Millisecond, nil)

	path := filepath.Join(t.TempDir(), "alphagraph.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.Contains(out, "alphagraph_search_queries_total 1"))
	assert.Contains(t, out, `alphagraph_pipeline_stage_runs_total{stage="extract_signals",status="success"} 1`)
}

func TestRecorder_WriteTextfileBadPath(t *testing.T) {
	r := NewRecorder()
	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "out.prom"))
	assert.Error(t, err)
}
