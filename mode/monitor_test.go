package mode

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/igentuman/TarkovBuddy/pipeline"
	"github.com/igentuman/TarkovBuddy/service/analysis"
	"github.com/igentuman/TarkovBuddy/service/rescache"
	"github.com/igentuman/TarkovBuddy/service/snapshot"
	"github.com/igentuman/TarkovBuddy/service/source"
)

type testConfig struct {
	snapshots string
}

func (c testConfig) GetModeMaxShutdownTime() int            { return 1 }
func (c testConfig) GetCapturePeriod() time.Duration        { return 2 * time.Millisecond }
func (c testConfig) GetFrameBufferCapacity() int            { return 10 }
func (c testConfig) GetCacheMaxSize() int                   { return 50 }
func (c testConfig) GetStreamPollInterval() time.Duration   { return 2 * time.Millisecond }
func (c testConfig) GetSchedulerStopTimeout() time.Duration { return time.Second }
func (c testConfig) GetStatsPeriod() time.Duration          { return 50 * time.Millisecond }
func (c testConfig) GetCaptureDisplay() int                 { return 0 }
func (c testConfig) GetVideoInputURL() string               { return "" }
func (c testConfig) GetSnapshotsFolder() string             { return c.snapshots }

func testServices(t *testing.T) pipeline.ServicesFactory {
	t.Helper()
	cfg := testConfig{snapshots: t.TempDir()}
	return pipeline.ServicesFactory{
		CfgSvc:      cfg,
		SourceSvc:   source.NewSynthetic(8, 8),
		AnalysisSvc: analysis.NewFake(0),
		CacheSvc:    rescache.NewMemory(cfg.GetCacheMaxSize()),
		SnapshotSvc: snapshot.NewFiles(cfg),
	}
}

func TestMonitorRunsPipelineUntilCancelled(t *testing.T) {
	svcs := testServices(t)

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() {
		result <- Monitor(ctx, svcs)
	}()

	// Let the pipeline push some frames through the cache path
	require.Eventually(t, func() bool {
		stats := svcs.CacheSvc.Stats()
		return stats.Hits+stats.Misses > 0
	}, 2*time.Second, 5*time.Millisecond)

	cancel()

	select {
	case err := <-result:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("monitor did not stop after cancellation")
	}
}

func TestSnapshotWritesFile(t *testing.T) {
	svcs := testServices(t)
	require.NoError(t, Snapshot(context.Background(), svcs))
}
