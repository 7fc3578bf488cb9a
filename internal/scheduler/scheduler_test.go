package scheduler

import (
	"testing"

	"channel-relay-go/internal/config"
	metricsPkg "channel-relay-go/internal/metrics"
	"channel-relay-go/internal/models"
	"channel-relay-go/internal/processor"
)

// Prometheus collectors register globally, so all tests share one instance
var testMetrics = metricsPkg.NewMetrics()

// dummySource implements MappingSource with no mappings
type dummySource struct{}

func (d *dummySource) ActiveMappings() ([]models.ChannelMapping, error) { return nil, nil }
func (d *dummySource) CountUnposted() (int64, error)                    { return 0, nil }

func newTestScheduler() *Scheduler {
	cfg := &config.SchedulerConfig{IntervalSeconds: 60, FetchLimit: 20}
	proc := processor.New(nil, nil, nil, testMetrics)
	return New(cfg, &dummySource{}, proc, processor.ProcessingOptions{FetchLimit: 20}, testMetrics)
}

func TestSchedulerRestart(t *testing.T) {
	sched := newTestScheduler()

	if err := sched.Start(); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	if !sched.IsRunning() {
		t.Fatalf("scheduler should be running after Start")
	}
	if err := sched.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if sched.IsRunning() {
		t.Fatalf("scheduler should not be running after Stop")
	}
	if err := sched.Start(); err != nil {
		t.Fatalf("second start failed: %v", err)
	}
	if !sched.IsRunning() {
		t.Fatalf("scheduler should be running after second Start")
	}
	// context should be active
	if sched.ctx == nil || sched.ctx.Err() != nil {
		t.Fatalf("scheduler context should be active after restart")
	}
	sched.Stop()
}

func TestSchedulerDoubleStart(t *testing.T) {
	sched := newTestScheduler()

	if err := sched.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := sched.Start(); err == nil {
		t.Fatalf("second Start on a running scheduler should fail")
	}
	sched.Stop()
}

func TestSchedulerStopWhenNotRunning(t *testing.T) {
	sched := newTestScheduler()

	if err := sched.Stop(); err != nil {
		t.Fatalf("Stop on a stopped scheduler should be a no-op, got: %v", err)
	}
}

func TestSchedulerNextRunWhenStopped(t *testing.T) {
	sched := newTestScheduler()

	if !sched.GetNextRun().IsZero() {
		t.Fatalf("next run should be zero when the scheduler is stopped")
	}
}
