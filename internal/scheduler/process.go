package scheduler

import (
	"time"

	"github.com/sirupsen/logrus"
)

// processCycle runs one polling cycle: active mappings are processed
// sequentially, each mapping's ingestion-and-delivery cycle running to
// completion before the next is considered. The stop signal is checked
// between mappings so cancellation takes effect within one message's
// processing latency.
func (s *Scheduler) processCycle() {
	s.wg.Add(1)
	defer s.wg.Done()

	s.mu.RLock()
	if !s.isRunning {
		s.mu.RUnlock()
		logrus.Debug("Scheduler not running, skipping polling cycle")
		return
	}
	ctx := s.ctx
	opts := s.opts
	s.mu.RUnlock()

	startTime := time.Now()
	s.metrics.PollCycles.Inc()

	mappings, err := s.mappings.ActiveMappings()
	if err != nil {
		logrus.Errorf("Failed to load active mappings: %v", err)
		return
	}
	s.metrics.ActiveMappings.Set(float64(len(mappings)))

	for i := range mappings {
		select {
		case <-ctx.Done():
			logrus.Info("Polling cycle cancelled")
			return
		default:
		}

		mapping := &mappings[i]
		if err := s.processor.ProcessMapping(ctx, mapping, opts); err != nil {
			// One bad mapping never halts the loop
			logrus.Errorf("Failed to process mapping %s: %v", mapping.MappingID, err)
		}
	}

	if backlog, err := s.mappings.CountUnposted(); err == nil {
		s.metrics.UnpostedBacklog.Set(float64(backlog))
	}

	s.metrics.ProcessingTime.Observe(time.Since(startTime).Seconds())
	logrus.Debugf("Polling cycle completed in %v", time.Since(startTime))
}
