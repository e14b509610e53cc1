package logger

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type componentStat struct {
	warns  int64
	errors int64
}

var componentStats sync.Map // map[string]*componentStat

func recordWarn(component string) {
	stat := loadStat(component)
	atomic.AddInt64(&stat.warns, 1)
}

func recordError(component string) {
	stat := loadStat(component)
	atomic.AddInt64(&stat.errors, 1)
}

func loadStat(component string) *componentStat {
	v, _ := componentStats.LoadOrStore(component, &componentStat{})
	return v.(*componentStat)
}

// StartReport begins periodic logging of per-component warn and error
// counters until ctx is cancelled.
func StartReport(ctx context.Context, log *Log, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-ticker.C:
				logReport(log)
			}
		}
	}()
}

func logReport(log *Log) {
	counters := map[string]map[string]int64{}
	componentStats.Range(func(k, v any) bool {
		stat := v.(*componentStat)
		counters[k.(string)] = map[string]int64{
			"warns":  atomic.LoadInt64(&stat.warns),
			"errors": atomic.LoadInt64(&stat.errors),
		}
		return true
	})

	log.WithComponent("report").WithFields(Fields{
		"components": counters,
	}).Info("status report")
}
