package preferences

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweeper is a store that can drop its expired entries in bulk
type Sweeper interface {
	Sweep() int
}

// Janitor periodically sweeps expired entries from a Sweeper
type Janitor struct {
	store    Sweeper
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewJanitor creates a janitor that sweeps store every interval
func NewJanitor(store Sweeper, interval time.Duration) *Janitor {
	return &Janitor{
		store:    store,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start starts the sweep loop
func (j *Janitor) Start() {
	go j.run()
	logrus.Info("Preference cleanup service started")
}

// Stop stops the sweep loop
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() {
		close(j.stopChan)
		logrus.Info("Preference cleanup service stopped")
	})
}

func (j *Janitor) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := j.store.Sweep(); removed > 0 {
				logrus.Debugf("Removed %d expired preferences", removed)
			}
		case <-j.stopChan:
			return
		}
	}
}
