package scheduler

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/huddleup-app/huddleup-api/store"
)

// Broadcaster pushes the current activity snapshot to every connected client
type Broadcaster interface {
	BroadcastActivities()
}

// Scheduler handles periodic background jobs. Its one job keeps the derived
// "past" flag fresh: when an activity's schedule time passes, every client
// gets a new snapshot instead of re-deriving the flag locally.
type Scheduler struct {
	cron *cron.Cron
	ADB  store.ActivityStore
	hub  Broadcaster

	mu       sync.Mutex
	lastPast map[string]bool
}

// New creates a new scheduler instance
func New(adb store.ActivityStore, hub Broadcaster) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		ADB:      adb,
		hub:      hub,
		lastPast: make(map[string]bool),
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	_, err := s.cron.AddFunc("* * * * *", s.refreshPastFlags)
	if err != nil {
		zap.S().Errorw("failed to register past-flag refresh job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("activity scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("activity scheduler stopped")
}

// refreshPastFlags rebroadcasts the snapshot when any activity crossed its
// schedule time since the last run. Newly seen activities were already
// broadcast at creation, only flips count.
func (s *Scheduler) refreshPastFlags() {
	activities := s.ADB.Activities()

	s.mu.Lock()
	changed := false
	seen := make(map[string]bool, len(activities))
	for _, a := range activities {
		seen[a.ID] = a.IsPast
		if prev, ok := s.lastPast[a.ID]; ok && prev != a.IsPast {
			changed = true
		}
	}
	s.lastPast = seen
	s.mu.Unlock()

	if changed {
		zap.S().Debug("activity schedule passed, rebroadcasting snapshot")
		s.hub.BroadcastActivities()
	}
}
