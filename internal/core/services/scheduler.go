package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driven"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driving"
	"github.com/custodia-labs/proemail-cli/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// TaskFunc is the body of a scheduled task. It returns the number of items
// it processed.
type TaskFunc func(ctx context.Context) (int, error)

// historyRetention is how many results are kept per task.
const historyRetention = 100

type registeredTask struct {
	name string
	run  TaskFunc
}

// Scheduler runs registered tasks on their configured intervals and
// persists their state so intervals survive restarts.
type Scheduler struct {
	config domain.SchedulerConfig
	store  driven.SchedulerStore
	tick   time.Duration

	mu       sync.Mutex
	tasks    map[string]registeredTask
	inFlight map[string]bool
	running  bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewScheduler creates a scheduler with configuration.
func NewScheduler(config domain.SchedulerConfig, store driven.SchedulerStore) *Scheduler {
	return &Scheduler{
		config:   config,
		store:    store,
		tick:     time.Minute,
		tasks:    make(map[string]registeredTask),
		inFlight: make(map[string]bool),
	}
}

// Register adds a task body. Tasks without configuration, or disabled in
// configuration, never run.
func (s *Scheduler) Register(id, name string, run TaskFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[id] = registeredTask{name: name, run: run}
}

// SetTickInterval changes how often due tasks are checked.
func (s *Scheduler) SetTickInterval(d time.Duration) {
	if d > 0 {
		s.tick = d
	}
}

// Start begins the scheduler loop. This method blocks until Stop is called
// or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		logger.Info("Scheduler disabled")
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	if err := s.initialiseTasks(ctx); err != nil {
		logger.Error("scheduler: failed to initialise tasks: %v", err)
	}

	return s.run(ctx, stopCh)
}

// Stop gracefully shuts down the scheduler and waits for running tasks.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// initialiseTasks ensures every registered task exists in the store.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	s.mu.Lock()
	tasks := make(map[string]registeredTask, len(s.tasks))
	for id, t := range s.tasks {
		tasks[id] = t
	}
	s.mu.Unlock()

	for id, t := range tasks {
		taskCfg := s.config.GetTaskConfig(id)
		if err := s.ensureTask(ctx, id, t.name, taskCfg); err != nil {
			return err
		}
	}
	return nil
}

// ensureTask creates or updates a task in the store.
func (s *Scheduler) ensureTask(ctx context.Context, id, name string, cfg domain.TaskConfig) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}

	if task == nil {
		task = &domain.ScheduledTask{
			ID:       id,
			Name:     name,
			Interval: cfg.Interval,
			Enabled:  cfg.Enabled && cfg.Interval > 0,
		}
	} else {
		if task.Interval != cfg.Interval {
			task.Interval = cfg.Interval
			task.NextRun = time.Now().Add(cfg.Interval)
		}
		task.Name = name
		task.Enabled = cfg.Enabled && cfg.Interval > 0
	}

	return s.store.SaveTask(ctx, task)
}

func (s *Scheduler) run(ctx context.Context, stopCh <-chan struct{}) error {
	s.checkAndRunDueTasks(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			s.checkAndRunDueTasks(ctx)
		}
	}
}

// checkAndRunDueTasks starts every due task that has a registered body.
func (s *Scheduler) checkAndRunDueTasks(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		logger.Error("scheduler: failed to list tasks: %v", err)
		return
	}

	now := time.Now()
	for i := range tasks {
		task := tasks[i]
		if !task.IsDue(now) {
			continue
		}
		s.mu.Lock()
		body, ok := s.tasks[task.ID]
		busy := s.inFlight[task.ID]
		if ok && !busy {
			s.inFlight[task.ID] = true
		}
		s.mu.Unlock()
		if !ok {
			logger.Debug("scheduler: no body registered for task %s", task.ID)
			continue
		}
		if busy {
			continue
		}
		s.runTask(ctx, &task, body.run)
	}
}

// runTask executes a single task in its own goroutine.
func (s *Scheduler) runTask(ctx context.Context, task *domain.ScheduledTask, run TaskFunc) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.inFlight, task.ID)
			s.mu.Unlock()
		}()

		result := &domain.TaskResult{
			TaskID:    task.ID,
			StartedAt: time.Now(),
		}

		items, err := run(ctx)
		result.ItemsProcessed = items
		result.EndedAt = time.Now()
		if err != nil {
			result.Error = err.Error()
			task.LastError = err.Error()
			logger.Error("scheduler: task %s failed: %v", task.ID, err)
		} else {
			result.Success = true
			task.LastError = ""
			task.LastSuccess = result.EndedAt
		}

		task.LastRun = result.StartedAt
		task.NextRun = result.EndedAt.Add(task.Interval)

		if saveErr := s.store.SaveTask(ctx, task); saveErr != nil {
			logger.Error("scheduler: failed to save task %s: %v", task.ID, saveErr)
		}
		if recordErr := s.store.RecordResult(ctx, result); recordErr != nil {
			logger.Error("scheduler: failed to record result for %s: %v", task.ID, recordErr)
		}
		if pruneErr := s.store.PruneHistory(ctx, historyRetention); pruneErr != nil {
			logger.Error("scheduler: failed to prune history: %v", pruneErr)
		}
	}()
}

// MailPollTask adapts a dashboard refresh into a scheduled task body.
// A logged-out session is skipped rather than reported as a failure.
func MailPollTask(dashboard driving.Dashboard, sessions driving.SessionService) TaskFunc {
	return func(ctx context.Context) (int, error) {
		if !sessions.IsLoggedIn() {
			logger.Debug("mail poll: not signed in, skipping")
			return 0, nil
		}
		report, err := dashboard.Refresh(ctx)
		if report == nil {
			return 0, err
		}
		return report.Processed, err
	}
}
