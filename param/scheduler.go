package param

// Scheduler is a cooperative microtask queue. The pipeline runs on one
// logical thread: parameter propagation is synchronous, but batched
// downstream effects are deferred onto the scheduler and delivered when the
// host drains it, typically once per frame.
type Scheduler struct {
	tasks []func()
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Defer queues fn to run on the next Flush.
func (s *Scheduler) Defer(fn func()) {
	s.tasks = append(s.tasks, fn)
}

// Flush runs all queued tasks in order. Tasks queued while flushing run in
// the same flush, so a flush settles cascading deferrals before returning.
func (s *Scheduler) Flush() {
	for len(s.tasks) > 0 {
		task := s.tasks[0]
		s.tasks = s.tasks[1:]
		task()
	}
}

// Pending returns the number of queued tasks.
func (s *Scheduler) Pending() int { return len(s.tasks) }

// Batcher coalesces bursts of property invalidations into one delivery.
//
// The first change in a tick schedules a deferred flush; changes arriving
// before that flush runs are appended to the same pending list, with
// duplicates dropped. The flush hands the collected names to the sink once,
// so a set of expression-driven properties changing together triggers a
// single downstream rebuild instead of one per property.
type Batcher struct {
	scheduler *Scheduler
	sink      func(names []string)

	pending   []string
	seen      map[string]struct{}
	scheduled bool
}

// NewBatcher creates a batcher delivering batched names to sink via
// scheduler.
func NewBatcher(scheduler *Scheduler, sink func(names []string)) *Batcher {
	return &Batcher{
		scheduler: scheduler,
		sink:      sink,
		seen:      make(map[string]struct{}),
	}
}

// Add records a changed property. The first Add after a delivery schedules
// the next one; repeated names within a tick are recorded once.
func (b *Batcher) Add(name string) {
	if _, dup := b.seen[name]; dup {
		return
	}
	b.seen[name] = struct{}{}
	b.pending = append(b.pending, name)

	if !b.scheduled {
		b.scheduled = true
		b.scheduler.Defer(b.deliver)
	}
}

// Listener returns a change callback that records name; convenient for
// wiring a Batcher to Expression.AddListener.
func (b *Batcher) Listener(name string) func() {
	return func() { b.Add(name) }
}

// deliver hands the pending list to the sink and resets the batch. State is
// reset before the sink runs so changes made during delivery start a new
// batch.
func (b *Batcher) deliver() {
	names := b.pending
	b.pending = nil
	b.seen = make(map[string]struct{})
	b.scheduled = false
	b.sink(names)
}
