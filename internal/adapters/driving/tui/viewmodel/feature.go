package viewmodel

import (
	"context"
	"sync"

	"github.com/custodia-labs/tmarch/internal/core/domain"
	"github.com/custodia-labs/tmarch/internal/core/ports/driving"
	"github.com/custodia-labs/tmarch/internal/logger"
)

// Policy aliases for callers that only import this package.
const (
	PolicySupersede     = domain.RefreshPolicySupersede
	PolicyLastWriteWins = domain.RefreshPolicyLastWriteWins
)

// Option configures a FeatureViewModel.
type Option func(*FeatureViewModel)

// WithPolicy sets how overlapping refreshes resolve.
// Invalid policies are ignored.
func WithPolicy(p domain.RefreshPolicy) Option {
	return func(vm *FeatureViewModel) {
		if p.IsValid() {
			vm.policy = p
		}
	}
}

// WithContext sets the parent context of every fetch. Cancelling it has the
// same effect as Close for in-flight fetches.
func WithContext(ctx context.Context) Option {
	return func(vm *FeatureViewModel) {
		if ctx != nil {
			vm.parent = ctx
		}
	}
}

// FeatureViewModel holds the entity shown by a feature view.
//
// Observers registered with Subscribe run synchronously, in version order.
// They may read the view model and call RefreshAsync, but must not call
// Refresh from inside the callback.
type FeatureViewModel struct {
	useCase driving.FeatureGetUseCase
	policy  domain.RefreshPolicy
	parent  context.Context

	base     context.Context
	closeAll context.CancelFunc

	mu         sync.Mutex
	entity     *domain.FeatureEntity
	projection *Projection
	state      State
	err        error
	version    uint64
	generation uint64
	inflight   map[uint64]context.CancelFunc
	observers  map[int]func(Snapshot)
	nextID     int
	closed     bool

	// notifyMu serialises apply so deliveries keep version order.
	// It is always taken before mu.
	notifyMu sync.Mutex

	initial *Task
}

// NewFeatureViewModel creates a view model and schedules exactly one
// asynchronous refresh, available through InitialTask.
func NewFeatureViewModel(useCase driving.FeatureGetUseCase, opts ...Option) *FeatureViewModel {
	vm := &FeatureViewModel{
		useCase:   useCase,
		policy:    PolicySupersede,
		parent:    context.Background(),
		inflight:  make(map[uint64]context.CancelFunc),
		observers: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(vm)
	}
	vm.base, vm.closeAll = context.WithCancel(vm.parent)
	vm.initial = vm.RefreshAsync()
	return vm
}

// InitialTask returns the refresh scheduled at construction.
func (vm *FeatureViewModel) InitialTask() *Task {
	return vm.initial
}

// Policy returns the refresh policy in effect.
func (vm *FeatureViewModel) Policy() domain.RefreshPolicy {
	return vm.policy
}

// Projection returns the current projection, or nil before the first
// successful fetch and after a failed one.
func (vm *FeatureViewModel) Projection() *Projection {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.projection
}

// State returns the current state.
func (vm *FeatureViewModel) State() State {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state
}

// Err returns the reason of the last failure, if the state is StateFailed.
func (vm *FeatureViewModel) Err() error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.err
}

// Snapshot returns a copy of the current state.
func (vm *FeatureViewModel) Snapshot() Snapshot {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.snapshotLocked()
}

// Subscribe registers fn for every future change and returns a function
// that removes it.
func (vm *FeatureViewModel) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	id := vm.nextID
	vm.nextID++
	vm.observers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			vm.mu.Lock()
			delete(vm.observers, id)
			vm.mu.Unlock()
		})
	}
}

// Refresh fetches the entity and applies the result according to the policy.
// It returns the fetch error, ErrSuperseded when a newer refresh made the
// result stale, or ErrClosed after Close.
func (vm *FeatureViewModel) Refresh(ctx context.Context) error {
	fetchCtx, gen, end, err := vm.begin(ctx)
	if err != nil {
		return err
	}
	defer end()

	var entity *domain.FeatureEntity
	if vm.useCase == nil {
		err = domain.ErrNotImplemented
	} else {
		entity, err = vm.useCase.GetEntity(fetchCtx)
	}
	return vm.apply(gen, entity, err)
}

// RefreshAsync starts a refresh in its own goroutine.
func (vm *FeatureViewModel) RefreshAsync() *Task {
	ctx, cancel := context.WithCancel(vm.base)
	task := newTask(cancel)
	go func() {
		task.finish(vm.Refresh(ctx))
	}()
	return task
}

// Close cancels in-flight fetches and drops all observers.
// Later refreshes fail with ErrClosed.
func (vm *FeatureViewModel) Close() {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return
	}
	vm.closed = true
	vm.observers = make(map[int]func(Snapshot))
	vm.mu.Unlock()

	vm.closeAll()
}

// begin registers a new fetch generation and derives its context.
func (vm *FeatureViewModel) begin(ctx context.Context) (context.Context, uint64, func(), error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.closed {
		return nil, 0, nil, ErrClosed
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(vm.base, cancel)

	if vm.policy == PolicySupersede {
		for g, c := range vm.inflight {
			c()
			delete(vm.inflight, g)
		}
	}
	vm.generation++
	gen := vm.generation
	vm.inflight[gen] = cancel

	end := func() {
		vm.mu.Lock()
		delete(vm.inflight, gen)
		vm.mu.Unlock()
		stop()
		cancel()
	}
	return fetchCtx, gen, end, nil
}

// apply stores a fetch result and notifies observers.
func (vm *FeatureViewModel) apply(gen uint64, entity *domain.FeatureEntity, fetchErr error) error {
	vm.notifyMu.Lock()
	defer vm.notifyMu.Unlock()

	vm.mu.Lock()

	if vm.closed {
		vm.mu.Unlock()
		if fetchErr != nil {
			return fetchErr
		}
		return ErrClosed
	}
	if vm.policy == PolicySupersede && gen != vm.generation {
		vm.mu.Unlock()
		logger.Debug("Discarding superseded feature fetch %d", gen)
		return ErrSuperseded
	}

	if fetchErr == nil && entity == nil {
		fetchErr = domain.NewFeatureError(domain.ErrNotFound, "use case", nil)
	}
	if fetchErr != nil {
		vm.setEntityLocked(nil)
		vm.state = StateFailed
		vm.err = fetchErr
	} else {
		vm.setEntityLocked(entity)
		vm.state = StatePopulated
		vm.err = nil
	}
	vm.version++
	snap := vm.snapshotLocked()
	observers := make([]func(Snapshot), 0, len(vm.observers))
	for _, fn := range vm.observers {
		observers = append(observers, fn)
	}

	vm.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
	return fetchErr
}

// setEntityLocked replaces the entity and recomputes the projection.
func (vm *FeatureViewModel) setEntityLocked(entity *domain.FeatureEntity) {
	vm.entity = entity
	vm.projection = NewProjection(entity)
}

func (vm *FeatureViewModel) snapshotLocked() Snapshot {
	return Snapshot{
		State:      vm.state,
		Projection: vm.projection,
		Err:        vm.err,
		Version:    vm.version,
	}
}
