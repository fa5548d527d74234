package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"frontier.dev/internal/data"
	"frontier.dev/internal/generation"
	"frontier.dev/internal/models"
	"frontier.dev/internal/persistence"
	"frontier.dev/internal/simulation"
)

var (
	// ErrNoWorld is returned when no world has been generated or loaded yet
	ErrNoWorld = errors.New("no world loaded")
	// ErrBusy is returned while a generation or a save is running
	ErrBusy = errors.New("world busy")
)

// Event types pushed to subscribers
const (
	EventStage = "stage"
	EventWorld = "world"
	EventState = "state"
	EventSave  = "save"
	EventError = "error"
)

// Event is a message pushed to live subscribers
type Event struct {
	Type      string            `json:"type"`
	Stage     string            `json:"stage,omitempty"`
	ElapsedMs float64           `json:"elapsed_ms,omitempty"`
	Slot      string            `json:"slot,omitempty"`
	Error     string            `json:"error,omitempty"`
	State     *models.GameState `json:"state,omitempty"`
}

// StageTimingView is the duration of one generation stage
type StageTimingView struct {
	Stage     string  `json:"stage"`
	ElapsedMs float64 `json:"elapsed_ms"`
}

// GenerationStatus reports the current or last generation
type GenerationStatus struct {
	Running bool              `json:"running"`
	Seed    uint64            `json:"seed"`
	Stage   string            `json:"stage"`
	Error   string            `json:"error,omitempty"`
	Timings []StageTimingView `json:"timings,omitempty"`
}

// Options configures a WorldService
type Options struct {
	Generation generation.Settings
	Simulation simulation.Settings
	Catalog    *data.Catalog
	Store      persistence.Storage
	Logger     *log.Logger

	// GeneratorOptions are appended to the options of every generation
	GeneratorOptions []generation.Option
}

// WorldService owns the running world: its generation, its simulation
// model and its saves. It is safe for concurrent use.
type WorldService struct {
	opts   Options
	maps   *MapService
	logger *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	task     *generation.Task
	status   GenerationStatus
	model    *simulation.WorldModel
	save     *persistence.SaveTask
	saveSlot string

	subMu       sync.Mutex
	subscribers map[chan Event]struct{}
}

// NewWorldService creates a service without a world
func NewWorldService(opts Options) *WorldService {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Catalog == nil {
		opts.Catalog = data.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorldService{
		opts:        opts,
		maps:        NewMapService(opts.Catalog),
		logger:      opts.Logger,
		ctx:         ctx,
		cancel:      cancel,
		subscribers: make(map[chan Event]struct{}),
	}
}

// Close stops the running generation and save
func (s *WorldService) Close() {
	s.cancel()
}

func (s *WorldService) busy() bool {
	return (s.task != nil && !s.task.Done()) || (s.save != nil && !s.save.Done())
}

// StartGeneration launches the generation of a new world in the background.
// The world being played is replaced once the generation succeeds.
func (s *WorldService) StartGeneration(seed uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy() {
		return ErrBusy
	}

	opts := append([]generation.Option{
		generation.WithCatalog(s.opts.Catalog),
		generation.WithLogger(s.logger),
		generation.WithSink(s),
	}, s.opts.GeneratorOptions...)

	s.task = generation.StartTask(s.ctx, s.opts.Generation, seed, opts...)
	s.status = GenerationStatus{Running: true, Seed: seed, Stage: generation.StageNone.String()}
	s.logger.Printf("[GEN] Generation started with seed %d", seed)
	return nil
}

// StageStarted forwards the generation progress to subscribers
func (s *WorldService) StageStarted(stage generation.Stage) {
	s.publish(Event{Type: EventStage, Stage: stage.String()})
}

// StageFinished forwards the generation progress to subscribers
func (s *WorldService) StageFinished(stage generation.Stage, elapsed time.Duration) {
	s.publish(Event{Type: EventStage, Stage: stage.String(), ElapsedMs: milliseconds(elapsed)})
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// GenerationStatus returns the state of the current or last generation
func (s *WorldService) GenerationStatus() GenerationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := s.status
	if s.task != nil && !s.task.Done() {
		status.Stage = s.task.Stage().String()
	}
	return status
}

// WaitGeneration blocks until the running generation is finished and
// adopted, or the context ends
func (s *WorldService) WaitGeneration(ctx context.Context) error {
	s.mu.Lock()
	task := s.task
	s.mu.Unlock()
	if task == nil {
		return nil
	}

	if _, err := task.Wait(ctx); err != nil && ctx.Err() != nil {
		return ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.adoptGeneration()
	if s.status.Error != "" {
		return errors.New(s.status.Error)
	}
	return nil
}

// adoptGeneration installs the world of a finished generation. Callers
// hold mu.
func (s *WorldService) adoptGeneration() {
	if s.task == nil || !s.task.Done() {
		return
	}
	task := s.task
	s.task = nil

	state, err := task.Result()
	s.status.Running = false
	s.status.Stage = task.Stage().String()
	s.status.Timings = nil
	for _, timing := range task.Timings() {
		s.status.Timings = append(s.status.Timings, StageTimingView{Stage: timing.Stage.String(), ElapsedMs: milliseconds(timing.Elapsed)})
	}

	if err == nil {
		err = s.install(state)
	}
	if err != nil {
		s.status.Error = err.Error()
		s.logger.Printf("[GEN] Generation failed: %v", err)
		s.publish(Event{Type: EventWorld, Error: err.Error()})
		return
	}
	s.publish(Event{Type: EventWorld, State: s.summary()})
}

// install replaces the played world. Callers hold mu.
func (s *WorldService) install(state *models.WorldState) error {
	rng := generation.NewRNG(state.Seed ^ uint64(state.CurrentDate.DayOfYear()))
	model, err := simulation.NewWorldModel(state, s.opts.Catalog, rng, s.opts.Simulation, s.logger)
	if err != nil {
		return fmt.Errorf("installing world: %w", err)
	}
	s.model = model
	return nil
}

// Tick advances the world by a real-time delta. It reports whether the
// in-game date moved or a visible change started a cooldown.
func (s *WorldService) Tick(dt time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.adoptGeneration()
	if s.save != nil {
		if !s.save.Done() {
			// the world is frozen while it is written
			return false
		}
		s.finishSave()
	}
	if s.model == nil {
		return false
	}

	before, cooling := s.model.State().CurrentDate, s.model.Cooldown()
	s.model.Update(dt)
	return !before.Equal(s.model.State().CurrentDate) || (!cooling && s.model.Cooldown())
}

// Run ticks the world at a fixed interval and pushes its summary to
// subscribers after every change
func (s *WorldService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			changed := s.Tick(now.Sub(last))
			last = now
			if changed {
				if summary, err := s.Summary(); err == nil {
					s.publish(Event{Type: EventState, State: summary})
				}
			}
		}
	}
}

// SubmitAction queues the next action of the hero
func (s *WorldService) SubmitAction(action simulation.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.model == nil {
		return ErrNoWorld
	}
	if s.save != nil && !s.save.Done() {
		return ErrBusy
	}
	s.model.SetHeroAction(action)
	return nil
}

// SubmitPath queues a walk of the hero along contiguous cells
func (s *WorldService) SubmitPath(path []models.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.model == nil {
		return ErrNoWorld
	}
	for i, p := range path {
		previous := s.model.State().Hero().Position
		if i > 0 {
			previous = path[i-1]
		}
		if models.Chebyshev(previous, p) != 1 {
			return fmt.Errorf("path step %d from %v to %v is not contiguous", i, previous, p)
		}
	}
	s.model.SetHeroPath(path)
	return nil
}

// summary builds the world summary. Callers hold mu.
func (s *WorldService) summary() *models.GameState {
	state := s.model.State()
	hero := state.Hero()
	summary := &models.GameState{
		WorldID:   state.ID.String(),
		Date:      state.CurrentDate.String(),
		Phase:     state.CurrentDate.Phase().String(),
		Hero:      models.PositionOf(hero.Position),
		HeroFloor: hero.Floor.String(),
		Cooldown:  s.model.Cooldown(),
		Saving:    s.save != nil && !s.save.Done(),
		Actors:    len(state.Actors),
		Trains:    len(state.Network.Trains),
	}
	if action := s.model.PendingHeroAction(); action != nil {
		summary.PendingTask = action.Kind().String()
	}
	return summary
}

// Summary returns the headline state of the world
func (s *WorldService) Summary() (*models.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.model == nil {
		return nil, ErrNoWorld
	}
	return s.summary(), nil
}

// Viewport renders a floor rectangle. A nil center means the hero position,
// an empty floor name the hero floor.
func (s *WorldService) Viewport(floorName string, center *models.Point, width, height int) (*models.ViewportData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.model == nil {
		return nil, ErrNoWorld
	}
	hero := s.model.State().Hero()
	floor := hero.Floor
	switch floorName {
	case "":
	case models.FloorGround.String():
		floor = models.FloorGround
	case models.FloorUnderground.String():
		floor = models.FloorUnderground
	default:
		return nil, fmt.Errorf("unknown floor %q", floorName)
	}
	position := hero.Position
	if center != nil {
		position = *center
	}
	return s.maps.GetViewport(s.model, floor, position, width, height), nil
}

// Actors lists the actors of the world
func (s *WorldService) Actors() ([]models.ActorView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.model == nil {
		return nil, ErrNoWorld
	}
	return s.maps.GetActors(s.model.State()), nil
}

// Network summarizes the rails and roads of the world
func (s *WorldService) Network() (*models.NetworkView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.model == nil {
		return nil, ErrNoWorld
	}
	return s.maps.GetNetwork(s.model.State()), nil
}

// Journal returns the latest journal entries
func (s *WorldService) Journal(limit int) ([]models.JournalView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.model == nil {
		return nil, ErrNoWorld
	}
	return s.maps.GetJournal(s.model.State(), limit), nil
}

// Save writes the world to a slot in the background. The world is frozen
// until the save is done.
func (s *WorldService) Save(slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.model == nil {
		return ErrNoWorld
	}
	if s.busy() {
		return ErrBusy
	}
	s.save = persistence.StartSave(s.ctx, s.opts.Store, slot, s.model.State(), s.logger)
	s.saveSlot = slot
	return nil
}

// WaitSave blocks until the running save is finished and returns its result
func (s *WorldService) WaitSave() error {
	s.mu.Lock()
	task := s.save
	s.mu.Unlock()
	if task == nil {
		return nil
	}
	err := task.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.save == task {
		s.finishSave()
	}
	return err
}

// finishSave reports a finished save. Callers hold mu.
func (s *WorldService) finishSave() {
	event := Event{Type: EventSave, Slot: s.saveSlot}
	if err := s.save.Err(); err != nil {
		event.Error = err.Error()
	}
	s.save = nil
	s.publish(event)
}

// Saves lists the stored saves
func (s *WorldService) Saves(ctx context.Context) ([]persistence.SaveInfo, error) {
	return s.opts.Store.List(ctx)
}

// LoadSave replaces the played world with a stored one
func (s *WorldService) LoadSave(ctx context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy() {
		return ErrBusy
	}
	state, err := s.opts.Store.Load(ctx, slot)
	if err != nil {
		return err
	}
	if unresolved := s.opts.Catalog.Bind(state, s.logger); unresolved > 0 {
		s.logger.Printf("[DATA] Slot %s: %d unresolved references", slot, unresolved)
	}
	if err := s.install(state); err != nil {
		return err
	}
	s.logger.Printf("[SAVE] Game loaded from slot %s", slot)
	s.publish(Event{Type: EventWorld, Slot: slot, State: s.summary()})
	return nil
}

// Subscribe registers a receiver of live events. Slow receivers miss
// events rather than blocking the world.
func (s *WorldService) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 64)

	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()

	unsubscribe := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
	}
	return ch, unsubscribe
}

func (s *WorldService) publish(event Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
