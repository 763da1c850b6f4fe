package daycycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/shelterline/shelter-engine/pkg/event"
	"github.com/shelterline/shelter-engine/pkg/item"
	"github.com/shelterline/shelter-engine/pkg/survivor"
)

// Caller-misuse errors returned synchronously by Submit. These are
// recoverable: nothing was changed and no generation call was issued.
var (
	ErrNotPrepared      = errors.New("no day is prepared")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrInactiveCategory = errors.New("category is not active today")
	ErrAlreadySubmitted = errors.New("category already submitted today")
	ErrEmptyInput       = errors.New("input cannot be empty")
	ErrDayInFlight      = errors.New("previous day still has pending submissions")
	ErrDayOutOfRange    = errors.New("day is outside the run length")
)

// GenerationClient is the external text-generation collaborator. A call
// either returns the raw reply text with the completion token count, or
// an error. Structured asks the provider for schema-constrained output
// where supported.
type GenerationClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, structured bool) (string, int, error)
}

// Composer builds the category-specific prompt pair for a submission.
type Composer interface {
	Compose(req ComposeRequest) (systemPrompt, userPrompt string, err error)
}

// EventLog is the external persistent log of resolved story events.
type EventLog interface {
	Append(ctx context.Context, day int, category Category, playerInput string, ev *event.StoryEvent) error
}

// ResourceLevels reads the current shared pool levels for prompt
// snapshots.
type ResourceLevels interface {
	Levels(ctx context.Context) (map[string]int, error)
}

// Notifier receives day-lifecycle signals. Implementations must be safe
// for concurrent use; CategoryResolved may fire from multiple goroutines.
// DayCompleted fires whenever the pending count drains to zero, so
// staggered submissions within one day can raise it more than once.
type Notifier interface {
	DayReady(state *DailyActionState)
	CategoryResolved(category Category, result *PlayerActionResult)
	DayCompleted(day int, results map[Category]*PlayerActionResult)
}

// NopNotifier discards all signals.
type NopNotifier struct{}

func (NopNotifier) DayReady(*DailyActionState)                         {}
func (NopNotifier) CategoryResolved(Category, *PlayerActionResult)     {}
func (NopNotifier) DayCompleted(int, map[Category]*PlayerActionResult) {}

// Config tunes the orchestrator. All numbers are externally supplied;
// zero values fall back to the defaults below.
type Config struct {
	// DilemmaChance and FamilyRequestChance are activation probabilities
	// in [0,1]. Exploration is always active.
	DilemmaChance       float64
	FamilyRequestChance float64

	// NeedySanityThreshold gates family requests: a survivor with sanity
	// below it counts as needy.
	NeedySanityThreshold int

	// TotalDays is the length of a full run. PrepareDay rejects days
	// outside [1, TotalDays].
	TotalDays int

	// RequestTimeout bounds one generation round trip.
	RequestTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.NeedySanityThreshold == 0 {
		c.NeedySanityThreshold = survivor.DefaultNeedySanity
	}
	if c.TotalDays == 0 {
		c.TotalDays = 30
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 60 * time.Second
	}
	return c
}

// Orchestrator owns one day of the action cycle: it rolls category
// availability, fans out generation requests, fans results back in on a
// countdown join, and applies effects through the interpreter. Exactly
// one day is in flight at a time.
type Orchestrator struct {
	cfg         Config
	client      GenerationClient
	composer    Composer
	interpreter *event.Interpreter
	survivors   event.SurvivorStore
	resources   ResourceLevels
	eventLog    EventLog
	notifier    Notifier
	challenges  *ChallengePool
	logger      *slog.Logger
	rng         *rand.Rand

	mu      sync.Mutex
	state   *DailyActionState
	results map[Category]*PlayerActionResult
	pending int

	// applyMu serializes effect application across categories whose
	// generation calls complete concurrently.
	applyMu sync.Mutex
}

// New creates an orchestrator. A nil notifier discards signals; a nil
// rng seeds one from the current time.
func New(
	cfg Config,
	client GenerationClient,
	composer Composer,
	interpreter *event.Interpreter,
	survivors event.SurvivorStore,
	resources ResourceLevels,
	eventLog EventLog,
	notifier Notifier,
	challenges *ChallengePool,
	logger *slog.Logger,
	rng *rand.Rand,
) *Orchestrator {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if challenges == nil {
		challenges = NewChallengePool(nil)
	}
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>32))
	}
	return &Orchestrator{
		cfg:         cfg.withDefaults(),
		client:      client,
		composer:    composer,
		interpreter: interpreter,
		survivors:   survivors,
		resources:   resources,
		eventLog:    eventLog,
		notifier:    notifier,
		challenges:  challenges,
		logger:      logger,
		rng:         rng,
	}
}

// PrepareDay discards any previous day's state and rolls a fresh one:
// category activation, challenge draws, and the family-request target.
// It fails if the day lies outside the run length or the previous day
// still has submissions in flight.
func (o *Orchestrator) PrepareDay(ctx context.Context, day int) (*DailyActionState, error) {
	if day < 1 || day > o.cfg.TotalDays {
		return nil, ErrDayOutOfRange
	}

	alive, err := o.survivors.AllAlive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list survivors: %w", err)
	}

	o.mu.Lock()
	if o.pending > 0 {
		o.mu.Unlock()
		return nil, ErrDayInFlight
	}

	state := newDailyActionState(day)
	state.Categories[CategoryExploration].Active = true
	state.Categories[CategoryDilemma].Active = o.rng.Float64() < o.cfg.DilemmaChance

	needy := needySurvivors(alive, o.cfg.NeedySanityThreshold)
	familyRolled := o.rng.Float64() < o.cfg.FamilyRequestChance
	if familyRolled && len(needy) > 0 {
		state.Categories[CategoryFamilyRequest].Active = true
		state.FamilyTarget = o.pickFamilyTarget(needy, alive)
	}

	for _, c := range state.ActiveCategories() {
		state.Categories[c].Challenge = o.challenges.Draw(c, o.rng)
	}

	o.state = state
	o.results = make(map[Category]*PlayerActionResult)
	o.pending = 0
	snapshot := state.clone()
	o.mu.Unlock()

	o.logger.Info("Day prepared",
		"day", day,
		"active", snapshot.ActiveCategories(),
		"family_target", snapshot.FamilyTarget)
	o.notifier.DayReady(snapshot)
	return snapshot, nil
}

// pickFamilyTarget chooses a needy survivor at random, falling back to
// any living survivor. Callers guarantee the needy list drove activation.
func (o *Orchestrator) pickFamilyTarget(needy, alive []*survivor.Survivor) string {
	if len(needy) > 0 {
		return needy[o.rng.IntN(len(needy))].Name
	}
	if len(alive) > 0 {
		return alive[o.rng.IntN(len(alive))].Name
	}
	return ""
}

func needySurvivors(alive []*survivor.Survivor, sanityThreshold int) []*survivor.Survivor {
	var out []*survivor.Survivor
	for _, s := range alive {
		if s.IsNeedy(sanityThreshold) {
			out = append(out, s)
		}
	}
	return out
}

// SaveInput stores the player's draft input and items for a category
// without submitting. Drafts stay mutable until Submit.
func (o *Orchestrator) SaveInput(category Category, input string, items []item.Item) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	cs, err := o.categoryStateLocked(category)
	if err != nil {
		return err
	}
	if cs.Submitted {
		return ErrAlreadySubmitted
	}
	cs.Input = input
	cs.Items = append([]item.Item(nil), items...)
	return nil
}

// Submit accepts a category submission and starts its asynchronous
// generation round trip. Precondition violations return a caller-misuse
// error with no state change and no generation call. Once accepted, the
// pipeline runs to completion on a detached context: cancelling ctx
// after Submit returns does not abort the round trip, only the
// configured request timeout bounds it.
func (o *Orchestrator) Submit(ctx context.Context, category Category, input string, items []item.Item) error {
	if strings.TrimSpace(input) == "" {
		return ErrEmptyInput
	}

	o.mu.Lock()
	cs, err := o.categoryStateLocked(category)
	if err != nil {
		o.mu.Unlock()
		return err
	}
	if cs.Submitted {
		o.mu.Unlock()
		return ErrAlreadySubmitted
	}

	cs.Input = input
	cs.Items = append([]item.Item(nil), items...)
	cs.Submitted = true
	o.pending++

	day := o.state.Day
	challenge := cs.Challenge
	target := o.state.FamilyTarget
	submittedItems := append([]item.Item(nil), items...)
	o.mu.Unlock()

	o.logger.Info("Submission accepted",
		"day", day,
		"category", category,
		"items", len(submittedItems))

	// The pipeline outlives the caller's scope. HTTP handlers hand in a
	// request context that is cancelled as soon as they return 202, so
	// the goroutine keeps ctx values but not its cancellation.
	go o.run(context.WithoutCancel(ctx), category, day, challenge, target, input, submittedItems)
	return nil
}

// categoryStateLocked validates the common Submit/SaveInput
// preconditions. Callers hold o.mu.
func (o *Orchestrator) categoryStateLocked(category Category) (*CategoryState, error) {
	if !category.Valid() {
		return nil, ErrUnknownCategory
	}
	if o.state == nil {
		return nil, ErrNotPrepared
	}
	cs := o.state.Categories[category]
	if !cs.Active {
		return nil, ErrInactiveCategory
	}
	return cs, nil
}

// SubmitAll submits every active category that has a non-empty saved
// draft and has not been submitted yet. Categories with empty drafts are
// skipped silently. Returns the categories actually submitted.
func (o *Orchestrator) SubmitAll(ctx context.Context) ([]Category, error) {
	o.mu.Lock()
	if o.state == nil {
		o.mu.Unlock()
		return nil, ErrNotPrepared
	}
	type draft struct {
		category Category
		input    string
		items    []item.Item
	}
	var drafts []draft
	for _, c := range o.state.ActiveCategories() {
		cs := o.state.Categories[c]
		if cs.Submitted || strings.TrimSpace(cs.Input) == "" {
			continue
		}
		drafts = append(drafts, draft{c, cs.Input, cs.Items})
	}
	o.mu.Unlock()

	submitted := make([]Category, 0, len(drafts))
	for _, d := range drafts {
		if err := o.Submit(ctx, d.category, d.input, d.items); err != nil {
			// A concurrent Submit may have won the race for this
			// category; that is not a SubmitAll failure.
			if errors.Is(err, ErrAlreadySubmitted) {
				continue
			}
			return submitted, err
		}
		submitted = append(submitted, d.category)
	}
	return submitted, nil
}

// run executes one category's pipeline: compose, generate, extract,
// parse, apply. It always terminates in exactly one handleResult call.
func (o *Orchestrator) run(ctx context.Context, category Category, day int, challenge Challenge, target string, input string, items []item.Item) {
	ev, err := o.generate(ctx, category, day, challenge, target, input, items)

	result := &PlayerActionResult{
		Category: category,
		Input:    input,
		Items:    items,
	}
	if err != nil {
		result.Error = err.Error()
		o.logger.Warn("Submission failed",
			"day", day,
			"category", category,
			"error", err)
	} else {
		result.Event = ev
	}

	o.handleResult(ctx, day, result)
}

func (o *Orchestrator) generate(ctx context.Context, category Category, day int, challenge Challenge, target string, input string, items []item.Item) (*event.StoryEvent, error) {
	alive, err := o.survivors.AllAlive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list survivors: %w", err)
	}
	levels, err := o.resources.Levels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read resources: %w", err)
	}

	systemPrompt, userPrompt, err := o.composer.Compose(ComposeRequest{
		Category:    category,
		Day:         day,
		Challenge:   challenge,
		TargetName:  target,
		Survivors:   alive,
		Resources:   levels,
		Items:       items,
		PlayerInput: input,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compose prompt: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.cfg.RequestTimeout)
	defer cancel()

	raw, tokens, err := o.client.Complete(callCtx, systemPrompt, userPrompt, true)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	o.logger.Debug("Generation reply received",
		"category", category,
		"completion_tokens", tokens,
		"length", len(raw))

	return event.ParseResponse(raw)
}

// handleResult is the single fan-in point: it records the result exactly
// once, applies effects on success, and fires the join signal when the
// last pending category resolves.
func (o *Orchestrator) handleResult(ctx context.Context, day int, result *PlayerActionResult) {
	if result.Event != nil {
		o.applyMu.Lock()
		if err := o.interpreter.Apply(ctx, result.Event.Effects); err != nil {
			o.logger.Error("Some effects failed to apply",
				"day", day,
				"category", result.Category,
				"error", err)
		}
		o.applyMu.Unlock()

		if err := o.eventLog.Append(ctx, day, result.Category, result.Input, result.Event); err != nil {
			// The event already applied; losing the log entry must not
			// fail the category.
			o.logger.Error("Failed to append to event log",
				"day", day,
				"category", result.Category,
				"error", err)
		}
	}

	o.mu.Lock()
	if _, dup := o.results[result.Category]; dup {
		o.mu.Unlock()
		o.logger.Error("Duplicate result dropped",
			"day", day,
			"category", result.Category)
		return
	}
	o.results[result.Category] = result
	o.pending--
	remaining := o.pending
	var resolved map[Category]*PlayerActionResult
	if remaining == 0 {
		resolved = o.resultsLocked()
	}
	o.mu.Unlock()

	o.notifier.CategoryResolved(result.Category, result)
	if resolved != nil {
		o.logger.Info("All categories resolved", "day", day, "results", len(resolved))
		o.notifier.DayCompleted(day, resolved)
	}
}

// State returns a copy of the current day state, or nil before the
// first PrepareDay.
func (o *Orchestrator) State() *DailyActionState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.clone()
}

// Results returns a copy of the results recorded so far this day.
func (o *Orchestrator) Results() map[Category]*PlayerActionResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.resultsLocked()
}

func (o *Orchestrator) resultsLocked() map[Category]*PlayerActionResult {
	out := make(map[Category]*PlayerActionResult, len(o.results))
	for c, r := range o.results {
		out[c] = r
	}
	return out
}

// Pending returns the number of submitted categories not yet resolved.
func (o *Orchestrator) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pending
}
