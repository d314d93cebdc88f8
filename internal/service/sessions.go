package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"shutter-pricing-service/internal/domain"
	"shutter-pricing-service/internal/logger"
	"shutter-pricing-service/internal/pricing"
	"shutter-pricing-service/internal/rules"
	"shutter-pricing-service/internal/store"
)

var (
	ErrSessionNotFound     = errors.New("service: session not found")
	ErrNoProductSelected   = errors.New("service: no product selected")
	ErrSupersededSelection = errors.New("service: product selection superseded by a newer one")
	ErrTooManySessions     = errors.New("service: session limit reached")
	ErrUnsupportedProduct  = errors.New("service: product is not supported")
)

// Selection identifies what a session configures. TypeID is the section count
// of the shutter; OptionID the shutter option (e.g. "distan").
type Selection struct {
	ProductID string
	OptionID  string
	TypeID    int
}

// View is the externally visible state of a session after its last transition.
type View struct {
	ID        string                          `json:"id"`
	ProductID string                          `json:"productId,omitempty"`
	OptionID  string                          `json:"optionId,omitempty"`
	TypeID    int                             `json:"typeId,omitempty"`
	Schema    *domain.ProductSchema           `json:"schema,omitempty"`
	State     domain.State                    `json:"state"`
	Visible   []string                        `json:"visibleFields"`
	Options   map[string][]domain.FieldOption `json:"options"`
	Warnings  []rules.Warning                 `json:"warnings"`
	Result    *domain.CalculationResult       `json:"result,omitempty"`
}

type session struct {
	mu         sync.Mutex
	id         string
	generation uint64
	selection  Selection
	snapshot   *Snapshot
	schema     domain.ProductSchema // narrowed to the selection
	state      domain.State
	outcome    rules.Outcome
	result     domain.CalculationResult
}

// Config wires a Sessions instance.
type Config struct {
	Schemas      SchemaSource
	Catalog      store.CatalogSource
	Rules        *rules.Engine
	Pricing      *pricing.Engine
	Logger       *logger.Logger
	FetchTimeout time.Duration
	MaxSessions  int
}

// Sessions keeps configuration sessions in memory. Transitions of one session
// run one at a time; different sessions proceed independently.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]*session

	schemas      SchemaSource
	catalog      store.CatalogSource
	rules        *rules.Engine
	pricing      *pricing.Engine
	log          *logger.Logger
	fetchTimeout time.Duration
	maxSessions  int
}

func NewSessions(cfg Config) *Sessions {
	s := &Sessions{
		sessions:     make(map[string]*session),
		schemas:      cfg.Schemas,
		catalog:      cfg.Catalog,
		rules:        cfg.Rules,
		pricing:      cfg.Pricing,
		log:          cfg.Logger,
		fetchTimeout: cfg.FetchTimeout,
		maxSessions:  cfg.MaxSessions,
	}
	if s.rules == nil {
		s.rules = rules.NewDefaultEngine()
	}
	if s.pricing == nil {
		s.pricing = pricing.NewEngine(nil)
	}
	if s.log == nil {
		s.log = logger.NewNop()
	}
	return s
}

// Create opens an empty session.
func (s *Sessions) Create(_ context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		return View{}, ErrTooManySessions
	}
	sess := &session{id: uuid.NewString(), state: domain.State{}}
	s.sessions[sess.id] = sess
	s.log.Debug("session created", "session", sess.id)
	return sess.view(), nil
}

func (s *Sessions) lookup(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Get returns the current view of a session.
func (s *Sessions) Get(_ context.Context, id string) (View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return View{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

func (s *Sessions) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// SelectProduct switches the session to a product. The catalog snapshot is
// fetched without holding the session lock; when a newer selection starts
// meanwhile, this one returns ErrSupersededSelection and leaves the session
// to the newer one.
func (s *Sessions) SelectProduct(ctx context.Context, id string, sel Selection) (View, error) {
	if !s.pricing.Supports(sel.ProductID) {
		return View{}, fmt.Errorf("%w: %q", ErrUnsupportedProduct, sel.ProductID)
	}
	sess, err := s.lookup(id)
	if err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	sess.generation++
	gen := sess.generation
	sess.mu.Unlock()

	fetchCtx := ctx
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}
	snap, err := loadSnapshot(fetchCtx, s.schemas, s.catalog, sel.ProductID)
	if err != nil {
		s.log.Warn("catalog snapshot failed", "session", id, "product", sel.ProductID, "error", err)
		return View{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.generation != gen {
		s.log.Debug("discarding superseded selection", "session", id, "product", sel.ProductID)
		return View{}, ErrSupersededSelection
	}

	sess.selection = sel
	sess.snapshot = snap
	sess.schema = rules.NarrowSchema(snap.Schema, sel.OptionID, sel.TypeID)
	fields := sess.schema.Fields()
	s.settle(sess, domain.State{}, rules.DefaultState(fields))

	s.log.Info("product selected", "session", id, "product", sel.ProductID, "option", sel.OptionID,
		"prices", len(snap.Prices), "accessories", len(snap.Accessories))
	return sess.view(), nil
}

// Update applies field edits and returns the settled, priced state.
func (s *Sessions) Update(_ context.Context, id string, changes map[string]any) (View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return View{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.snapshot == nil {
		return View{}, ErrNoProductSelected
	}
	s.settle(sess, sess.state, sess.state.Merge(changes))
	return sess.view(), nil
}

// settle runs the rules from prev to next and prices the result. Callers hold sess.mu.
func (s *Sessions) settle(sess *session, prev, next domain.State) {
	fields := sess.schema.Fields()
	sess.outcome = s.rules.Apply(sess.selection.ProductID, fields, prev, next)
	sess.state = sess.outcome.State
	sess.result = s.pricing.Calculate(sess.selection.ProductID, domain.CalculationInput{
		State:        sess.state,
		Prices:       sess.snapshot.Prices,
		Accessories:  sess.snapshot.Accessories,
		SectionCount: sess.selection.TypeID,
		Fields:       fields,
	})
}

// Position snapshots the current configuration as an offer line item.
func (s *Sessions) Position(_ context.Context, id string, quantity int) (domain.Position, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return domain.Position{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.snapshot == nil {
		return domain.Position{}, ErrNoProductSelected
	}
	sel := sess.selection
	pos := pricing.NewPosition(sel.ProductID, strconv.Itoa(sel.TypeID), sel.OptionID, quantity, sess.state, sess.result)
	pos.ProductName = sess.schema.Name
	return pos, nil
}

// Fields returns the product schema narrowed to an option and section count.
func (s *Sessions) Fields(ctx context.Context, sel Selection) (domain.ProductSchema, error) {
	schema, err := s.schemas.ProductSchema(ctx, sel.ProductID)
	if err != nil {
		return domain.ProductSchema{}, err
	}
	return rules.NarrowSchema(schema, sel.OptionID, sel.TypeID), nil
}

// Calculate prices a state outside any session. When settle is set the state
// first runs through the rules as if every field had just been entered.
func (s *Sessions) Calculate(ctx context.Context, sel Selection, state domain.State, settle bool) (domain.CalculationResult, rules.Outcome, error) {
	snap, err := loadSnapshot(ctx, s.schemas, s.catalog, sel.ProductID)
	if err != nil {
		return domain.CalculationResult{}, rules.Outcome{}, err
	}
	fields := rules.NarrowSchema(snap.Schema, sel.OptionID, sel.TypeID).Fields()
	outcome := rules.Outcome{State: domain.State{}.Merge(state), Warnings: []rules.Warning{}, Options: map[string][]domain.FieldOption{}}
	if settle {
		base := rules.DefaultState(fields).Merge(state)
		outcome = s.rules.Apply(sel.ProductID, fields, domain.State{}, base)
	}
	result := s.pricing.Calculate(sel.ProductID, domain.CalculationInput{
		State:        outcome.State,
		Prices:       snap.Prices,
		Accessories:  snap.Accessories,
		SectionCount: sel.TypeID,
		Fields:       fields,
	})
	return result, outcome, nil
}

// Len is the number of open sessions.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (sess *session) view() View {
	v := View{
		ID:        sess.id,
		ProductID: sess.selection.ProductID,
		OptionID:  sess.selection.OptionID,
		TypeID:    sess.selection.TypeID,
		State:     sess.state.Clone(),
		Visible:   []string{},
		Options:   sess.outcome.Options,
		Warnings:  sess.outcome.Warnings,
	}
	if v.Options == nil {
		v.Options = map[string][]domain.FieldOption{}
	}
	if v.Warnings == nil {
		v.Warnings = []rules.Warning{}
	}
	if sess.snapshot != nil {
		schema := sess.schema
		v.Schema = &schema
		for _, f := range rules.VisibleFields(schema.Fields(), sess.state) {
			v.Visible = append(v.Visible, f.ID)
		}
		result := sess.result
		v.Result = &result
	}
	return v
}
