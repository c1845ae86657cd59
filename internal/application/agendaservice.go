package application

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"math/big"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/ericfisherdev/agendahub/internal/domain/model"
	"github.com/ericfisherdev/agendahub/internal/domain/port/driven"
)

const (
	agendaIDPrefix    = "agenda_"
	agendaIDSuffixLen = 9
	base36Alphabet    = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// AgendaService manages the agenda collection. Every mutation reads the whole
// collection, changes it in memory and writes it back under one key; the
// mutex serializes those cycles across concurrent requests.
type AgendaService struct {
	kv     driven.KVStore
	logger *slog.Logger
	now    func() time.Time

	mu sync.Mutex
}

// NewAgendaService creates an AgendaService over the given key-value store.
func NewAgendaService(kv driven.KVStore, logger *slog.Logger) *AgendaService {
	return &AgendaService{
		kv:     kv,
		logger: logger,
		now:    time.Now,
	}
}

// List returns all agendas in storage order. A missing or unreadable
// collection is reported as empty; the failure is only logged.
func (s *AgendaService) List(ctx context.Context) []model.Agenda {
	items, err := s.load(ctx)
	if err != nil {
		s.logger.Error("failed to read agendas", "error", err)
		return []model.Agenda{}
	}
	return items
}

// ListSorted returns all agendas ordered ascending by their date and time.
// Agendas sharing the same instant keep their storage order.
func (s *AgendaService) ListSorted(ctx context.Context) []model.Agenda {
	items := s.List(ctx)
	slices.SortStableFunc(items, func(a, b model.Agenda) int {
		return a.StartsAt(time.UTC).Compare(b.StartsAt(time.UTC))
	})
	return items
}

// GetByID returns the agenda with the given ID, or nil if there is none.
func (s *AgendaService) GetByID(ctx context.Context, id string) *model.Agenda {
	for _, a := range s.List(ctx) {
		if a.ID == id {
			return &a
		}
	}
	return nil
}

// Create validates input and appends a new agenda with a fresh ID.
// On validation failure it returns a *model.ValidationError and stores nothing.
func (s *AgendaService) Create(ctx context.Context, input model.AgendaInput) (*model.Agenda, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	in := input.Normalized()

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadForWrite(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	agenda := model.Agenda{
		ID:          s.newID(now, items),
		Title:       in.Title,
		Date:        in.Date,
		Time:        in.Time,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	items = append(items, agenda)
	if err := saveDocument(ctx, s.kv, driven.KeyAgendas, items); err != nil {
		return nil, err
	}

	s.logger.Info("agenda created", "id", agenda.ID, "date", agenda.Date, "time", agenda.Time)
	return &agenda, nil
}

// Update validates input and replaces the mutable fields of the agenda with
// the given ID. Returns model.ErrAgendaNotFound when no agenda matches.
func (s *AgendaService) Update(ctx context.Context, id string, input model.AgendaInput) (*model.Agenda, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	in := input.Normalized()

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadForWrite(ctx)
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(items, func(a model.Agenda) bool { return a.ID == id })
	if idx == -1 {
		return nil, model.ErrAgendaNotFound
	}

	updated := items[idx]
	updated.Title = in.Title
	updated.Date = in.Date
	updated.Time = in.Time
	updated.Description = in.Description
	updated.UpdatedAt = s.now().UTC()
	// updatedAt must stay strictly after createdAt even on a coarse clock.
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		updated.UpdatedAt = updated.CreatedAt.Add(time.Nanosecond)
	}
	items[idx] = updated

	if err := saveDocument(ctx, s.kv, driven.KeyAgendas, items); err != nil {
		return nil, err
	}

	s.logger.Info("agenda updated", "id", id)
	return &updated, nil
}

// Delete removes the agenda with the given ID. It reports false, without
// writing anything, when no agenda matches.
func (s *AgendaService) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadForWrite(ctx)
	if err != nil {
		return false, err
	}

	remaining := slices.DeleteFunc(slices.Clone(items), func(a model.Agenda) bool { return a.ID == id })
	if len(remaining) == len(items) {
		return false, nil
	}

	if err := saveDocument(ctx, s.kv, driven.KeyAgendas, remaining); err != nil {
		return false, err
	}

	s.logger.Info("agenda deleted", "id", id)
	return true, nil
}

// load reads the collection. An absent key is an empty collection.
func (s *AgendaService) load(ctx context.Context) ([]model.Agenda, error) {
	var items []model.Agenda
	if _, err := loadDocument(ctx, s.kv, driven.KeyAgendas, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Agenda{}
	}
	return items, nil
}

// loadForWrite reads the collection ahead of a mutation. A corrupt collection
// is replaced by the write that follows; a storage failure aborts the call.
func (s *AgendaService) loadForWrite(ctx context.Context) ([]model.Agenda, error) {
	items, err := s.load(ctx)
	if errors.Is(err, errCorruptDocument) {
		s.logger.Error("discarding unreadable agenda collection", "error", err)
		return []model.Agenda{}, nil
	}
	return items, err
}

// newID returns agenda_<unix millis>_<random base36>, retrying on the
// (practically impossible) collision with an existing ID.
func (s *AgendaService) newID(now time.Time, existing []model.Agenda) string {
	for {
		id := agendaIDPrefix + strconv.FormatInt(now.UnixMilli(), 10) + "_" + randomBase36(agendaIDSuffixLen)
		taken := slices.ContainsFunc(existing, func(a model.Agenda) bool { return a.ID == id })
		if !taken {
			return id
		}
	}
}

func randomBase36(n int) string {
	limit := big.NewInt(int64(len(base36Alphabet)))
	b := make([]byte, n)
	for i := range b {
		v, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic("agenda: failed to read random bytes: " + err.Error())
		}
		b[i] = base36Alphabet[v.Int64()]
	}
	return string(b)
}
