package application

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/agendahub/internal/domain/model"
	"github.com/ericfisherdev/agendahub/internal/domain/port/driven"
)

var testNow = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func newTestAgendaService(kv *memKV) (*AgendaService, *fakeClock) {
	clock := newFakeClock(testNow)
	svc := NewAgendaService(kv, discardLogger())
	svc.now = clock.Now
	return svc, clock
}

func validInput() model.AgendaInput {
	return model.AgendaInput{
		Title:       "Team Sync",
		Date:        "2025-03-10",
		Time:        "09:30",
		Description: "Weekly sync",
	}
}

func TestAgendaService_CreateThenGetByID(t *testing.T) {
	kv := newMemKV()
	svc, _ := newTestAgendaService(kv)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Regexp(t, regexp.MustCompile(`^agenda_\d+_[0-9a-z]{9}$`), created.ID)
	assert.Equal(t, testNow, created.CreatedAt)
	assert.Equal(t, testNow, created.UpdatedAt)

	got := svc.GetByID(ctx, created.ID)
	require.NotNil(t, got)
	assert.Equal(t, "Team Sync", got.Title)
	assert.Equal(t, "2025-03-10", got.Date)
	assert.Equal(t, "09:30", got.Time)
	assert.Equal(t, "Weekly sync", got.Description)
}

func TestAgendaService_CreateTrimsTextFields(t *testing.T) {
	svc, _ := newTestAgendaService(newMemKV())

	in := validInput()
	in.Title = "  Team Sync  "
	in.Description = "\tWeekly sync\n"

	created, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Team Sync", created.Title)
	assert.Equal(t, "Weekly sync", created.Description)
}

func TestAgendaService_CreateGeneratesDistinctIDs(t *testing.T) {
	svc, _ := newTestAgendaService(newMemKV())
	ctx := context.Background()

	seen := make(map[string]bool)
	for range 50 {
		a, err := svc.Create(ctx, validInput())
		require.NoError(t, err)
		assert.False(t, seen[a.ID], "duplicate id %s", a.ID)
		seen[a.ID] = true
	}
	assert.Len(t, svc.List(ctx), 50)
}

func TestAgendaService_CreateRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.AgendaInput)
		field  string
	}{
		{"empty title", func(in *model.AgendaInput) { in.Title = "" }, model.FieldTitle},
		{"blank title", func(in *model.AgendaInput) { in.Title = "   " }, model.FieldTitle},
		{"title too long", func(in *model.AgendaInput) { in.Title = strings.Repeat("a", 101) }, model.FieldTitle},
		{"malformed date", func(in *model.AgendaInput) { in.Date = "2024-13-40" }, model.FieldDate},
		{"date wrong shape", func(in *model.AgendaInput) { in.Date = "10/03/2025" }, model.FieldDate},
		{"empty date", func(in *model.AgendaInput) { in.Date = "" }, model.FieldDate},
		{"malformed time", func(in *model.AgendaInput) { in.Time = "25:61" }, model.FieldTime},
		{"time without padding", func(in *model.AgendaInput) { in.Time = "9:30" }, model.FieldTime},
		{"empty description", func(in *model.AgendaInput) { in.Description = "" }, model.FieldDescription},
		{"description too long", func(in *model.AgendaInput) { in.Description = strings.Repeat("d", 501) }, model.FieldDescription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newMemKV()
			svc, _ := newTestAgendaService(kv)

			in := validInput()
			tt.mutate(&in)

			got, err := svc.Create(context.Background(), in)
			assert.Nil(t, got)

			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.True(t, verr.Has(tt.field), "expected %s to be rejected, got %v", tt.field, verr.Fields)
			assert.Len(t, verr.Fields, 1)

			_, stored := kv.raw(driven.KeyAgendas)
			assert.False(t, stored, "nothing may be written on validation failure")
		})
	}
}

func TestAgendaService_UpdateRefreshesTimestamp(t *testing.T) {
	svc, clock := newTestAgendaService(newMemKV())
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	clock.Advance(time.Minute)
	updated, err := svc.Update(ctx, created.ID, model.AgendaInput{
		Title:       "Retro",
		Date:        "2025-03-12",
		Time:        "14:00",
		Description: "Sprint retrospective",
	})
	require.NoError(t, err)

	got := svc.GetByID(ctx, created.ID)
	require.NotNil(t, got)
	assert.Equal(t, *updated, *got)
	assert.Equal(t, "Retro", got.Title)
	assert.Equal(t, "2025-03-12", got.Date)
	assert.Equal(t, "14:00", got.Time)
	assert.Equal(t, "Sprint retrospective", got.Description)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
}

func TestAgendaService_UpdateOnFrozenClockStillAdvances(t *testing.T) {
	svc, _ := newTestAgendaService(newMemKV())
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, validInput())
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
}

func TestAgendaService_UpdateUnknownID(t *testing.T) {
	svc, _ := newTestAgendaService(newMemKV())

	got, err := svc.Update(context.Background(), "agenda_missing", validInput())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, model.ErrAgendaNotFound)
}

func TestAgendaService_UpdateInvalidLeavesRecordUntouched(t *testing.T) {
	kv := newMemKV()
	svc, _ := newTestAgendaService(kv)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	before, _ := kv.raw(driven.KeyAgendas)

	in := validInput()
	in.Time = "25:61"
	got, err := svc.Update(ctx, created.ID, in)
	assert.Nil(t, got)
	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)

	after, _ := kv.raw(driven.KeyAgendas)
	assert.Equal(t, before, after)
}

func TestAgendaService_DeleteNonexistentLeavesCollectionUnchanged(t *testing.T) {
	kv := newMemKV()
	svc, _ := newTestAgendaService(kv)
	ctx := context.Background()

	_, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	before, _ := kv.raw(driven.KeyAgendas)
	setsBefore := kv.sets

	removed, err := svc.Delete(ctx, "agenda_missing")
	require.NoError(t, err)
	assert.False(t, removed)

	after, _ := kv.raw(driven.KeyAgendas)
	assert.Equal(t, before, after)
	assert.Equal(t, setsBefore, kv.sets, "no write on a no-op delete")
	assert.Len(t, svc.List(ctx), 1)
}

func TestAgendaService_ListSortedOrdersByDateTime(t *testing.T) {
	svc, _ := newTestAgendaService(newMemKV())
	ctx := context.Background()

	inputs := []model.AgendaInput{
		{Title: "C", Date: "2025-03-11", Time: "08:00", Description: "c"},
		{Title: "A", Date: "2025-03-10", Time: "09:30", Description: "a"},
		{Title: "D", Date: "2026-01-01", Time: "00:00", Description: "d"},
		{Title: "B", Date: "2025-03-10", Time: "17:45", Description: "b"},
	}
	for _, in := range inputs {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	sorted := svc.ListSorted(ctx)
	require.Len(t, sorted, 4)

	titles := make([]string, 0, len(sorted))
	for i, a := range sorted {
		titles = append(titles, a.Title)
		if i > 0 {
			prev := sorted[i-1].StartsAt(time.UTC)
			assert.False(t, a.StartsAt(time.UTC).Before(prev))
		}
	}
	assert.Equal(t, []string{"A", "B", "C", "D"}, titles)
}

func TestAgendaService_EndToEndScenario(t *testing.T) {
	svc, _ := newTestAgendaService(newMemKV())
	ctx := context.Background()

	later, err := svc.Create(ctx, model.AgendaInput{
		Title: "Planning", Date: "2025-03-11", Time: "08:00", Description: "Quarter planning",
	})
	require.NoError(t, err)

	teamSync, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	sorted := svc.ListSorted(ctx)
	require.Len(t, sorted, 2)
	assert.Equal(t, teamSync.ID, sorted[0].ID)
	assert.Equal(t, later.ID, sorted[1].ID)

	removed, err := svc.Delete(ctx, teamSync.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	sorted = svc.ListSorted(ctx)
	require.Len(t, sorted, 1)
	assert.Equal(t, later.ID, sorted[0].ID)
	assert.Nil(t, svc.GetByID(ctx, teamSync.ID))
}

func TestAgendaService_ListFailsSoft(t *testing.T) {
	t.Run("absent collection", func(t *testing.T) {
		svc, _ := newTestAgendaService(newMemKV())
		items := svc.List(context.Background())
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("corrupt collection", func(t *testing.T) {
		kv := newMemKV()
		kv.data[driven.KeyAgendas] = []byte("{not json")
		svc, _ := newTestAgendaService(kv)
		assert.Empty(t, svc.List(context.Background()))
	})

	t.Run("storage failure", func(t *testing.T) {
		kv := newMemKV()
		kv.getErr = errors.New("disk unavailable")
		svc, _ := newTestAgendaService(kv)
		assert.Empty(t, svc.List(context.Background()))
		assert.Nil(t, svc.GetByID(context.Background(), "agenda_1"))
	})
}

func TestAgendaService_CreateOverCorruptCollection(t *testing.T) {
	kv := newMemKV()
	kv.data[driven.KeyAgendas] = []byte("garbage")
	svc, _ := newTestAgendaService(kv)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	items := svc.List(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
}

func TestAgendaService_WriteFailureIsReported(t *testing.T) {
	kv := newMemKV()
	svc, _ := newTestAgendaService(kv)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	before, _ := kv.raw(driven.KeyAgendas)

	kv.setErr = errQuotaExceeded

	_, err = svc.Create(ctx, validInput())
	assert.ErrorIs(t, err, errQuotaExceeded)

	_, err = svc.Update(ctx, created.ID, validInput())
	assert.ErrorIs(t, err, errQuotaExceeded)

	removed, err := svc.Delete(ctx, created.ID)
	assert.False(t, removed)
	assert.ErrorIs(t, err, errQuotaExceeded)

	after, _ := kv.raw(driven.KeyAgendas)
	assert.Equal(t, before, after, "prior state stays intact")
}

func TestAgendaService_MutationAbortsOnReadFailure(t *testing.T) {
	kv := newMemKV()
	kv.getErr = errors.New("disk unavailable")
	svc, _ := newTestAgendaService(kv)

	_, err := svc.Create(context.Background(), validInput())
	require.Error(t, err)
	assert.Zero(t, kv.sets)
}
