package services

import (
	"testing"

	"aulavirtual/backend/apperr"
	"aulavirtual/backend/entities"
	"aulavirtual/backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addModules(t *testing.T, f *fixture, courseID, actor uuid.UUID, names ...string) []models.Module {
	t.Helper()
	out := make([]models.Module, 0, len(names))
	for _, n := range names {
		m, err := f.svc.Modules.Add(f.ctx, courseID, actor, entities.Input{"name": n, "description": n + " notes"})
		require.NoError(t, err)
		out = append(out, *m)
	}
	return out
}

func moduleNames(ms []models.Module) []string {
	names := make([]string, 0, len(ms))
	for _, m := range ms {
		names = append(names, m.Name)
	}
	return names
}

func TestModulesAppendInOrder(t *testing.T) {
	f := newFixture(t)
	titular := uuid.New()
	c := f.course(t, titular, 5)
	ms := addModules(t, f, c.ID, titular, "Intro", "Logic", "Ethics")
	assert.Equal(t, 0, ms[0].Order)
	assert.Equal(t, 2, ms[2].Order)

	list, err := f.svc.Modules.List(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Intro", "Logic", "Ethics"}, moduleNames(list))

	_, err = f.svc.Modules.Add(f.ctx, c.ID, uuid.New(), entities.Input{"name": "x", "description": "y"})
	assert.ErrorIs(t, err, apperr.ErrNotInstructor)
	_, err = f.svc.Modules.Add(f.ctx, uuid.New(), titular, entities.Input{"name": "x", "description": "y"})
	assert.ErrorIs(t, err, apperr.ErrCourseNotFound)
}

func TestReorderModulesIsIdempotent(t *testing.T) {
	f := newFixture(t)
	titular := uuid.New()
	c := f.course(t, titular, 5)
	other := f.course(t, titular, 5)
	ms := addModules(t, f, c.ID, titular, "A", "B", "C")
	foreign := addModules(t, f, other.ID, titular, "Z")[0]

	ids := []uuid.UUID{ms[2].ID, foreign.ID, ms[0].ID, ms[1].ID}
	first, err := f.svc.Modules.Reorder(f.ctx, c.ID, titular, ids)
	require.NoError(t, err)
	second, err := f.svc.Modules.Reorder(f.ctx, c.ID, titular, ids)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, moduleNames(first))
	assert.Equal(t, moduleNames(first), moduleNames(second))

	z, err := f.svc.Modules.Get(f.ctx, other.ID, foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, z.Order)
	_, err = f.svc.Modules.Get(f.ctx, c.ID, foreign.ID)
	assert.ErrorIs(t, err, apperr.ErrModuleNotFound)
}

func TestAuxiliaryContentChangesAreLogged(t *testing.T) {
	f := newFixture(t)
	titular, aux := uuid.New(), uuid.New()
	c := f.course(t, titular, 5)
	_, err := f.svc.Instructors.AddAuxiliary(f.ctx, c.ID, aux, titular, Permissions{CanCreateContent: true})
	require.NoError(t, err)

	m := addModules(t, f, c.ID, aux, "Aux module")[0]
	_, err = f.svc.Modules.Update(f.ctx, c.ID, m.ID, aux, entities.Input{"name": "Renamed"})
	require.NoError(t, err)
	addModules(t, f, c.ID, titular, "Titular module")

	entries, err := f.svc.Courses.ActivityLog(f.ctx, c.ID, titular)
	require.NoError(t, err)
	actions := map[string]bool{}
	for _, e := range entries {
		assert.Equal(t, aux, e.ActorID)
		actions[e.Action] = true
	}
	assert.Len(t, entries, 2)
	assert.True(t, actions["add_module"])
	assert.True(t, actions["update_module"])
}

func TestResources(t *testing.T) {
	f := newFixture(t)
	titular := uuid.New()
	c := f.course(t, titular, 5)
	m := addModules(t, f, c.ID, titular, "Readings")[0]

	in := func(desc string) entities.Input {
		return entities.Input{"description": desc, "type": "pdf", "url": "https://files/" + desc}
	}
	r1, err := f.svc.Resources.Add(f.ctx, m.ID, titular, in("one"))
	require.NoError(t, err)
	r2, err := f.svc.Resources.Add(f.ctx, m.ID, titular, in("two"))
	require.NoError(t, err)
	assert.Equal(t, 1, r2.Order)

	_, err = f.svc.Resources.Add(f.ctx, m.ID, uuid.New(), in("three"))
	assert.ErrorIs(t, err, apperr.ErrNotInstructor)
	_, err = f.svc.Resources.Add(f.ctx, uuid.New(), titular, in("four"))
	assert.ErrorIs(t, err, apperr.ErrModuleNotFound)

	list, err := f.svc.Resources.Reorder(f.ctx, m.ID, titular, []uuid.UUID{r2.ID, r1.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, r2.ID, list[0].ID)

	updated, err := f.svc.Resources.Update(f.ctx, m.ID, r1.ID, titular, entities.Input{"type": "video"})
	require.NoError(t, err)
	assert.Equal(t, "video", updated.Type)

	require.NoError(t, f.svc.Modules.Remove(f.ctx, c.ID, m.ID, titular))
	_, err = f.svc.Resources.Get(f.ctx, m.ID, r1.ID)
	assert.Error(t, err)
}
