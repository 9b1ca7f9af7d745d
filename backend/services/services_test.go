package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"aulavirtual/backend/ai"
	"aulavirtual/backend/config"
	"aulavirtual/backend/entities"
	"aulavirtual/backend/models"
	"aulavirtual/backend/repository"
	"aulavirtual/backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	reply string
	err   error
	calls int
	last  []ai.Message
}

func (s *stubCompleter) Complete(_ context.Context, messages []ai.Message) (string, error) {
	s.calls++
	s.last = messages
	return s.reply, s.err
}

type fixture struct {
	store     *repository.Store
	svc       *Services
	completer *stubCompleter
	ctx       context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{
		Env:               "test",
		DBDriver:          "sqlite",
		DBDSN:             fmt.Sprintf("file:%s_%s?mode=memory&cache=shared&_foreign_keys=on", strings.ReplaceAll(t.Name(), "/", "_"), uuid.NewString()),
		LateDiscountRate:  0.2,
		LatePenaltyPoints: 1,
	}
	db, err := utils.InitDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	store := repository.New(db)
	completer := &stubCompleter{}
	return &fixture{
		store:     store,
		svc:       New(store, cfg, completer, log.New(io.Discard, "", 0)),
		completer: completer,
		ctx:       context.Background(),
	}
}

func (f *fixture) course(t *testing.T, creator uuid.UUID, capacity int) *models.Course {
	t.Helper()
	c, err := f.svc.Courses.Create(f.ctx, entities.Input{
		"name":        "Course " + uuid.NewString()[:8],
		"description": "desc",
		"startDate":   "2025-01-01",
		"endDate":     "2025-12-31",
		"capacity":    float64(capacity),
		"category":    "cs",
		"level":       "Intermediate",
		"modality":    "Hybrid",
	}, creator)
	require.NoError(t, err)
	return c
}

func (f *fixture) enroll(t *testing.T, courseID uuid.UUID) uuid.UUID {
	t.Helper()
	student := uuid.New()
	_, err := f.svc.Enrollments.Enroll(f.ctx, courseID, student)
	require.NoError(t, err)
	return student
}

func (f *fixture) task(t *testing.T, courseID, instructor uuid.UUID, extra entities.Input) *models.Task {
	t.Helper()
	in := entities.Input{
		"type":        "tarea",
		"title":       "Task " + uuid.NewString()[:8],
		"description": "do it",
		"due_date":    "2025-03-01T12:00:00Z",
		"published":   true,
	}
	for k, v := range extra {
		in[k] = v
	}
	task, err := f.svc.Tasks.Add(f.ctx, courseID, instructor, in)
	require.NoError(t, err)
	return task
}

func (f *fixture) at(ts time.Time) {
	f.svc.Tasks.WithClock(func() time.Time { return ts })
}
