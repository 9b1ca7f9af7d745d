package jobs

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"testing"
	"time"

	"aulavirtual/backend/config"
	"aulavirtual/backend/models"
	"aulavirtual/backend/repository"
	"aulavirtual/backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:           "test",
		DBDriver:      "sqlite",
		DBDSN:         fmt.Sprintf("file:jobs_%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()),
		TaskRetention: 24 * time.Hour,
		PurgeSchedule: "@hourly",
	}
}

func TestPurgerRespectsRetention(t *testing.T) {
	cfg := testConfig()
	db, err := utils.InitDB(cfg)
	require.NoError(t, err)
	store := repository.New(db)
	ctx := context.Background()

	course := &models.Course{
		Name: "Logic", Description: "d", Capacity: 3, Category: "philosophy",
		Level: models.LevelBeginner, Modality: models.ModalityOnline, CreatorID: uuid.New(),
	}
	require.NoError(t, store.CreateCourse(ctx, course))
	task := &models.Task{CourseID: course.ID, CreatedBy: course.CreatorID, Type: models.TaskTypeAssignment, Title: "t", DueDate: time.Now().UTC()}
	require.NoError(t, store.CreateTask(ctx, task))
	require.NoError(t, store.SoftDeleteTask(ctx, task.ID))

	var out bytes.Buffer
	p := NewPurger(store, cfg.TaskRetention, log.New(&out, "", 0))

	n, err := p.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	p.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	n, err = p.RunOnce(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Contains(t, out.String(), "removed 1 tasks")
}

func TestStartRejectsBadSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.PurgeSchedule = "every tuesday"
	_, err := Start(cfg, nil, log.New(&bytes.Buffer{}, "", 0))
	assert.ErrorContains(t, err, "PURGE_SCHEDULE")

	cfg.PurgeSchedule = "@every 1h"
	c, err := Start(cfg, nil, log.New(&bytes.Buffer{}, "", 0))
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}
