package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"aulavirtual/backend/apperr"
	"aulavirtual/backend/config"
	"aulavirtual/backend/models"
	"aulavirtual/backend/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := utils.InitDB(&config.Config{
		Env:      "test",
		DBDriver: "sqlite",
		DBDSN:    fmt.Sprintf("file:%s_%s?mode=memory&cache=shared&_foreign_keys=on", name, uuid.NewString()),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return New(db)
}

func seedCourse(t *testing.T, s *Store, capacity int) *models.Course {
	t.Helper()
	c := &models.Course{
		Name:        "Databases",
		Description: "relational basics",
		StartDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Capacity:    capacity,
		Category:    "cs",
		Level:       models.LevelBeginner,
		Modality:    models.ModalityOnline,
		CreatorID:   uuid.New(),
	}
	require.NoError(t, s.CreateCourse(context.Background(), c))
	return c
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: enrollments.user_id")))
	assert.True(t, isUniqueViolation(errors.Wrap(errors.New("ERROR: duplicate key value violates unique constraint"), "insert")))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
}

func TestTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCourse(t, s, 10)

	err := s.Tx(ctx, func(tx *Store) error {
		if _, err := tx.IncrementEnrolled(ctx, c.ID); err != nil {
			return err
		}
		return apperr.ErrCourseFull
	})
	assert.ErrorIs(t, err, apperr.ErrCourseFull)

	got, err := s.GetCourse(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Enrolled)
}

func TestGetCourseNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetCourse(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrCourseNotFound)
}

func TestIncrementEnrolledRespectsCapacity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCourse(t, s, 1)

	ok, err := s.IncrementEnrolled(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.IncrementEnrolled(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	got, _ := s.GetCourse(ctx, c.ID)
	assert.Equal(t, 1, got.Enrolled)
}

func TestCreateEnrollmentDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCourse(t, s, 5)
	user := uuid.New()

	require.NoError(t, s.CreateEnrollment(ctx, &models.Enrollment{CourseID: c.ID, UserID: user}))
	err := s.CreateEnrollment(ctx, &models.Enrollment{CourseID: c.ID, UserID: user})
	assert.ErrorIs(t, err, apperr.ErrAlreadyEnrolled)

	rows, err := s.Enrollments(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReorderModulesIsScopedAndIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCourse(t, s, 5)
	other := seedCourse(t, s, 5)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		m := &models.Module{CourseID: c.ID, Name: fmt.Sprintf("m%d", i), Order: i}
		require.NoError(t, s.CreateModule(ctx, m))
		ids = append(ids, m.ID)
	}
	foreign := &models.Module{CourseID: other.ID, Name: "foreign", Order: 7}
	require.NoError(t, s.CreateModule(ctx, foreign))

	order := []uuid.UUID{ids[2], foreign.ID, ids[0]}
	require.NoError(t, s.ReorderModules(ctx, c.ID, order))
	first, err := s.ListModules(ctx, c.ID)
	require.NoError(t, err)

	require.NoError(t, s.ReorderModules(ctx, c.ID, order))
	second, err := s.ListModules(ctx, c.ID)
	require.NoError(t, err)

	orders := func(ms []models.Module) map[uuid.UUID]int {
		out := map[uuid.UUID]int{}
		for _, m := range ms {
			out[m.ID] = m.Order
		}
		return out
	}
	assert.Equal(t, orders(first), orders(second))
	assert.Equal(t, 0, orders(first)[ids[2]])
	assert.Equal(t, 2, orders(first)[ids[0]])
	// not listed: keeps its previous value
	assert.Equal(t, 1, orders(first)[ids[1]])

	untouched, err := s.GetModule(ctx, other.ID, foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, untouched.Order)
}

func TestDeleteCourseCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCourse(t, s, 5)

	m := &models.Module{CourseID: c.ID, Name: "m"}
	require.NoError(t, s.CreateModule(ctx, m))
	require.NoError(t, s.CreateResource(ctx, &models.Resource{ModuleID: m.ID, Description: "d", Type: "pdf", URL: "u"}))
	task := &models.Task{CourseID: c.ID, CreatedBy: c.CreatorID, Type: models.TaskTypeAssignment, Title: "t", DueDate: time.Now().UTC()}
	require.NoError(t, s.CreateTask(ctx, task))
	require.NoError(t, s.CreateSubmission(ctx, &models.TaskSubmission{TaskID: task.ID, StudentID: uuid.New(), Status: models.SubmissionSubmitted}))

	require.NoError(t, s.DeleteCourse(ctx, c.ID))

	_, err := s.GetCourse(ctx, c.ID)
	assert.ErrorIs(t, err, apperr.ErrCourseNotFound)
	var n int64
	s.DB().Model(&models.Resource{}).Count(&n)
	assert.Zero(t, n)
	s.DB().Model(&models.TaskSubmission{}).Count(&n)
	assert.Zero(t, n)
	s.DB().Unscoped().Model(&models.Task{}).Count(&n)
	assert.Zero(t, n)

	assert.ErrorIs(t, s.DeleteCourse(ctx, c.ID), apperr.ErrCourseNotFound)
}

func TestGradeAggregatesAndInstructorListing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCourse(t, s, 5)
	instructor := c.CreatorID
	require.NoError(t, s.CreateInstructor(ctx, &models.CourseInstructor{CourseID: c.ID, UserID: instructor, Type: models.InstructorTitular}))

	due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	t1 := &models.Task{CourseID: c.ID, CreatedBy: instructor, Type: models.TaskTypeAssignment, Title: "t1", DueDate: due}
	t2 := &models.Task{CourseID: c.ID, CreatedBy: instructor, Type: models.TaskTypeAssignment, Title: "t2", DueDate: due.Add(-time.Hour)}
	require.NoError(t, s.CreateTask(ctx, t1))
	require.NoError(t, s.CreateTask(ctx, t2))

	at := due.Add(-48 * time.Hour)
	four, eight := 4.0, 8.0
	subs := []*models.TaskSubmission{
		{TaskID: t1.ID, StudentID: uuid.New(), Status: models.SubmissionGraded, Grade: &four, SubmittedAt: &at},
		{TaskID: t1.ID, StudentID: uuid.New(), Status: models.SubmissionGraded, Grade: &eight, SubmittedAt: &at},
		{TaskID: t1.ID, StudentID: uuid.New(), Status: models.SubmissionSubmitted, SubmittedAt: &at},
		{TaskID: t2.ID, StudentID: uuid.New(), Status: models.SubmissionInProgress},
	}
	for _, sub := range subs {
		require.NoError(t, s.CreateSubmission(ctx, sub))
	}

	rows, err := s.GradeAggregates(ctx, []uuid.UUID{t1.ID, t2.ID}, AggregateFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, t1.ID, rows[0].TaskID)
	assert.EqualValues(t, 3, rows[0].Submissions)
	assert.EqualValues(t, 2, rows[0].Graded)
	assert.InDelta(t, 12.0, rows[0].GradeSum, 1e-9)

	listed, total, err := s.TasksByInstructor(ctx, instructor, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, listed, 2)
	assert.Equal(t, t2.ID, listed[0].ID)
	assert.EqualValues(t, 0, listed[0].SubmissionCount)
	assert.EqualValues(t, 3, listed[1].SubmissionCount)

	require.NoError(t, s.SoftDeleteTask(ctx, t2.ID))
	_, total, err = s.TasksByInstructor(ctx, instructor, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestPurgeDeletedTasks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCourse(t, s, 5)

	task := &models.Task{CourseID: c.ID, CreatedBy: c.CreatorID, Type: models.TaskTypeExam, Title: "old", DueDate: time.Now().UTC()}
	require.NoError(t, s.CreateTask(ctx, task))
	require.NoError(t, s.SoftDeleteTask(ctx, task.ID))

	n, err := s.PurgeDeletedTasks(ctx, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.PurgeDeletedTasks(ctx, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
