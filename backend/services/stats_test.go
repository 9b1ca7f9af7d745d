package services

import (
	"testing"
	"time"

	"aulavirtual/backend/apperr"
	"aulavirtual/backend/entities"
	"aulavirtual/backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseStatsAverageAndRate(t *testing.T) {
	f := newFixture(t)
	titular := uuid.New()
	c := f.course(t, titular, 10)
	first := f.task(t, c.ID, titular, nil)
	f.task(t, c.ID, titular, nil)
	s1, s2 := f.enroll(t, c.ID), f.enroll(t, c.ID)
	f.enroll(t, c.ID)

	f.at(due.Add(-time.Hour))
	for student, grade := range map[uuid.UUID]float64{s1: 4, s2: 8} {
		_, err := f.svc.Tasks.Submit(f.ctx, first.ID, student, SubmitInput{})
		require.NoError(t, err)
		_, err = f.svc.Tasks.Grade(f.ctx, first.ID, student, titular, GradeInput{Grade: grade})
		require.NoError(t, err)
	}

	window := Range{From: time.Unix(0, 0).UTC(), To: due.Add(24 * time.Hour)}
	stats, err := f.svc.Stats.Course(f.ctx, c.ID, titular, window)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Enrolled)
	assert.Equal(t, 2, stats.Overall.Tasks)
	assert.EqualValues(t, 2, stats.Overall.GradedSubmissions)
	require.NotNil(t, stats.Overall.AverageGrade)
	assert.Equal(t, 6.0, *stats.Overall.AverageGrade)
	require.NotNil(t, stats.Overall.SubmissionRate)
	assert.Equal(t, 33.33, *stats.Overall.SubmissionRate)
	assert.Equal(t, stats.Overall, stats.Tasks)
	assert.Zero(t, stats.Exams.Tasks)
	assert.Nil(t, stats.Exams.AverageGrade)
	assert.Nil(t, stats.Exams.SubmissionRate)

	before := Range{From: time.Unix(0, 0).UTC(), To: due.Add(-48 * time.Hour)}
	empty, err := f.svc.Stats.Course(f.ctx, c.ID, titular, before)
	require.NoError(t, err)
	assert.Nil(t, empty.Overall.AverageGrade)
	assert.Equal(t, 0.0, *empty.Overall.SubmissionRate)

	mine, err := f.svc.Stats.Student(f.ctx, c.ID, s1, s1, window)
	require.NoError(t, err)
	assert.Equal(t, 4.0, *mine.Overall.AverageGrade)
	assert.Equal(t, 50.0, *mine.Overall.SubmissionRate)

	_, err = f.svc.Stats.Student(f.ctx, c.ID, s1, s2, window)
	assert.ErrorIs(t, err, apperr.ErrNotInstructor)
	_, err = f.svc.Stats.Course(f.ctx, c.ID, s1, window)
	assert.ErrorIs(t, err, apperr.ErrNotInstructor)

	all, err := f.svc.Stats.Students(f.ctx, c.ID, titular, window)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	overview, err := f.svc.Stats.ForInstructor(f.ctx, titular)
	require.NoError(t, err)
	assert.Equal(t, 1, overview.Courses)
	assert.Equal(t, 6.0, *overview.Overall.AverageGrade)
}

func TestStatsPartitionExams(t *testing.T) {
	f := newFixture(t)
	titular := uuid.New()
	c := f.course(t, titular, 10)
	exam := f.task(t, c.ID, titular, entities.Input{"type": "examen"})
	f.task(t, c.ID, titular, nil)
	student := f.enroll(t, c.ID)
	f.at(due)
	_, err := f.svc.Tasks.Submit(f.ctx, exam.ID, student, SubmitInput{})
	require.NoError(t, err)
	_, err = f.svc.Tasks.Grade(f.ctx, exam.ID, student, titular, GradeInput{Grade: 9})
	require.NoError(t, err)

	stats, err := f.svc.Stats.Course(f.ctx, c.ID, titular, Range{})
	require.NoError(t, err)
	assert.Equal(t, 9.0, *stats.Exams.AverageGrade)
	assert.Equal(t, 100.0, *stats.Exams.SubmissionRate)
	assert.Nil(t, stats.Tasks.AverageGrade)
	assert.Equal(t, 0.0, *stats.Tasks.SubmissionRate)
	assert.Equal(t, 50.0, *stats.Overall.SubmissionRate)
}

func TestSummarizeSkipsCoursesWithoutStudents(t *testing.T) {
	empty, full := uuid.New(), uuid.New()
	tasks := []models.Task{
		{ID: uuid.New(), CourseID: empty, Type: models.TaskTypeAssignment},
		{ID: uuid.New(), CourseID: full, Type: models.TaskTypeAssignment},
	}
	aggs := map[uuid.UUID]models.GradeAggregate{
		tasks[1].ID: {TaskID: tasks[1].ID, Submissions: 1, Graded: 1, GradeSum: 7},
	}
	r := Summarize(tasks, aggs, map[uuid.UUID]int64{full: 4})
	assert.Equal(t, 25.0, *r.Overall.SubmissionRate)
	assert.Equal(t, 7.0, *r.Overall.AverageGrade)

	r = Summarize(tasks, nil, nil)
	assert.Nil(t, r.Overall.SubmissionRate)
	assert.Nil(t, r.Overall.AverageGrade)
}

func TestParseRange(t *testing.T) {
	at := time.Date(2025, 6, 18, 15, 30, 0, 0, time.UTC)

	r, err := ParseRange("", "", "", at)
	require.NoError(t, err)
	assert.Equal(t, time.Unix(0, 0).UTC(), r.From)
	assert.Equal(t, at, r.To)

	r, err = ParseRange("", "", "month", at)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, 30, r.To.Day())

	r, err = ParseRange("2025-01-01", "2025-01-31", "", at)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, time.Date(2025, 1, 31, 23, 59, 59, 999999999, time.UTC), r.To)

	r, err = ParseRange("2025-01-01T10:00:00Z", "2025-01-02T10:00:00Z", "", at)
	require.NoError(t, err)
	assert.Equal(t, 10, r.To.Hour())

	_, err = ParseRange("2025-02-01", "2025-01-01", "", at)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = ParseRange("", "", "decade", at)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = ParseRange("yesterday-ish", "", "", at)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
