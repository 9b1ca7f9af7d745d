package services

import (
	"context"
	"strings"
	"time"

	"aulavirtual/backend/apperr"
	"aulavirtual/backend/models"
	"aulavirtual/backend/repository"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
)

// Metrics is one partition of a rollup. Averages are nil when undefined (no graded
// submissions, or no task with enrolled students).
type Metrics struct {
	Tasks             int      `json:"tasks"`
	Submissions       int64    `json:"submissions"`
	GradedSubmissions int64    `json:"gradedSubmissions"`
	AverageGrade      *float64 `json:"averageGrade"`
	SubmissionRate    *float64 `json:"submissionRate"`
}

type Rollup struct {
	Tasks   Metrics `json:"tasks"`
	Exams   Metrics `json:"exams"`
	Overall Metrics `json:"overall"`
}

type InstructorStats struct {
	InstructorID uuid.UUID `json:"instructorId"`
	Courses      int       `json:"courses"`
	Rollup
}

type CourseStats struct {
	CourseID uuid.UUID `json:"courseId"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	Enrolled int64     `json:"enrolled"`
	Rollup
}

type StudentStats struct {
	CourseID  uuid.UUID `json:"courseId"`
	StudentID uuid.UUID `json:"studentId"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Rollup
}

// Range is an inclusive time window for statistics.
type Range struct {
	From time.Time
	To   time.Time
}

// ParseRange reads from/to (RFC3339 or any layout jinzhu/now understands) or a named period
// (week, month, year) relative to at. A date-only "to" covers the whole day. The default
// window runs from the epoch to at.
func ParseRange(from, to, period string, at time.Time) (Range, error) {
	n := now.New(at.UTC())
	switch strings.ToLower(period) {
	case "":
	case "week":
		return Range{From: n.BeginningOfWeek(), To: n.EndOfWeek()}, nil
	case "month":
		return Range{From: n.BeginningOfMonth(), To: n.EndOfMonth()}, nil
	case "year":
		return Range{From: n.BeginningOfYear(), To: n.EndOfYear()}, nil
	default:
		return Range{}, apperr.Validation("unknown period", map[string]string{"period": "must be week, month or year"})
	}

	r := Range{From: time.Unix(0, 0).UTC(), To: at.UTC()}
	if from != "" {
		t, err := parseInstant(from, at)
		if err != nil {
			return Range{}, apperr.Validation("invalid from date", map[string]string{"from": err.Error()})
		}
		r.From = t.UTC()
	}
	if to != "" {
		t, err := parseInstant(to, at)
		if err != nil {
			return Range{}, apperr.Validation("invalid to date", map[string]string{"to": err.Error()})
		}
		if len(strings.TrimSpace(to)) <= len("2006-01-02") {
			t = now.With(t).EndOfDay()
		}
		r.To = t.UTC()
	}
	if r.To.Before(r.From) {
		return Range{}, apperr.Validation("invalid range", map[string]string{"to": "must not be before from"})
	}
	return r, nil
}

func parseInstant(s string, at time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return now.New(at.UTC()).Parse(s)
}

type StatsService struct {
	store *repository.Store
}

func NewStatsService(store *repository.Store) *StatsService {
	return &StatsService{store: store}
}

// ForInstructor rolls up every task of every course the instructor teaches.
func (s *StatsService) ForInstructor(ctx context.Context, instructorID uuid.UUID) (*InstructorStats, error) {
	courses, err := s.store.CoursesByInstructor(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	rollup, err := s.rollup(ctx, ids, repository.AggregateFilter{}, nil)
	if err != nil {
		return nil, err
	}
	return &InstructorStats{InstructorID: instructorID, Courses: len(courses), Rollup: rollup}, nil
}

func (s *StatsService) Course(ctx context.Context, courseID, actorID uuid.UUID, r Range) (*CourseStats, error) {
	if err := s.authorize(ctx, courseID, actorID); err != nil {
		return nil, err
	}
	filter := repository.AggregateFilter{From: r.From, To: r.To}
	rollup, err := s.rollup(ctx, []uuid.UUID{courseID}, filter, nil)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.EnrollmentCounts(ctx, []uuid.UUID{courseID})
	if err != nil {
		return nil, err
	}
	return &CourseStats{CourseID: courseID, From: r.From, To: r.To, Enrolled: counts[courseID], Rollup: rollup}, nil
}

// Students computes the rollup for every enrolled student of the course.
func (s *StatsService) Students(ctx context.Context, courseID, actorID uuid.UUID, r Range) ([]StudentStats, error) {
	if err := s.authorize(ctx, courseID, actorID); err != nil {
		return nil, err
	}
	enrollments, err := s.store.Enrollments(ctx, courseID)
	if err != nil {
		return nil, err
	}
	out := make([]StudentStats, 0, len(enrollments))
	for _, e := range enrollments {
		st, err := s.student(ctx, courseID, e.UserID, r)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, nil
}

// Student is available to the course's instructors and to the student themself.
func (s *StatsService) Student(ctx context.Context, courseID, studentID, actorID uuid.UUID, r Range) (*StudentStats, error) {
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return nil, err
	}
	if actorID != studentID {
		if _, err := requireInstructor(ctx, s.store, courseID, actorID, 0); err != nil {
			return nil, err
		}
	}
	if err := requireEnrolled(ctx, s.store, courseID, studentID); err != nil {
		return nil, err
	}
	return s.student(ctx, courseID, studentID, r)
}

func (s *StatsService) student(ctx context.Context, courseID, studentID uuid.UUID, r Range) (*StudentStats, error) {
	filter := repository.AggregateFilter{StudentID: &studentID, From: r.From, To: r.To}
	// a single student is the whole audience of each task
	one := map[uuid.UUID]int64{courseID: 1}
	rollup, err := s.rollup(ctx, []uuid.UUID{courseID}, filter, one)
	if err != nil {
		return nil, err
	}
	return &StudentStats{CourseID: courseID, StudentID: studentID, From: r.From, To: r.To, Rollup: rollup}, nil
}

func (s *StatsService) authorize(ctx context.Context, courseID, actorID uuid.UUID) error {
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return err
	}
	_, err := requireInstructor(ctx, s.store, courseID, actorID, 0)
	return err
}

// rollup loads tasks, aggregates and audience sizes. A nil audience means course enrollments.
func (s *StatsService) rollup(ctx context.Context, courseIDs []uuid.UUID, filter repository.AggregateFilter, audience map[uuid.UUID]int64) (Rollup, error) {
	tasks, err := s.store.TasksByCourses(ctx, courseIDs)
	if err != nil {
		return Rollup{}, err
	}
	if audience == nil {
		if audience, err = s.store.EnrollmentCounts(ctx, courseIDs); err != nil {
			return Rollup{}, err
		}
	}
	taskIDs := make([]uuid.UUID, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}
	rows, err := s.store.GradeAggregates(ctx, taskIDs, filter)
	if err != nil {
		return Rollup{}, err
	}
	aggs := make(map[uuid.UUID]models.GradeAggregate, len(rows))
	for _, r := range rows {
		aggs[r.TaskID] = r
	}
	return Summarize(tasks, aggs, audience), nil
}

// Summarize partitions tasks by type and computes both metrics per partition.
func Summarize(tasks []models.Task, aggs map[uuid.UUID]models.GradeAggregate, audience map[uuid.UUID]int64) Rollup {
	var assignments, exams []models.Task
	for _, t := range tasks {
		if t.Type == models.TaskTypeExam {
			exams = append(exams, t)
		} else {
			assignments = append(assignments, t)
		}
	}
	return Rollup{
		Tasks:   metricsFor(assignments, aggs, audience),
		Exams:   metricsFor(exams, aggs, audience),
		Overall: metricsFor(tasks, aggs, audience),
	}
}

// metricsFor: the average grade is taken over graded submissions only; the submission rate is
// the unweighted mean of per-task rates, skipping tasks whose course has nobody enrolled.
func metricsFor(tasks []models.Task, aggs map[uuid.UUID]models.GradeAggregate, audience map[uuid.UUID]int64) Metrics {
	m := Metrics{Tasks: len(tasks)}
	var gradeSum, rateSum float64
	var rated int
	for _, t := range tasks {
		agg := aggs[t.ID]
		m.Submissions += agg.Submissions
		m.GradedSubmissions += agg.Graded
		gradeSum += agg.GradeSum

		enrolled := audience[t.CourseID]
		if enrolled == 0 {
			continue
		}
		rateSum += float64(agg.Submissions) / float64(enrolled) * 100
		rated++
	}
	if m.GradedSubmissions > 0 {
		avg := round2(gradeSum / float64(m.GradedSubmissions))
		m.AverageGrade = &avg
	}
	if rated > 0 {
		rate := round2(rateSum / float64(rated))
		m.SubmissionRate = &rate
	}
	return m
}
