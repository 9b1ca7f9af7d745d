package services

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"aulavirtual/backend/ai"
	"aulavirtual/backend/apperr"
	"aulavirtual/backend/models"
	"aulavirtual/backend/repository"

	"github.com/google/uuid"
)

type FavoriteService struct {
	store *repository.Store
}

func NewFavoriteService(store *repository.Store) *FavoriteService {
	return &FavoriteService{store: store}
}

func (s *FavoriteService) Add(ctx context.Context, courseID, studentID uuid.UUID) (*models.FavoriteCourse, error) {
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return nil, err
	}
	if err := requireEnrolled(ctx, s.store, courseID, studentID); err != nil {
		return nil, err
	}
	fav := &models.FavoriteCourse{CourseID: courseID, StudentID: studentID}
	if err := s.store.CreateFavorite(ctx, fav); err != nil {
		return nil, err
	}
	return fav, nil
}

func (s *FavoriteService) Remove(ctx context.Context, courseID, studentID uuid.UUID) error {
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return err
	}
	if err := requireEnrolled(ctx, s.store, courseID, studentID); err != nil {
		return err
	}
	removed, err := s.store.DeleteFavorite(ctx, courseID, studentID)
	if err != nil {
		return err
	}
	if !removed {
		return apperr.ErrNotFavorite
	}
	return nil
}

func (s *FavoriteService) List(ctx context.Context, studentID uuid.UUID) ([]models.Course, error) {
	return s.store.FavoriteCourses(ctx, studentID)
}

const (
	minPunctuation = 1
	maxPunctuation = 5
	maxCommentLen  = 500
)

func checkFeedback(punctuation float64, comment string) (string, error) {
	fields := map[string]string{}
	if punctuation < minPunctuation || punctuation > maxPunctuation {
		fields["punctuation"] = "must be between 1 and 5"
	}
	comment = strings.TrimSpace(comment)
	if n := utf8.RuneCountInString(comment); n < 1 || n > maxCommentLen {
		fields["comment"] = "must be between 1 and 500 characters"
	}
	if len(fields) > 0 {
		return "", apperr.Validation("invalid feedback", fields)
	}
	return comment, nil
}

type FeedbackService struct {
	store     *repository.Store
	completer ai.Completer
	logger    *log.Logger
}

func NewFeedbackService(store *repository.Store, completer ai.Completer, logger *log.Logger) *FeedbackService {
	return &FeedbackService{store: store, completer: completer, logger: logger}
}

// GiveCourseFeedback stores a student's one-off rating of a course they are enrolled in.
func (s *FeedbackService) GiveCourseFeedback(ctx context.Context, courseID, studentID uuid.UUID, punctuation int, comment string) (*models.CourseFeedback, error) {
	comment, err := checkFeedback(float64(punctuation), comment)
	if err != nil {
		return nil, err
	}
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return nil, err
	}
	if err := requireEnrolled(ctx, s.store, courseID, studentID); err != nil {
		return nil, err
	}
	f := &models.CourseFeedback{CourseID: courseID, StudentID: studentID, Punctuation: punctuation, Comment: comment}
	if err := s.store.CreateCourseFeedback(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FeedbackService) CourseFeedback(ctx context.Context, courseID uuid.UUID) ([]models.CourseFeedback, error) {
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return nil, err
	}
	return s.store.CourseFeedback(ctx, courseID)
}

// GiveStudentFeedback stores an instructor's note about an enrolled student, once per pair.
func (s *FeedbackService) GiveStudentFeedback(ctx context.Context, courseID, studentID, instructorID uuid.UUID, punctuation float64, comment string) (*models.StudentFeedback, error) {
	comment, err := checkFeedback(punctuation, comment)
	if err != nil {
		return nil, err
	}
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return nil, err
	}
	if _, err := requireInstructor(ctx, s.store, courseID, instructorID, 0); err != nil {
		return nil, err
	}
	if err := requireEnrolled(ctx, s.store, courseID, studentID); err != nil {
		return nil, err
	}
	f := &models.StudentFeedback{
		CourseID:     courseID,
		StudentID:    studentID,
		InstructorID: instructorID,
		Punctuation:  punctuation,
		Comment:      comment,
	}
	if err := s.store.CreateStudentFeedback(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FeedbackService) StudentFeedback(ctx context.Context, courseID, studentID, viewerID uuid.UUID) ([]models.StudentFeedback, error) {
	if err := requireCourse(ctx, s.store, courseID); err != nil {
		return nil, err
	}
	if viewerID != studentID {
		if _, err := requireInstructor(ctx, s.store, courseID, viewerID, 0); err != nil {
			return nil, err
		}
	}
	return s.store.StudentFeedback(ctx, courseID, studentID)
}

type FeedbackSummary struct {
	CourseID uuid.UUID `json:"courseId"`
	Count    int       `json:"count"`
	Summary  string    `json:"summary"`
}

// Summary asks the completion service to condense the course's feedback for its instructors.
func (s *FeedbackService) Summary(ctx context.Context, courseID, actorID uuid.UUID) (*FeedbackSummary, error) {
	course, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if _, err := requireInstructor(ctx, s.store, courseID, actorID, 0); err != nil {
		return nil, err
	}
	feedback, err := s.store.CourseFeedback(ctx, courseID)
	if err != nil {
		return nil, err
	}
	out := &FeedbackSummary{CourseID: courseID, Count: len(feedback)}
	if len(feedback) == 0 {
		out.Summary = "No feedback yet."
		return out, nil
	}
	summary, err := s.completer.Complete(ctx, ai.SummaryMessages(course.Name, feedback))
	if err != nil {
		s.logger.Printf("[FeedbackService] summary for %s failed: %v", courseID, err)
		return nil, apperr.Internal(err, "could not generate the feedback summary")
	}
	out.Summary = summary
	return out, nil
}

type AssistantService struct {
	store     *repository.Store
	completer ai.Completer
	logger    *log.Logger
}

func NewAssistantService(store *repository.Store, completer ai.Completer, logger *log.Logger) *AssistantService {
	return &AssistantService{store: store, completer: completer, logger: logger}
}

// Chat answers a free-text question about the user's own courses, modules and tasks.
func (s *AssistantService) Chat(ctx context.Context, userID uuid.UUID, userType models.UserType, message string, history []ai.Message) (string, error) {
	cat, err := s.catalog(ctx, userID, userType)
	if err != nil {
		return "", err
	}
	msgs := ai.ChatMessages(ai.BuildContext(cat, message), history, message)
	reply, err := s.completer.Complete(ctx, msgs)
	if err != nil {
		s.logger.Printf("[AssistantService] completion for %s failed: %v", userID, err)
		return "", apperr.Internal(err, "the assistant is not available right now")
	}
	return reply, nil
}

func (s *AssistantService) catalog(ctx context.Context, userID uuid.UUID, userType models.UserType) (ai.Catalog, error) {
	cat := ai.Catalog{UserType: userType}
	var err error
	if userType == models.UserTypeInstructor {
		cat.Courses, err = s.store.CoursesByInstructor(ctx, userID)
	} else {
		cat.Courses, err = s.store.CoursesByUser(ctx, userID)
	}
	if err != nil {
		return cat, err
	}

	ids := make([]uuid.UUID, 0, len(cat.Courses))
	for _, c := range cat.Courses {
		ids = append(ids, c.ID)
		modules, err := s.store.ListModules(ctx, c.ID)
		if err != nil {
			return cat, err
		}
		cat.Modules = append(cat.Modules, modules...)
	}
	if userType == models.UserTypeInstructor {
		cat.Tasks, err = s.store.TasksByCourses(ctx, ids)
	} else {
		cat.Tasks, err = s.store.TasksForStudent(ctx, userID)
	}
	return cat, err
}
