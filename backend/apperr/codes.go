package apperr

// Sentinels for errors.Is. Services build their own values with a specific detail.
var (
	ErrCourseNotFound     = New(KindNotFound, "CourseNotFound", "course not found")
	ErrModuleNotFound     = New(KindNotFound, "ModuleNotFound", "module not found")
	ErrResourceNotFound   = New(KindNotFound, "ResourceNotFound", "resource not found")
	ErrTaskNotFound       = New(KindNotFound, "TaskNotFound", "task not found")
	ErrSubmissionNotFound = New(KindNotFound, "SubmissionNotFound", "submission not found")
	ErrInstructorNotFound = New(KindNotFound, "InstructorNotFound", "instructor not found in course")
	ErrNoEnrollments      = New(KindNotFound, "CourseNotFound", "no courses found for user")

	ErrNotTitular    = New(KindForbidden, "NotTitular", "only the titular instructor can perform this action")
	ErrNotInstructor = New(KindForbidden, "NotInstructor", "user is not an instructor of this course")
	ErrForbidden     = New(KindForbidden, "Forbidden", "instructor lacks the required permission")
	ErrNotEnrolled   = New(KindForbidden, "NotEnrolled", "student is not enrolled in this course")

	ErrCourseFull            = New(KindConflict, "CourseFull", "course is full")
	ErrAlreadyEnrolled       = New(KindConflict, "AlreadyEnrolled", "user is already enrolled in this course")
	ErrAlreadyInstructor     = New(KindConflict, "AlreadyInstructor", "user already has a role in this course")
	ErrAlreadyFavorite       = New(KindConflict, "AlreadyFavorite", "course is already a favorite")
	ErrNotFavorite           = New(KindConflict, "NotFavorite", "course is not a favorite")
	ErrAlreadyGaveFeedback   = New(KindConflict, "AlreadyGaveFeedback", "feedback was already given")
	ErrLateNotAllowed        = New(KindConflict, "LateSubmissionNotAllowed", "late submission not allowed for this task")
	ErrAlreadySubmitted      = New(KindConflict, "AlreadySubmitted", "task was already submitted")
	ErrAlreadyStarted        = New(KindConflict, "AlreadyStarted", "task was already started")
	ErrTaskNotAvailable      = New(KindConflict, "TaskNotAvailable", "task is not available")
	ErrTimeLimitExceeded     = New(KindConflict, "TimeLimitExceeded", "time limit for this task was exceeded")
	ErrTaskNotTimed          = New(KindConflict, "TaskNotTimed", "task has no timer")
	ErrTaskNotStarted        = New(KindConflict, "TaskNotStarted", "timed task must be started before submitting")
	ErrNotSubmitted          = New(KindConflict, "NotSubmitted", "submission has not been submitted yet")
	ErrCannotRemoveTitular   = New(KindConflict, "CannotRemoveTitular", "the titular instructor cannot be removed")
	ErrFileUploadNotAccepted = New(KindConflict, "FileUploadNotAccepted", "task does not accept file uploads")

	ErrUnauthorized = New(KindUnauthorized, "Unauthorized", "missing or invalid token")
)

// Validation is the error for request bodies and query params that fail schema checks.
func Validation(detail string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Code: "ValidationError", Detail: detail, Fields: fields}
}

// Creation is returned by the entity constructors; Field names the first offending field.
func Creation(field, detail string) *Error {
	return &Error{
		Kind:   KindValidation,
		Code:   "CreationError",
		Detail: detail,
		Fields: map[string]string{field: detail},
	}
}
