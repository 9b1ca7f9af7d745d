package apperr

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsMatchesOnCode(t *testing.T) {
	err := Newf(KindConflict, "CourseFull", "course %s is full", "abc")
	assert.True(t, errors.Is(err, ErrCourseFull))
	assert.False(t, errors.Is(err, ErrAlreadyEnrolled))
}

func TestAsThroughWrapping(t *testing.T) {
	wrapped := errors.Wrap(fmt.Errorf("outer: %w", ErrNotTitular), "service")
	ae, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindForbidden, ae.Kind)
	assert.Equal(t, KindForbidden, KindOf(wrapped))
}

func TestKindOfUnknownIsInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(fmt.Errorf("boom")))
}

func TestWithFieldsDoesNotMutateSentinel(t *testing.T) {
	e := ErrCourseFull.WithFields(map[string]string{"capacity": "1"})
	assert.NotNil(t, e.Fields)
	assert.Nil(t, ErrCourseFull.Fields)
}

func TestCreation(t *testing.T) {
	e := Creation("name", "name is required")
	assert.Equal(t, KindValidation, e.Kind)
	assert.Equal(t, "CreationError", e.Code)
	assert.Equal(t, "name is required", e.Fields["name"])
}

func TestSentinelKinds(t *testing.T) {
	cases := map[*Error]Kind{
		ErrCourseNotFound:      KindNotFound,
		ErrSubmissionNotFound:  KindNotFound,
		ErrNoEnrollments:       KindNotFound,
		ErrNotTitular:          KindForbidden,
		ErrNotEnrolled:         KindForbidden,
		ErrForbidden:           KindForbidden,
		ErrCourseFull:          KindConflict,
		ErrAlreadyGaveFeedback: KindConflict,
		ErrLateNotAllowed:      KindConflict,
		ErrUnauthorized:        KindUnauthorized,
	}
	for e, kind := range cases {
		assert.Equal(t, kind, e.Kind, e.Code)
	}
	assert.True(t, errors.Is(ErrNoEnrollments, ErrCourseNotFound))
}
