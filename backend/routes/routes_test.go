package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aulavirtual/backend/ai"
	"aulavirtual/backend/config"
	"aulavirtual/backend/models"
	"aulavirtual/backend/repository"
	"aulavirtual/backend/services"
	"aulavirtual/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cannedCompleter struct{ reply string }

func (c cannedCompleter) Complete(context.Context, []ai.Message) (string, error) {
	return c.reply, nil
}

type testServer struct {
	app *fiber.App
	cfg *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		Env:               "test",
		DBDriver:          "sqlite",
		DBDSN:             fmt.Sprintf("file:routes_%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()),
		JWTSecret:         "testsecret",
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
	logger := log.New(io.Discard, "", 0)
	svc := services.New(repository.New(db), cfg, cannedCompleter{reply: "All good."}, logger)
	return &testServer{app: NewApp(cfg, svc, logger), cfg: cfg}
}

func (s *testServer) token(t *testing.T, userID uuid.UUID, userType models.UserType) string {
	t.Helper()
	tok, err := utils.GenerateToken(userID, userType, time.Hour, s.cfg)
	require.NoError(t, err)
	return tok
}

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Meta    json.RawMessage   `json:"meta"`
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &env)
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func courseBody(capacity int) map[string]interface{} {
	return map[string]interface{}{
		"name":        "Ethics 101",
		"description": "Moral philosophy",
		"startDate":   "2025-01-01",
		"endDate":     "2099-12-31",
		"capacity":    capacity,
		"category":    "philosophy",
		"level":       "Beginner",
		"modality":    "Online",
	}
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodGet, "/api/courses", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", env.Error)

	status, _ = s.do(t, http.MethodGet, "/api/courses", "not-a-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	other := &config.Config{JWTSecret: "someone-else"}
	forged, err := utils.GenerateToken(uuid.New(), models.UserTypeStudent, time.Hour, other)
	require.NoError(t, err)
	status, _ = s.do(t, http.MethodGet, "/api/courses", forged, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestCreateCourseErrors(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, uuid.New(), models.UserTypeInstructor)

	body := courseBody(10)
	delete(body, "startDate")
	status, env := s.do(t, http.MethodPost, "/api/courses", tok, body)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "CreationError", env.Error)
	assert.Contains(t, env.Details, "startDate")

	body = courseBody(10)
	body["capacity"] = "10"
	status, env = s.do(t, http.MethodPost, "/api/courses", tok, body)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Details, "capacity")

	status, env = s.do(t, http.MethodGet, "/api/courses/"+uuid.NewString(), tok, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "CourseNotFound", env.Error)

	status, env = s.do(t, http.MethodGet, "/api/courses/not-a-uuid", tok, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Details, "id")
}

func TestCourseLifecycle(t *testing.T) {
	s := newTestServer(t)
	instructor := s.token(t, uuid.New(), models.UserTypeInstructor)
	studentID := uuid.New()
	student := s.token(t, studentID, models.UserTypeStudent)
	classmate := s.token(t, uuid.New(), models.UserTypeStudent)
	late := s.token(t, uuid.New(), models.UserTypeStudent)

	status, env := s.do(t, http.MethodPost, "/api/courses", instructor, courseBody(2))
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	course := decode[models.Course](t, env.Data)
	base := "/api/courses/" + course.ID.String()

	status, env = s.do(t, http.MethodPatch, base, student, map[string]interface{}{"name": "Hijacked"})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "NotInstructor", env.Error)

	status, _ = s.do(t, http.MethodPost, base+"/enrollments", student, nil)
	require.Equal(t, fiber.StatusCreated, status)
	status, env = s.do(t, http.MethodPost, base+"/enrollments", student, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "AlreadyEnrolled", env.Error)
	status, _ = s.do(t, http.MethodPost, base+"/enrollments", classmate, nil)
	require.Equal(t, fiber.StatusCreated, status)
	status, env = s.do(t, http.MethodPost, base+"/enrollments", late, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "CourseFull", env.Error)

	status, env = s.do(t, http.MethodGet, base+"/enrollments/me", student, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, map[string]bool{"enrolled": true}, decode[map[string]bool](t, env.Data))

	status, env = s.do(t, http.MethodPost, base+"/tasks", instructor, map[string]interface{}{
		"type":        "tarea",
		"title":       "Trolley problem essay",
		"description": "500 words",
		"due_date":    "2099-01-01T00:00:00Z",
		"published":   true,
		"questions":   []map[string]interface{}{{"prompt": "Pull the lever?", "max_points": 10}},
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	task := decode[models.Task](t, env.Data)
	require.Len(t, task.Questions, 1)
	taskPath := "/api/tasks/" + task.ID.String()

	status, env = s.do(t, http.MethodPost, taskPath+"/submissions", student, map[string]interface{}{
		"answers": []map[string]interface{}{{"question_id": task.Questions[0].ID, "answer": "No"}},
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	status, env = s.do(t, http.MethodPost, taskPath+"/submissions", student, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "AlreadySubmitted", env.Error)

	gradePath := taskPath + "/submissions/" + studentID.String() + "/feedback"
	status, env = s.do(t, http.MethodPatch, gradePath, instructor, map[string]interface{}{"grade": 11})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Details, "grade")
	status, _ = s.do(t, http.MethodPatch, gradePath, student, map[string]interface{}{"grade": 10})
	assert.Equal(t, fiber.StatusForbidden, status)
	status, env = s.do(t, http.MethodPatch, gradePath, instructor, map[string]interface{}{"grade": 8.5, "feedback": "Well argued"})
	require.Equal(t, fiber.StatusOK, status, env.Message)

	status, env = s.do(t, http.MethodGet, taskPath+"/submissions/"+studentID.String(), student, nil)
	require.Equal(t, fiber.StatusOK, status)
	sub := decode[models.TaskSubmission](t, env.Data)
	assert.Equal(t, models.SubmissionGraded, sub.Status)
	assert.Equal(t, 8.5, *sub.Grade)

	status, env = s.do(t, http.MethodGet, base+"/stats", instructor, nil)
	require.Equal(t, fiber.StatusOK, status)
	stats := decode[services.CourseStats](t, env.Data)
	assert.Equal(t, 8.5, *stats.Overall.AverageGrade)
	assert.EqualValues(t, 2, stats.Enrolled)
	assert.Equal(t, 50.0, *stats.Overall.SubmissionRate)

	status, env = s.do(t, http.MethodGet, "/api/instructors/me/tasks?page_size=5", instructor, nil)
	require.Equal(t, fiber.StatusOK, status)
	meta := decode[utils.PageMeta](t, env.Meta)
	assert.EqualValues(t, 1, meta.Total)
	assert.Equal(t, 5, meta.PageSize)

	status, env = s.do(t, http.MethodPost, base+"/feedback", student, map[string]interface{}{"punctuation": 9, "comment": "x"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Details, "punctuation")
	status, _ = s.do(t, http.MethodPost, base+"/feedback", student, map[string]interface{}{"punctuation": 5, "comment": "Loved it"})
	assert.Equal(t, fiber.StatusCreated, status)
	status, env = s.do(t, http.MethodGet, base+"/feedback/summary", instructor, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "All good.", decode[services.FeedbackSummary](t, env.Data).Summary)

	status, env = s.do(t, http.MethodPost, "/api/assistant/chat", student, map[string]interface{}{"message": "When is the essay due?"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, map[string]string{"reply": "All good."}, decode[map[string]string](t, env.Data))

	status, _ = s.do(t, http.MethodDelete, base, student, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = s.do(t, http.MethodDelete, base, instructor, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = s.do(t, http.MethodGet, taskPath, instructor, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestReorderModulesOverHTTP(t *testing.T) {
	s := newTestServer(t)
	instructor := s.token(t, uuid.New(), models.UserTypeInstructor)
	_, env := s.do(t, http.MethodPost, "/api/courses", instructor, courseBody(5))
	course := decode[models.Course](t, env.Data)
	base := "/api/courses/" + course.ID.String() + "/modules"

	var ids []uuid.UUID
	for _, name := range []string{"One", "Two"} {
		status, env := s.do(t, http.MethodPost, base, instructor, map[string]interface{}{"name": name, "description": name})
		require.Equal(t, fiber.StatusCreated, status)
		ids = append(ids, decode[models.Module](t, env.Data).ID)
	}

	status, env := s.do(t, http.MethodPatch, base+"/order", instructor, map[string]interface{}{"order": []uuid.UUID{ids[1], ids[0]}})
	require.Equal(t, fiber.StatusOK, status, env.Message)
	modules := decode[[]models.Module](t, env.Data)
	require.Len(t, modules, 2)
	assert.Equal(t, "Two", modules[0].Name)

	status, env = s.do(t, http.MethodPatch, base+"/order", instructor, map[string]interface{}{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Details, "order")
}
