package controllers

import (
	"aulavirtual/backend/services"
	"aulavirtual/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type TasksController struct {
	Tasks    *services.TaskService
	Validate *utils.Validator
}

func NewTasksController(svc *services.Services, v *utils.Validator) *TasksController {
	return &TasksController{Tasks: svc.Tasks, Validate: v}
}

// AddTask godoc
// @Summary      Add a task or exam to a course
// @Description  Requires can_create_content. Questions are optional: [{prompt, max_points}].
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      string  true  "course id"
// @Param        task  body      object  true  "type, title, description, due_date, ..."
// @Success      201   {object}  utils.SuccessResponse
// @Failure      400   {object}  utils.ErrorResponse
// @Security     BearerAuth
// @Router       /courses/{id}/tasks [post]
func (tc *TasksController) AddTask(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	in, err := bodyInput(c)
	if err != nil {
		return err
	}
	task, err := tc.Tasks.Add(c.UserContext(), courseID, me.UserID, in)
	if err != nil {
		return err
	}
	return utils.Created(c, task)
}

func (tc *TasksController) GetTasks(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	tasks, err := tc.Tasks.List(c.UserContext(), courseID, me.UserID)
	if err != nil {
		return err
	}
	return utils.OK(c, tasks)
}

func (tc *TasksController) GetTask(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	taskID, err := paramID(c, "taskId")
	if err != nil {
		return err
	}
	task, err := tc.Tasks.Get(c.UserContext(), taskID, me.UserID)
	if err != nil {
		return err
	}
	return utils.OK(c, task)
}

func (tc *TasksController) UpdateTask(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	taskID, err := paramID(c, "taskId")
	if err != nil {
		return err
	}
	in, err := bodyInput(c)
	if err != nil {
		return err
	}
	task, err := tc.Tasks.Update(c.UserContext(), taskID, me.UserID, in)
	if err != nil {
		return err
	}
	return utils.OK(c, task)
}

func (tc *TasksController) RemoveTask(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	taskID, err := paramID(c, "taskId")
	if err != nil {
		return err
	}
	if err := tc.Tasks.Remove(c.UserContext(), taskID, me.UserID); err != nil {
		return err
	}
	return utils.NoContent(c)
}

func (tc *TasksController) StartTask(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	taskID, err := paramID(c, "taskId")
	if err != nil {
		return err
	}
	sub, err := tc.Tasks.Start(c.UserContext(), taskID, me.UserID)
	if err != nil {
		return err
	}
	return utils.Created(c, sub)
}

// SubmitTask godoc
// @Summary      Hand in a task
// @Description  Exactly at due_date is on time. Timed tasks must be started first.
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        taskId      path      string                     true  "task id"
// @Param        submission  body      controllers.SubmitRequest  true  "answers"
// @Success      201         {object}  utils.SuccessResponse
// @Failure      400         {object}  utils.ErrorResponse  "LateSubmissionNotAllowed, AlreadySubmitted, TimeLimitExceeded"
// @Security     BearerAuth
// @Router       /tasks/{taskId}/submissions [post]
func (tc *TasksController) SubmitTask(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	taskID, err := paramID(c, "taskId")
	if err != nil {
		return err
	}
	var req SubmitRequest
	if len(c.Body()) > 0 {
		if err := tc.Validate.BindJSON(c, &req); err != nil {
			return err
		}
	}
	in := services.SubmitInput{FileURL: req.FileURL, TimeSpent: req.TimeSpent}
	for _, a := range req.Answers {
		in.Answers = append(in.Answers, services.AnswerInput{QuestionID: a.QuestionID, Answer: a.Answer})
	}
	sub, err := tc.Tasks.Submit(c.UserContext(), taskID, me.UserID, in)
	if err != nil {
		return err
	}
	return utils.Created(c, sub)
}

func (tc *TasksController) GetSubmissions(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	taskID, err := paramID(c, "taskId")
	if err != nil {
		return err
	}
	subs, err := tc.Tasks.Submissions(c.UserContext(), taskID, me.UserID)
	if err != nil {
		return err
	}
	return utils.OK(c, subs)
}

func (tc *TasksController) GetSubmission(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	taskID, err := paramID(c, "taskId")
	if err != nil {
		return err
	}
	studentID, err := paramID(c, "studentId")
	if err != nil {
		return err
	}
	sub, err := tc.Tasks.Submission(c.UserContext(), taskID, studentID, me.UserID)
	if err != nil {
		return err
	}
	return utils.OK(c, sub)
}

// GradeSubmission godoc
// @Summary      Grade a submission
// @Description  The task's late policy is applied to late submissions; raw_grade keeps the input.
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        taskId     path      string                    true  "task id"
// @Param        studentId  path      string                    true  "student id"
// @Param        grade      body      controllers.GradeRequest  true  "grade 0-10 and feedback"
// @Success      200        {object}  utils.SuccessResponse
// @Security     BearerAuth
// @Router       /tasks/{taskId}/submissions/{studentId}/feedback [patch]
func (tc *TasksController) GradeSubmission(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	taskID, err := paramID(c, "taskId")
	if err != nil {
		return err
	}
	studentID, err := paramID(c, "studentId")
	if err != nil {
		return err
	}
	var req GradeRequest
	if err := tc.Validate.BindJSON(c, &req); err != nil {
		return err
	}
	sub, err := tc.Tasks.Grade(c.UserContext(), taskID, studentID, me.UserID,
		services.GradeInput{Grade: *req.Grade, Feedback: req.Feedback})
	if err != nil {
		return err
	}
	return utils.OK(c, sub)
}

func (tc *TasksController) AIGrade(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	taskID, err := paramID(c, "taskId")
	if err != nil {
		return err
	}
	studentID, err := paramID(c, "studentId")
	if err != nil {
		return err
	}
	res, err := tc.Tasks.AIGrade(c.UserContext(), taskID, studentID, me.UserID, c.QueryBool("apply"))
	if err != nil {
		return err
	}
	return utils.OK(c, res)
}

func (tc *TasksController) StudentTasks(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	tasks, err := tc.Tasks.ForStudent(c.UserContext(), me.UserID)
	if err != nil {
		return err
	}
	return utils.OK(c, tasks)
}

func (tc *TasksController) InstructorTasks(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return err
	}
	size, err := queryInt(c, "page_size", 20)
	if err != nil {
		return err
	}
	res, err := tc.Tasks.ForInstructor(c.UserContext(), me.UserID, page, size)
	if err != nil {
		return err
	}
	return utils.Paginate(c, res.Tasks, res.Total, res.Page, res.PageSize)
}
