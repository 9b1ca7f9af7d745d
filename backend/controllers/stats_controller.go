package controllers

import (
	"time"

	"aulavirtual/backend/services"
	"aulavirtual/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type StatsController struct {
	Stats *services.StatsService
}

func NewStatsController(svc *services.Services) *StatsController {
	return &StatsController{Stats: svc.Stats}
}

func rangeOf(c *fiber.Ctx) (services.Range, error) {
	return services.ParseRange(c.Query("from"), c.Query("to"), c.Query("period"), time.Now().UTC())
}

func (sc *StatsController) InstructorStats(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	stats, err := sc.Stats.ForInstructor(c.UserContext(), me.UserID)
	if err != nil {
		return err
	}
	return utils.OK(c, stats)
}

// CourseStats godoc
// @Summary      Course statistics
// @Description  Average grade over graded submissions and submission rate, split by tasks and exams.
// @Tags         stats
// @Produce      json
// @Param        id      path      string  true   "course id"
// @Param        from    query     string  false  "start of the window"
// @Param        to      query     string  false  "end of the window; a bare date covers the whole day"
// @Param        period  query     string  false  "week, month or year"
// @Success      200     {object}  utils.SuccessResponse
// @Security     BearerAuth
// @Router       /courses/{id}/stats [get]
func (sc *StatsController) CourseStats(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	r, err := rangeOf(c)
	if err != nil {
		return err
	}
	stats, err := sc.Stats.Course(c.UserContext(), courseID, me.UserID, r)
	if err != nil {
		return err
	}
	return utils.OK(c, stats)
}

func (sc *StatsController) StudentsStats(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	r, err := rangeOf(c)
	if err != nil {
		return err
	}
	stats, err := sc.Stats.Students(c.UserContext(), courseID, me.UserID, r)
	if err != nil {
		return err
	}
	return utils.OK(c, stats)
}

func (sc *StatsController) StudentStats(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	studentID, err := paramID(c, "studentId")
	if err != nil {
		return err
	}
	r, err := rangeOf(c)
	if err != nil {
		return err
	}
	stats, err := sc.Stats.Student(c.UserContext(), courseID, studentID, me.UserID, r)
	if err != nil {
		return err
	}
	return utils.OK(c, stats)
}
