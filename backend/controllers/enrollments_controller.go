package controllers

import (
	"aulavirtual/backend/services"
	"aulavirtual/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type EnrollmentsController struct {
	Enrollments *services.EnrollmentService
}

func NewEnrollmentsController(svc *services.Services) *EnrollmentsController {
	return &EnrollmentsController{Enrollments: svc.Enrollments}
}

// Enroll godoc
// @Summary  Enroll the caller in a course
// @Tags     enrollments
// @Produce  json
// @Param    id   path      string  true  "course id"
// @Success  201  {object}  utils.SuccessResponse
// @Failure  400  {object}  utils.ErrorResponse  "CourseFull or AlreadyEnrolled"
// @Security BearerAuth
// @Router   /courses/{id}/enrollments [post]
func (ec *EnrollmentsController) Enroll(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	enrollment, err := ec.Enrollments.Enroll(c.UserContext(), courseID, me.UserID)
	if err != nil {
		return err
	}
	return utils.Created(c, enrollment)
}

func (ec *EnrollmentsController) Unenroll(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := ec.Enrollments.Unenroll(c.UserContext(), courseID, me.UserID); err != nil {
		return err
	}
	return utils.NoContent(c)
}

func (ec *EnrollmentsController) IsEnrolled(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ok, err := ec.Enrollments.IsEnrolled(c.UserContext(), courseID, me.UserID)
	if err != nil {
		return err
	}
	return utils.OK(c, fiber.Map{"enrolled": ok})
}

func (ec *EnrollmentsController) Students(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	students, err := ec.Enrollments.Students(c.UserContext(), courseID, me.UserID)
	if err != nil {
		return err
	}
	return utils.OK(c, students)
}
