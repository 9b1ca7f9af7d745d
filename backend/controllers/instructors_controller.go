package controllers

import (
	"aulavirtual/backend/services"
	"aulavirtual/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type InstructorsController struct {
	Instructors *services.InstructorService
	Validate    *utils.Validator
}

func NewInstructorsController(svc *services.Services, v *utils.Validator) *InstructorsController {
	return &InstructorsController{Instructors: svc.Instructors, Validate: v}
}

func (ic *InstructorsController) GetInstructors(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	list, err := ic.Instructors.ByCourse(c.UserContext(), courseID)
	if err != nil {
		return err
	}
	return utils.OK(c, list)
}

// AddAuxiliary godoc
// @Summary  Add an AUXILIAR instructor (titular only)
// @Tags     instructors
// @Accept   json
// @Produce  json
// @Param    id    path      string                            true  "course id"
// @Param    body  body      controllers.AddInstructorRequest  true  "user and permissions"
// @Success  201   {object}  utils.SuccessResponse
// @Failure  403   {object}  utils.ErrorResponse
// @Security BearerAuth
// @Router   /courses/{id}/instructors [post]
func (ic *InstructorsController) AddAuxiliary(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req AddInstructorRequest
	if err := ic.Validate.BindJSON(c, &req); err != nil {
		return err
	}
	perms := services.Permissions{
		CanCreateContent: req.CanCreateContent,
		CanGrade:         req.CanGrade,
		CanUpdateCourse:  req.CanUpdateCourse,
	}
	ci, err := ic.Instructors.AddAuxiliary(c.UserContext(), courseID, req.UserID, me.UserID, perms)
	if err != nil {
		return err
	}
	return utils.Created(c, ci)
}

func (ic *InstructorsController) UpdatePermissions(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	var req PermissionsRequest
	if err := ic.Validate.BindJSON(c, &req); err != nil {
		return err
	}
	ci, err := ic.Instructors.UpdatePermissions(c.UserContext(), courseID, userID, me.UserID, services.Permissions(req))
	if err != nil {
		return err
	}
	return utils.OK(c, ci)
}

func (ic *InstructorsController) RemoveInstructor(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	if err := ic.Instructors.Remove(c.UserContext(), courseID, userID, me.UserID); err != nil {
		return err
	}
	return utils.NoContent(c)
}

func (ic *InstructorsController) GetPermissions(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	perms, err := ic.Instructors.Permissions(c.UserContext(), courseID, userID)
	if err != nil {
		return err
	}
	return utils.OK(c, perms)
}

func (ic *InstructorsController) GetCoursesOf(c *fiber.Ctx) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	courses, err := ic.Instructors.CoursesOf(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return utils.OK(c, courses)
}
