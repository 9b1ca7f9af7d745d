package controllers

import (
	"aulavirtual/backend/services"
	"aulavirtual/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type CoursesController struct {
	Courses   *services.CourseService
	Modules   *services.ModuleService
	Resources *services.ResourceService
	Validate  *utils.Validator
}

func NewCoursesController(svc *services.Services, v *utils.Validator) *CoursesController {
	return &CoursesController{Courses: svc.Courses, Modules: svc.Modules, Resources: svc.Resources, Validate: v}
}

// CreateCourse godoc
// @Summary      Create a course
// @Description  The caller becomes the course's TITULAR instructor.
// @Tags         courses
// @Accept       json
// @Produce      json
// @Param        course  body      object  true  "name, description, startDate, endDate, capacity, category, level, modality"
// @Success      201     {object}  utils.SuccessResponse
// @Failure      400     {object}  utils.ErrorResponse
// @Security     BearerAuth
// @Router       /courses [post]
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	in, err := bodyInput(c)
	if err != nil {
		return err
	}
	course, err := cc.Courses.Create(c.UserContext(), in, me.UserID)
	if err != nil {
		return err
	}
	return utils.Created(c, course)
}

// GetCourses godoc
// @Summary  List every course
// @Tags     courses
// @Produce  json
// @Success  200  {object}  utils.SuccessResponse
// @Security BearerAuth
// @Router   /courses [get]
func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	courses, err := cc.Courses.List(c.UserContext())
	if err != nil {
		return err
	}
	return utils.OK(c, courses)
}

// GetCourse godoc
// @Summary  Get a course
// @Tags     courses
// @Produce  json
// @Param    id   path      string  true  "course id"
// @Success  200  {object}  utils.SuccessResponse
// @Failure  404  {object}  utils.ErrorResponse
// @Security BearerAuth
// @Router   /courses/{id} [get]
func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	course, err := cc.Courses.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return utils.OK(c, course)
}

// UpdateCourse godoc
// @Summary  Patch a course
// @Tags     courses
// @Accept   json
// @Produce  json
// @Param    id      path      string  true  "course id"
// @Param    course  body      object  true  "fields to change"
// @Success  200     {object}  utils.SuccessResponse
// @Failure  403     {object}  utils.ErrorResponse
// @Security BearerAuth
// @Router   /courses/{id} [patch]
func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	in, err := bodyInput(c)
	if err != nil {
		return err
	}
	course, err := cc.Courses.Update(c.UserContext(), id, in, me.UserID)
	if err != nil {
		return err
	}
	return utils.OK(c, course)
}

func (cc *CoursesController) RemoveCourse(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := cc.Courses.Remove(c.UserContext(), id, me.UserID); err != nil {
		return err
	}
	return utils.NoContent(c)
}

func (cc *CoursesController) GetActivityLog(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	entries, err := cc.Courses.ActivityLog(c.UserContext(), id, me.UserID)
	if err != nil {
		return err
	}
	return utils.OK(c, entries)
}

func (cc *CoursesController) GetCoursesByUser(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	courses, err := cc.Courses.ByUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return utils.OK(c, courses)
}

func (cc *CoursesController) AddModule(c *fiber.Ctx) error {
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
	module, err := cc.Modules.Add(c.UserContext(), courseID, me.UserID, in)
	if err != nil {
		return err
	}
	return utils.Created(c, module)
}

func (cc *CoursesController) GetModules(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	modules, err := cc.Modules.List(c.UserContext(), courseID)
	if err != nil {
		return err
	}
	return utils.OK(c, modules)
}

func (cc *CoursesController) GetModule(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	moduleID, err := paramID(c, "moduleId")
	if err != nil {
		return err
	}
	module, err := cc.Modules.Get(c.UserContext(), courseID, moduleID)
	if err != nil {
		return err
	}
	return utils.OK(c, module)
}

func (cc *CoursesController) UpdateModule(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	moduleID, err := paramID(c, "moduleId")
	if err != nil {
		return err
	}
	in, err := bodyInput(c)
	if err != nil {
		return err
	}
	module, err := cc.Modules.Update(c.UserContext(), courseID, moduleID, me.UserID, in)
	if err != nil {
		return err
	}
	return utils.OK(c, module)
}

func (cc *CoursesController) RemoveModule(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	moduleID, err := paramID(c, "moduleId")
	if err != nil {
		return err
	}
	if err := cc.Modules.Remove(c.UserContext(), courseID, moduleID, me.UserID); err != nil {
		return err
	}
	return utils.NoContent(c)
}

// ReorderModules godoc
// @Summary      Reorder a course's modules
// @Description  Listed modules get order = index. Ids of other courses are ignored.
// @Tags         modules
// @Accept       json
// @Produce      json
// @Param        id     path      string                      true  "course id"
// @Param        order  body      controllers.ReorderRequest  true  "module ids in the new order"
// @Success      200    {object}  utils.SuccessResponse
// @Security     BearerAuth
// @Router       /courses/{id}/modules/order [patch]
func (cc *CoursesController) ReorderModules(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req ReorderRequest
	if err := cc.Validate.BindJSON(c, &req); err != nil {
		return err
	}
	modules, err := cc.Modules.Reorder(c.UserContext(), courseID, me.UserID, req.Order)
	if err != nil {
		return err
	}
	return utils.OK(c, modules)
}

func (cc *CoursesController) AddResource(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	moduleID, err := paramID(c, "moduleId")
	if err != nil {
		return err
	}
	in, err := bodyInput(c)
	if err != nil {
		return err
	}
	resource, err := cc.Resources.Add(c.UserContext(), moduleID, me.UserID, in)
	if err != nil {
		return err
	}
	return utils.Created(c, resource)
}

func (cc *CoursesController) GetResources(c *fiber.Ctx) error {
	moduleID, err := paramID(c, "moduleId")
	if err != nil {
		return err
	}
	resources, err := cc.Resources.List(c.UserContext(), moduleID)
	if err != nil {
		return err
	}
	return utils.OK(c, resources)
}

func (cc *CoursesController) GetResource(c *fiber.Ctx) error {
	moduleID, err := paramID(c, "moduleId")
	if err != nil {
		return err
	}
	resourceID, err := paramID(c, "resourceId")
	if err != nil {
		return err
	}
	resource, err := cc.Resources.Get(c.UserContext(), moduleID, resourceID)
	if err != nil {
		return err
	}
	return utils.OK(c, resource)
}

func (cc *CoursesController) UpdateResource(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	moduleID, err := paramID(c, "moduleId")
	if err != nil {
		return err
	}
	resourceID, err := paramID(c, "resourceId")
	if err != nil {
		return err
	}
	in, err := bodyInput(c)
	if err != nil {
		return err
	}
	resource, err := cc.Resources.Update(c.UserContext(), moduleID, resourceID, me.UserID, in)
	if err != nil {
		return err
	}
	return utils.OK(c, resource)
}

func (cc *CoursesController) RemoveResource(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	moduleID, err := paramID(c, "moduleId")
	if err != nil {
		return err
	}
	resourceID, err := paramID(c, "resourceId")
	if err != nil {
		return err
	}
	if err := cc.Resources.Remove(c.UserContext(), moduleID, resourceID, me.UserID); err != nil {
		return err
	}
	return utils.NoContent(c)
}

func (cc *CoursesController) ReorderResources(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	moduleID, err := paramID(c, "moduleId")
	if err != nil {
		return err
	}
	var req ReorderRequest
	if err := cc.Validate.BindJSON(c, &req); err != nil {
		return err
	}
	resources, err := cc.Resources.Reorder(c.UserContext(), moduleID, me.UserID, req.Order)
	if err != nil {
		return err
	}
	return utils.OK(c, resources)
}
