package controllers

import (
	"aulavirtual/backend/services"
	"aulavirtual/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// FeedbackController serves favorites, course ratings and instructor notes about students.
type FeedbackController struct {
	Favorites *services.FavoriteService
	Feedback  *services.FeedbackService
	Validate  *utils.Validator
}

func NewFeedbackController(svc *services.Services, v *utils.Validator) *FeedbackController {
	return &FeedbackController{Favorites: svc.Favorites, Feedback: svc.Feedback, Validate: v}
}

func (fc *FeedbackController) AddFavorite(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	fav, err := fc.Favorites.Add(c.UserContext(), courseID, me.UserID)
	if err != nil {
		return err
	}
	return utils.Created(c, fav)
}

func (fc *FeedbackController) RemoveFavorite(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := fc.Favorites.Remove(c.UserContext(), courseID, me.UserID); err != nil {
		return err
	}
	return utils.NoContent(c)
}

func (fc *FeedbackController) GetFavorites(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	courses, err := fc.Favorites.List(c.UserContext(), me.UserID)
	if err != nil {
		return err
	}
	return utils.OK(c, courses)
}

// GiveCourseFeedback godoc
// @Summary  Rate a course (enrolled students, once)
// @Tags     feedback
// @Accept   json
// @Produce  json
// @Param    id        path      string                             true  "course id"
// @Param    feedback  body      controllers.CourseFeedbackRequest  true  "punctuation 1-5 and comment"
// @Success  201       {object}  utils.SuccessResponse
// @Failure  400       {object}  utils.ErrorResponse
// @Security BearerAuth
// @Router   /courses/{id}/feedback [post]
func (fc *FeedbackController) GiveCourseFeedback(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req CourseFeedbackRequest
	if err := fc.Validate.BindJSON(c, &req); err != nil {
		return err
	}
	fb, err := fc.Feedback.GiveCourseFeedback(c.UserContext(), courseID, me.UserID, req.Punctuation, req.Comment)
	if err != nil {
		return err
	}
	return utils.Created(c, fb)
}

func (fc *FeedbackController) GetCourseFeedback(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	list, err := fc.Feedback.CourseFeedback(c.UserContext(), courseID)
	if err != nil {
		return err
	}
	return utils.OK(c, list)
}

func (fc *FeedbackController) FeedbackSummary(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	summary, err := fc.Feedback.Summary(c.UserContext(), courseID, me.UserID)
	if err != nil {
		return err
	}
	return utils.OK(c, summary)
}

func (fc *FeedbackController) GiveStudentFeedback(c *fiber.Ctx) error {
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
	var req StudentFeedbackRequest
	if err := fc.Validate.BindJSON(c, &req); err != nil {
		return err
	}
	fb, err := fc.Feedback.GiveStudentFeedback(c.UserContext(), courseID, studentID, me.UserID, req.Punctuation, req.Comment)
	if err != nil {
		return err
	}
	return utils.Created(c, fb)
}

func (fc *FeedbackController) GetStudentFeedback(c *fiber.Ctx) error {
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
	list, err := fc.Feedback.StudentFeedback(c.UserContext(), courseID, studentID, me.UserID)
	if err != nil {
		return err
	}
	return utils.OK(c, list)
}
