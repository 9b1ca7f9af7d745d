package controllers

import (
	"aulavirtual/backend/services"
	"aulavirtual/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type AssistantController struct {
	Assistant *services.AssistantService
	Validate  *utils.Validator
}

func NewAssistantController(svc *services.Services, v *utils.Validator) *AssistantController {
	return &AssistantController{Assistant: svc.Assistant, Validate: v}
}

// Chat godoc
// @Summary      Ask the course assistant
// @Description  Answers from the caller's own courses, modules and tasks.
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Param        chat  body      controllers.ChatRequest  true  "message and prior turns"
// @Success      200   {object}  utils.SuccessResponse
// @Security     BearerAuth
// @Router       /assistant/chat [post]
func (ac *AssistantController) Chat(c *fiber.Ctx) error {
	me, err := utils.CurrentUser(c)
	if err != nil {
		return err
	}
	var req ChatRequest
	if err := ac.Validate.BindJSON(c, &req); err != nil {
		return err
	}
	reply, err := ac.Assistant.Chat(c.UserContext(), me.UserID, me.UserType, req.Message, req.History)
	if err != nil {
		return err
	}
	return utils.OK(c, fiber.Map{"reply": reply})
}
