package routes

import (
	"aulavirtual/backend/config"
	"aulavirtual/backend/controllers"
	"aulavirtual/backend/middleware"
	"aulavirtual/backend/services"
	"aulavirtual/backend/utils"

	"github.com/gofiber/fiber/v2"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "aulavirtual/backend/docs"
)

func SetupRoutes(app *fiber.App, svc *services.Services, cfg *config.Config) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	validate := utils.NewValidator()
	api := app.Group("/api", middleware.AuthMiddleware(cfg))

	// Courses, modules and resources
	coursesController := controllers.NewCoursesController(svc, validate)
	api.Post("/courses", coursesController.CreateCourse)
	api.Get("/courses", coursesController.GetCourses)
	api.Get("/courses/:id", coursesController.GetCourse)
	api.Patch("/courses/:id", coursesController.UpdateCourse)
	api.Delete("/courses/:id", coursesController.RemoveCourse)
	api.Get("/courses/:id/activity", coursesController.GetActivityLog)
	api.Get("/users/:userId/courses", coursesController.GetCoursesByUser)

	api.Post("/courses/:id/modules", coursesController.AddModule)
	api.Get("/courses/:id/modules", coursesController.GetModules)
	api.Patch("/courses/:id/modules/order", coursesController.ReorderModules)
	api.Get("/courses/:id/modules/:moduleId", coursesController.GetModule)
	api.Patch("/courses/:id/modules/:moduleId", coursesController.UpdateModule)
	api.Delete("/courses/:id/modules/:moduleId", coursesController.RemoveModule)

	api.Post("/modules/:moduleId/resources", coursesController.AddResource)
	api.Get("/modules/:moduleId/resources", coursesController.GetResources)
	api.Patch("/modules/:moduleId/resources/order", coursesController.ReorderResources)
	api.Get("/modules/:moduleId/resources/:resourceId", coursesController.GetResource)
	api.Patch("/modules/:moduleId/resources/:resourceId", coursesController.UpdateResource)
	api.Delete("/modules/:moduleId/resources/:resourceId", coursesController.RemoveResource)

	// Enrollments
	enrollmentsController := controllers.NewEnrollmentsController(svc)
	api.Post("/courses/:id/enrollments", enrollmentsController.Enroll)
	api.Delete("/courses/:id/enrollments", enrollmentsController.Unenroll)
	api.Get("/courses/:id/enrollments", enrollmentsController.Students)
	api.Get("/courses/:id/enrollments/me", enrollmentsController.IsEnrolled)

	// Instructors
	instructorsController := controllers.NewInstructorsController(svc, validate)
	api.Get("/courses/:id/instructors", instructorsController.GetInstructors)
	api.Post("/courses/:id/instructors", instructorsController.AddAuxiliary)
	api.Patch("/courses/:id/instructors/:userId", instructorsController.UpdatePermissions)
	api.Delete("/courses/:id/instructors/:userId", instructorsController.RemoveInstructor)
	api.Get("/courses/:id/instructors/:userId/permissions", instructorsController.GetPermissions)
	api.Get("/instructors/:id/courses", instructorsController.GetCoursesOf)

	// Tasks and submissions
	tasksController := controllers.NewTasksController(svc, validate)
	api.Post("/courses/:id/tasks", tasksController.AddTask)
	api.Get("/courses/:id/tasks", tasksController.GetTasks)
	api.Get("/tasks/:taskId", tasksController.GetTask)
	api.Patch("/tasks/:taskId", tasksController.UpdateTask)
	api.Delete("/tasks/:taskId", tasksController.RemoveTask)
	api.Post("/tasks/:taskId/start", tasksController.StartTask)
	api.Post("/tasks/:taskId/submissions", tasksController.SubmitTask)
	api.Get("/tasks/:taskId/submissions", tasksController.GetSubmissions)
	api.Get("/tasks/:taskId/submissions/:studentId", tasksController.GetSubmission)
	api.Patch("/tasks/:taskId/submissions/:studentId/feedback", tasksController.GradeSubmission)
	api.Post("/tasks/:taskId/submissions/:studentId/ai-grading", tasksController.AIGrade)
	api.Get("/students/me/tasks", tasksController.StudentTasks)
	api.Get("/instructors/me/tasks", tasksController.InstructorTasks)

	// Statistics
	statsController := controllers.NewStatsController(svc)
	api.Get("/instructors/me/stats", statsController.InstructorStats)
	api.Get("/courses/:id/stats", statsController.CourseStats)
	api.Get("/courses/:id/stats/students", statsController.StudentsStats)
	api.Get("/courses/:id/stats/students/:studentId", statsController.StudentStats)

	// Favorites and feedback
	feedbackController := controllers.NewFeedbackController(svc, validate)
	api.Post("/courses/:id/favorite", feedbackController.AddFavorite)
	api.Delete("/courses/:id/favorite", feedbackController.RemoveFavorite)
	api.Get("/students/me/favorites", feedbackController.GetFavorites)
	api.Post("/courses/:id/feedback", feedbackController.GiveCourseFeedback)
	api.Get("/courses/:id/feedback", feedbackController.GetCourseFeedback)
	api.Get("/courses/:id/feedback/summary", feedbackController.FeedbackSummary)
	api.Post("/courses/:id/students/:studentId/feedback", feedbackController.GiveStudentFeedback)
	api.Get("/courses/:id/students/:studentId/feedback", feedbackController.GetStudentFeedback)

	// Assistant
	assistantController := controllers.NewAssistantController(svc, validate)
	api.Post("/assistant/chat", assistantController.Chat)
}
