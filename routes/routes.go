package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"

	controller "taskhive/controllers"
	"taskhive/middleware"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	authLogger := log.New(os.Stdout, "AUTH: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Auth routes group with logging and per-IP rate limiting
	auth := app.Group("/auth", middleware.AuthRateLimiter(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints (no authentication required)
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)
	auth.Post("/refresh", controller.RefreshToken)

	// Google OAuth routes
	auth.Get("/google", controller.GoogleOAuth)
	auth.Get("/google/callback", controller.GoogleOAuthCallback)

	// Protected auth endpoints (require valid JWT)
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Post("/logout", controller.Logout)
	protectedAuth.Post("/change-password", controller.ChangePassword)
	protectedAuth.Get("/me", controller.GetCurrentUser)

	authLogger.Println("Authentication routes initialized successfully")
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB) {
	taskController := controller.NewTaskController(db, log.New(os.Stdout, "TASK: ", log.LstdFlags))
	teamController := controller.NewTeamController(db, log.New(os.Stdout, "TEAM: ", log.LstdFlags))
	messageController := controller.NewMessageController(db, log.New(os.Stdout, "MESSAGE: ", log.LstdFlags))
	meetingController := controller.NewMeetingController(db, log.New(os.Stdout, "MEETING: ", log.LstdFlags))

	// API group with versioning and protection
	api := app.Group("/api/v1", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// User routes
	users := api.Group("/users")
	users.Get("/", controller.GetUsers)
	users.Get("/me", controller.GetUserProfile)
	users.Patch("/me", controller.UpdateUserProfile)
	users.Delete("/me", controller.DeleteUserAccount)

	// Personal task routes
	task := api.Group("/tasks")
	task.Post("/", taskController.CreateTask)
	task.Get("/", taskController.GetTasks)
	task.Get("/stats", taskController.GetTaskStats)
	task.Get("/report/daily", taskController.GetDailyReport)
	task.Get("/date/:date", taskController.GetTasksByDate)

	// Cross-task message routes; registered before /:id so the path
	// segments don't collide
	task.Get("/messages/unread-count", messageController.GetUnreadMessageCount)
	task.Get("/messages/unread", messageController.GetUnreadMessages)
	task.Delete("/messages/:messageId", messageController.DeleteMessage)

	task.Get("/:id", taskController.GetTask)
	task.Patch("/:id", taskController.UpdateTask)
	task.Delete("/:id", taskController.DeleteTask)

	// Task thread routes
	task.Get("/:id/messages", messageController.GetTaskMessages)
	task.Post("/:id/messages", messageController.CreateTaskMessage)
	task.Patch("/:id/messages/read", messageController.MarkTaskMessagesRead)

	// Team routes
	team := api.Group("/teams")
	team.Post("/", teamController.CreateTeam)
	team.Get("/owned", teamController.GetOwnedTeams)
	team.Get("/joined", teamController.GetJoinedTeams)

	// Invitations
	team.Post("/invite", teamController.InviteToTeam)
	team.Get("/invitations", teamController.GetInvitations)
	team.Patch("/invitations/:invitationId", teamController.RespondToInvitation)
	team.Post("/remove-member", teamController.RemoveMember)

	// Team tasks
	team.Get("/:teamId", teamController.GetTeam)
	team.Get("/:teamId/tasks", teamController.GetTeamTasks)
	team.Post("/:teamId/tasks", teamController.CreateTeamTask)
	team.Patch("/:teamId/tasks/:taskId", teamController.UpdateTeamTask)
	team.Delete("/:teamId/tasks/:taskId", teamController.DeleteTeamTask)

	// Meetings
	team.Get("/:teamId/meetings", meetingController.GetTeamMeetings)
	team.Post("/:teamId/meetings", meetingController.CreateTeamMeeting)
	team.Patch("/:teamId/meetings/:meetingId", meetingController.UpdateTeamMeeting)
	team.Delete("/:teamId/meetings/:meetingId", meetingController.DeleteTeamMeeting)

	// WebSocket notification stream
	app.Get("/api/v1/notifications/ws", websocket.New(func(c *websocket.Conn) {
		controller.HandleNotificationsWS(c)
	}))

	log.Println("API routes initialized successfully")
}

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Build the OAuth config after LoadConfig has run
	controller.InitOAuth()

	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Setup auth routes
	SetupAuthRoutes(app, db)

	// Setup API routes
	SetupAPIRoutes(app, db)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
