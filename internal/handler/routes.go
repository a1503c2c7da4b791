package handler

import (
	"github.com/gofiber/fiber/v2"

	"servicehub/internal/domain"
	"servicehub/internal/middleware"
)

// RegisterRoutes mounts every API route under /api.
func RegisterRoutes(app *fiber.App, h *Handlers, authenticator middleware.Authenticator) {
	api := app.Group("/api")
	authRequired := middleware.AuthRequired(authenticator)

	auth := api.Group("/auth")
	auth.Post("/register/homeowner", h.Auth.RegisterHomeowner)
	auth.Post("/register/tradesperson", h.Auth.RegisterTradesperson)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.RefreshToken)
	auth.Post("/forgot-password", h.Auth.ForgotPassword)
	auth.Post("/reset-password", h.Auth.ResetPassword)
	auth.Post("/logout", authRequired, h.Auth.Logout)
	auth.Get("/me", authRequired, h.Auth.Me)
	auth.Put("/profile", authRequired, h.Auth.UpdateProfile)
	auth.Post("/change-password", authRequired, h.Auth.ChangePassword)
	auth.Post("/avatar", authRequired, h.Auth.UploadAvatar)

	api.Get("/users/:id", h.User.GetPublicProfile)

	jobs := api.Group("/jobs")
	jobs.Get("/", h.Job.Browse)
	jobs.Get("/my-jobs", authRequired, h.Job.ListMine)
	jobs.Post("/", authRequired, h.Job.Create)
	jobs.Get("/:id", middleware.OptionalAuth(authenticator), h.Job.Get)
	jobs.Put("/:id", authRequired, h.Job.Update)
	jobs.Put("/:id/status", authRequired, h.Job.UpdateStatus)

	interests := api.Group("/interests", authRequired)
	interests.Post("/", h.Interest.Create)
	interests.Get("/my-interests", h.Interest.ListMine)
	interests.Get("/job/:jobId", h.Interest.ListForJob)
	interests.Put("/:id/share-contact", h.Interest.ShareContact)
	interests.Post("/:id/pay-access", h.Interest.PayAccess)
	interests.Get("/:id/contact-details", h.Interest.ContactDetails)
	interests.Delete("/:id", h.Interest.Withdraw)

	messages := api.Group("/messages", authRequired)
	messages.Get("/unread-count", h.Message.UnreadCount)
	messages.Post("/conversations", h.Message.StartConversation)
	messages.Get("/conversations", h.Message.ListConversations)
	messages.Get("/conversations/:id", h.Message.GetConversation)
	messages.Get("/conversations/:id/messages", h.Message.ListMessages)
	messages.Post("/conversations/:id/messages", h.Message.SendMessage)
	messages.Post("/conversations/:id/attachments", h.Message.UploadAttachment)
	messages.Put("/conversations/:id/read", h.Message.MarkRead)

	notifications := api.Group("/notifications", authRequired)
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
	notifications.Get("/preferences", h.Notification.GetPreferences)
	notifications.Put("/preferences", h.Notification.UpdatePreferences)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)

	wallet := api.Group("/wallet", authRequired)
	wallet.Get("/balance", h.Wallet.Balance)
	wallet.Get("/transactions", h.Wallet.Transactions)
	wallet.Post("/fund", h.Wallet.RequestFunding)
	wallet.Get("/check-access/:jobId", h.Wallet.CheckAccess)

	content := api.Group("/content")
	content.Get("/blog", h.Content.ListBlog)
	content.Get("/jobs", h.Content.ListJobPosts)
	content.Get("/featured", h.Content.ListFeatured)
	content.Get("/:slug", h.Content.GetPublished)

	api.Get("/trades", h.Trade.List)
	api.Get("/trades/:id", h.Trade.Get)

	quizzes := api.Group("/quizzes", authRequired)
	quizzes.Get("/results", h.Trade.QuizResults)
	quizzes.Get("/:tradeId", h.Trade.StartQuiz)
	quizzes.Post("/:tradeId/submit", h.Trade.SubmitQuiz)

	registerAdminRoutes(api.Group("/admin", authRequired), h)
}

func registerAdminRoutes(admin fiber.Router, h *Handlers) {
	stats := middleware.RequirePermission(domain.PermViewStats)
	admin.Get("/dashboard", stats, h.Dashboard.GetStats)
	admin.Get("/audit-logs", stats, h.Audit.List)

	users := admin.Group("/users", middleware.RequirePermission(domain.PermManageUsers))
	users.Get("/", h.Admin.ListUsers)
	users.Get("/:id", h.Admin.GetUser)
	users.Put("/:id/status", h.Admin.UpdateUserStatus)
	users.Delete("/:id", h.Admin.DeleteUser)

	jobs := admin.Group("/jobs", middleware.RequirePermission(domain.PermManageJobs))
	jobs.Get("/pending", h.Admin.ListPendingJobs)
	jobs.Put("/:id/approve", h.Admin.ApproveJob)
	jobs.Put("/:id/reject", h.Admin.RejectJob)
	jobs.Put("/:id/access-fee", h.Admin.UpdateAccessFee)

	wallet := admin.Group("/wallet", middleware.RequirePermission(domain.PermManageWallets))
	wallet.Get("/funding-requests", h.Admin.ListFundingRequests)
	wallet.Put("/funding/:id/confirm", h.Admin.ConfirmFunding)
	wallet.Put("/funding/:id/reject", h.Admin.RejectFunding)

	content := admin.Group("/content", middleware.RequirePermission(domain.PermManageContent))
	content.Get("/", h.Content.List)
	content.Post("/", h.Content.Create)
	content.Post("/media", h.Content.UploadMedia)
	content.Get("/:id", h.Content.Get)
	content.Put("/:id", h.Content.Update)
	content.Delete("/:id", h.Content.Delete)
	content.Post("/:id/publish", h.Content.Publish)
	content.Post("/:id/schedule", h.Content.Schedule)
	content.Post("/:id/archive", h.Content.Archive)

	manageTrades := middleware.RequirePermission(domain.PermManageTrades)
	manageQuizzes := middleware.RequirePermission(domain.PermManageQuizzes)
	admin.Get("/trades", manageTrades, h.Trade.AdminList)
	admin.Post("/trades", manageTrades, h.Trade.Create)
	admin.Put("/trades/:id", manageTrades, h.Trade.Update)
	admin.Delete("/trades/:id", manageTrades, h.Trade.Delete)
	admin.Get("/trades/:id/questions", manageQuizzes, h.Trade.ListQuestions)
	admin.Post("/trades/:id/questions", manageQuizzes, h.Trade.CreateQuestion)
	admin.Put("/questions/:id", manageQuizzes, h.Trade.UpdateQuestion)
	admin.Delete("/questions/:id", manageQuizzes, h.Trade.DeleteQuestion)
}
