package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/lang/:lang", handler.SetLanguage)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/forgot-password", handler.ForgotPassword)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Get("/session", handler.AuthRequired, handler.Session)

	api.Get("/survey", handler.AuthRequired, handler.GetSurvey)
	api.Get("/tools", handler.AuthRequired, handler.GetTools)

	attacks := api.Group("/attacks", handler.AuthRequired)
	attacks.Get("", handler.ListAttacks)
	attacks.Post("", handler.CreateAttack)
	attacks.Get("/:id", handler.GetAttack)
	attacks.Delete("/:id", handler.DeleteAttack)

	dashboard := api.Group("/dashboard", handler.AuthRequired)
	dashboard.Get("/calendar", handler.GetCalendar)
	dashboard.Get("/day/:date", handler.GetDay)
	dashboard.Get("/tracker", handler.GetTracker)

	stats := api.Group("/stats", handler.AuthRequired)
	stats.Get("/chart", handler.GetAttackChart)
	stats.Get("/symptoms", handler.GetSymptomFrequencies)

	journal := api.Group("/journal", handler.AuthRequired)
	journal.Get("", handler.ListJournal)
	journal.Post("", handler.CreateJournalEntry)
	journal.Delete("/:id", handler.DeleteJournalEntry)

	export := api.Group("/export", handler.AuthRequired)
	export.Get("/ics", handler.ExportICS)
	export.Get("/json", handler.ExportJSON)

	settings := api.Group("/settings", handler.AuthRequired)
	settings.Post("/profile", handler.UpdateProfile)
	settings.Post("/change-password", handler.ChangePassword)
	settings.Post("/regenerate-recovery-code", handler.RegenerateRecoveryCode)
	settings.Post("/reminders", handler.UpdateReminders)
	settings.Post("/clear-data", handler.ClearAllData)
	settings.Delete("/delete-account", handler.DeleteAccount)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
