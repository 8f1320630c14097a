package handlers

import (
	"chess-tournament-system/middleware"
	"chess-tournament-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTournamentRoutes(app *fiber.App, tournamentService *services.TournamentService, bracketService *services.BracketService) {
	// 🔓 Public routes — still behind Gateway auth, no user context
	app.Get("/tournaments", tournamentService.GetAllTournaments)
	app.Get("/tournaments/:id", tournamentService.GetTournamentByID)
	app.Get("/tournaments/:id/participants", tournamentService.GetTournamentParticipants)

	// 🔐 Authenticated routes
	secured := app.Group("/", middleware.UserContextMiddleware())

	// Bracket generation (tournament owner only; round 1)
	secured.Post("/tournaments/:id/bracket", bracketService.GenerateBracket)
}
