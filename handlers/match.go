package handlers

import (
	"chess-tournament-system/middleware"
	"chess-tournament-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMatchRoutes(app *fiber.App, matchService *services.MatchService) {
	// 🔓 Read routes for polling consumers (board, clocks, history)
	app.Get("/matches/:id", matchService.GetMatch)
	app.Get("/matches/:id/state", matchService.GetMatchState)
	app.Get("/tournaments/:id/matches", matchService.GetTournamentMatches)

	// 🔐 Lifecycle mutations — require user context
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/tournaments/:id/matches", matchService.CreateMatch)
	secured.Post("/matches/:id/start", matchService.StartMatch)
	secured.Post("/matches/:id/moves", matchService.SubmitMove)
	secured.Post("/matches/:id/resign", matchService.Resign)
	secured.Post("/matches/:id/end", matchService.EndMatch)
	secured.Post("/matches/:id/timeout", matchService.ClaimTimeout)
	secured.Post("/matches/:id/draw-offer", matchService.OfferDraw)
	secured.Post("/matches/:id/draw-accept", matchService.AcceptDraw)
}
