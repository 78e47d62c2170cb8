package routes

import (
	"github.com/ffarena/progression/handlers"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes mounts the admin API. Everything under /days/{dayID} operates
// within that day; the websocket endpoint streams its live updates.
func SetupRoutes(
	router *chi.Mux,
	allowedOrigins []string,
	teamHandler *handlers.TeamHandler,
	dayHandler *handlers.DayHandler,
	matchHandler *handlers.MatchHandler,
	bracketHandler *handlers.BracketHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.ListTeams)
		r.Post("/", teamHandler.CreateTeam)
		r.Get("/{teamID}", teamHandler.GetTeam)
		r.Put("/{teamID}", teamHandler.UpdateTeam)
		r.Delete("/{teamID}", teamHandler.DeleteTeam)
	})

	router.Route("/days", func(r chi.Router) {
		r.Get("/", dayHandler.ListDays)
		r.Post("/", dayHandler.CreateDay)

		r.Route("/{dayID}", func(r chi.Router) {
			r.Get("/", dayHandler.GetDay)
			r.Patch("/status", dayHandler.ChangeStatus)
			r.Get("/qualified", dayHandler.QualifiedTeams)
			r.Get("/leaderboard", leaderboardHandler.DayLeaderboard)

			r.Get("/groups", dayHandler.ListGroups)
			r.Post("/groups", dayHandler.CreateGroup)

			r.Get("/matches", matchHandler.ListMatches)
			r.Post("/matches", matchHandler.CreateMatch)

			r.Route("/bracket", func(r chi.Router) {
				r.Get("/", bracketHandler.GetBracket)
				r.Post("/", bracketHandler.InitializeBracket)
				r.Delete("/", bracketHandler.ResetBracket)
				r.Get("/champion", bracketHandler.GetChampion)
			})
		})
	})

	router.Delete("/groups/{groupID}", dayHandler.DeleteGroup)

	router.Route("/matches/{matchID}", func(r chi.Router) {
		r.Get("/", matchHandler.GetMatch)
		r.Delete("/", matchHandler.DeleteMatch)
		r.Patch("/status", matchHandler.ChangeStatus)
		r.Patch("/lock", matchHandler.SetLocked)
		r.Get("/scores", matchHandler.ListScores)
		r.Put("/scores", matchHandler.UpsertScore)
		r.Delete("/scores/{teamID}", matchHandler.DeleteScore)
	})

	router.Route("/bracket-matches/{bracketMatchID}", func(r chi.Router) {
		r.Post("/start", bracketHandler.StartMatch)
		r.Post("/winner", bracketHandler.SetWinner)
	})

	router.Get("/leaderboard", leaderboardHandler.OverallLeaderboard)

	router.Get("/ws/days/{dayID}", webSocketHandler.ServeWs)
}
