package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerSessionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /api/v1/session", handler.Login)
	mux.HandleFunc("DELETE /api/v1/session", handler.Logout)
	mux.HandleFunc("GET /api/v1/session", handler.GetSession)
}

func registerRosterRoutes(mux *http.ServeMux, handler *Handler, sessions SessionSource) {
	mux.Handle("GET /api/v1/players", RequireSession(sessions, http.HandlerFunc(handler.ListPlayers)))
	mux.Handle("POST /api/v1/players/load-next", RequireSession(sessions, http.HandlerFunc(handler.LoadNextPlayers)))
	mux.Handle("GET /api/v1/players/{playerID}/team", RequireSession(sessions, http.HandlerFunc(handler.GetPlayerTeam)))

	mux.Handle("GET /api/v1/teams", RequireSession(sessions, http.HandlerFunc(handler.ListTeams)))
	mux.Handle("POST /api/v1/teams", RequireSession(sessions, http.HandlerFunc(handler.CreateTeam)))
	mux.Handle("GET /api/v1/teams/{teamID}", RequireSession(sessions, http.HandlerFunc(handler.GetTeam)))
	mux.Handle("PUT /api/v1/teams/{teamID}", RequireSession(sessions, http.HandlerFunc(handler.UpdateTeam)))
	mux.Handle("DELETE /api/v1/teams/{teamID}", RequireSession(sessions, http.HandlerFunc(handler.DeleteTeam)))
}
