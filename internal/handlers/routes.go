package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux. Routes under
// the authenticate wrapper only run after a bearer token resolves to an identity.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	account := AuthHandler{Users: deps.Users, Tokens: deps.Tokens, Passwords: deps.Passwords}
	videos := VideoHandler{Videos: deps.Videos}

	authenticate := Authenticate(deps.Tokens)

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/register", account.Register)
	mux.HandleFunc("/login", account.Login)
	mux.Handle("/upload", authenticate(http.HandlerFunc(videos.Upload)))
	mux.Handle("/videos", authenticate(http.HandlerFunc(videos.List)))
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users     UserStore
	Videos    VideoStore
	Tokens    TokenManager
	Passwords PasswordHasher
}
