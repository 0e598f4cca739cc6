package models

// LoginCredentials is the request body for the sign-in and sign-up
// REST endpoints.
type LoginCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the session data returned after a successful sign-in
// or sign-up. The token authenticates both further REST calls and the
// websocket connection.
type LoginResult struct {
	JSONWebToken string `json:"jsonWebToken"`
}
