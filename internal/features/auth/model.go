package auth

// TokenRequest asks for an API token after the client has signed in with the identity provider.
type TokenRequest struct {
	Email   string `json:"email" binding:"required,email" example:"rina@example.com"`
	Name    string `json:"name" example:"Rina Akter"`
	IDToken string `json:"idToken" example:"eyJhbGciOiJSUzI1NiIs..."`
}

type TokenResponse struct {
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
	ExpiresIn int64  `json:"expiresIn" example:"3600"`
}
