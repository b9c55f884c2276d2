package dto

// Data Transfer Objects for the signup / token-exchange flow

// SignupRequest: payload for requesting a confirmation code
type SignupRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email,max=254"`
}

// SignupResponse echoes the pair the code was issued for; the code itself
// only travels by email
type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest: payload for exchanging a confirmation code for an access token
type TokenRequest struct {
	Username         string `json:"username" binding:"required"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// TokenResponse: bearer access token with embedded expiry
type TokenResponse struct {
	Token string `json:"token"`
}
