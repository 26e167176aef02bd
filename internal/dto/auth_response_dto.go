package dto

import "time"

// AuthResponse is returned after a successful login, registration or token refresh.
type AuthResponse struct {
	UserID               string    `json:"userID"`
	Name                 string    `json:"name"`
	AccessToken          string    `json:"accessToken"`
	AccessTokenExpiresAt time.Time `json:"accessTokenExpiresAt"`
}

// GoogleCodeExchangeRequest carries the authorization code from the OAuth redirect.
type GoogleCodeExchangeRequest struct {
	Code string `json:"code" binding:"required"`
}
