package dto

import "time"

// TokenRequest asks for a demo access token for an existing account.
type TokenRequest struct {
	AccountID string `json:"accountID" binding:"required"`
}

// TokenResponse carries the issued tokens.
type TokenResponse struct {
	AccessToken           string    `json:"accessToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshToken          string    `json:"refreshToken"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}
