package dto

import "time"

// ── admin DTOs ──

// AdminLoginRequest shared access phrase
type AdminLoginRequest struct {
	AccessPhrase string `json:"access_phrase" binding:"required,max=256"`
}

// AdminLoginResponse session token
type AdminLoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	ExpiresIn int    `json:"expires_in"` // seconds
}

// AdminSession the authenticated admin session of the current request.
// Built per request from the session token; never stored globally.
type AdminSession struct {
	ID        string
	ExpiresAt time.Time
}

// ResetResponse result of a two-step destructive action
type ResetResponse struct {
	Target    string `json:"target"`
	Confirmed bool   `json:"confirmed"`
	Deleted   int64  `json:"deleted"`
}
