package request

// RegisterRequest is the request body for registering a user
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SubmitScoreRequest is the request body for recording a game result.
// Score is a pointer so a missing value can be told apart from zero.
type SubmitScoreRequest struct {
	Score    *int64 `json:"score"`
	Distance *int64 `json:"distance,omitempty"`
}
