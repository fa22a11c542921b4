package api

// Request DTOs

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Response DTOs

type SignInResponse struct {
	AccessToken string `json:"access_token"`
}
