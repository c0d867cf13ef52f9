package models

type SignUp struct {
	Username string `json:"username" validate:"required,min=3,max=8"`
	Email    string `json:"email" validate:"required,email,lte=255"`
	Password string `json:"password" validate:"required,min=6,lte=255"`
}

type SignIn struct {
	Username string `json:"username" validate:"required,lte=255"`
	Password string `json:"password" validate:"required,lte=255"`
}
