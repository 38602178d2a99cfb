package request

type RegisterRequest struct {
	Username       string `json:"username" validate:"required,min=3,max=50"`
	Password       string `json:"password" validate:"required,min=6,max=72"`
	FirstName      string `json:"first_name" validate:"required,max=100"`
	LastName       string `json:"last_name" validate:"required,max=100"`
	PassportNumber string `json:"passport_number" validate:"required,passport"`
	Phone          string `json:"phone" validate:"required,phone"`
	Email          string `json:"email" validate:"required,email,max=255"`
	Client         string `json:"-"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Client   string `json:"-"`
}
