package validator

const (
	Email       = "email"
	Min         = "min"
	Max         = "max"
	Required    = "required"
	PhoneNumber = "phone_number"
	Code        = "code"
	HireDate    = "hire_date"
	NotEmpty    = "not_empty"
)
