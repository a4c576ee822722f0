package validator

import (
	"regexp"
	"time"

	"hradmin/domain"
	"hradmin/pkg/utils"

	"github.com/go-playground/validator/v10"
)

const codeRegexString = `^[a-z][a-z0-9_]*$`

var codeRegex = regexp.MustCompile(codeRegexString)

// DefaultRegion is used for phone numbers without a country prefix.
const DefaultRegion = "US"

type Registration struct {
	Tag  string
	Func validator.Func
}

var defaultRegistrations = [...]Registration{
	{
		Tag:  PhoneNumber,
		Func: IsValidPhoneNumber,
	},
	{
		Tag:  Code,
		Func: IsValidCode,
	},
	{
		Tag:  HireDate,
		Func: IsValidHireDate,
	},
	{
		Tag:  NotEmpty,
		Func: IsNotEmpty,
	},
}

func IsValidPhoneNumber(fl validator.FieldLevel) bool {
	input := fl.Field().String()
	if input == "" {
		// If it's optional and empty, consider it valid
		return true
	}
	return utils.IsValidPhone(input, DefaultRegion)
}

// IsValidCode accepts lowercase snake_case identifiers such as
// "read_user" or "hr_manager".
func IsValidCode(fl validator.FieldLevel) bool {
	return codeRegex.MatchString(fl.Field().String())
}

func IsValidHireDate(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(domain.Date)
	if !ok {
		return false
	}

	hireDate := time.Time(date)
	if hireDate.IsZero() {
		return false
	}

	// Hire dates more than a year out are almost certainly typos.
	return hireDate.Before(time.Now().AddDate(1, 0, 0))
}

func IsNotEmpty(fl validator.FieldLevel) bool {
	input := fl.Field().String()
	return len(input) > 0
}
