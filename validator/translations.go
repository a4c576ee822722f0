package validator

import (
	"log"

	enLocale "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

func (v *validatorImpl) initTranslator() {
	// Create universal translator with supported locales
	en := enLocale.New()
	v.uni = ut.New(en, en)

	// Get default translator (English)
	trans, _ := v.uni.GetTranslator("en")
	v.translator = trans

	// Register default translations for English
	if err := en_translations.RegisterDefaultTranslations(v.validate, trans); err != nil {
		log.Printf("Failed to register English translations: %v", err)
	}
}

func (v *validatorImpl) registerCustomTranslations() {
	// Register English translations
	v.registerEnglishTranslations()
}

func (v *validatorImpl) registerEnglishTranslations() {
	trans, ok := v.uni.GetTranslator("en")
	if !ok {
		panic("Translator for 'en' not found")
	}

	translations := map[string]string{
		"phone_number": "{0} must be a valid phone number",
		"code":         "{0} must be a lowercase snake_case identifier",
		"hire_date":    "{0} must be a valid hire date",
		"not_empty":    "{0} cannot be empty",
	}

	for tag, message := range translations {
		err := v.validate.RegisterTranslation(tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(tag, message, true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, _ := ut.T(tag, fe.Field())
				return t
			},
		)
		if err != nil {
			log.Printf("Failed to register English translation for %s: %v", tag, err)
		}
	}
}
