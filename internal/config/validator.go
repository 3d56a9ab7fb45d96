package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("cachefile", isCacheFile); err != nil {
		return nil, nil, fmt.Errorf("failed to register cachefile validation: %w", err)
	}
	if err := validate.RegisterTranslation("cachefile", trans, func(ut ut.Translator) error {
		return ut.Add("cachefile", "{0} must be a file path, not a directory", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("cachefile", strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register cachefile translation: %w", err)
	}

	return validate, trans, nil
}

// isCacheFile accepts a path that does not exist yet or is an existing regular file.
func isCacheFile(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return true
	}
	if err != nil {
		return false
	}
	return !info.IsDir()
}
