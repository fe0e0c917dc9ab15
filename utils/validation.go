package utils

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by request structs.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			ErrorLogger.Println("binding engine is not validator/v10, custom tags unavailable")
			return
		}
		if err := v.RegisterValidation("isodate", isoDate); err != nil {
			ErrorLogger.Printf("register isodate: %v", err)
		}
	})
}

func isoDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true // leave emptiness to "required"
	}
	_, err := ParseDate(s)
	return err == nil
}
