package utils

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

func TestIsoDateTag(t *testing.T) {
	RegisterValidators()

	type form struct {
		Day string `binding:"omitempty,isodate"`
	}
	assert.NoError(t, binding.Validator.ValidateStruct(&form{Day: "2024-02-29"}))
	assert.NoError(t, binding.Validator.ValidateStruct(&form{Day: "2024-02-29T10:00:00Z"}))
	assert.NoError(t, binding.Validator.ValidateStruct(&form{}))
	assert.Error(t, binding.Validator.ValidateStruct(&form{Day: "29-02-2024"}))
}
