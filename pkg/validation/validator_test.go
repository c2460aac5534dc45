package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type signupDTO struct {
	User     string `json:"user" validate:"required,handle"`
	Password string `json:"password" validate:"required,pwd"`
}

type searchDTO struct {
	Size int `form:"size" validate:"omitempty,min=1,max=100"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	register(v)
	return v
}

func TestToDetails_UsesTagNamesAndAliases(t *testing.T) {
	err := newValidator().Struct(signupDTO{User: "", Password: "short"})

	details := ToDetails(err)
	assert.Equal(t, "is required", details["user"])
	assert.Equal(t, "must be at least 8 characters long", details["password"])
}

func TestToDetails_FormTagsAndNumbers(t *testing.T) {
	err := newValidator().Struct(searchDTO{Size: 500})

	assert.Equal(t, map[string]string{"size": "must be at most 100"}, ToDetails(err))
}

func TestToDetails_InvalidJSON(t *testing.T) {
	var dst signupDTO
	err := json.Unmarshal([]byte(`{"user":`), &dst)

	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	assert.Nil(t, ToDetails(nil))
}
