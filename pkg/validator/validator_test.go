package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutForm struct {
	Name  string `validate:"required,max=200"`
	Email string `validate:"required,email"`
	Phone string `validate:"max=50"`
}

func TestValidate_Valid(t *testing.T) {
	form := checkoutForm{Name: "Sara", Email: "sara@example.com"}
	assert.NoError(t, Validate(form))
}

func TestValidate_MissingRequired(t *testing.T) {
	form := checkoutForm{Email: "sara@example.com"}

	err := Validate(form)

	require.Error(t, err)
	valErr, ok := err.(*ValidationError)
	require.True(t, ok)

	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["Name"])
	assert.Contains(t, err.Error(), "Name")
}

func TestValidate_BadEmail(t *testing.T) {
	form := checkoutForm{Name: "Sara", Email: "not-an-email"}

	err := Validate(form)

	require.Error(t, err)
	valErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "must be a valid email address", valErr.Fields()["Email"])
}

func TestValidate_Oneof(t *testing.T) {
	type cmd struct {
		Action string `validate:"required,oneof=add remove increment decrement"`
	}

	assert.NoError(t, Validate(cmd{Action: "add"}))

	err := Validate(cmd{Action: "explode"})
	require.Error(t, err)
	valErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, valErr.Fields()["Action"], "must be one of")
}

func TestValidate_Max(t *testing.T) {
	long := make([]byte, 51)
	for i := range long {
		long[i] = 'x'
	}

	err := Validate(checkoutForm{Name: "Sara", Email: "s@e.com", Phone: string(long)})

	require.Error(t, err)
	valErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, valErr.Fields()["Phone"], "at most 50")
}

func TestDecodeAndValidate_Success(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"Name":"Sara","Email":"sara@example.com"}`))

	var form checkoutForm
	require.NoError(t, DecodeAndValidate(req, &form))
	assert.Equal(t, "Sara", form.Name)
}

func TestDecodeAndValidate_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{not json`))

	var form checkoutForm
	err := DecodeAndValidate(req, &form)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}

func TestDecodeAndValidate_ValidationFails(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"Name":"Sara","Email":"nope"}`))

	var form checkoutForm
	err := DecodeAndValidate(req, &form)

	require.Error(t, err)
	valErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "must be a valid email address", valErr.Fields()["Email"])
}
