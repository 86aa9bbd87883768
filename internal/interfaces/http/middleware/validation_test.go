package middleware

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizan/backend/internal/interfaces/http/dto"
)

type sampleRequest struct {
	Kind   string  `json:"kind" binding:"required,oneof=INVOICE PURCHASE_ORDER"`
	Amount float64 `json:"amount" binding:"gt=0"`
}

func TestSetupValidatorUsesJSONFieldNames(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	err := v.Struct(sampleRequest{Kind: "", Amount: -1})
	require.Error(t, err)

	verrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)
	require.Len(t, verrs, 2)
	assert.Equal(t, "kind", verrs[0].Field())
	assert.Equal(t, "amount", verrs[1].Field())
}

func TestFormatValidationErrors(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	err := v.Struct(sampleRequest{Kind: "QUOTE", Amount: 0})
	require.Error(t, err)

	resp := FormatValidationErrors(err, "req-123")
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "kind", resp.Error.Details[0].Field)
	assert.Equal(t, "Must be one of: INVOICE PURCHASE_ORDER", resp.Error.Details[0].Message)
	assert.Equal(t, "Must be greater than 0", resp.Error.Details[1].Message)
}

func TestFormatValidationErrorsNonValidationError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-456")
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
}
