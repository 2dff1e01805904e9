package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReportsJSONFieldNames(t *testing.T) {
	err := Validate(SubmitVerificationRequest{UserID: 1, Phone: "+7", Email: "not-an-email", DocumentType: "passport", DocumentNumber: "1"})
	var v *ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "SubmitVerificationRequest.email", v.Field)
	assert.Equal(t, "must be an email address", v.Message)

	err = Validate(&DecisionRequest{RequestID: 1, Action: "escalate"})
	require.ErrorAs(t, err, &v)
	assert.Contains(t, v.Message, "approve reject")
}

func TestValidateDivesIntoResponses(t *testing.T) {
	require.NoError(t, Validate(ListingsResponse{Products: []Listing{{ID: 1, Title: "Bike", Category: "Sports"}}}))

	err := Validate(ListingsResponse{Products: []Listing{{ID: 1, Title: "Bike", Category: "Sports", Rating: 9}}})
	assert.True(t, IsValidation(err))
}

func TestValidateIgnoresNonStructs(t *testing.T) {
	assert.NoError(t, Validate(map[string]int64{"pending": 1}))
	assert.NoError(t, Validate(nil))
}

func TestTypedErrorsUnwrap(t *testing.T) {
	err := fmt.Errorf("decide: %w", &ConflictError{Resource: "verification request", ID: 3, Message: "request is already approved"})
	assert.True(t, IsConflict(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, "decide: verification request 3 conflict: request is already approved", err.Error())

	assert.True(t, IsNotFound(&NotFoundError{Resource: "user", ID: 9}))
	assert.Equal(t, "user 9 not found", (&NotFoundError{Resource: "user", ID: 9}).Error())
	assert.False(t, IsValidation(errors.New("plain")))
	assert.Equal(t, "price: must be a number", Invalid("price", "must be a %s", "number").Error())
}

func TestDecisionNotification(t *testing.T) {
	approved := DecisionNotification(7, 3, StatusApproved, "ignored")
	assert.Equal(t, NotificationVerificationApproved, approved.Type)
	assert.Equal(t, uint(7), approved.UserID)
	assert.Equal(t, "verification:3:approved", approved.DedupeKey)
	assert.NotContains(t, approved.Message, "ignored")
	require.NoError(t, Validate(approved))

	rejected := DecisionNotification(7, 3, StatusRejected, "photo is blurry")
	assert.Equal(t, NotificationVerificationRejected, rejected.Type)
	assert.Equal(t, "verification:3:rejected", rejected.DedupeKey)
	assert.Contains(t, rejected.Message, "photo is blurry")
}
