package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCargo(t *testing.T) {
	tests := []struct {
		name    string
		cargo   int
		wantErr bool
	}{
		{name: "negative cargo rejected", cargo: -1, wantErr: true},
		{name: "zero cargo allowed", cargo: 0, wantErr: false},
		{name: "positive cargo allowed", cargo: 7, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCargo(tt.cargo)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, "cargo", validationErr.Field)
		})
	}
}

func TestValidateSeat(t *testing.T) {
	tests := []struct {
		name    string
		seat    int
		wantErr bool
	}{
		{name: "zero seat rejected", seat: 0, wantErr: true},
		{name: "negative seat rejected", seat: -3, wantErr: true},
		{name: "first seat allowed", seat: 1, wantErr: false},
		{name: "large seat allowed", seat: 500, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSeat(tt.seat)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, "seat", validationErr.Field)
		})
	}
}

func TestValidateTicketSpec_ReportsCargoFirst(t *testing.T) {
	// Both fields are invalid; cargo is checked first so its error
	// decides what the caller sees.
	err := ValidateTicketSpec(TicketSpec{Cargo: -1, Seat: 0, JourneyID: 1})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "cargo", validationErr.Field)
}

func TestValidateTicketSpec_Valid(t *testing.T) {
	assert.NoError(t, ValidateTicketSpec(TicketSpec{Cargo: 0, Seat: 1, JourneyID: 1}))
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Field: "cargo", Message: "cargo must be a non-negative integer"}
	assert.Equal(t, "cargo: cargo must be a non-negative integer", err.Error())
}

func TestSeatTakenError(t *testing.T) {
	err := &SeatTakenError{JourneyID: 3, Seat: 7}

	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.Contains(t, err.Error(), "seat 7")
	assert.Contains(t, err.Error(), "journey 3")
}
