package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/auth/service"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/clock"
	commonerrors "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/errors"
)

func TestInputValidator_PastDate(t *testing.T) {
	var v *service.InputValidator
	require.NotPanics(t, func() {
		v = service.NewInputValidator(clock.NewMockClock(testNow))
	})

	tests := []struct {
		name    string
		dob     time.Time
		wantErr bool
	}{
		{name: "past date", dob: testNow.AddDate(-30, 0, 0)},
		{name: "now is not past", dob: testNow, wantErr: true},
		{name: "future date", dob: testNow.AddDate(0, 0, 1), wantErr: true},
		{name: "zero date", dob: time.Time{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRegisterInput()
			input.DateOfBirth = tt.dob

			err := v.Validate(input)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, service.ErrValidation)
			domainErr, ok := commonerrors.AsDomainError(err)
			require.True(t, ok)
			assert.Contains(t, domainErr.Details(), "dateOfBirth")
		})
	}
}
