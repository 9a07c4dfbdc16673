//go:build unit

package errs_test

import (
	"context"
	"errors"
	"testing"

	"checkout-core/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	testCases := []struct {
		name string
		err  error
		want errs.Code
	}{
		{name: "nil", err: nil, want: ""},
		{name: "coded", err: errs.E(errs.CodeCartEmpty, "cart has no lines"), want: errs.CodeCartEmpty},
		{name: "wrapped coded", err: errs.Wrap(errs.E(errs.CodeConflictBusy, "busy"), "acquire"), want: errs.CodeConflictBusy},
		{name: "raw", err: errors.New("boom"), want: errs.CodeUnknown},
		{name: "context canceled", err: errs.FromContext(canceled), want: errs.CodeCanceled},
		{name: "bare context error", err: context.DeadlineExceeded, want: errs.CodeCanceled},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errs.CodeOf(tc.err))
		})
	}
}

func TestWithCode_KeepsExistingCode(t *testing.T) {
	inner := errs.E(errs.CodeNotFound, "cart not found")

	assert.Equal(t, errs.CodeNotFound, errs.CodeOf(errs.WithCode(inner, errs.CodePersistenceFailed, "load")))
	assert.Equal(t, errs.CodeProviderFailed, errs.CodeOf(errs.Recode(inner, errs.CodeProviderFailed, "provider")))
	assert.Nil(t, errs.WithCode(nil, errs.CodeUnknown, "x"))
}

func TestError_HidesCause(t *testing.T) {
	err := errs.Recode(errors.New("card_declined: insufficient funds"), errs.CodeProviderFailed, "payment provider failed")

	assert.Equal(t, "ProviderFailed: payment provider failed", err.Error())
	assert.ErrorIs(t, err, errs.ErrProviderFailed)
	assert.NotErrorIs(t, err, errs.ErrPersistenceFailed)
	assert.Equal(t, "payment provider failed", errs.MessageOf(err))
}

func TestRetryable(t *testing.T) {
	assert.True(t, errs.Retryable(errs.E(errs.CodeConflictBusy, "operation in progress")))
	assert.False(t, errs.Retryable(errs.E(errs.CodeConflictKeyReused, "idempotency key reused with different payload")))
}
