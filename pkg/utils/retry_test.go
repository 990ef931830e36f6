package utils_test

import (
	"errors"
	"testing"
	"time"

	"github.com/smokefree-kz/backend/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryOptions() utils.RetryOptions {
	return utils.RetryOptions{
		MaxElapsedTime:  time.Second,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		MaxRetries:      3,
	}
}

func TestWithRetryEventualSuccess(t *testing.T) {
	t.Parallel()

	attempts := 0

	result, err := utils.WithRetry(t.Context(), func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transient")
		}

		return "ok", nil
	}, fastRetryOptions())

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryExhaustion(t *testing.T) {
	t.Parallel()

	attempts := 0
	wantErr := errors.New("still failing")

	_, err := utils.WithRetry(t.Context(), func() (string, error) {
		attempts++
		return "", wantErr
	}, fastRetryOptions())

	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, 4, attempts) // initial attempt plus three retries
}
