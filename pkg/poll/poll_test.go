package poll

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitSucceedsImmediately(t *testing.T) {
	attempts := 0
	policy := Policy{Interval: time.Millisecond, Timeout: time.Second}

	err := policy.Wait(func() (bool, error) {
		attempts++
		return true, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestWaitRetriesUntilTrue(t *testing.T) {
	attempts := 0
	policy := Policy{Interval: time.Millisecond, Timeout: time.Second}

	err := policy.Wait(func() (bool, error) {
		attempts++
		return attempts >= 3, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWaitDeadline(t *testing.T) {
	attempts := 0
	policy := Policy{Interval: time.Millisecond, Timeout: 20 * time.Millisecond}

	start := time.Now()
	err := policy.Wait(func() (bool, error) {
		attempts++
		return false, nil
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDeadline))
	assert.GreaterOrEqual(t, attempts, 2, "expected more than one attempt before the deadline")
	assert.Less(t, elapsed, time.Second, "wait must not run far past the deadline")
}

func TestWaitAbortsOnConditionError(t *testing.T) {
	boom := errors.New("boom")
	attempts := 0
	policy := Policy{Interval: time.Millisecond, Timeout: time.Second}

	err := policy.Wait(func() (bool, error) {
		attempts++
		return false, boom
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 1, attempts)
}

func TestPolicyValidate(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())
	assert.Error(t, Policy{Interval: 0, Timeout: time.Second}.Validate())
	assert.Error(t, Policy{Interval: time.Second, Timeout: time.Millisecond}.Validate())

	err := Policy{}.Wait(func() (bool, error) { return true, nil })
	assert.Error(t, err, "an unusable policy is rejected before the first attempt")
}
