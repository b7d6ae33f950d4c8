package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "clipchat/openrouter/api_key"

type recordedCall struct {
	stdin string
	args  []string
}

func scriptedRun(t *testing.T, calls *[]recordedCall, stdout, stderr string, err error) runFunc {
	t.Helper()

	return func(_ context.Context, stdin string, args ...string) (string, string, error) {
		*calls = append(*calls, recordedCall{stdin: stdin, args: args})
		return stdout, stderr, err
	}
}

func TestPutInsertsMultilineForced(t *testing.T) {
	t.Parallel()

	var calls []recordedCall
	store := &Store{run: scriptedRun(t, &calls, "", "", nil)}

	require.NoError(t, store.Put(context.Background(), testKey, "sk-or-v1-secret"))

	require.Len(t, calls, 1)
	assert.Equal(t, []string{"insert", "-m", "-f", testKey}, calls[0].args)
	assert.Equal(t, "sk-or-v1-secret\n", calls[0].stdin)
}

func TestGetTrimsTrailingNewline(t *testing.T) {
	t.Parallel()

	var calls []recordedCall
	store := &Store{run: scriptedRun(t, &calls, "sk-or-v1-secret\r\n", "", nil)}

	value, err := store.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, "sk-or-v1-secret", value)

	require.Len(t, calls, 1)
	assert.Equal(t, []string{"show", testKey}, calls[0].args)
}

func TestDeleteForcesRemoval(t *testing.T) {
	t.Parallel()

	var calls []recordedCall
	store := &Store{run: scriptedRun(t, &calls, "", "", nil)}

	require.NoError(t, store.Delete(context.Background(), testKey))

	require.Len(t, calls, 1)
	assert.Equal(t, []string{"rm", "-f", testKey}, calls[0].args)
}

func TestErrorsCarryStderrAndWrapCause(t *testing.T) {
	t.Parallel()

	var calls []recordedCall
	cause := errors.New("exit status 1")
	store := &Store{run: scriptedRun(t, &calls, "", "gpg: decryption failed", cause)}

	_, err := store.Get(context.Background(), testKey)
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "gpg: decryption failed")
	assert.Contains(t, err.Error(), testKey)
}

func TestMissingPassBinaryIsUnavailable(t *testing.T) {
	t.Parallel()

	var calls []recordedCall
	store := &Store{run: scriptedRun(t, &calls, "", "", ErrUnavailable)}

	_, err := store.Get(context.Background(), testKey)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestOperationsRejectEmptyKey(t *testing.T) {
	t.Parallel()

	var calls []recordedCall
	store := &Store{run: scriptedRun(t, &calls, "", "", nil)}

	for _, key := range []string{"", "   "} {
		require.Error(t, store.Put(context.Background(), key, "v"), "key %q", key)
		_, err := store.Get(context.Background(), key)
		require.Error(t, err, "key %q", key)
		require.Error(t, store.Delete(context.Background(), key), "key %q", key)
	}
	assert.Empty(t, calls)
}

func TestOperationsHonourCancelledContext(t *testing.T) {
	t.Parallel()

	var calls []recordedCall
	store := &Store{run: scriptedRun(t, &calls, "", "", nil)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, store.Put(ctx, testKey, "v"), context.Canceled)
	_, err := store.Get(ctx, testKey)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, store.Delete(ctx, testKey), context.Canceled)
	assert.Empty(t, calls)
}
