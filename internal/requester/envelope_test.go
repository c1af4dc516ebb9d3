package requester

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userPayload struct {
	Name string `json:"name"`
}

func TestUnwrapFlat(t *testing.T) {
	t.Run("success with flattened payload", func(t *testing.T) {
		got, err := UnwrapFlat[userPayload]([]byte(`{"success":true,"name":"alice"}`))
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Name)
	})

	t.Run("failure carries message regardless of payload", func(t *testing.T) {
		_, err := UnwrapFlat[userPayload]([]byte(`{"success":false,"message":"x"}`))
		require.Error(t, err)
		failure, ok := AsFailure(err)
		require.True(t, ok)
		assert.Equal(t, KindUpstream, failure.Kind)
		assert.Equal(t, "x", failure.Message)
	})

	t.Run("failure without message still fails", func(t *testing.T) {
		_, err := UnwrapFlat[userPayload]([]byte(`{"success":false}`))
		require.Error(t, err)
		failure, ok := AsFailure(err)
		require.True(t, ok)
		assert.Equal(t, KindUpstream, failure.Kind)
		assert.NotEmpty(t, failure.Message)
	})

	t.Run("missing success indicator is a decode failure", func(t *testing.T) {
		_, err := UnwrapFlat[userPayload]([]byte(`{"name":"alice"}`))
		require.Error(t, err)
		failure, ok := AsFailure(err)
		require.True(t, ok)
		assert.Equal(t, KindDecode, failure.Kind)
	})

	t.Run("non-json body is a decode failure", func(t *testing.T) {
		_, err := UnwrapFlat[userPayload]([]byte(`<html>oops</html>`))
		require.Error(t, err)
		failure, ok := AsFailure(err)
		require.True(t, ok)
		assert.Equal(t, KindDecode, failure.Kind)
		assert.Contains(t, failure.Body, "<html>")
	})
}

func TestUnwrapKey(t *testing.T) {
	t.Run("payload nested under named key", func(t *testing.T) {
		got, err := UnwrapKey[userPayload]([]byte(`{"success":true,"niche":{"name":"gadgets"}}`), "niche")
		require.NoError(t, err)
		assert.Equal(t, "gadgets", got.Name)
	})

	t.Run("missing key is missing data, not a silently-zero value", func(t *testing.T) {
		_, err := UnwrapKey[userPayload]([]byte(`{"success":true}`), "niche")
		require.Error(t, err)
		failure, ok := AsFailure(err)
		require.True(t, ok)
		assert.Equal(t, KindMissingData, failure.Kind)
		assert.Contains(t, failure.Message, "niche")
	})

	t.Run("null key is missing data", func(t *testing.T) {
		_, err := UnwrapKey[userPayload]([]byte(`{"success":true,"niche":null}`), "niche")
		require.Error(t, err)
		failure, ok := AsFailure(err)
		require.True(t, ok)
		assert.Equal(t, KindMissingData, failure.Kind)
	})

	t.Run("failure envelope wins over key extraction", func(t *testing.T) {
		_, err := UnwrapKey[userPayload]([]byte(`{"success":false,"message":"x","niche":{"name":"n"}}`), "niche")
		require.Error(t, err)
		failure, ok := AsFailure(err)
		require.True(t, ok)
		assert.Equal(t, KindUpstream, failure.Kind)
		assert.Equal(t, "x", failure.Message)
	})
}
