package signpost_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/signpost"
)

func TestKeyString(t *testing.T) {
	require.Equal(t, "signpost context key: RequestIDKey", signpost.RequestIDKey.String())
	require.Equal(t, "signpost context key: ", signpost.Key("").String())
}
