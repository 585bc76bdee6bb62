package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsLikelyRemoteHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{host: "", want: false},
		{host: "localhost", want: false},
		{host: "127.0.0.1", want: false},
		{host: "::1", want: false},
		{host: "db.internal.local", want: false},
		{host: "10.1.2.3", want: true},
		{host: "db.prod.example.com", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			require.Equal(t, tt.want, isLikelyRemoteHost(tt.host))
		})
	}
}

func TestParseClearSessionsFlags(t *testing.T) {
	t.Run("requires a target", func(t *testing.T) {
		_, err := parseClearSessionsFlags(nil)
		require.Error(t, err)
	})

	t.Run("email and all are exclusive", func(t *testing.T) {
		_, err := parseClearSessionsFlags([]string{"--email", "a@b.com", "--all"})
		require.Error(t, err)
	})

	t.Run("email target", func(t *testing.T) {
		opts, err := parseClearSessionsFlags([]string{"--email", "a@b.com", "--yes"})
		require.NoError(t, err)
		require.Equal(t, "a@b.com", opts.Email)
		require.True(t, opts.Yes)
		require.False(t, opts.All)
	})
}

func TestDBResetConfirmOptionsRemoteHostForcesPrompt(t *testing.T) {
	opts := dbResetConfirmOptions{yes: true, remoteHost: "db.prod.example.com"}
	require.False(t, opts.IsYes())

	local := dbResetConfirmOptions{yes: true}
	require.True(t, local.IsYes())
}
