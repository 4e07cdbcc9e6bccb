package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinPublicURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		key  string
		want string
	}{
		{"host only", "https://cdn.example.com", "events/t1/a.json", "https://cdn.example.com/events/t1/a.json"},
		{"trailing slash", "https://cdn.example.com/league/", "events/a.json", "https://cdn.example.com/league/events/a.json"},
		{"path without slash", "https://cdn.example.com/league", "events/a.json", "https://cdn.example.com/league/events/a.json"},
		{"leading slash key", "https://cdn.example.com/league/", "/events/a.json", "https://cdn.example.com/league/events/a.json"},
		{"empty key", "https://cdn.example.com", "", ""},
		{"empty base", "", "events/a.json", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := joinPublicURL(tt.base, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewCloudflareR2StoreRequiresAllFields(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := NewCloudflareR2Store(context.Background(), CloudflareR2Config{AccountID: "acc", BucketName: "b"}, logger)
	assert.ErrorIs(t, err, ErrInvalidR2Config)

	assert.False(t, CloudflareR2Config{}.Enabled())
	assert.True(t, CloudflareR2Config{BucketName: "b"}.Enabled())
}
