package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfassist/backend/internal/domain"
)

func TestRedisConfigFromURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    RedisConfig
		wantErr bool
	}{
		{
			name: "bare address",
			raw:  "localhost:6379",
			want: RedisConfig{Addr: "localhost:6379"},
		},
		{
			name: "url with password and db",
			raw:  "redis://:secret@cache.internal:6380/2",
			want: RedisConfig{Addr: "cache.internal:6380", Password: "secret", DB: 2},
		},
		{
			name:    "unsupported scheme",
			raw:     "http://localhost:6379",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RedisConfigFromURL(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
