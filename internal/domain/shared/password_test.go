package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordProblems(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		similarTo []string
		want      int
	}{
		{"strong", "c0rrect-horse", []string{"alice"}, 0},
		{"short", "ab1", nil, 1},
		{"common", "password", nil, 1},
		{"numeric and short", "1234", nil, 2},
		{"numeric and common", "12345678", nil, 2},
		{"same as username", "AliceAlice", []string{"alicealice"}, 1},
		{"empty", "", nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, PasswordProblems(tt.password, tt.similarTo...), tt.want)
		})
	}
}

func TestHashPassword(t *testing.T) {
	PasswordHashCost = bcrypt.MinCost

	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret-pass"))
}
