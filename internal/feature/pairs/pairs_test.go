package pairs

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidator_Validate_AllWhitelistPairs は全ホワイトリストペアが
// 大文字・小文字・空白混じりの入力でも正規形で返ることを検証します。
func TestValidator_Validate_AllWhitelistPairs(t *testing.T) {
	t.Parallel()

	v := NewValidator(nil)

	for _, p := range DefaultAllowed {
		inputs := []string{
			p,
			strings.ToLower(p),
			"  " + p + "  ",
			strings.ToLower(p[:3]) + p[3:],
		}
		for _, in := range inputs {
			got, err := v.Validate(in)
			require.NoError(t, err, "input %q", in)
			assert.Equal(t, p, got)
		}
	}
}

func TestValidator_Validate_Rejections(t *testing.T) {
	t.Parallel()

	v := NewValidator(nil)

	tests := []struct {
		name  string
		input string
	}{
		{name: "unknown pair", input: "EURXXX"},
		{name: "empty string", input: ""},
		{name: "whitespace only", input: "   "},
		{name: "too short", input: "EUR"},
		{name: "crypto symbol", input: "BTCUSD"},
		{name: "separator form", input: "EUR/USD"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := v.Validate(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPair)

			// 拒否された値と許可一覧を保持していること
			var ipe *InvalidPairError
			require.True(t, errors.As(err, &ipe))
			assert.Equal(t, tt.input, ipe.Value)
			assert.Equal(t, DefaultAllowed, ipe.Allowed)
		})
	}
}

// TestValidator_ValidateAll_FailFast は最初の不正要素で失敗し、
// 部分結果を返さないことを検証します。
func TestValidator_ValidateAll_FailFast(t *testing.T) {
	t.Parallel()

	v := NewValidator(nil)

	got, err := v.ValidateAll([]string{"eurusd", "bogus", "gbpusd"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPair)
	assert.Nil(t, got)

	got, err = v.ValidateAll([]string{"eurusd", " gbpjpy "})
	require.NoError(t, err)
	assert.Equal(t, []string{"EURUSD", "GBPJPY"}, got)
}

func TestNewValidator_CustomWhitelist(t *testing.T) {
	t.Parallel()

	v := NewValidator([]string{"eurusd", " EURUSD", "usdjpy"})

	// 重複と空白は正規化される
	assert.Equal(t, []string{"EURUSD", "USDJPY"}, v.Allowed())

	_, err := v.Validate("GBPUSD")
	assert.ErrorIs(t, err, ErrInvalidPair)

	got, err := v.Validate("usdjpy")
	require.NoError(t, err)
	assert.Equal(t, "USDJPY", got)
}

func TestValidator_AllowedReturnsCopy(t *testing.T) {
	t.Parallel()

	v := NewValidator(nil)
	a := v.Allowed()
	a[0] = "MUTATED"

	assert.Equal(t, DefaultAllowed[0], v.Allowed()[0])
}
