// Package pairs は通貨ペア識別子の正規化とホワイトリスト検証を提供します。
package pairs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPair はホワイトリスト外の通貨ペアを表すセンチネルエラーです。
var ErrInvalidPair = errors.New("invalid currency pair")

// DefaultAllowed はサポート対象の通貨ペア一覧です（メジャー7 + マイナー15）。
var DefaultAllowed = []string{
	// majors
	"EURUSD", "GBPUSD", "USDJPY", "USDCHF", "AUDUSD", "USDCAD", "NZDUSD",
	// minors
	"EURGBP", "EURJPY", "EURCHF", "EURAUD", "EURCAD", "EURNZD",
	"GBPJPY", "GBPCHF", "GBPAUD", "GBPCAD", "GBPNZD",
	"AUDJPY", "AUDCAD", "AUDNZD", "CADJPY",
}

// InvalidPairError は拒否された値と許可されたペア一覧を保持します。
type InvalidPairError struct {
	Value   string
	Allowed []string
}

func (e *InvalidPairError) Error() string {
	return fmt.Sprintf("pair %q is not supported (allowed: %s)", e.Value, strings.Join(e.Allowed, ", "))
}

// Unwrap により errors.Is(err, ErrInvalidPair) での判定を可能にします。
func (e *InvalidPairError) Unwrap() error {
	return ErrInvalidPair
}

// Validator は固定ホワイトリストに対して通貨ペアを検証します。
type Validator struct {
	allowed []string
	set     map[string]struct{}
}

// NewValidator は指定されたホワイトリストでValidatorを生成します。
// allowed が空の場合は DefaultAllowed を使用します。
func NewValidator(allowed []string) *Validator {
	if len(allowed) == 0 {
		allowed = DefaultAllowed
	}
	set := make(map[string]struct{}, len(allowed))
	normalized := make([]string, 0, len(allowed))
	for _, p := range allowed {
		u := strings.ToUpper(strings.TrimSpace(p))
		if u == "" {
			continue
		}
		if _, ok := set[u]; ok {
			continue
		}
		set[u] = struct{}{}
		normalized = append(normalized, u)
	}
	return &Validator{allowed: normalized, set: set}
}

// Validate は前後の空白を除去し大文字化した上で、ホワイトリストに
// 含まれるペアのみを返します。検証後のペアは常に大文字6文字です。
func (v *Validator) Validate(input string) (string, error) {
	pair := strings.ToUpper(strings.TrimSpace(input))
	if _, ok := v.set[pair]; !ok {
		return "", &InvalidPairError{Value: input, Allowed: v.Allowed()}
	}
	return pair, nil
}

// ValidateAll は各要素にValidateを適用します。最初の不正な要素で
// 即座に失敗し、部分的な結果は返しません。
func (v *Validator) ValidateAll(inputs []string) ([]string, error) {
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		p, err := v.Validate(in)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Allowed はホワイトリストのコピーを返します。
func (v *Validator) Allowed() []string {
	out := make([]string, len(v.allowed))
	copy(out, v.allowed)
	return out
}
