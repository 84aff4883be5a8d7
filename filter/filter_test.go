package filter

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/genderapi/genderapi"
)

func intPtr(v int) *int { return &v }

func TestCompile(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		wantErr    error
	}{
		{
			name:       "valid expression",
			expression: `gender == "female" && probability >= 90`,
		},
		{
			name:       "helpers",
			expression: `containsFold(name, "mar") || q startsWith "j" || upper(country) == "US"`,
		},
		{
			name:       "empty expression",
			expression: "  ",
			wantErr:    ErrEmptyExpression,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, f)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, f.Expression())
		})
	}
}

func TestCompileErrors(t *testing.T) {
	for _, expression := range []string{
		`gender == "unclosed`,
		`probability + 1`,
		`unknownVariable > 3`,
	} {
		t.Run(expression, func(t *testing.T) {
			_, err := Compile(expression)
			var compErr *CompilationError
			require.True(t, errors.As(err, &compErr), "expected CompilationError, got %v", err)
			assert.Equal(t, expression, compErr.Expression)
		})
	}
}

func TestMatch(t *testing.T) {
	michael := &genderapi.SuccessResult{
		Name:        "Michael",
		Gender:      genderapi.GenderMale,
		Country:     "US",
		Probability: intPtr(97),
		Query:       "michael",
	}
	unsure := &genderapi.SuccessResult{
		Name:  "Xyz",
		Query: "xyz",
	}
	invalidKey := &genderapi.ErrorResult{Errno: 50, Errmsg: "invalid key"}

	tests := []struct {
		expression string
		result     genderapi.Result
		want       bool
	}{
		{`status`, michael, true},
		{`status`, invalidKey, false},
		{`gender == "male" && probability >= 90`, michael, true},
		{`gender == "male" && probability > 97`, michael, false},
		{`known`, unsure, false},
		{`probability == 0`, unsure, true},
		{`!status && errno == 50`, invalidKey, true},
		{`containsFold(errmsg, "KEY")`, invalidKey, true},
		{`errmsg contains "KEY"`, invalidKey, false},
		{`hasPrefixFold(q, "MIC") && lower(country) == "us"`, michael, true},
		{`hasSuffixFold(name, "AEL") && country in ["US", "CA"]`, michael, true},
		{`remaining_credits > 0`, michael, false},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			f, err := Compile(tt.expression)
			require.NoError(t, err)

			got, err := f.Match(tt.result)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchNilResult(t *testing.T) {
	f, err := Compile(`status`)
	require.NoError(t, err)

	_, err = f.Match(nil)
	var evalErr *EvaluationError
	assert.ErrorAs(t, err, &evalErr)
}

func TestMatchConcurrent(t *testing.T) {
	f, err := Compile(`probability >= 50`)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := f.Match(&genderapi.SuccessResult{Probability: intPtr(i * 2)})
			assert.NoError(t, err)
			assert.Equal(t, i*2 >= 50, ok)
		}()
	}
	wg.Wait()
}
