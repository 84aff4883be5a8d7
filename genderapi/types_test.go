package genderapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestGender(t *testing.T) {
	tests := []struct {
		gender Gender
		known  bool
	}{
		{GenderMale, true},
		{GenderFemale, true},
		{Gender(""), false},
		{Gender("null"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.gender), func(t *testing.T) {
			assert.Equal(t, tt.known, tt.gender.Known())
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    bool
		wantErr bool
	}{
		{raw: `true`, want: true},
		{raw: `false`, want: false},
		{raw: `1`, want: true},
		{raw: `0`, want: false},
		{raw: `"true"`, want: true},
		{raw: `"false"`, want: false},
		{raw: `2`, wantErr: true},
		{raw: `"yes"`, wantErr: true},
		{raw: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseStatus(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeResultIgnoresUnknownFields(t *testing.T) {
	res, err := decodeResult([]byte(`{"status": false, "errno": 93, "errmsg": "no credits", "request_id": "abc", "details": {"a": 1}}`))
	require.NoError(t, err)

	errRes, ok := res.(*ErrorResult)
	require.True(t, ok)
	assert.Equal(t, &ErrorResult{Errno: 93, Errmsg: "no credits"}, errRes)
}

func TestDecodeResultCoercesNumbers(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Result
	}{
		{
			name: "string errno stays a service error",
			body: `{"status": false, "errno": "50", "errmsg": "invalid key"}`,
			want: &ErrorResult{Errno: 50, Errmsg: "invalid key"},
		},
		{
			name: "float errno",
			body: `{"status": false, "errno": 93.0, "errmsg": "no credits"}`,
			want: &ErrorResult{Errno: 93, Errmsg: "no credits"},
		},
		{
			name: "floats and numeric strings",
			body: `{"status": true, "gender": "male", "probability": 97.0, "total_names": "1200", "used_credits": " 1 ", "remaining_credits": 9998.0, "expires": 1767225600.0}`,
			want: &SuccessResult{
				Gender:           GenderMale,
				Probability:      intPtr(97),
				TotalNames:       intPtr(1200),
				UsedCredits:      intPtr(1),
				RemainingCredits: intPtr(9998),
				Expires:          int64Ptr(1767225600),
			},
		},
		{
			name: "fraction is truncated",
			body: `{"status": true, "probability": 97.6}`,
			want: &SuccessResult{Probability: intPtr(97)},
		},
		{
			name: "null and empty string are absent",
			body: `{"status": true, "probability": null, "total_names": ""}`,
			want: &SuccessResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := decodeResult([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, res)
		})
	}
}

func TestDecodeResultRejectsNonNumeric(t *testing.T) {
	for _, body := range []string{
		`{"status": true, "probability": "high"}`,
		`{"status": true, "expires": true}`,
		`{"status": false, "errno": {"code": 50}}`,
	} {
		t.Run(body, func(t *testing.T) {
			_, err := decodeResult([]byte(body))
			assert.ErrorIs(t, err, ErrInvalidJSON)
		})
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestResultMarshalJSON(t *testing.T) {
	probability := 97

	data, err := json.Marshal(&SuccessResult{Name: "Michael", Gender: GenderMale, Probability: &probability})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status": true, "name": "Michael", "gender": "male", "probability": 97}`, string(data))

	data, err = json.Marshal(&ErrorResult{Errno: 50, Errmsg: "invalid key"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status": false, "errno": 50, "errmsg": "invalid key"}`, string(data))

	// Marshalled results decode back to the same variant
	res, err := decodeResult(data)
	require.NoError(t, err)
	assert.False(t, res.OK())
}

func TestErrorTypes(t *testing.T) {
	t.Run("argument error", func(t *testing.T) {
		err := fmt.Errorf("lookup: %w", requiredArgument("name"))
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.NotErrorIs(t, err, ErrMissingAPIKey)
		assert.EqualError(t, requiredArgument("name"), "invalid argument name: name parameter is required")
	})

	t.Run("server error", func(t *testing.T) {
		err := &ServerError{StatusCode: 503}
		assert.ErrorIs(t, err, ErrServer)
		assert.EqualError(t, err, "genderapi server error (503)")
		assert.False(t, err.IsTimeout())
	})

	t.Run("transport error", func(t *testing.T) {
		cause := errors.New("dial tcp: connection refused")
		err := &TransportError{Op: "POST", URL: "http://localhost/api", Err: cause}
		assert.ErrorIs(t, err, cause)
		assert.EqualError(t, err, "genderapi POST http://localhost/api: dial tcp: connection refused")
	})

	t.Run("protocol error", func(t *testing.T) {
		err := &ProtocolError{StatusCode: 200, Err: ErrMissingStatus}
		assert.ErrorIs(t, err, ErrMissingStatus)
		assert.NotErrorIs(t, err, ErrInvalidJSON)
		assert.EqualError(t, err, "invalid API response (status 200): missing status field")
	})

	t.Run("service error without message", func(t *testing.T) {
		err := (&ErrorResult{Errno: 7}).Err()
		assert.EqualError(t, err, "genderapi error 7")
	})
}
