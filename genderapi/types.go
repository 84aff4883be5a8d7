package genderapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// NameQuery is a lookup by personal name
type NameQuery struct {
	Name string `json:"name"`
	// Country is an optional ISO 3166-1 alpha-2 code. Empty means the
	// service infers it and the field is left out of the request.
	Country string `json:"country,omitempty"`
	// AskToAI queries the AI model directly. It costs extra credits.
	AskToAI bool `json:"askToAI"`
	// ForceToGenderize analyses nicknames, emojis and non-standard names.
	ForceToGenderize bool `json:"forceToGenderize"`
}

// EmailQuery is a lookup by email address
type EmailQuery struct {
	Email   string `json:"email"`
	Country string `json:"country,omitempty"`
	AskToAI bool   `json:"askToAI"`
}

// UsernameQuery is a lookup by social media username
type UsernameQuery struct {
	Username         string `json:"username"`
	Country          string `json:"country,omitempty"`
	AskToAI          bool   `json:"askToAI"`
	ForceToGenderize bool   `json:"forceToGenderize"`
}

// Gender is the gender inferred by the service
type Gender string

const (
	// GenderMale indicates a male result
	GenderMale Gender = "male"
	// GenderFemale indicates a female result
	GenderFemale Gender = "female"
)

// Known reports whether the service settled on male or female
func (g Gender) Known() bool {
	return g == GenderMale || g == GenderFemale
}

// Result is the outcome of a lookup. It is either *SuccessResult or
// *ErrorResult; use a type switch to tell them apart.
type Result interface {
	// OK reports the status field of the response
	OK() bool
	isResult()
}

// SuccessResult is returned when the service reports status true.
// Which fields are populated depends on the lookup kind.
type SuccessResult struct {
	Name             string `json:"name,omitempty"`
	Gender           Gender `json:"gender,omitempty"`
	Country          string `json:"country,omitempty"`
	TotalNames       *int   `json:"total_names,omitempty"`
	Probability      *int   `json:"probability,omitempty"`
	UsedCredits      *int   `json:"used_credits,omitempty"`
	RemainingCredits *int   `json:"remaining_credits,omitempty"`
	Expires          *int64 `json:"expires,omitempty"`
	Query            string `json:"q,omitempty"`
	Duration         string `json:"duration,omitempty"`
}

// OK always returns true
func (r *SuccessResult) OK() bool { return true }

func (*SuccessResult) isResult() {}

// ProbabilityOrZero returns the probability, or 0 when the service omitted it
func (r *SuccessResult) ProbabilityOrZero() int {
	if r.Probability == nil {
		return 0
	}
	return *r.Probability
}

// ExpiresAt converts the expires epoch timestamp of the API key's package.
// It returns the zero time when the field is absent.
func (r *SuccessResult) ExpiresAt() time.Time {
	if r.Expires == nil {
		return time.Time{}
	}
	return time.Unix(*r.Expires, 0)
}

// MarshalJSON adds the status discriminant
func (r *SuccessResult) MarshalJSON() ([]byte, error) {
	type plain SuccessResult
	return json.Marshal(struct {
		Status bool `json:"status"`
		*plain
	}{true, (*plain)(r)})
}

// UnmarshalJSON decodes numeric fields leniently, see flexInt
func (r *SuccessResult) UnmarshalJSON(data []byte) error {
	type plain SuccessResult
	aux := struct {
		*plain
		TotalNames       flexInt `json:"total_names"`
		Probability      flexInt `json:"probability"`
		UsedCredits      flexInt `json:"used_credits"`
		RemainingCredits flexInt `json:"remaining_credits"`
		Expires          flexInt `json:"expires"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.TotalNames = aux.TotalNames.intPtr()
	r.Probability = aux.Probability.intPtr()
	r.UsedCredits = aux.UsedCredits.intPtr()
	r.RemainingCredits = aux.RemainingCredits.intPtr()
	r.Expires = aux.Expires.int64Ptr()
	return nil
}

// ErrorResult is returned when the service reports status false, for
// example for an invalid key or exhausted credits. It is a normal result,
// not an error.
type ErrorResult struct {
	Errno  int    `json:"errno"`
	Errmsg string `json:"errmsg"`
}

// OK always returns false
func (r *ErrorResult) OK() bool { return false }

func (*ErrorResult) isResult() {}

// Err converts the result into a *ServiceError
func (r *ErrorResult) Err() error {
	return &ServiceError{Errno: r.Errno, Errmsg: r.Errmsg}
}

// MarshalJSON adds the status discriminant
func (r *ErrorResult) MarshalJSON() ([]byte, error) {
	type plain ErrorResult
	return json.Marshal(struct {
		Status bool `json:"status"`
		*plain
	}{false, (*plain)(r)})
}

// UnmarshalJSON decodes errno leniently, see flexInt
func (r *ErrorResult) UnmarshalJSON(data []byte) error {
	type plain ErrorResult
	aux := struct {
		*plain
		Errno flexInt `json:"errno"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Errno = int(aux.Errno.value)
	return nil
}

// flexInt is an integer the service may send as a float (97.0) or as a
// string ("50"). Fractions are truncated. null and "" leave it unset.
type flexInt struct {
	set   bool
	value int64
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		f.set, f.value = true, n
		return nil
	}

	fl, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(fl, 0) || math.IsNaN(fl) || math.Abs(fl) > math.MaxInt64 {
		return fmt.Errorf("cannot decode %s as an integer", s)
	}
	f.set, f.value = true, int64(fl)
	return nil
}

func (f flexInt) intPtr() *int {
	if !f.set {
		return nil
	}
	v := int(f.value)
	return &v
}

func (f flexInt) int64Ptr() *int64 {
	if !f.set {
		return nil
	}
	v := f.value
	return &v
}

// decodeResult maps a response body onto a Result
func decodeResult(body []byte) (Result, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		if err == nil {
			err = fmt.Errorf("body is %q", truncate(body))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	raw, ok := fields["status"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, ErrMissingStatus
	}

	status, err := parseStatus(raw)
	if err != nil {
		return nil, err
	}

	if status {
		var res SuccessResult
		if err := json.Unmarshal(body, &res); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		return &res, nil
	}

	var res ErrorResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return &res, nil
}

// parseStatus accepts a JSON boolean, 0/1 or the strings "true"/"false"
func parseStatus(raw json.RawMessage) (bool, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		switch n.String() {
		case "0":
			return false, nil
		case "1":
			return true, nil
		}
		return false, fmt.Errorf("%w: %s", ErrInvalidStatus, raw)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseBool(s); err == nil {
			return v, nil
		}
	}
	return false, fmt.Errorf("%w: %s", ErrInvalidStatus, raw)
}

func truncate(b []byte) string {
	const limit = 64
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
