package filter

import (
	"strings"

	"github.com/s0up4200/genderapi/genderapi"
)

// helpers are case-insensitive companions of the contains, startsWith and
// endsWith operators built into expr
var helpers = map[string]any{
	"containsFold": func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	},
	"hasPrefixFold": func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	},
	"hasSuffixFold": func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	},
}

// newEnv builds the expression environment for a result. Every variable is
// present for both result kinds so expressions type-check once at compile time.
func newEnv(res genderapi.Result) map[string]any {
	env := map[string]any{
		"status":            false,
		"name":              "",
		"gender":            "",
		"known":             false,
		"country":           "",
		"probability":       0,
		"total_names":       0,
		"used_credits":      0,
		"remaining_credits": 0,
		"expires":           int64(0),
		"q":                 "",
		"duration":          "",
		"errno":             0,
		"errmsg":            "",
	}
	for k, v := range helpers {
		env[k] = v
	}

	switch r := res.(type) {
	case *genderapi.SuccessResult:
		env["status"] = true
		env["name"] = r.Name
		env["gender"] = string(r.Gender)
		env["known"] = r.Gender.Known()
		env["country"] = r.Country
		env["probability"] = intOrZero(r.Probability)
		env["total_names"] = intOrZero(r.TotalNames)
		env["used_credits"] = intOrZero(r.UsedCredits)
		env["remaining_credits"] = intOrZero(r.RemainingCredits)
		if r.Expires != nil {
			env["expires"] = *r.Expires
		}
		env["q"] = r.Query
		env["duration"] = r.Duration
	case *genderapi.ErrorResult:
		env["errno"] = r.Errno
		env["errmsg"] = r.Errmsg
	}

	return env
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
