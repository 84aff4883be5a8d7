package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/genderapi/genderapi"
)

// resetFlags restores every flag of c and its children to its default so
// one Execute call does not leak into the next
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, child := range c.Commands() {
		resetFlags(child)
	}
}

// executeRoot runs the CLI in an isolated directory and returns its stdout
func executeRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	resetFlags(rootCmd)
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		resetFlags(rootCmd)
		rootCmd.SetOut(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommandNameLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api", r.URL.Path)
		assert.Equal(t, "Bearer cli-key", r.Header.Get("Authorization"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "DE", body["country"])
		assert.Equal(t, true, body["forceToGenderize"])

		io.WriteString(w, `{"status": true, "name": "Michael", "gender": "male", "probability": 97}`)
	}))
	defer server.Close()

	out, err := executeRoot(t, "",
		"name", "Michael",
		"--api-key", "cli-key",
		"--base-url", server.URL,
		"--country", "DE",
		"--force",
		"--log-level", "error",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Michael: male (97%)")
}

func TestRootCommandBatchServiceErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, false, body["forceToGenderize"], "--force of another command must not leak")

		io.WriteString(w, `{"status": false, "errno": 50, "errmsg": "invalid key"}`)
	}))
	defer server.Close()

	out, err := executeRoot(t, "Michael\nAnna\n",
		"batch",
		"--api-key", "bad",
		"--base-url", server.URL,
		"--log-level", "error",
	)

	require.Error(t, err)
	var svcErr *genderapi.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, 50, svcErr.Errno)
	assert.Contains(t, err.Error(), "2 of 2 lookups returned a service error")
	assert.Equal(t, 2, strings.Count(out, "error 50: invalid key"))
}

func TestRootCommandBatchFilterAndOrder(t *testing.T) {
	genders := map[string]string{"Michael": "male", "Anna": "female", "Maria": "female", "Luca": "male"}

	var mu sync.Mutex
	var forced []bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/username", r.URL.Path)

		var q genderapi.UsernameQuery
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		mu.Lock()
		forced = append(forced, q.ForceToGenderize)
		mu.Unlock()

		json.NewEncoder(w).Encode(map[string]any{
			"status":      true,
			"q":           q.Username,
			"gender":      genders[q.Username],
			"probability": 95,
		})
	}))
	defer server.Close()

	out, err := executeRoot(t, "Michael\nAnna\n# skipped\n\nMaria\nLuca\n",
		"batch",
		"--kind", "username",
		"--force",
		"--filter", `gender == "female"`,
		"--api-key", "cli-key",
		"--base-url", server.URL,
		"--log-level", "error",
	)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "INPUT"))
	assert.True(t, strings.HasPrefix(lines[1], "Anna"))
	assert.True(t, strings.HasPrefix(lines[2], "Maria"))
	assert.NotContains(t, out, "Michael")

	assert.Equal(t, []bool{true, true, true, true}, forced)
}
