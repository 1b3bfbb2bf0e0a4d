package onprem

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	cmdpkg "github.com/kong/kongadmin/internal/cmd"
	"github.com/kong/kongadmin/internal/cmd/root/verbs"
	"github.com/kong/kongadmin/internal/config"
	"github.com/kong/kongadmin/internal/iostreams"
	"github.com/kong/kongadmin/internal/log"
	admin "github.com/kong/kongadmin/internal/onprem"
	configtest "github.com/kong/kongadmin/test/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exampleID is the identifier derived from the name "example".
var exampleID = admin.DeriveID("example")

// fakeAdminAPI keeps entities by path and records the calls it receives.
type fakeAdminAPI struct {
	mu       sync.Mutex
	entities map[string]map[string]any
	calls    []string
}

func (f *fakeAdminAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)

	switch r.Method {
	case http.MethodGet:
		if r.URL.Path == "/status" {
			writeJSON(w, http.StatusOK, map[string]any{"database": map[string]any{"reachable": true}})
			return
		}
		if entity, ok := f.entities[r.URL.Path]; ok {
			writeJSON(w, http.StatusOK, entity)
			return
		}
		if r.URL.Path == "/services" {
			data := []any{}
			for _, entity := range f.entities {
				data = append(data, entity)
			}
			writeJSON(w, http.StatusOK, map[string]any{"data": data, "next": nil})
			return
		}
		if r.URL.Path == "/routes" {
			writeJSON(w, http.StatusOK, map[string]any{
				"data":   []any{},
				"next":   "/routes?offset=page2",
				"offset": "page2",
			})
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not found"})
	case http.MethodPut:
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.entities[r.URL.Path] = body
		writeJSON(w, http.StatusOK, body)
	case http.MethodDelete:
		delete(f.entities, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type harness struct {
	api     *fakeAdminAPI
	streams *iostreams.IOStreams
	cfg     *configtest.MockConfigHook
	input   strings.Builder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	api := &fakeAdminAPI{entities: map[string]map[string]any{}}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	return &harness{
		api: api,
		cfg: configtest.NewMockConfigHook(map[string]any{
			"output":                  "json",
			"on-prem.admin-url":       server.URL,
			"on-prem.request-timeout": 5,
			"on-prem.tls-skip-verify": false,
			"jq.color.enabled":        "never",
		}),
	}
}

func (h *harness) run(t *testing.T, verb verbs.VerbValue, args ...string) error {
	t.Helper()
	streams, in, _, _ := iostreams.NewTestIOStreams()
	in.WriteString(h.input.String())
	h.streams = streams

	onPremCmd, err := NewOnPremCmd(verb)
	require.NoError(t, err)
	verbCmd := &cobra.Command{Use: verb.String()}
	verbCmd.AddCommand(onPremCmd)

	ctx := context.WithValue(context.Background(), config.ConfigKey, config.Hook(h.cfg))
	ctx = context.WithValue(ctx, iostreams.StreamsKey, streams)
	ctx = context.WithValue(ctx, log.LoggerKey, slog.New(slog.DiscardHandler))
	ctx = context.WithValue(ctx, verbs.Verb, verb)

	verbCmd.SetArgs(append([]string{"on-prem"}, args...))
	verbCmd.SetOut(streams.Out)
	verbCmd.SetErr(streams.ErrOut)
	return verbCmd.ExecuteContext(ctx)
}

func (h *harness) result(t *testing.T) admin.Result {
	t.Helper()
	var result admin.Result
	out := h.streams.Out.(interface{ String() string }).String()
	require.NoError(t, json.Unmarshal([]byte(out[strings.Index(out, "{"):]), &result))
	return result
}

func TestCreateServiceCommand(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, verbs.Create, "service", "example", "--host", "example.com", "--port", "80"))
	result := h.result(t)
	assert.True(t, result.Changed)
	assert.False(t, result.Failed)
	assert.Equal(t, http.StatusOK, result.Status)
	assert.Equal(t, "example.com", result.Response["host"])
	assert.EqualValues(t, 80, result.Response["port"])
	assert.Equal(t, exampleID, result.Response["id"])
	assert.Equal(t, []string{
		"GET /services/" + exampleID,
		"PUT /services/" + exampleID,
	}, h.api.calls)

	require.NoError(t, h.run(t, verbs.Update, "service", "example", "--host", "example.com", "--port", "80"))
	assert.False(t, h.result(t).Changed)
}

func TestGetMissingServiceFails(t *testing.T) {
	h := newHarness(t)

	err := h.run(t, verbs.Get, "service", "missing")
	var execErr *cmdpkg.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "Failed to find service", execErr.Msg)
	assert.Contains(t, execErr.Attrs, http.StatusNotFound)
	assert.Contains(t, err.Error(), "Not found")

	result := h.result(t)
	assert.True(t, result.Failed)
	assert.Equal(t, http.StatusNotFound, result.Status)
}

func TestDeleteServiceAsksForConfirmation(t *testing.T) {
	h := newHarness(t)
	h.api.entities["/services/"+exampleID] = map[string]any{"id": exampleID, "name": "example"}

	h.input.WriteString("no\n")
	err := h.run(t, verbs.Delete, "service", "example")
	require.Error(t, err)
	assert.Contains(t, h.api.entities, "/services/"+exampleID)

	h.input.Reset()
	h.input.WriteString("yes\n")
	require.NoError(t, h.run(t, verbs.Delete, "service", "example"))
	assert.NotContains(t, h.api.entities, "/services/"+exampleID)
}

func TestListServicesWithJQ(t *testing.T) {
	h := newHarness(t)
	h.api.entities["/services/"+exampleID] = map[string]any{"id": exampleID, "name": "example"}

	require.NoError(t, h.run(t, verbs.List, "services", "--jq", ".response.data[].name", "-r"))
	assert.Equal(t, "example\n", h.streams.Out.(interface{ String() string }).String())
}

func TestListRoutesTextShowsNextOffset(t *testing.T) {
	h := newHarness(t)
	h.cfg.Set("output", "text")

	require.NoError(t, h.run(t, verbs.List, "routes", "--size", "1"))
	errOut := h.streams.ErrOut.(interface{ String() string }).String()
	assert.Contains(t, errOut, "More routes available, continue with --offset page2")
}

func TestGetNodeStatusText(t *testing.T) {
	h := newHarness(t)
	h.cfg.Set("output", "text")

	require.NoError(t, h.run(t, verbs.Get, "node", "status"))
	out := h.streams.Out.(interface{ String() string }).String()
	assert.Contains(t, out, "database.reachable")
	assert.Contains(t, out, "true")
}

func TestKeyGivenTwiceIsRejected(t *testing.T) {
	h := newHarness(t)

	err := h.run(t, verbs.Get, "service", "example", "--id", "other")
	var cfgErr *cmdpkg.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Empty(t, h.api.calls)
}

func TestInvalidInputIsReportedWithoutRequests(t *testing.T) {
	h := newHarness(t)

	err := h.run(t, verbs.Create, "route", "example")
	var execErr *cmdpkg.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Contains(t, execErr.Attrs, 0)
	assert.Empty(t, h.api.calls)
}

func TestVerbActions(t *testing.T) {
	tests := []struct {
		verb    verbs.VerbValue
		kind    admin.Kind
		primary admin.Action
		subs    []admin.Action
	}{
		{verbs.Get, admin.KindService, admin.ActionFind, []admin.Action{admin.ActionRoutes, admin.ActionPlugins}},
		{verbs.Get, admin.KindNode, admin.ActionInformation, []admin.Action{admin.ActionStatus}},
		{verbs.Get, admin.KindPlugin, admin.ActionFind, []admin.Action{admin.ActionEnabled}},
		{verbs.Update, admin.KindTarget, admin.ActionCreate, []admin.Action{admin.ActionHealthy, admin.ActionUnhealthy}},
		{verbs.List, admin.KindUpstream, admin.ActionList, nil},
		{verbs.List, admin.KindNode, "", nil},
		{verbs.Delete, admin.KindConsumer, admin.ActionDelete, nil},
	}
	for _, tt := range tests {
		t.Run(tt.verb.String()+" "+string(tt.kind), func(t *testing.T) {
			res, ok := admin.Lookup(tt.kind)
			require.True(t, ok)
			primary, subs := verbActions(tt.verb, res)
			assert.Equal(t, tt.primary, primary)
			assert.Equal(t, tt.subs, subs)
		})
	}
}

func TestActionFields(t *testing.T) {
	res, _ := admin.Lookup(admin.KindTarget)

	names := func(action admin.Action) []string {
		op, _ := res.Operation(action)
		var out []string
		for _, f := range actionFields(res, op) {
			out = append(out, f.Name)
		}
		return out
	}

	assert.Equal(t, []string{"upstream", "target", "weight", "tags"}, names(admin.ActionCreate))
	assert.Equal(t, []string{"upstream", "size", "offset"}, names(admin.ActionList))
	assert.Equal(t, []string{"upstream", "target"}, names(admin.ActionHealthy))
}

func TestNewOnPremCmdWithoutResources(t *testing.T) {
	_, err := NewOnPremCmd(verbs.Version)
	require.Error(t, err)
}
