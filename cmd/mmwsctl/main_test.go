package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/jroosing/mmws/internal/fakeapi"
	"github.com/jroosing/mmws/internal/resources"
	"github.com/jroosing/mmws/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	fake *fakeapi.Server
	host string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, k := range []string{"MMWS_CONFIG", "MMWS_SERVER", "MMWS_USERNAME", "MMWS_SCHEME", "MMWS_TIMEOUT", "MMWS_LOGGING_LEVEL", "MMWS_LOGGING_FORMAT"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Setenv("MMWS_PASSWORD", "secret")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	t.Chdir(t.TempDir())

	fake := fakeapi.New(fakeapi.Config{Username: "admin", Password: "secret"}, nil)
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return &harness{fake: fake, host: strings.TrimPrefix(srv.URL, "http://")}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--server", h.host, "--username", "admin"}, args...))
	err := root.Execute()
	return out.String(), err
}

func (h *harness) seed(t *testing.T, path string, obj map[string]any) string {
	t.Helper()
	ref, err := h.fake.Store().Create(path, obj, "admin", "")
	require.NoError(t, err)
	return ref
}

func TestVersionAndKindsWorkOffline(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "mmwsctl dev\n", out.String())

	out.Reset()
	root = newRootCmd(&out)
	root.SetArgs([]string{"kinds"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "IPAMRecords")
	assert.Contains(t, out.String(), "addrRef")
}

func TestMissingServer(t *testing.T) {
	h := newHarness(t)
	_ = h
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs([]string{"list", "Users"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server is required")
}

func TestListTable(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "DNSZones", map[string]any{"name": "a.example.", "type": "Master"})
	h.seed(t, "DNSZones", map[string]any{"name": "b.example.", "type": "Slave"})

	out, err := h.run(t, "list", "dnszones")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"ref", "name", "type"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"DNSZones/1", "a.example.", "Master"}, strings.Fields(lines[1]))

	out, err = h.run(t, "list", "DNSZones", "--filter", "type=Slave")
	require.NoError(t, err)
	assert.NotContains(t, out, "a.example.")
	assert.Contains(t, out, "b.example.")
}

func TestListFormatsNumbers(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "DNSRecords", map[string]any{"name": "www", "type": "A", "ttl": 86400.0, "data": "10.0.0.1"})
	h.seed(t, "Ranges", map[string]any{"name": "10.0.0.0/24", "utilizationPercentage": 12.345})

	out, err := h.run(t, "list", "DNSRecords")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"ref", "name", "type", "ttl", "data"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"DNSRecords/1", "www", "A", "86400", "10.0.0.1"}, strings.Fields(lines[1]))

	out, err = h.run(t, "list", "Ranges")
	require.NoError(t, err)
	assert.Contains(t, out, "12.3")
	assert.NotContains(t, out, "12.345")
}

func TestCell(t *testing.T) {
	rec := resources.DNSRecord.New().
		Set("ttl", json.Number("99999999999")).
		Set("name", "mail")
	assert.Equal(t, "4294967295", cell(rec, "ttl"))
	assert.Equal(t, "mail", cell(rec, "name"))
	assert.Equal(t, "", cell(rec, "data"))
}

func TestListJSON(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "Users", map[string]any{"name": "alice"})

	out, err := h.run(t, "--json", "list", "Users")
	require.NoError(t, err)
	var users []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &users))
	assert.Equal(t, []map[string]any{{"ref": "Users/1", "name": "alice"}}, users)
}

func TestListUnknownKind(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "list", "Servers")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestGetByName(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "DNSZones", map[string]any{"name": "example.com.", "dynamic": true})

	out, err := h.run(t, "get", "DNSZones/example.com.")
	require.NoError(t, err)
	assert.Contains(t, out, "DNSZones/1")
	assert.Contains(t, out, "dynamic")
	assert.Contains(t, out, "true")
}

func TestUpdateAndDelete(t *testing.T) {
	h := newHarness(t)
	ref := h.seed(t, "Users", map[string]any{"name": "alice", "email": "a@example.com"})

	out, err := h.run(t, "update", ref, "fullName=Alice A", "--comment", "rename")
	require.NoError(t, err)
	assert.Equal(t, "updated Users/1\n", out)

	obj, err := h.fake.Store().Get(ref)
	require.NoError(t, err)
	assert.Equal(t, "Alice A", obj["fullName"])
	assert.Equal(t, "a@example.com", obj["email"])

	_, err = h.run(t, "update", ref, "colour=blue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no field "colour"`)

	out, err = h.run(t, "delete", ref, "--comment", "bye")
	require.NoError(t, err)
	assert.Equal(t, "deleted Users/1\n", out)
	assert.Zero(t, h.fake.Store().Count())
}

func TestAccessAndHistory(t *testing.T) {
	h := newHarness(t)
	ref := h.seed(t, "DNSZones", map[string]any{"name": "example.com."})
	identities := []any{map[string]any{
		"identityRef":   "Groups/1",
		"identityName":  "eng",
		"accessEntries": []any{map[string]any{"name": "Edit", "access": "allow"}},
	}}
	require.NoError(t, h.fake.Store().SetAccess(ref, "DNSZone", identities, "admin", "acl"))

	out, err := h.run(t, "access", ref)
	require.NoError(t, err)
	assert.Contains(t, out, "eng")
	assert.Contains(t, out, "Edit=allow")

	out, err = h.run(t, "history", ref)
	require.NoError(t, err)
	assert.Contains(t, out, "Created")
	assert.Contains(t, out, "AccessChanged")
	assert.Contains(t, out, "acl")
}

func TestPropdefs(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.fake.Store().CreatePropertyDefinition("Ranges", map[string]any{"name": "Location", "type": "String"}))

	out, err := h.run(t, "propdefs", "range")
	require.NoError(t, err)
	assert.Contains(t, out, "Location")
	assert.Contains(t, out, "String")
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	h.seed(t, "DNSZones", map[string]any{"name": "a.example."})
	h.seed(t, "Ranges", map[string]any{"name": "10.0.0.0/24"})
	h.seed(t, "Ranges", map[string]any{"name": "10.0.1.0/24"})

	file := filepath.Join(t.TempDir(), "snap.db")
	out, err := h.run(t, "export", file, "DNSZones", "ranges")
	require.NoError(t, err)
	assert.Contains(t, out, "DNSZones: 1")
	assert.Contains(t, out, "Ranges: 2")
	assert.Contains(t, out, "holds 3 objects")

	snap, err := snapshot.Open(file)
	require.NoError(t, err)
	defer snap.Close()
	kinds, err := snap.Kinds(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"DNSZones", "Ranges"}, kinds)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"plain", "plain"},
		{"Jane Doe", "Jane Doe"},
		{"true", true},
		{"42", json.Number("42")},
		{`["a","b"]`, []any{"a", "b"}},
		{`{"k":1}`, `{"k":1}`},
		{"1 2", "1 2"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseValue(tt.in))
		})
	}
}

func TestParseQuery(t *testing.T) {
	q, err := parseQuery([]string{"type=A", "type=AAAA", "folderRef=Folders/2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "AAAA"}, q["type"])
	assert.Equal(t, "Folders/2", q["folderRef"])

	_, err = parseQuery([]string{"novalue"})
	assert.Error(t, err)
}
