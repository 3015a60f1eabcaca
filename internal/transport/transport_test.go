package transport_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jroosing/mmws/internal/entity"
	"github.com/jroosing/mmws/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	query  string
	user   string
	pass   string
	body   map[string]any
}

// newServer answers every request with status and body and records the last
// request it saw.
func newServer(t *testing.T, status int, body string) (*transport.Transport, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.user, rec.pass, _ = r.BasicAuth()
		rec.body = nil
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			assert.NoError(t, json.Unmarshal(b, &rec.body))
		}
		if body != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	tr, err := transport.New(srv.URL+transport.APIPath, "admin", "secret")
	require.NoError(t, err)
	return tr, rec
}

func TestGet_DecodesResult(t *testing.T) {
	tr, rec := newServer(t, http.StatusOK, `{"result":{"groups":[{"ref":"Groups/1","name":"eng"}],"totalResults":1}}`)

	res, err := tr.Get(context.Background(), "Groups", transport.Query{"filter": "name:eng"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/mmws/api/Groups", rec.path)
	assert.Equal(t, "filter=name%3Aeng", rec.query)
	assert.Equal(t, "admin", rec.user)
	assert.Equal(t, "secret", rec.pass)

	assert.False(t, res.Empty())
	assert.True(t, res.Has("groups"))
	var total json.Number
	require.NoError(t, res.Decode("totalResults", &total))
	assert.Equal(t, "1", total.String())
}

func TestGet_NoContentIsEmpty(t *testing.T) {
	tr, _ := newServer(t, http.StatusNoContent, "")

	res, err := tr.Get(context.Background(), "Groups/9", nil)
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.False(t, res.Has("groups"))
}

func TestGet_MalformedBodyIsDecodeError(t *testing.T) {
	tr, _ := newServer(t, http.StatusOK, `<html>`)

	_, err := tr.Get(context.Background(), "Groups", nil)
	assert.ErrorIs(t, err, entity.ErrDecode)
}

func TestErrors_APIEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		call     func(*transport.Transport) error
	}{
		{
			name:   "get",
			status: http.StatusBadRequest,
			body:   `{"error":{"code":"E1","message":"bad state"}}`,
			call: func(tr *transport.Transport) error {
				_, err := tr.Get(context.Background(), "Users", nil)
				return err
			},
			wantCode: "E1",
		},
		{
			name:   "post",
			status: http.StatusBadRequest,
			body:   `{"error":{"code":"E1","message":"bad state"}}`,
			call: func(tr *transport.Transport) error {
				_, err := tr.Post(context.Background(), "Users", map[string]any{"user": map[string]any{"name": "x"}})
				return err
			},
			wantCode: "E1",
		},
		{
			name:   "put",
			status: http.StatusBadRequest,
			body:   `{"error":{"code":"E1","message":"bad state"}}`,
			call: func(tr *transport.Transport) error {
				return tr.Put(context.Background(), "Users/3", map[string]any{"ref": "Users/3"})
			},
			wantCode: "E1",
		},
		{
			name:   "delete-numeric-code",
			status: http.StatusNotFound,
			body:   `{"error":{"code":17,"message":"bad state"}}`,
			call: func(tr *transport.Transport) error {
				return tr.Delete(context.Background(), "Users/3", nil)
			},
			wantCode: "17",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, _ := newServer(t, tt.status, tt.body)

			err := tt.call(tr)
			require.Error(t, err)
			assert.ErrorIs(t, err, transport.ErrAPI)

			var apiErr *transport.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, "bad state", apiErr.Message)
			assert.Equal(t, tt.wantCode+": bad state", apiErr.Error())
			assert.Equal(t, tt.status, transport.StatusCode(err))
		})
	}
}

func TestErrors_UndecodableBodyIsTransportError(t *testing.T) {
	tr, _ := newServer(t, http.StatusBadGateway, `upstream unavailable`)

	_, err := tr.Get(context.Background(), "Users", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, transport.ErrTransport)
	assert.NotErrorIs(t, err, transport.ErrAPI)

	var tErr *transport.TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, http.StatusBadGateway, tErr.StatusCode)
	assert.Equal(t, "upstream unavailable", tErr.Body)
}

func TestStatusExpectations(t *testing.T) {
	// A success code that is not the expected one is still an error.
	tr, _ := newServer(t, http.StatusOK, `{"result":{}}`)

	_, err := tr.Post(context.Background(), "Users", map[string]any{"user": map[string]any{"name": "x"}})
	assert.ErrorIs(t, err, transport.ErrTransport)

	err = tr.Put(context.Background(), "Users/3", map[string]any{"ref": "Users/3"})
	assert.ErrorIs(t, err, transport.ErrTransport)

	err = tr.Delete(context.Background(), "Users/3", nil)
	assert.ErrorIs(t, err, transport.ErrTransport)
}

func TestPost_SanitizesBody(t *testing.T) {
	tr, rec := newServer(t, http.StatusCreated, `{"result":{"objRefs":["Users/9"]}}`)

	res, err := tr.Post(context.Background(), "Users", map[string]any{
		"saveComment": "",
		"user":        map[string]any{"name": "bob", "description": "", "roles": []any{}},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"user": map[string]any{"name": "bob"}}, rec.body)
	refs, err := res.Strings("objRefs")
	require.NoError(t, err)
	assert.Equal(t, []string{"Users/9"}, refs)
}

func TestPut_SkipSanitizeKeepsFalsyValues(t *testing.T) {
	tr, rec := newServer(t, http.StatusNoContent, "")

	err := tr.Put(context.Background(), "Users/3", map[string]any{
		"ref":               "Users/3",
		"saveComment":       "",
		"deleteUnspecified": false,
	}, transport.SkipSanitize())
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/mmws/api/Users/3", rec.path)
	assert.Equal(t, map[string]any{
		"ref":               "Users/3",
		"saveComment":       "",
		"deleteUnspecified": false,
	}, rec.body)
}

func TestDelete_SendsQuery(t *testing.T) {
	tr, rec := newServer(t, http.StatusNoContent, "")

	err := tr.Delete(context.Background(), "Groups/1/Users/3", transport.Query{"saveComment": "cleanup"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/mmws/api/Groups/1/Users/3", rec.path)
	assert.Equal(t, "saveComment=cleanup", rec.query)
	assert.Nil(t, rec.body)
}

func TestQuery_Encode(t *testing.T) {
	q := transport.Query{
		"filter":     "",
		"limit":      10,
		"offset":     0,
		"sortBy":     nil,
		"ascending":  false,
		"folderRefs": []string{},
		"kinds":      []string{"A", "AAAA"},
	}
	assert.Equal(t, "ascending=false&kinds=A&kinds=AAAA&limit=10&offset=0", q.Encode())
	assert.Equal(t, "", transport.Query(nil).Encode())
}

func TestNew_NormalizesBaseURL(t *testing.T) {
	tr, err := transport.New("https://micetro.example.com/mmws/api", "u", "p")
	require.NoError(t, err)
	assert.Equal(t, "https://micetro.example.com/mmws/api/", tr.BaseURL())
	assert.Equal(t, "https://micetro.example.com/mmws/api/Users/3", tr.URL("/Users/3", nil))

	_, err = transport.New("micetro", "u", "p")
	assert.Error(t, err)
}

func TestGet_HonorsContextCancellation(t *testing.T) {
	tr, _ := newServer(t, http.StatusOK, `{"result":{}}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.Get(ctx, "Users", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
