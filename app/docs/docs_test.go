package docs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Request-ID", "ignored")
		if r.Method == http.MethodGet {
			json.NewEncoder(w).Encode(map[string]interface{}{"id": 1, "title": "foo", "content": "bar"})
		}
	})
}

func readSnippet(t *testing.T, dir, name, file string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name, file))
	require.NoError(t, err)
	return string(data)
}

func TestDocumentInquiry(t *testing.T) {
	dir := t.TempDir()
	rec := NewRecorder(dir)

	req := httptest.NewRequest(http.MethodGet, "/posts/1", nil)
	req.Header.Set("Accept", "application/json")
	ex, err := Perform(postHandler(), req)
	require.NoError(t, err)

	err = rec.Document("post-inquiry", ex, Snippet{
		PathTemplate:   "/posts/{postId}",
		PathParameters: []Parameter{{Name: "postId", Description: "게시글 ID"}},
		ResponseFields: []Field{
			{Path: "id", Description: "게시글 ID"},
			{Path: "title", Description: "제목"},
			{Path: "content", Description: "내용"},
		},
	})
	require.NoError(t, err)

	httpReq := readSnippet(t, dir, "post-inquiry", "http-request.adoc")
	assert.Contains(t, httpReq, "GET /posts/1 HTTP/1.1\nAccept: application/json\nHost: api.hodolman.com\n")

	httpRes := readSnippet(t, dir, "post-inquiry", "http-response.adoc")
	assert.Contains(t, httpRes, "HTTP/1.1 200 OK\nContent-Type: application/json\n")
	assert.Contains(t, httpRes, `{"content":"bar","id":1,"title":"foo"}`)
	assert.NotContains(t, httpRes, "X-Request-Id")

	curl := readSnippet(t, dir, "post-inquiry", "curl-request.adoc")
	assert.Contains(t, curl, "$ curl 'https://api.hodolman.com/posts/1' -i -X GET")

	params := readSnippet(t, dir, "post-inquiry", "path-parameters.adoc")
	assert.True(t, strings.HasPrefix(params, ".+/posts/{postId}+\n|===\n"))
	assert.Contains(t, params, "|`+postId+`\n|게시글 ID\n")

	fields := readSnippet(t, dir, "post-inquiry", "response-fields.adoc")
	assert.Contains(t, fields, "|`+id+`\n|`+Number+`\n")
	assert.Contains(t, fields, "|`+title+`\n|`+String+`\n")

	_, err = os.Stat(filepath.Join(dir, "post-inquiry", "request-fields.adoc"))
	assert.True(t, os.IsNotExist(err))
}

func TestDocumentCreate(t *testing.T) {
	dir := t.TempDir()
	rec := NewRecorder(dir)

	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{"title":"it's","content":"bar"}`))
	req.Header.Set("Content-Type", "application/json")
	ex, err := Perform(postHandler(), req)
	require.NoError(t, err)

	err = rec.Document("post-create", ex, Snippet{
		RequestFields: []Field{
			{Path: "title", Description: "제목", Constraint: "좋은 제목 입력해주세요."},
			{Path: "content", Description: "내용", Optional: true},
		},
	})
	require.NoError(t, err)

	curl := readSnippet(t, dir, "post-create", "curl-request.adoc")
	assert.Contains(t, curl, "-H 'Content-Type: application/json' \\\n    -d '{\"title\":\"it'\\''s\",\"content\":\"bar\"}'")

	fields := readSnippet(t, dir, "post-create", "request-fields.adoc")
	assert.Contains(t, fields, "|`+title+`\n|`+String+`\n|\n|제목\n|좋은 제목 입력해주세요.\n")
	assert.Contains(t, fields, "|`+content+`\n|`+String+`\n|true\n|내용\n")
}

func TestDocumentOptionalFieldMayBeAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{"title":"foo"}`))
	ex, err := Perform(postHandler(), req)
	require.NoError(t, err)

	err = NewRecorder(t.TempDir()).Document("post-create", ex, Snippet{
		RequestFields: []Field{
			{Path: "title", Description: "제목"},
			{Path: "content", Description: "내용", Optional: true},
		},
	})
	require.NoError(t, err)
}

func TestDocumentMismatch(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		snippet Snippet
		wantErr string
	}{
		{
			name: "undocumented request field",
			body: `{"title":"foo","content":"bar"}`,
			snippet: Snippet{RequestFields: []Field{
				{Path: "title"},
			}},
			wantErr: "undocumented request fields: content",
		},
		{
			name: "missing required request field",
			body: `{"content":"bar"}`,
			snippet: Snippet{RequestFields: []Field{
				{Path: "title"},
				{Path: "content"},
			}},
			wantErr: "documented request fields not found: title",
		},
		{
			name:    "request body is not an object",
			body:    `["foo"]`,
			snippet: Snippet{RequestFields: []Field{{Path: "title"}}},
			wantErr: "request body is not a JSON object",
		},
		{
			name: "undocumented path parameter",
			snippet: Snippet{
				PathTemplate:   "/posts/{postId}",
				PathParameters: []Parameter{},
			},
			wantErr: "undocumented path parameters: postId",
		},
		{
			name: "unknown path parameter",
			snippet: Snippet{
				PathTemplate:   "/posts/{postId:[0-9]+}",
				PathParameters: []Parameter{{Name: "postId"}, {Name: "commentId"}},
			},
			wantErr: "documented path parameters not found: commentId",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(tt.body))
			ex, err := Perform(postHandler(), req)
			require.NoError(t, err)

			err = NewRecorder(dir).Document("broken", ex, tt.snippet)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			_, statErr := os.Stat(filepath.Join(dir, "broken"))
			assert.True(t, os.IsNotExist(statErr), "nothing is written on mismatch")
		})
	}
}

func TestRecorderHost(t *testing.T) {
	rec := NewRecorder(t.TempDir())
	assert.Equal(t, "api.hodolman.com", rec.host())

	rec.Port = 8443
	assert.Equal(t, "api.hodolman.com:8443", rec.host())

	rec.Scheme, rec.Port = "http", 80
	assert.Equal(t, "api.hodolman.com", rec.host())
}

func TestPerformKeepsRequestBody(t *testing.T) {
	var seen string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		seen = payload["title"]
	})

	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{"title":"foo"}`))
	ex, err := Perform(h, req)
	require.NoError(t, err)
	assert.Equal(t, "foo", seen)
	assert.Equal(t, `{"title":"foo"}`, string(ex.RequestBody))
}
