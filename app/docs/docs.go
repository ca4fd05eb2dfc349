// Package docs writes AsciiDoc API snippets from HTTP exchanges executed in tests.
//
// A snippet set is only written when the exchange matches its description.
// An undocumented body field or path parameter fails the call, and so does
// a documented field that is absent and not marked optional.
package docs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Field describes one top-level JSON field of a request or response body.
type Field struct {
	Path        string
	Type        string // inferred from the body when empty
	Description string
	Constraint  string
	Optional    bool
}

// Parameter describes a path parameter.
type Parameter struct {
	Name        string
	Description string
}

// Snippet describes what a documented exchange carries. Nil field lists are
// not checked and produce no table.
type Snippet struct {
	PathTemplate   string
	PathParameters []Parameter
	RequestFields  []Field
	ResponseFields []Field
}

// Exchange is a served request together with its recorded response.
type Exchange struct {
	Request     *http.Request
	RequestBody []byte
	Response    *httptest.ResponseRecorder
}

// Perform serves req on h and captures both bodies.
func Perform(h http.Handler, req *http.Request) (*Exchange, error) {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		req.Body.Close()
		body = b
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return &Exchange{Request: req, RequestBody: body, Response: rec}, nil
}

// Recorder writes snippet sets below Dir, one directory per snippet name.
type Recorder struct {
	Dir    string
	Scheme string
	Host   string
	Port   int

	// IgnoredHeaders are left out of the request and response snippets.
	IgnoredHeaders []string
}

// NewRecorder returns a Recorder that rewrites URIs to https://api.hodolman.com.
func NewRecorder(dir string) *Recorder {
	return &Recorder{
		Dir:            dir,
		Scheme:         "https",
		Host:           "api.hodolman.com",
		Port:           443,
		IgnoredHeaders: []string{"Date", "X-Request-Id"},
	}
}

// Document checks ex against s and writes the snippet set called name.
func (r *Recorder) Document(name string, ex *Exchange, s Snippet) error {
	if name == "" {
		return errors.New("snippet name is empty")
	}

	tables, err := r.tables(ex, s)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	files := map[string]string{
		"http-request.adoc":  r.httpRequest(ex),
		"http-response.adoc": r.httpResponse(ex),
		"curl-request.adoc":  r.curlRequest(ex),
		"request-body.adoc":  sourceBlock("", string(ex.RequestBody)),
		"response-body.adoc": sourceBlock("", ex.Response.Body.String()),
	}
	for file, content := range tables {
		files[file] = content
	}

	dir := filepath.Join(r.Dir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%s: failed to create snippet directory: %w", name, err)
	}
	for file, content := range files {
		if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0644); err != nil {
			return fmt.Errorf("%s: failed to write %s: %w", name, file, err)
		}
	}
	return nil
}

func (r *Recorder) tables(ex *Exchange, s Snippet) (map[string]string, error) {
	tables := make(map[string]string)

	if s.PathParameters != nil {
		if err := checkParameters(s.PathTemplate, s.PathParameters); err != nil {
			return nil, err
		}
		tables["path-parameters.adoc"] = parameterTable(s.PathTemplate, s.PathParameters)
	}
	if s.RequestFields != nil {
		fields, err := checkFields("request", ex.RequestBody, s.RequestFields)
		if err != nil {
			return nil, err
		}
		tables["request-fields.adoc"] = fieldTable(fields)
	}
	if s.ResponseFields != nil {
		fields, err := checkFields("response", ex.Response.Body.Bytes(), s.ResponseFields)
		if err != nil {
			return nil, err
		}
		tables["response-fields.adoc"] = fieldTable(fields)
	}
	return tables, nil
}

var templateVar = regexp.MustCompile(`\{([^{}:]+)(?::[^{}]*)?\}`)

func checkParameters(template string, params []Parameter) error {
	inPath := make(map[string]bool)
	for _, m := range templateVar.FindAllStringSubmatch(template, -1) {
		inPath[m[1]] = true
	}

	documented := make(map[string]bool)
	var missing []string
	for _, p := range params {
		documented[p.Name] = true
		if !inPath[p.Name] {
			missing = append(missing, p.Name)
		}
	}
	var undocumented []string
	for name := range inPath {
		if !documented[name] {
			undocumented = append(undocumented, name)
		}
	}
	return mismatch("path parameters", undocumented, missing)
}

func checkFields(kind string, body []byte, fields []Field) ([]Field, error) {
	payload := make(map[string]interface{})
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("%s body is not a JSON object: %w", kind, err)
		}
	}

	documented := make(map[string]bool)
	var missing []string
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		documented[f.Path] = true
		value, present := payload[f.Path]
		if !present && !f.Optional {
			missing = append(missing, f.Path)
		}
		if f.Type == "" {
			f.Type = "Varies"
			if present {
				f.Type = jsonType(value)
			}
		}
		out = append(out, f)
	}

	var undocumented []string
	for key := range payload {
		if !documented[key] {
			undocumented = append(undocumented, key)
		}
	}
	if err := mismatch(kind+" fields", undocumented, missing); err != nil {
		return nil, err
	}
	return out, nil
}

func mismatch(what string, undocumented, missing []string) error {
	if len(undocumented) == 0 && len(missing) == 0 {
		return nil
	}
	sort.Strings(undocumented)
	sort.Strings(missing)

	var parts []string
	if len(undocumented) > 0 {
		parts = append(parts, "undocumented "+what+": "+strings.Join(undocumented, ", "))
	}
	if len(missing) > 0 {
		parts = append(parts, "documented "+what+" not found: "+strings.Join(missing, ", "))
	}
	return errors.New(strings.Join(parts, "; "))
}

func jsonType(v interface{}) string {
	switch v.(type) {
	case string:
		return "String"
	case float64:
		return "Number"
	case bool:
		return "Boolean"
	case map[string]interface{}:
		return "Object"
	case []interface{}:
		return "Array"
	case nil:
		return "Null"
	default:
		return "Varies"
	}
}

func (r *Recorder) host() string {
	if (r.Scheme == "https" && r.Port == 443) || (r.Scheme == "http" && r.Port == 80) || r.Port == 0 {
		return r.Host
	}
	return r.Host + ":" + strconv.Itoa(r.Port)
}

func (r *Recorder) headerLines(h http.Header) []string {
	ignored := make(map[string]bool, len(r.IgnoredHeaders))
	for _, name := range r.IgnoredHeaders {
		ignored[http.CanonicalHeaderKey(name)] = true
	}

	names := make([]string, 0, len(h))
	for name := range h {
		if !ignored[http.CanonicalHeaderKey(name)] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		for _, value := range h[name] {
			lines = append(lines, name+": "+value)
		}
	}
	return lines
}

func (r *Recorder) httpRequest(ex *Exchange) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s HTTP/1.1\n", ex.Request.Method, ex.Request.URL.RequestURI())
	for _, line := range r.headerLines(ex.Request.Header) {
		b.WriteString(line + "\n")
	}
	b.WriteString("Host: " + r.host() + "\n")
	if body := strings.TrimSpace(string(ex.RequestBody)); body != "" {
		b.WriteString("\n" + body + "\n")
	}
	return sourceBlock("http", b.String())
}

func (r *Recorder) httpResponse(ex *Exchange) string {
	res := ex.Response
	var b strings.Builder
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\n", res.Code, http.StatusText(res.Code))
	for _, line := range r.headerLines(res.Header()) {
		b.WriteString(line + "\n")
	}
	if body := strings.TrimSpace(res.Body.String()); body != "" {
		b.WriteString("\n" + body + "\n")
	}
	return sourceBlock("http", b.String())
}

func (r *Recorder) curlRequest(ex *Exchange) string {
	uri := r.Scheme + "://" + r.host() + ex.Request.URL.RequestURI()
	parts := []string{fmt.Sprintf("$ curl '%s' -i -X %s", uri, ex.Request.Method)}
	for _, line := range r.headerLines(ex.Request.Header) {
		parts = append(parts, "-H "+shellQuote(line))
	}
	if body := strings.TrimSpace(string(ex.RequestBody)); body != "" {
		parts = append(parts, "-d "+shellQuote(body))
	}
	return sourceBlock("bash", strings.Join(parts, " \\\n    ")+"\n")
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func sourceBlock(lang, content string) string {
	header := "[source,options=\"nowrap\"]"
	if lang != "" {
		header = "[source," + lang + ",options=\"nowrap\"]"
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return header + "\n----\n" + content + "----\n"
}

func parameterTable(template string, params []Parameter) string {
	var b strings.Builder
	if template != "" {
		b.WriteString(".+" + template + "+\n")
	}
	b.WriteString("|===\n|Parameter|Description\n\n")
	for _, p := range params {
		fmt.Fprintf(&b, "|`+%s+`\n|%s\n\n", p.Name, p.Description)
	}
	b.WriteString("|===\n")
	return b.String()
}

func fieldTable(fields []Field) string {
	var b strings.Builder
	b.WriteString("|===\n|Path|Type|Optional|Description|Constraint\n\n")
	for _, f := range fields {
		optional := ""
		if f.Optional {
			optional = "true"
		}
		fmt.Fprintf(&b, "|`+%s+`\n|`+%s+`\n|%s\n|%s\n|%s\n\n", f.Path, f.Type, optional, f.Description, f.Constraint)
	}
	b.WriteString("|===\n")
	return b.String()
}
