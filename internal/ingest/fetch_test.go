package ingest

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFetcher(t *testing.T) *Fetcher {
	t.Helper()
	return NewFetcher(5*time.Second, nil)
}

func TestFetch_HTMLReducedToText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><style>body{color:red}</style></head>
			<body><script>alert(1)</script><h1>Annual  Report</h1><p>Revenue grew.</p></body></html>`))
	}))
	defer srv.Close()

	result, err := testFetcher(t).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "text", result.Type)
	assert.Equal(t, "Annual Report Revenue grew.", result.Text)
	assert.Empty(t, result.Data)
}

func TestFetch_PDFByContentType(t *testing.T) {
	payload := []byte("%PDF-1.7 fake body")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(payload)
	}))
	defer srv.Close()

	result, err := testFetcher(t).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "pdf", result.Type)
	assert.Equal(t, base64.StdEncoding.EncodeToString(payload), result.Data)
	assert.Empty(t, result.Text)
}

func TestFetch_PDFByExtension(t *testing.T) {
	payload := []byte("%PDF-1.7 fake body")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(payload)
	}))
	defer srv.Close()

	result, err := testFetcher(t).Fetch(context.Background(), srv.URL+"/statements.pdf?dl=1")
	require.NoError(t, err)
	assert.Equal(t, "pdf", result.Type)
}

func TestFetch_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testFetcher(t).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestFetch_UnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := testFetcher(t).Fetch(context.Background(), url)
	assert.Error(t, err)
}

func TestHTMLText(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "strips scripts and styles",
			html: `<body><script>x</script><style>y</style><p>hello</p></body>`,
			want: "hello",
		},
		{
			name: "collapses whitespace",
			html: "<p>one</p>\n\n<p>two\t three</p>",
			want: "one two three",
		},
		{
			name: "plain text passes through",
			html: "just words",
			want: "just words",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HTMLText(strings.NewReader(tt.html))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsPDF(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		url         string
		want        bool
	}{
		{"pdf content type", "application/pdf", "https://x.test/doc", true},
		{"pdf with charset", "application/pdf; charset=binary", "https://x.test/doc", true},
		{"pdf extension", "application/octet-stream", "https://x.test/report.PDF", true},
		{"pdf extension with query", "", "https://x.test/report.pdf?dl=1", true},
		{"query containing pdf", "text/html", "https://x.test/view?file=report.pdf", false},
		{"html", "text/html", "https://x.test/report", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isPDF(tt.contentType, tt.url))
		})
	}
}
