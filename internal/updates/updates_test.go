package updates

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVersions(t *testing.T) {
	html := `<a href="5.15/">5.15/</a> <a href="6.9/">6.9/</a> <a href="6.10/">6.10/</a> <a href="6.10.1/">6.10.1/</a> <a href="backups/">backups/</a>`
	assert.Equal(t, []string{"5.15", "6.9", "6.10"}, extractVersions(html, 2))
	assert.Equal(t, []string{"6.10.1"}, extractVersions(html, 3))
}

func TestLatestQtVersion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/qt/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<a href="6.5/">6.5/</a> <a href="6.10/">6.10/</a> <a href="6.9/">6.9/</a>`))
	})
	mux.HandleFunc("/qt/6.10/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<a href="6.10.0/">6.10.0/</a> <a href="6.10.1/">6.10.1/</a>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := &Checker{Client: srv.Client(), QtReleasesURL: srv.URL + "/qt/"}
	got, source, err := c.LatestQtVersion()
	require.NoError(t, err)
	assert.Equal(t, "6.10.1", got)
	assert.Equal(t, srv.URL+"/qt/6.10/", source)
}

func TestLatestQtVersionWithoutPatchListing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/qt/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<a href="6.8/">6.8/</a>`))
	})
	// No /qt/6.8/ handler: the patch listing 404s and the major.minor
	// version is still reported.
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := &Checker{Client: srv.Client(), QtReleasesURL: srv.URL + "/qt/"}
	got, _, err := c.LatestQtVersion()
	require.NoError(t, err)
	assert.Equal(t, "6.8", got)
}

func TestLatestQtVersionUnavailable(t *testing.T) {
	c := &Checker{
		Client:        &http.Client{Timeout: 200 * time.Millisecond},
		QtReleasesURL: "http://127.0.0.1:1/qt/", // nothing listens here
	}
	_, _, err := c.LatestQtVersion()
	assert.Error(t, err)
}

func TestLatestPDCursesVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name": "v4.5.2", "html_url": "https://example.test/release"}`))
	}))
	defer srv.Close()

	c := &Checker{Client: srv.Client(), PDCursesAPIURL: srv.URL}
	got, url, err := c.LatestPDCursesVersion()
	require.NoError(t, err)
	assert.Equal(t, "4.5.2", got)
	assert.Equal(t, "https://example.test/release", url)
}

func TestLatestPDCursesVersionMissingTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := &Checker{Client: srv.Client(), PDCursesAPIURL: srv.URL}
	_, _, err := c.LatestPDCursesVersion()
	assert.Error(t, err)
}

func TestLocalPDCursesVersion(t *testing.T) {
	root := t.TempDir()
	header := filepath.Join(root, "third_party", "PDCursesMod", "curses.h")
	require.NoError(t, os.MkdirAll(filepath.Dir(header), 0755))
	require.NoError(t, os.WriteFile(header, []byte(
		"#define PDC_VER_MAJOR    4\n#define PDC_VER_MINOR    5\n#define PDC_VER_CHANGE   2\n"), 0644))

	assert.Equal(t, "4.5.2", LocalPDCursesVersion(root))
	assert.Equal(t, "", LocalPDCursesVersion(t.TempDir()))
}
