// Package updates checks the project's third-party libraries (Qt 6 and the
// vendored PDCursesMod) against their upstream release feeds. Every network
// fetch runs under a short fixed timeout and degrades to an "unavailable"
// result instead of failing the tool; the check is advisory.
package updates

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"dev-tool/internal/version"
)

const (
	qtReleasesURL  = "https://download.qt.io/official_releases/qt/"
	pdcursesAPIURL = "https://api.github.com/repos/Bill-Gray/PDCursesMod/releases/latest"

	fetchTimeout = 10 * time.Second
)

// listingHref matches version directory links (6.10/, 6.10.1/) in the simple
// HTML index the Qt download server serves.
var listingHref = regexp.MustCompile(`href="((?:\d+\.)+\d+)/"`)

// Checker queries upstream release feeds. The URLs are fields so tests can
// point it at a local server.
type Checker struct {
	Client         *http.Client
	QtReleasesURL  string
	PDCursesAPIURL string
}

// NewChecker returns a checker against the real upstream feeds.
func NewChecker() *Checker {
	return &Checker{
		Client:         &http.Client{Timeout: fetchTimeout},
		QtReleasesURL:  qtReleasesURL,
		PDCursesAPIURL: pdcursesAPIURL,
	}
}

// LatestQtVersion returns the newest Qt 6 release and the listing URL it was
// read from. The release index nests patch listings under major.minor
// directories, so two fetches may be needed; when the patch listing is
// unavailable the major.minor version is still reported.
func (c *Checker) LatestQtVersion() (string, string, error) {
	listing, err := c.fetch(c.QtReleasesURL)
	if err != nil {
		return "", c.QtReleasesURL, err
	}

	var majorMinor []string
	for _, v := range extractVersions(listing, 2) {
		if strings.HasPrefix(v, "6.") {
			majorMinor = append(majorMinor, v)
		}
	}
	newestMajorMinor := version.Latest(majorMinor)
	if newestMajorMinor == "" {
		return "", c.QtReleasesURL, fmt.Errorf("no Qt 6 versions found in the release index")
	}

	patchURL := c.QtReleasesURL + newestMajorMinor + "/"
	patchListing, err := c.fetch(patchURL)
	if err == nil {
		var patches []string
		for _, v := range extractVersions(patchListing, 3) {
			if strings.HasPrefix(v, newestMajorMinor) {
				patches = append(patches, v)
			}
		}
		if newest := version.Latest(patches); newest != "" {
			return newest, patchURL, nil
		}
	}
	return newestMajorMinor, c.QtReleasesURL, nil
}

// githubRelease holds the fields consumed from a GitHub release response.
type githubRelease struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

// LatestPDCursesVersion returns the latest PDCursesMod release version and a
// URL describing it.
func (c *Checker) LatestPDCursesVersion() (string, string, error) {
	payload, err := c.fetch(c.PDCursesAPIURL)
	if err != nil {
		return "", c.PDCursesAPIURL, err
	}
	var release githubRelease
	if err := json.Unmarshal([]byte(payload), &release); err != nil {
		return "", c.PDCursesAPIURL, fmt.Errorf("failed to parse GitHub response: %w", err)
	}

	tag := release.TagName
	if tag == "" {
		tag = release.Name
	}
	url := release.HTMLURL
	if url == "" {
		url = c.PDCursesAPIURL
	}
	if tag == "" {
		return "", url, fmt.Errorf("latest release tag not present in GitHub response")
	}
	return strings.TrimLeft(tag, "vV"), url, nil
}

// fetch retrieves a URL's body as text.
func (c *Checker) fetch(url string) (string, error) {
	resp, err := c.Client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s: HTTP status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// extractVersions collects version strings from a directory listing,
// optionally restricted to a fixed number of numeric segments (2 for
// major.minor listings, 3 for patch listings, 0 for any).
func extractVersions(html string, segments int) []string {
	var versions []string
	for _, match := range listingHref.FindAllStringSubmatch(html, -1) {
		v := match[1]
		if segments > 0 && len(version.Parse(v)) != segments {
			continue
		}
		versions = append(versions, v)
	}
	return versions
}

// LocalPDCursesVersion reads the version macros out of the vendored
// PDCursesMod header, "" when the header or any macro is missing.
func LocalPDCursesVersion(root string) string {
	header := filepath.Join(root, "third_party", "PDCursesMod", "curses.h")
	raw, err := os.ReadFile(header)
	if err != nil {
		return ""
	}
	text := string(raw)

	macro := func(name string) string {
		m := regexp.MustCompile(name + `\s+(\d+)`).FindStringSubmatch(text)
		if m == nil {
			return ""
		}
		return m[1]
	}
	major := macro("PDC_VER_MAJOR")
	minor := macro("PDC_VER_MINOR")
	change := macro("PDC_VER_CHANGE")
	if major == "" || minor == "" || change == "" {
		return ""
	}
	return fmt.Sprintf("%s.%s.%s", major, minor, change)
}
