package transform

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
)

// ErrProfileURL is returned when a linkedin profile carries a url that is
// neither text nor empty.
var ErrProfileURL = errors.New("profile url is not text")

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsValidURL reports whether v is a string holding an absolute http or https
// URL with a non-empty network location.
func IsValidURL(v any) bool {
	_, ok := parseHTTPURL(v)
	return ok
}

// IsValidEmail reports whether v is a string that looks like an email address.
func IsValidEmail(v any) bool {
	s, ok := v.(string)
	return ok && emailPattern.MatchString(s)
}

// ExtractDomain returns the network location (host, port and any user info)
// of a valid URL.
func ExtractDomain(v any) (string, bool) {
	u, ok := parseHTTPURL(v)
	if !ok {
		return "", false
	}

	return netloc(u), true
}

const linkedInCompanyMarker = "linkedin.com/company/"

// ExtractLinkedInCompanyURL returns the url of the first profile in a list of
// {platform, url} objects whose platform is "linkedin" and whose url is a
// valid LinkedIn company page. Empty urls, lists and objects are skipped; a
// linkedin profile with any other non-text url fails with ErrProfileURL.
func ExtractLinkedInCompanyURL(v any) (string, bool, error) {
	profiles, ok := AsList(v)
	if !ok {
		return "", false, nil
	}

	for _, p := range profiles {
		profile, ok := p.(map[string]any)
		if !ok {
			continue
		}

		if platform, _ := profile["platform"].(string); platform != "linkedin" {
			continue
		}

		link, err := profileURL(profile["url"])
		if err != nil {
			return "", false, err
		}

		if link != "" && strings.Contains(link, linkedInCompanyMarker) && IsValidURL(link) {
			return link, true, nil
		}
	}

	return "", false, nil
}

func profileURL(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case []any, map[string]any:
		return "", nil
	}

	if reflect.ValueOf(v).IsZero() {
		return "", nil
	}

	return "", fmt.Errorf("%w: got %s", ErrProfileURL, TypeName(v))
}

func parseHTTPURL(v any) (*url.URL, bool) {
	s, ok := v.(string)
	if !ok {
		return nil, false
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}

	if netloc(u) == "" {
		return nil, false
	}

	return u, true
}

func netloc(u *url.URL) string {
	if u.User == nil {
		return u.Host
	}

	return u.User.String() + "@" + u.Host
}
