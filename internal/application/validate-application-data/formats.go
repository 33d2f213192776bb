// internal/application/validate-application-data/formats.go
package validateapplicationdata

import (
	"net/url"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const (
	formatApplicantEmail = "applicant-email"
	formatOptionalURL    = "optional-url"
)

func init() {
	gojsonschema.FormatCheckers.Add(formatApplicantEmail, applicantEmailChecker{})
	gojsonschema.FormatCheckers.Add(formatOptionalURL, optionalURLChecker{})
}

type applicantEmailChecker struct{}

func (applicantEmailChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		return true
	}
	return emailRegex.MatchString(s)
}

// optionalURLChecker accepts the empty string or an http(s) URL. A missing
// scheme is tolerated ("github.com/someone") as long as the host looks real.
type optionalURLChecker struct{}

func (optionalURLChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok || s == "" {
		return true
	}
	return isWebURL(s)
}

func isWebURL(s string) bool {
	if strings.ContainsAny(s, " \t\n") {
		return false
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := u.Hostname()
	return host != "" && strings.Contains(host, ".") && !strings.HasPrefix(host, ".") && !strings.HasSuffix(host, ".")
}
