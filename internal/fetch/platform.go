package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known applicant tracking system.
type Platform string

// Known platforms
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

type platformProfile struct {
	hostSuffixes []string
	content      []string
	noise        []string
}

var platformProfiles = map[Platform]platformProfile{
	PlatformGreenhouse: {
		hostSuffixes: []string{"greenhouse.io"},
		content:      []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:        []string{".application--wrapper", ".voluntary-self-id", ".voluntary-self-id-wrapper", "#usa_self_id_section", ".post-apply"},
	},
	PlatformLever: {
		hostSuffixes: []string{"lever.co"},
		content:      []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:        []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	PlatformWorkday: {
		hostSuffixes: []string{"workday.com", "myworkdayjobs.com"},
		content:      []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']", ".job-description"},
		noise:        []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	PlatformAshby: {
		hostSuffixes: []string{"ashbyhq.com"},
		content:      []string{"[class*='_descriptionText']", "[class*='_description']", "main"},
		noise:        []string{"[class*='_applicationForm']"},
	},
}

// noise shared by every job board: application forms, EEO blocks, share widgets, consent banners
var commonNoiseSelectors = []string{
	"form",
	"#application-form",
	".application-form",
	".apply-button-container",
	"[data-testid='application-form']",
	".voluntary-disclosure",
	".eeo-statement",
	".eeo-section",
	".legal-disclosure",
	".social-share",
	".share-buttons",
	".cookie-consent",
	".gdpr-notice",
}

// DetectPlatform identifies the job board platform from a URL's host.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())

	for platform, profile := range platformProfiles {
		for _, suffix := range profile.hostSuffixes {
			if host == suffix || strings.HasSuffix(host, "."+suffix) {
				return platform
			}
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors for a platform followed by the generic ones.
func PlatformContentSelectors(platform Platform) []string {
	profile, ok := platformProfiles[platform]
	if !ok {
		return JobPostingSelectors()
	}
	return append(append([]string{}, profile.content...), JobPostingSelectors()...)
}

// PlatformNoiseSelectors returns the noise exclusion selectors for a platform.
func PlatformNoiseSelectors(platform Platform) []string {
	noise := append([]string{}, commonNoiseSelectors...)
	return append(noise, platformProfiles[platform].noise...)
}
