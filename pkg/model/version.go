package model

import (
	"sort"
	"strings"

	"github.com/blang/semver"
)

// SDKVersions is the list of supported SDK versions
var SDKVersions = SupportedVersions{"0.40.5-1.3.3"}

// SupportedVersions is an allow-list of version strings
type SupportedVersions []string

// Supports tells if v is in the allow-list (exact match)
func (s SupportedVersions) Supports(v string) bool {
	for _, known := range s {
		if known == v {
			return true
		}
	}
	return false
}

// Check returns ErrUnsupportedSDKVersion, listing the supported versions, when v is not allowed
func (s SupportedVersions) Check(v string) error {
	if s.Supports(v) {
		return nil
	}
	return ErrUnsupportedSDKVersion.Wrapf("%q is not one of the supported sdk versions [%s]", v, strings.Join(s.Sorted(), ", "))
}

// Sorted returns the versions in ascending semver order. Versions that do not parse sort last, lexically.
func (s SupportedVersions) Sorted() []string {
	res := append([]string(nil), s...)
	sort.SliceStable(res, func(i, j int) bool {
		return CompareVersions(res[i], res[j]) < 0
	})
	return res
}

// CompareVersions compares two SDK versions with semver rules (tolerant parsing).
// Unparsable versions compare after parsable ones, then lexically.
func CompareVersions(a, b string) int {
	va, erra := semver.ParseTolerant(a)
	vb, errb := semver.ParseTolerant(b)
	switch {
	case erra == nil && errb == nil:
		return va.Compare(vb)
	case erra == nil:
		return -1
	case errb == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
