package repository

import (
	"strings"

	"github.com/portworx/dcosdev/pkg/document"
)

// RewriteURIs replaces the leading prefix from with to, in every string value of repo.
// Keys, and values where from is not a prefix, are left alone. It returns the number of rewritten values.
func RewriteURIs(repo *document.Object, from, to string) int {
	if from == "" {
		return 0
	}
	_, n := document.RewriteStrings(repo, func(s string) (string, bool) {
		if !strings.HasPrefix(s, from) {
			return s, false
		}
		return to + strings.TrimPrefix(s, from), true
	})
	return n
}
