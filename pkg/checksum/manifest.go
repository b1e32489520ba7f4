// Package checksum reads SHA256SUMS manifests published alongside SDK artifacts.
//
// A manifest is newline-delimited "hash  filename" text, as written by sha256sum.
package checksum

import (
	"bufio"
	"bytes"
	"sort"
	"strings"

	"github.com/portworx/dcosdev/pkg/errors"
)

var (
	// ErrMalformedManifest is returned when a manifest line is not "hash  filename"
	ErrMalformedManifest = errors.New("malformed checksum manifest")

	// ErrChecksumNotFound is returned when expected files are absent from a manifest
	ErrChecksumNotFound = errors.New("checksum not found")

	// ErrFetch is returned when the manifest cannot be retrieved
	ErrFetch = errors.New("cannot fetch checksum manifest")
)

// CLI binaries whose checksums are frozen into resource.json
const (
	CLIDarwin  = "dcos-service-cli-darwin"
	CLILinux   = "dcos-service-cli-linux"
	CLIWindows = "dcos-service-cli.exe"
)

// CLINames lists the CLI binaries needed to scaffold an operator package
func CLINames() []string {
	return []string{CLIDarwin, CLILinux, CLIWindows}
}

// Manifest maps file names to hex digests
type Manifest map[string]string

// Parse reads a manifest. Blank lines are ignored.
func Parse(data []byte) (Manifest, error) {
	m := make(Manifest)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, ErrMalformedManifest.Wrapf("line %d: %q", line, text)
		}
		// sha256sum marks binary mode with a leading '*' on the file name
		m[strings.TrimPrefix(fields[1], "*")] = fields[0]
	}
	if err := scanner.Err(); err != nil {
		return nil, ErrMalformedManifest.Wrap(err)
	}
	return m, nil
}

// Lookup returns the checksums of names, failing with ErrChecksumNotFound listing every missing name.
func (m Manifest) Lookup(names ...string) (map[string]string, error) {
	res := make(map[string]string, len(names))
	var missing []string
	for _, name := range names {
		sum, ok := m[name]
		if !ok || sum == "" {
			missing = append(missing, name)
			continue
		}
		res[name] = sum
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, ErrChecksumNotFound.Wrapf("missing %s", strings.Join(missing, ", "))
	}
	return res, nil
}
