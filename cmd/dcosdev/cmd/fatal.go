package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/portworx/dcosdev/pkg/checksum"
	"github.com/portworx/dcosdev/pkg/model"
	"github.com/portworx/dcosdev/pkg/runner"
	"github.com/portworx/dcosdev/pkg/storage/status"
)

var (
	// globals used to patch over calls to os.Exit() during test

	logFatalln = log.Fatalln
	logFatalf  = log.Fatalf
	osExit     = os.Exit

	// infoLogger wraps informative messages to os.Stdout without cluttering expected output in tests.
	// To be used instead on fmt.Printf(os.Stdout, ...)
	infoLogger = log.New(os.Stdout, "", 0)
	logStdOut  = fmt.Printf
)

func wrapFatalln(msg string, err error) {
	if err == nil {
		logFatalln(msg)
		return
	}
	if hint := hintFor(err); hint != "" {
		printError("%s", hint)
	}
	logFatalf("%v", fmt.Errorf(msg+": %w", err))
}

func wrapFatalWithCodef(code int, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	osExit(code)
}

// hintFor tells the user what to do about the usual failures
func hintFor(err error) string {
	switch {
	case errors.Is(err, model.ErrUnsupportedSDKVersion):
		return "unsupported sdk version! Supported sdk versions are [" + strings.Join(model.SDKVersions.Sorted(), ", ") + "]"
	case errors.Is(err, model.ErrDescriptor):
		return "no package project here: run the command from the project directory, or pass --workdir"
	case errors.Is(err, status.ErrExists):
		return "some of these files already exist and were not overwritten"
	case errors.Is(err, checksum.ErrFetch), errors.Is(err, checksum.ErrChecksumNotFound):
		return "could not get the sdk cli checksums, check checksum_url"
	case errors.Is(err, runner.ErrContainerFailed):
		return "the container failed, see its output above"
	default:
		return ""
	}
}
