package main

import (
	"github.com/portworx/dcosdev/cmd/dcosdev/cmd"
)

func main() {
	cmd.Execute()
}
