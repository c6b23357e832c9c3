// mockadapter CLI - checks and exercises mock adapter fixtures
package main

import (
	"os"

	"github.com/getmockd/mockadapter/pkg/cli"
)

func main() {
	os.Exit(cli.Main())
}
