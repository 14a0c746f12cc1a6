package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/buildexcluder/internal/cli"
	"github.com/arthur-debert/buildexcluder/pkg/logging"
	"github.com/arthur-debert/buildexcluder/pkg/ui/output/styles"
)

func main() {
	rootCmd := cli.NewRootCmd()
	err := rootCmd.Execute()
	logging.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.GetStyle("Error").Render("Error: "+err.Error()))
		os.Exit(cli.ExitCode(err))
	}
}
