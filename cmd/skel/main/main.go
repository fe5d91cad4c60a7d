package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/skel/cmd/skel"
	"github.com/arthur-debert/skel/pkg/ui/styles"
)

func main() {
	rootCmd := skel.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		errorStyle := styles.GetStyle("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
