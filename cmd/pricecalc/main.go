package main

import (
	"context"
	"fmt"
	"os"

	"shutter-pricing-service/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Run(context.Background(), os.Args, version, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "pricecalc:", err)
		os.Exit(1)
	}
}
