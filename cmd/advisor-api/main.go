package main

import (
	"fmt"
	"os"

	"github.com/noah-isme/course-advisor-api/internal/cli"
)

// @title Course Advisor API
// @version 0.1.0
// @description Course catalog lookups and plan mutations for the advising agent
// @BasePath /api/v1
// @schemes http

var version = "dev"

func main() {
	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
