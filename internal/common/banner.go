package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application startup banner to stderr.
func PrintBanner(config *Config, logger *Logger) {
	version := GetVersion()
	build := GetBuild()
	commit := GetGitCommit()
	serviceURL := fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)

	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 70
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		` 8888888 888b    888 888     888 8888888888 .d8888b. 88888888888 .d88888b.`,
		`   888   8888b   888 888     888 888       d88P  Y88b    888    d88P" "Y88b`,
		`   888   88888b  888 888     888 888       Y88b.         888    888     888`,
		`   888   888Y88b 888 Y88b   d88P 8888888    "Y888b.      888    888     888`,
		`   888   888 Y88b888  Y88b d88P  888           "Y88b.    888    888     888`,
		`   888   888  Y88888   Y88o88P   888             "888    888    888     888`,
		`   888   888   Y8888    Y888P    888       Y88b  d88P    888    Y88b. .d88P`,
		` 8888888 888    Y888     Y8P     8888888888 "Y8888P"     888     "Y88888P"`,
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")
	for _, line := range art {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  %sVersion:%s  %s (build %s, commit %s)\n", textColor, banner.ColorReset, version, build, commit)
	fmt.Fprintf(os.Stderr, "  %sService:%s  %s\n", textColor, banner.ColorReset, serviceURL)
	fmt.Fprintf(os.Stderr, "  %sStorage:%s  %s (%s)\n", textColor, banner.ColorReset, config.Storage.Backend, config.Storage.Path)
	fmt.Fprintf(os.Stderr, "  %sEnv:%s      %s\n", textColor, banner.ColorReset, config.Environment)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")
}
