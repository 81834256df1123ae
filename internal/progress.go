package internal

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// UIManager handles terminal output for the CLI (progress, status messages)
type UIManager interface {
	NewProgressBar(total int, description string) ProgressBar
	Printf(format string, args ...any)
	Println(args ...any)
}

// ProgressBar abstracts progress bar operations
type ProgressBar interface {
	Set(current int)
	Describe(description string)
	Finish()
}

// StandardUIManager writes to stderr so stdout stays clean for results
type StandardUIManager struct {
	out     io.Writer
	verbose bool
	quiet   bool
}

func NewUIManager(verbose, quiet bool) UIManager {
	return &StandardUIManager{
		out:     os.Stderr,
		verbose: verbose,
		quiet:   quiet,
	}
}

func (ui *StandardUIManager) NewProgressBar(total int, description string) ProgressBar {
	// Verbose mode logs every video; a bar would garble those lines
	if ui.quiet || ui.verbose {
		return &silentProgressBar{bar: progressbar.DefaultSilent(int64(total))}
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(ui.out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	return &visibleProgressBar{bar: bar}
}

func (ui *StandardUIManager) Printf(format string, args ...any) {
	if !ui.quiet {
		fmt.Fprintf(ui.out, format, args...)
	}
}

func (ui *StandardUIManager) Println(args ...any) {
	if !ui.quiet {
		fmt.Fprintln(ui.out, args...)
	}
}

// BatchProgress returns an observer that advances bar for every finished video
func BatchProgress(bar ProgressBar) BatchObserver {
	return func(index, total int, entry BatchManifestEntry) {
		status := "ok"
		if !entry.Success {
			status = "failed"
		}
		bar.Describe(fmt.Sprintf("%s (%s)", truncateTitle(entry.Title, 40), status))
		bar.Set(index)
	}
}

func truncateTitle(title string, n int) string {
	runes := []rune(title)
	if len(runes) <= n {
		return title
	}
	return string(runes[:n-1]) + "…"
}

type visibleProgressBar struct {
	bar *progressbar.ProgressBar
}

func (v *visibleProgressBar) Set(current int) {
	_ = v.bar.Set(current)
}

func (v *visibleProgressBar) Describe(description string) {
	v.bar.Describe(description)
}

func (v *visibleProgressBar) Finish() {
	_ = v.bar.Finish()
}

type silentProgressBar struct {
	bar *progressbar.ProgressBar
}

func (s *silentProgressBar) Set(current int) {
	_ = s.bar.Set(current)
}

func (s *silentProgressBar) Describe(string) {}

func (s *silentProgressBar) Finish() {
	_ = s.bar.Finish()
}
