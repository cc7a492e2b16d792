package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// ProgressBar creates and manages progress bars
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBar creates a progress bar; the file count arrives via Start
// once the scanner has listed the tree.
func NewProgressBar() *ProgressBar {
	return &ProgressBar{}
}

// Start sizes the bar to the number of files about to be scanned
func (p *ProgressBar) Start(total int) {
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(
			color.CyanString("Scanning files: ")+
				color.GreenString("[tests: 0]"),
		),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Update updates the progress bar with scanned file and discovered test counts
func (p *ProgressBar) Update(completed, tests int) {
	if p.bar == nil {
		return
	}
	p.bar.Set(completed)
	p.bar.Describe(
		color.CyanString("Scanning files: ") +
			color.GreenString("[tests: %d]", tests),
	)
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}
