package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"reqtrace/internal/config"
	"reqtrace/internal/domain"
	"reqtrace/internal/storage"
)

// Viewer displays a check report in an interactive TUI
type Viewer interface {
	View(report *domain.CheckReport) error
}

// ReportViewer browses requirements and orphaned tests from the last check
type ReportViewer struct {
	config *config.Config
	store  storage.Store
}

// NewReportViewer creates a new ReportViewer
func NewReportViewer(cfg *config.Config, st storage.Store) *ReportViewer {
	return &ReportViewer{config: cfg, store: st}
}

// entry is one selectable row: a requirement or an orphaned test.
type entry struct {
	status *domain.RequirementStatus
	orphan *domain.TestRecord
}

// View displays the check report in an interactive TUI
func (rv *ReportViewer) View(report *domain.CheckReport) error {
	if len(report.Requirements) == 0 && len(report.Orphans) == 0 {
		color.Green("✓ Nothing to show: no requirements and no orphaned tests")
		return nil
	}

	var entries []entry
	for i := range report.Requirements {
		entries = append(entries, entry{status: &report.Requirements[i]})
	}
	for i := range report.Orphans {
		entries = append(entries, entry{orphan: &report.Orphans[i]})
	}

	// Orphans ignored from inside the viewer, by entry index.
	ignored := make(map[int]bool)

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	listItemText := func(index int) string {
		e := entries[index]
		if e.status != nil {
			switch e.status.Status {
			case domain.StatusVerified:
				return fmt.Sprintf("[green]✓[white] %s", e.status.ID)
			case domain.StatusUnverified:
				return fmt.Sprintf("[yellow]○[white] %s", e.status.ID)
			default:
				return fmt.Sprintf("[gray]- %s[white]", e.status.ID)
			}
		}
		if ignored[index] {
			return fmt.Sprintf("[gray]✓ orphan: %s[white]", e.orphan.Identifier)
		}
		return fmt.Sprintf("[yellow]? orphan:[white] %s", e.orphan.Identifier)
	}

	for i := range entries {
		list.AddItem(listItemText(i), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsView, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		headerText := fmt.Sprintf(" Requirements (%d) | Orphans (%d) | ↑↓ navigate, → details, ← back, [yellow]I[white] ignore orphan, Ctrl+C exit ",
			len(report.Requirements), len(report.Orphans))
		headerView.SetText(headerText)
	}
	updateHeader()

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index < 0 || index >= len(entries) {
			return
		}
		e := entries[index]
		if e.status != nil {
			statsView.SetText(fmt.Sprintf("[cyan]requirement:[white] [yellow]%s[white]  [cyan]status:[white] %s", e.status.ID, string(e.status.Status)))
			detailsView.SetText(formatRequirementDetails(e.status))
			return
		}
		statsView.SetText(fmt.Sprintf("[cyan]orphan:[white] [yellow]%s[white]::[yellow]%s[white]", e.orphan.File, e.orphan.Identifier))
		detailsView.SetText(formatOrphanDetails(e.orphan, ignored[index]))
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp, tcell.KeyDown:
			return event
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'i' || event.Rune() == 'I' {
				index := list.GetCurrentItem()
				if index >= 0 && index < len(entries) && entries[index].orphan != nil && !ignored[index] {
					orphan := entries[index].orphan
					err := rv.store.AppendIgnored(domain.IgnoredTest{
						File:       orphan.File,
						Identifier: orphan.Identifier,
						Reason:     "ignored from viewer",
						IgnoredAt:  time.Now().Format(time.RFC3339),
					})
					if err == nil {
						ignored[index] = true
						list.SetItemText(index, listItemText(index), "")
						updateDetails()
					}
				}
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// formatRequirementDetails renders one requirement with its linked tests
// using tview color tags.
func formatRequirementDetails(status *domain.RequirementStatus) string {
	var builder strings.Builder

	switch status.Status {
	case domain.StatusVerified:
		fmt.Fprintf(&builder, "[green]✓ %s[white]\n\n", status.Title)
	case domain.StatusUnverified:
		fmt.Fprintf(&builder, "[yellow]○ %s[white]\n\n", status.Title)
	default:
		fmt.Fprintf(&builder, "[gray]- %s[white]\n\n", status.Title)
	}

	if len(status.LinkedTests) == 0 {
		builder.WriteString("[gray]No linked tests.[white]\n")
		return builder.String()
	}

	resynced := make(map[string]bool, len(status.Resynced))
	for _, key := range status.Resynced {
		resynced[key] = true
	}

	fmt.Fprintf(&builder, "[cyan]Linked tests:[white]\n")
	for _, link := range status.LinkedTests {
		fmt.Fprintf(&builder, "  %s::%s\n", link.File, link.Identifier)
		if resynced[link.Key()] {
			fmt.Fprintf(&builder, "    [red]hash %.12s (resynced this pass)[white]\n", link.Hash)
		} else {
			fmt.Fprintf(&builder, "    [gray]hash %.12s[white]\n", link.Hash)
		}
	}
	return builder.String()
}

// formatOrphanDetails renders one orphaned test.
func formatOrphanDetails(orphan *domain.TestRecord, ignored bool) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "[yellow]Orphaned test[white]\n\n")
	fmt.Fprintf(&builder, "[cyan]File:[white] %s\n", orphan.File)
	fmt.Fprintf(&builder, "[cyan]Test:[white] %s\n", orphan.Identifier)
	fmt.Fprintf(&builder, "[cyan]Hash:[white] %.12s\n\n", orphan.Hash)
	if ignored {
		builder.WriteString("[gray]Marked ignored; it will be excluded from the next check.[white]\n")
	} else {
		builder.WriteString("This test is linked to no requirement and not on the\nignored list. Press [yellow]I[white] to ignore it, or link it with:\n\n")
		fmt.Fprintf(&builder, "  reqtrace link <req-id> %q %q\n", orphan.File, orphan.Identifier)
	}
	return builder.String()
}
