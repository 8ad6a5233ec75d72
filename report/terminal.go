package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/liamg/portscout/scan"
)

const ruleWidth = 50

// Terminal renders reports for humans. Quiet drops everything except the open port table and summary.
type Terminal struct {
	Out   io.Writer
	Quiet bool
	Color bool
}

func NewTerminal(out io.Writer, quiet bool, colored bool) *Terminal {
	return &Terminal{
		Out:   out,
		Quiet: quiet,
		Color: colored,
	}
}

func (t *Terminal) paint(style color.Style, text string) string {
	if !t.Color {
		return text
	}
	return style.Sprint(text)
}

// PrintStart announces a scan before it runs.
func (t *Terminal) PrintStart(req scan.Request) {
	if t.Quiet {
		return
	}

	fmt.Fprintf(
		t.Out,
		"%s\n",
		t.paint(color.New(color.OpBold), fmt.Sprintf(
			"Scanning %d ports %d-%d on %s (timeout: %dms, concurrency: %d)",
			req.Size(),
			req.Start,
			req.End,
			t.paint(color.New(color.FgYellow), req.Target.String()),
			req.Timeout.Milliseconds(),
			req.Concurrency,
		)),
	)
}

func (t *Terminal) Render(report *scan.Report) {

	fmt.Fprintf(
		t.Out,
		"\n%s\n",
		t.paint(color.New(color.OpBold), fmt.Sprintf(
			"Scan completed in %.2fs (%.1f ports/sec)",
			report.Elapsed.Seconds(),
			report.PortsPerSecond(),
		)),
	)

	rule := strings.Repeat("═", ruleWidth)
	open := report.OpenPorts()

	fmt.Fprintf(t.Out, "\n%s\n", rule)
	fmt.Fprintln(t.Out, t.paint(color.New(color.FgCyan, color.OpBold), " PORT SCAN RESULTS "))
	fmt.Fprintln(t.Out, rule)

	if len(open) == 0 {
		fmt.Fprintln(t.Out, t.paint(color.New(color.FgYellow), "No open ports found"))
	} else {
		if !t.Quiet {
			fmt.Fprintf(t.Out, "\n%s\n", t.paint(color.New(color.FgGreen, color.OpBold), "Open Ports:"))
		}
		fmt.Fprintf(t.Out, "%s %s %s\n", pad("PORT", 8), pad("SERVICE", 15), "STATUS")
		fmt.Fprintf(t.Out, "%s %s %s\n", pad("────", 8), pad("───────", 15), "───────")
		for _, result := range open {
			fmt.Fprintf(
				t.Out,
				"%s %s %s\n",
				t.paint(color.New(color.FgGreen), pad(fmt.Sprintf("%d", result.Port), 8)),
				t.paint(color.New(color.FgCyan), pad(result.ServiceLabel(), 15)),
				t.paint(color.New(color.FgGreen, color.OpBold), "OPEN"),
			)
		}
	}

	fmt.Fprintf(
		t.Out,
		"\n%s\n",
		t.paint(color.New(color.OpBold), fmt.Sprintf("Scanned: %d ports, Found: %d open", len(report.Results), len(open))),
	)
	fmt.Fprintln(t.Out, rule)
}

// pad works on runes so the box-drawing rule lines up; padding is applied before colouring
func pad(input string, length int) string {
	for len([]rune(input)) < length {
		input += " "
	}
	return input
}
