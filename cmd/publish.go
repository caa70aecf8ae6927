package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"text/template"

	"github.com/etnz/wheelhouse"
	"github.com/etnz/wheelhouse/renderer"
	"github.com/google/subcommands"
)

// reportTask identifies one report file to generate. Window is empty for
// reports that do not take a window.
type reportTask struct {
	Report string
	Window string
}

type publishCmd struct {
	outputDir      string
	frontMatterTpl string
}

func (*publishCmd) Name() string { return "publish" }

func (*publishCmd) Synopsis() string { return "generates every report for every window" }

func (*publishCmd) Usage() string {
	return `publish [-o <dir>] [-frontmatter <file>]

  Generates all reports (summary, trades, income, daily, campaigns,
  breakdown, positions, windows) for every supported window and saves
  them to a structured directory tree.
`
}

func (c *publishCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputDir, "o", "reports", "Root directory for the generated reports")
	f.StringVar(&c.frontMatterTpl, "frontmatter", "", "Path to a Go template file for the report front matter")
}

func (c *publishCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var frontMatterTpl *template.Template
	if c.frontMatterTpl != "" {
		var err error
		frontMatterTpl, err = template.ParseFiles(c.frontMatterTpl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to parse front matter template: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	if err := os.MkdirAll(c.outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create output directory: %v\n", err)
		return subcommands.ExitFailure
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if ledger.Len() == 0 {
		fmt.Println("The ledger is empty, nothing to publish.")
		return subcommands.ExitSuccess
	}

	s := wheelhouse.NewSnapshot(ledger, false)

	for _, task := range publishTasks() {
		var md string

		switch task.Report {
		case "summary":
			r, err := wheelhouse.NewSummary(s, task.Window)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to generate summary report for %s: %v\n", task.Window, err)
				continue
			}
			md = renderer.SummaryMarkdown(r)
		case "trades":
			r, err := wheelhouse.NewTradesReport(s, task.Window)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to generate trades report for %s: %v\n", task.Window, err)
				continue
			}
			md = renderer.TradesMarkdown(r)
		case "income":
			r, err := wheelhouse.NewIncomeReport(s, task.Window)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to generate income report for %s: %v\n", task.Window, err)
				continue
			}
			md = renderer.IncomeMarkdown(r)
		case "daily":
			r, err := wheelhouse.NewDailyReport(ledger, task.Window)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to generate daily report for %s: %v\n", task.Window, err)
				continue
			}
			md = renderer.DailyMarkdown(r)
		case "campaigns":
			md = renderer.CampaignsMarkdown(wheelhouse.NewCampaignsReport(s, ""))
		case "breakdown":
			md = renderer.BreakdownMarkdown(wheelhouse.NewBreakdownReport(s))
		case "positions":
			md = renderer.PositionsMarkdown(wheelhouse.NewPositionsReport(s))
		case "windows":
			md = renderer.WindowsMarkdown(ledger)
		}

		if frontMatterTpl != nil {
			fm, err := renderFrontMatter(frontMatterTpl, task)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to render front matter for %s report: %v\n", task.Report, err)
				continue
			}
			md = fm + "\n" + md
		}

		filePath := task.Report + ".md"
		if task.Window != "" {
			filePath = path.Join(task.Report, task.Window+".md")
		}
		fullPath := filepath.Join(c.outputDir, filePath)

		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create output directory for file %s: %v\n", filePath, err)
			return subcommands.ExitFailure
		}

		if err := os.WriteFile(fullPath, []byte(md), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write file %s: %v\n", filePath, err)
			return subcommands.ExitFailure
		}
		log.Printf("Generated %s", filePath)
	}

	return subcommands.ExitSuccess
}

// publishTasks enumerates every report file to generate: one file per window
// for the windowed reports, a single file for the rest.
func publishTasks() []reportTask {
	tasks := make([]reportTask, 0)
	for _, w := range wheelhouse.WindowNames {
		tasks = append(tasks,
			reportTask{Report: "summary", Window: w},
			reportTask{Report: "trades", Window: w},
			reportTask{Report: "income", Window: w},
			reportTask{Report: "daily", Window: w},
		)
	}
	tasks = append(tasks,
		reportTask{Report: "campaigns"},
		reportTask{Report: "breakdown"},
		reportTask{Report: "positions"},
		reportTask{Report: "windows"},
	)
	return tasks
}

func renderFrontMatter(tpl *template.Template, task reportTask) (string, error) {
	var fmBuffer bytes.Buffer
	if err := tpl.Execute(&fmBuffer, task); err != nil {
		return "", err
	}
	return fmBuffer.String(), nil
}
