package main

import (
	"bufio"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

var notes = []string{
	"AAPL reported record services revenue and strong iPhone demand, beating analyst estimates for the quarter.",
	"MSFT posted growth in Azure cloud revenue of 29% as enterprise AI workloads continued to expand.",
	"GOOG advertising sales were flat year over year while cloud margins improved modestly.",
	"TSLA deliveries declined for a second quarter as price cuts weighed on automotive gross margin.",
	"NVDA data center revenue surged on demand for accelerators, and management raised full-year guidance.",
	"AMZN retail operating income improved while AWS growth re-accelerated to 17%.",
	"META cut capital expenditure guidance after a weak quarter for Reality Labs.",
	"JPM net interest income beat expectations, though the bank flagged rising credit card charge-offs.",
	"XOM profit dropped on lower natural gas prices and narrower refining margins.",
	"The Federal Reserve held rates steady and signaled two cuts later in the year, lifting equities broadly.",
	"INTC faces a lawsuit from shareholders over foundry disclosures after a sharp share price decline.",
	"KO raised its dividend for the 62nd consecutive year on steady pricing gains.",
}

const htmlBrief = `<html><head><title>Weekly brief</title><style>body{font:12px}</style></head>
<body><h1>Weekly market brief</h1>
<p>Semiconductors led the market higher as NVDA and AMD gained on strong AI server demand.</p>
<script>track("brief")</script>
<p>Energy lagged: XOM and CVX fell with crude oil down 4% on the week.</p>
</body></html>
`

var quarterly = [][]any{
	{"Ticker", "Quarter", "Revenue (USD bn)", "EPS", "Guidance"},
	{"AAPL", "Q3", 85.8, 1.40, "raised"},
	{"MSFT", "Q4", 64.7, 2.95, "maintained"},
	{"TSLA", "Q2", 25.5, 0.52, "withdrawn"},
	{"NVDA", "Q2", 30.0, 0.68, "raised"},
}

var (
	outDir        = flag.String("out", "./data", "directory to write sample documents into")
	seedFileName  = flag.String("src", "", "file of notes, one document per line")
	skipWorkbooks = flag.Bool("no-xlsx", false, "do not write the sample spreadsheet")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// linesFromSlice returns an iterator over a slice of strings.
func linesFromSlice(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}

// writeNotes writes each non-empty line of source to its own text file.
func writeNotes(dir string, source iter.Seq[string]) (int, error) {
	n := 0
	for line := range source {
		if line == "" {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("note_%03d.txt", n))
		if err := os.WriteFile(path, []byte(line+"\n"), 0644); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func writeWorkbook(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range quarterly {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func main() {
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		panic(err)
	}

	// Determine source of seed data
	var source iter.Seq[string]
	var err error
	if *seedFileName != "" {
		source, err = linesFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = linesFromSlice(notes)
	}

	n, err := writeNotes(*outDir, source)
	if err != nil {
		panic(err)
	}
	slog.Info("wrote notes", "count", n, "dir", *outDir)

	if err := os.WriteFile(filepath.Join(*outDir, "brief.html"), []byte(htmlBrief), 0644); err != nil {
		panic(err)
	}

	if !*skipWorkbooks {
		if err := writeWorkbook(filepath.Join(*outDir, "quarterly.xlsx")); err != nil {
			panic(err)
		}
	}
	slog.Info("seed corpus ready", "dir", *outDir)
}
