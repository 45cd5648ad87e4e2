package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/standardizer/internal/tabular"
)

var candidateDelimiters = []rune{'\t', ';', ','}

// DelimitedReader reads delimiter-separated text. With Comma unset the
// delimiter is sniffed from the leading lines.
type DelimitedReader struct {
	Name  string
	Exts  []string
	Comma rune
}

func (d *DelimitedReader) Format() string       { return d.Name }
func (d *DelimitedReader) Extensions() []string { return d.Exts }

func (d *DelimitedReader) Read(r io.Reader) (tabular.Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", d.Name, err)
	}
	comma := d.Comma
	if comma == 0 {
		comma = SniffDelimiter(data)
	}
	return readDelimited(data, comma)
}

// ReadPaste parses text pasted from a spreadsheet or typed by hand.
func ReadPaste(text string) (tabular.Grid, error) {
	data := []byte(text)
	return readDelimited(data, SniffDelimiter(data))
}

// sniffLines bounds how many non-blank lines SniffDelimiter inspects.
const sniffLines = 20

// SniffDelimiter picks the candidate found on the most of the first
// sniffLines non-blank lines, so title rows without any delimiter do not
// decide the format. Equal line counts go to the candidate whose per-line
// count repeats most often; remaining ties favour tab, then semicolon, then
// comma.
func SniffDelimiter(data []byte) rune {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() && len(lines) < sniffLines {
		if line := sc.Text(); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	best, bestLines, bestSteady := ',', 0, 0
	for _, c := range candidateDelimiters {
		seen, freq := 0, map[int]int{}
		for _, line := range lines {
			if n := strings.Count(line, string(c)); n > 0 {
				seen++
				freq[n]++
			}
		}
		steady := 0
		for _, f := range freq {
			steady = max(steady, f)
		}
		if seen > bestLines || (seen == bestLines && steady > bestSteady) {
			best, bestLines, bestSteady = c, seen, steady
		}
	}
	return best
}

func readDelimited(data []byte, comma rune) (tabular.Grid, error) {
	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing delimited text: %w", err)
		}
		rows = append(rows, trimRow(rec))
	}
	return tabular.StringGrid(rows), nil
}
