// Package ballfile reads and writes line-oriented files of colored Balls.
// Each line holds whitespace-separated fields:
//
//	<id> <color> <low> <high>
//
// where |id| is an integer and |low| and |high| are numbers with low < high.
// Malformed lines are skipped rather than failing the whole file. A line is
// malformed if it doesn't parse, and also if its range is empty, inverted, or
// has a non-finite bound, as such a Ball couldn't be allocated.
package ballfile

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"go.densebucket.dev/core/allocator"
)

// Stdin is the path which ReadFile maps to os.Stdin.
const Stdin = "-"

// maxLineSize bounds the length of a single ball line.
const maxLineSize = 1 << 20

var ballfileDroppedLinesTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "densebucket_ballfile_dropped_lines_total",
	Help: "Cumulative number of malformed ball lines which were skipped.",
})

// ParseLine parses a single ball line. It returns false if the line is
// malformed: it doesn't have exactly four fields, its id or bounds don't
// parse, or its bounds are not finite with low < high.
func ParseLine(line string) (allocator.Ball, bool) {
	var fields = strings.Fields(line)
	if len(fields) != 4 {
		return allocator.Ball{}, false
	}

	var id, err = strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return allocator.Ball{}, false
	}
	low, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return allocator.Ball{}, false
	}
	high, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return allocator.Ball{}, false
	}

	var ball = allocator.Ball{
		ID:    allocator.BallID(id),
		Color: fields[1],
		Range: allocator.Range{Low: low, High: high},
	}
	if ball.Validate() != nil {
		return allocator.Ball{}, false
	}
	return ball, true
}

// Parse Balls from lines of |r|. Blank lines, and lines beginning with '#',
// are ignored. Malformed lines are logged and skipped. An error is returned
// only if |r| fails.
func Parse(r io.Reader) ([]allocator.Ball, error) {
	var scanner = bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	var out []allocator.Ball
	var lineNum, dropped int

	for scanner.Scan() {
		lineNum++

		var line = strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if ball, ok := ParseLine(line); ok {
			out = append(out, ball)
		} else {
			dropped++
			log.WithFields(log.Fields{"line": lineNum, "text": line}).Debug("skipping malformed ball line")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading line %d", lineNum+1)
	}

	ballfileDroppedLinesTotal.Add(float64(dropped))
	if dropped != 0 {
		log.WithFields(log.Fields{"dropped": dropped, "parsed": len(out)}).Warn("skipped malformed ball lines")
	}
	return out, nil
}

// ReadFile parses Balls of the file at |path| within |fs|. If |path| is
// Stdin, os.Stdin is read instead.
func ReadFile(fs afero.Fs, path string) ([]allocator.Ball, error) {
	if path == Stdin {
		var balls, err = Parse(os.Stdin)
		return balls, errors.WithMessage(err, "parsing stdin")
	}

	var f, err = fs.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening ball file")
	}
	defer f.Close()

	balls, err := Parse(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "parsing %s", path)
	}
	return balls, nil
}

// GroupByColor partitions |balls| on color, preserving the relative order
// of Balls within each color.
func GroupByColor(balls []allocator.Ball) map[string][]allocator.Ball {
	var out = make(map[string][]allocator.Ball)
	for _, b := range balls {
		out[b.Color] = append(out[b.Color], b)
	}
	return out
}

// FormatLine is the inverse of ParseLine.
func FormatLine(b allocator.Ball) string {
	return strconv.FormatInt(int64(b.ID), 10) + " " + b.Color + " " +
		strconv.FormatFloat(b.Low, 'g', -1, 64) + " " +
		strconv.FormatFloat(b.High, 'g', -1, 64)
}
