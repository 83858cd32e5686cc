package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"go.densebucket.dev/core/allocator"
	"gopkg.in/yaml.v2"
)

// maxTableBallIDs is the number of ball IDs listed in a table row before
// the remainder are summarized.
const maxTableBallIDs = 8

// writeBuckets to |w| in the given |format|.
func writeBuckets(w io.Writer, format string, buckets []allocator.Bucket) error {
	switch format {
	case "table":
		return writeBucketsTable(w, buckets)
	case "yaml":
		var b, err = yaml.Marshal(buckets)
		if err != nil {
			return errors.Wrap(err, "encoding yaml")
		}
		_, err = w.Write(b)
		return errors.Wrap(err, "writing yaml")
	case "json":
		var enc = json.NewEncoder(w)
		for _, b := range buckets {
			if err := enc.Encode(b); err != nil {
				return errors.Wrap(err, "encoding json")
			}
		}
		return nil
	default:
		return errors.Errorf("unknown format %q", format)
	}
}

func writeBucketsTable(w io.Writer, buckets []allocator.Bucket) error {
	var table = tablewriter.NewWriter(w)
	table.Header("Round", "Color", "Count", "Range", "Half Width", "Balls")

	for i, b := range buckets {
		if err := table.Append([]string{
			strconv.Itoa(i),
			b.Color,
			strconv.Itoa(b.Count),
			b.Range.String(),
			strconv.FormatFloat(b.HalfWidth, 'g', -1, 64),
			formatBallIDs(b.BallIDs),
		}); err != nil {
			return errors.Wrap(err, "appending table row")
		}
	}
	return errors.Wrap(table.Render(), "rendering table")
}

func formatBallIDs(ids []allocator.BallID) string {
	var parts []string
	for i, id := range ids {
		if i == maxTableBallIDs {
			parts = append(parts, fmt.Sprintf("... (+%d more)", len(ids)-i))
			break
		}
		parts = append(parts, strconv.FormatInt(int64(id), 10))
	}
	if len(parts) == 0 {
		return "<none>"
	}
	return strings.Join(parts, ",")
}
