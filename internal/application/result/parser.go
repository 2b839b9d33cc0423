// Package result parses AutoDock Vina result logs into ranked pose records.
//
// A Vina log carries a results table of the form:
//
//	mode |   affinity | dist from best mode
//	     | (kcal/mol) | rmsd l.b.| rmsd u.b.
//	-----+------------+----------+----------
//	   1       -8.5      0.000      0.000
//	   2       -7.9      1.213      1.512
//
// The parser scans line by line for rows of that shape and ignores everything
// else. Ranking is the order of appearance: each match increments a running
// 1-based counter that becomes the pose's Mode. The index the log itself
// carries on the line is recorded separately as LogMode so callers can detect
// a disagreement between the engine's numbering and the table order, but it
// never influences ranking.
package result

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/anhth20011/dockprep/internal/domain/docking"
)

// poseLine matches one results-table row: a leading integer index followed by
// three signed decimal numbers.
var poseLine = regexp.MustCompile(
	`^\s*(\d+)\s+(-?\d+(?:\.\d+)?)\s+(-?\d+(?:\.\d+)?)\s+(-?\d+(?:\.\d+)?)\s*$`)

// Parse extracts every pose record from log text. A log with no matching
// lines yields an empty slice and no error; malformed content is not an
// error condition, it is simply not a result row.
func Parse(log string) []docking.DockingPose {
	var poses []docking.DockingPose

	sc := bufio.NewScanner(strings.NewReader(log))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		m := poseLine.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}

		// The regex guarantees these parse.
		logMode, _ := strconv.Atoi(m[1])
		affinity, _ := strconv.ParseFloat(m[2], 64)
		rmsdLB, _ := strconv.ParseFloat(m[3], 64)
		rmsdUB, _ := strconv.ParseFloat(m[4], 64)

		poses = append(poses, docking.DockingPose{
			Mode:      len(poses) + 1,
			LogMode:   logMode,
			Affinity:  affinity,
			RMSDLower: rmsdLB,
			RMSDUpper: rmsdUB,
		})
	}

	return poses
}

// Renumbered reports whether any parsed pose's order-assigned Mode differs
// from the index the log carried for it.
func Renumbered(poses []docking.DockingPose) bool {
	for _, p := range poses {
		if p.Mode != p.LogMode {
			return true
		}
	}
	return false
}
