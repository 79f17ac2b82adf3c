package usage

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Table is the flattened tabular view of a tracker's records. Nested usage
// keys become fixed-depth column paths, shorter paths padded with empty
// segments to the maximum observed depth. Presentation-layer convenience;
// rendering is left to the caller.
type Table struct {
	Columns [][]string
	Rows    [][]string
}

// Table flattens all records into a table with model and active_nodes
// columns followed by one column per usage key path, rows in request order.
func (t *Tracker) Table() Table {
	if len(t.records) == 0 {
		return Table{}
	}

	var paths [][]string
	seen := map[string]bool{}
	for i := range t.records {
		collectPaths(t.records[i].Usage, nil, &paths, seen)
	}

	maxDepth := 1
	for _, path := range paths {
		if len(path) > maxDepth {
			maxDepth = len(path)
		}
	}

	columns := [][]string{
		padPath([]string{"model"}, maxDepth),
		padPath([]string{"active_nodes"}, maxDepth),
	}
	for _, path := range paths {
		columns = append(columns, padPath(path, maxDepth))
	}

	var rows [][]string
	for i := range t.records {
		record := &t.records[i]
		row := []string{
			record.Model,
			formatNodeIDs(record.ActiveNodes),
		}
		for _, path := range paths {
			if num, ok := lookup(record.Usage, path); ok {
				row = append(row, formatNumber(num))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}

	return Table{Columns: columns, Rows: rows}
}

// Header returns the column paths joined with dots, empty padding dropped.
func (tbl Table) Header() []string {
	var header []string
	for _, path := range tbl.Columns {
		var segments []string
		for _, segment := range path {
			if segment != "" {
				segments = append(segments, segment)
			}
		}
		header = append(header, strings.Join(segments, "."))
	}
	return header
}

func collectPaths(report Report, prefix []string, paths *[][]string, seen map[string]bool) {
	keys := make([]string, 0, len(report))
	for k := range report {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		path := append(append([]string(nil), prefix...), k)
		value := report[k]
		if value.IsMap() {
			collectPaths(value.Map, path, paths, seen)
			continue
		}
		joined := strings.Join(path, "\x00")
		if !seen[joined] {
			seen[joined] = true
			*paths = append(*paths, path)
		}
	}
}

func lookup(report Report, path []string) (float64, bool) {
	current := report
	for i, segment := range path {
		value, ok := current[segment]
		if !ok {
			return 0, false
		}
		if i == len(path)-1 {
			if value.IsMap() {
				return 0, false
			}
			return value.Num, true
		}
		if !value.IsMap() {
			return 0, false
		}
		current = value.Map
	}
	return 0, false
}

func padPath(path []string, depth int) []string {
	ret := append([]string(nil), path...)
	for len(ret) < depth {
		ret = append(ret, "")
	}
	return ret
}

func formatNumber(num float64) string {
	if num == math.Trunc(num) && math.Abs(num) < 1e15 {
		return strconv.FormatInt(int64(num), 10)
	}
	return strconv.FormatFloat(num, 'g', -1, 64)
}

func formatNodeIDs(ids []int) string {
	return fmt.Sprint(ids)
}
