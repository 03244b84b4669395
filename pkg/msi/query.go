// Package msi provides row-query access to the table of contents embedded
// in installer archives. The pipeline consumes this as a black-box
// capability; it issues one fixed query and receives rows.
package msi

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-sdkmirror/pkg/utils"
)

// Row maps column names to values; a nil value is a SQL NULL
type Row map[string]*string

// Querier runs a row query against an installer archive's embedded tables
type Querier interface {
	Query(path, sql string) ([]Row, error)
}

// mediaCabinetQuery lists the external cabinet archives an installer
// references from its media table.
const mediaCabinetQuery = "SELECT Cabinet FROM Media WHERE Cabinet IS NOT NULL"

// Cabinets returns the cabinet file names referenced by an installer archive
func Cabinets(q Querier, path string) ([]string, error) {
	rows, err := q.Query(path, mediaCabinetQuery)
	if err != nil {
		return nil, err
	}

	var cabs []string
	for _, row := range rows {
		if v := row["Cabinet"]; v != nil && *v != "" {
			cabs = append(cabs, *v)
		}
	}
	return cabs, nil
}

// ExecQuerier answers queries by exporting tables with the msiinfo tool
// (msitools) and parsing its IDT text output.
type ExecQuerier struct {
	logger *utils.Logger
	tool   string
}

// NewExecQuerier creates a querier backed by the msiinfo binary
func NewExecQuerier(logger *utils.Logger) *ExecQuerier {
	return &ExecQuerier{logger: logger, tool: "msiinfo"}
}

var selectPattern = regexp.MustCompile(`(?i)^\s*SELECT\s+([\w\s,]+?)\s+FROM\s+(\w+)\s*(?:WHERE\s+(\w+)\s+IS\s+NOT\s+NULL\s*)?$`)

// Query supports the single statement shape the pipeline issues:
// SELECT <columns> FROM <table> [WHERE <column> IS NOT NULL].
// Anything else is an error carrying the offending statement.
func (q *ExecQuerier) Query(path, sql string) ([]Row, error) {
	m := selectPattern.FindStringSubmatch(sql)
	if m == nil {
		return nil, fmt.Errorf("unsupported query %q", sql)
	}

	var columns []string
	for _, col := range strings.Split(m[1], ",") {
		columns = append(columns, strings.TrimSpace(col))
	}
	table := m[2]
	notNullColumn := m[3]

	q.logger.Debug("Exporting table %s from %s", table, path)
	stdout, stderr, err := utils.RunCommandSplit([]string{q.tool, "export", path, table})
	if err != nil {
		return nil, fmt.Errorf("failed to export table %s from %s: %v: %s", table, path, err, stderr)
	}
	if stderr != "" {
		q.logger.Debug("%s stderr: %s", q.tool, stderr)
	}

	header, rows, err := parseIDT(stdout)
	if err != nil {
		return nil, fmt.Errorf("unreadable table %s in %s: %w", table, path, err)
	}

	for _, col := range columns {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("table %s has no column %s", table, col)
		}
	}
	if notNullColumn != "" {
		if _, ok := header[notNullColumn]; !ok {
			return nil, fmt.Errorf("table %s has no column %s", table, notNullColumn)
		}
	}

	var out []Row
	for _, raw := range rows {
		if notNullColumn != "" {
			if v := raw[header[notNullColumn]]; v == nil {
				continue
			}
		}
		row := make(Row, len(columns))
		for _, col := range columns {
			row[col] = raw[header[col]]
		}
		out = append(out, row)
	}
	return out, nil
}

// parseIDT parses msiinfo's exported table text: a column-name line, a
// column-type line, a table header line, then tab-separated data rows.
// Empty fields are NULL.
func parseIDT(text string) (map[string]int, [][]*string, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(lines) < 3 {
		return nil, nil, fmt.Errorf("truncated table export (%d lines)", len(lines))
	}

	names := strings.Split(lines[0], "\t")
	header := make(map[string]int, len(names))
	for i, name := range names {
		header[strings.TrimSpace(name)] = i
	}

	var rows [][]*string
	for _, line := range lines[3:] {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		row := make([]*string, len(names))
		for i := range names {
			if i < len(fields) && fields[i] != "" {
				value := fields[i]
				row[i] = &value
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}
