package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/jmespath/go-jmespath"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/ise-client/internal/constants"
	"github.com/fivetwenty-io/ise-client/pkg/ise"
)

// linkColumn holds the ERS self link; it is left out of CSV exports.
const linkColumn = "link"

// validateOutputFormat rejects unknown formats before any request is sent.
func validateOutputFormat(format string) error {
	switch format {
	case constants.FormatPlain, Table, constants.FormatCSV, constants.FormatJSON, constants.FormatYAML:
		return nil
	default:
		return fmt.Errorf("%w: %q", constants.ErrInvalidOutputFormat, format)
	}
}

// renderRecords writes records in the requested format after applying the
// optional JMESPath query. Query results that are not records are printed as JSON.
func renderRecords(writer io.Writer, records []ise.Record, format, query string) error {
	if query != "" {
		result, err := applyQuery(records, query)
		if err != nil {
			return err
		}

		narrowed, ok := asRecords(result)
		if !ok {
			return writeJSON(writer, result)
		}

		records = narrowed
	}

	switch format {
	case constants.FormatJSON:
		return writeJSON(writer, records)
	case constants.FormatYAML:
		return writeYAML(writer, records)
	case constants.FormatCSV:
		return writeCSV(writer, records)
	case constants.FormatPlain, Table:
		return writeTable(writer, records)
	default:
		return fmt.Errorf("%w: %q", constants.ErrInvalidOutputFormat, format)
	}
}

func applyQuery(records []ise.Record, query string) (interface{}, error) {
	data := make([]interface{}, len(records))
	for i, record := range records {
		data[i] = record
	}

	result, err := jmespath.Search(query, data)
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", query, err)
	}

	return result, nil
}

func asRecords(result interface{}) ([]ise.Record, bool) {
	switch value := result.(type) {
	case map[string]interface{}:
		return []ise.Record{value}, true
	case []interface{}:
		records := make([]ise.Record, 0, len(value))

		for _, item := range value {
			record, ok := item.(map[string]interface{})
			if !ok {
				return nil, false
			}

			records = append(records, record)
		}

		return records, true
	default:
		return nil, false
	}
}

func writeJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

func writeYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(constants.JSONIndentSize)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return encoder.Close()
}

// writeCSV uses the keys of the first record, minus the link column, as header.
func writeCSV(writer io.Writer, records []ise.Record) error {
	if len(records) == 0 {
		return nil
	}

	columns := slices.DeleteFunc(slices.Sorted(maps.Keys(records[0])), func(key string) bool {
		return key == linkColumn
	})

	csvWriter := csv.NewWriter(writer)

	err := csvWriter.Write(columns)
	if err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, record := range records {
		row := make([]string, len(columns))
		for i, column := range columns {
			row[i] = cellValue(record[column])
		}

		err = csvWriter.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	csvWriter.Flush()

	return csvWriter.Error()
}

// writeTable uses the union of all record keys as header.
func writeTable(writer io.Writer, records []ise.Record) error {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(writer, "No records found")

		return nil
	}

	columns := recordColumns(records)

	header := make([]any, len(columns))
	for i, column := range columns {
		header[i] = column
	}

	table := tablewriter.NewWriter(writer)
	table.Header(header...)

	for _, record := range records {
		row := make([]string, len(columns))
		for i, column := range columns {
			row[i] = cellValue(record[column])
		}

		_ = table.Append(row)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func recordColumns(records []ise.Record) []string {
	seen := make(map[string]struct{})

	for _, record := range records {
		for key := range record {
			seen[key] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

// cellValue renders scalars as text and nested values as compact JSON.
func cellValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}

		return string(encoded)
	}
}
