package leads

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseCSV reads a bulk-lead CSV with columns `phoneNumber|phone|number`,
// `name`, `priority`, `metadata`. Column names are matched case-insensitively
// and column order is not fixed.
func ParseCSV(r io.Reader) ([]BulkLeadInput, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("leads: reading CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}

	phoneIdx, ok := firstPresent(col, "phonenumber", "phone", "number")
	if !ok {
		return nil, fmt.Errorf("leads: CSV is missing a phoneNumber/phone/number column")
	}
	nameIdx, hasName := firstPresent(col, "name")
	priorityIdx, hasPriority := firstPresent(col, "priority")
	metadataIdx, hasMetadata := firstPresent(col, "metadata")

	var out []BulkLeadInput
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leads: reading CSV row: %w", err)
		}

		input := BulkLeadInput{PhoneNumber: field(record, phoneIdx)}
		if hasName {
			input.Name = field(record, nameIdx)
		}
		if hasPriority {
			if p := field(record, priorityIdx); p != "" {
				n, err := strconv.Atoi(strings.TrimSpace(p))
				if err != nil {
					return nil, fmt.Errorf("leads: invalid priority %q: %w", p, err)
				}
				input.Priority = n
			}
		}
		if hasMetadata {
			if m := field(record, metadataIdx); m != "" {
				input.Metadata = json.RawMessage(m)
			}
		}
		if input.PhoneNumber == "" {
			continue
		}
		out = append(out, input)
	}
	return out, nil
}

func firstPresent(col map[string]int, names ...string) (int, bool) {
	for _, n := range names {
		if idx, ok := col[n]; ok {
			return idx, true
		}
	}
	return 0, false
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
