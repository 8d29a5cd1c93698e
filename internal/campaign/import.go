package campaign

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/vbamtools/campaignstore/internal/platform/errors"
	"github.com/vbamtools/campaignstore/internal/storage"
)

// systemColumns is the expected CSV header for a system import, in order.
var systemColumns = []string{"name", "ptype", "raw", "cap", "pop", "mor", "ind"}

// ImportSystems reads star systems from CSV and inserts them in a single
// batch. The whole import is atomic: any malformed row or name collision
// leaves the campaign unchanged. Returns the number of systems imported.
func (c *Campaign) ImportSystems(ctx context.Context, r io.Reader) (int, error) {
	records, err := parseSystems(r)
	if err != nil {
		return 0, err
	}
	if err := c.store.Systems.BatchInsert(ctx, records); err != nil {
		return 0, err
	}
	if err := c.store.Audit.Append(ctx, storage.AuditEvent{
		EventName:  "campaign.import.systems",
		Severity:   "INFO",
		Attributes: map[string]string{"count": strconv.Itoa(len(records))},
	}); err != nil {
		return 0, err
	}
	return len(records), nil
}

func parseSystems(r io.Reader) ([]storage.SystemRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(systemColumns)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeImportRowInvalid, "read csv header", err)
	}
	for i, want := range systemColumns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return nil, apperrors.WithMetadata(
				apperrors.CodeImportRowInvalid,
				"unexpected csv header",
				map[string]string{"column": want, "got": header[i]},
			)
		}
	}

	var records []storage.SystemRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.WrapWithMetadata(
				apperrors.CodeImportRowInvalid,
				"read csv row",
				map[string]string{"line": strconv.Itoa(line)},
				err,
			)
		}
		record, err := parseSystemRow(row, line)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func parseSystemRow(row []string, line int) (storage.SystemRecord, error) {
	record := storage.SystemRecord{
		Name:  strings.TrimSpace(row[0]),
		Ptype: strings.TrimSpace(row[1]),
	}
	if record.Name == "" {
		return storage.SystemRecord{}, apperrors.WithMetadata(
			apperrors.CodeImportRowInvalid,
			"system name is required",
			map[string]string{"line": strconv.Itoa(line)},
		)
	}

	fields := []struct {
		name  string
		value string
		dst   *int64
	}{
		{"raw", row[2], &record.Raw},
		{"cap", row[3], &record.Cap},
		{"pop", row[4], &record.Pop},
		{"mor", row[5], &record.Mor},
		{"ind", row[6], &record.Ind},
	}
	for _, f := range fields {
		n, err := strconv.ParseInt(strings.TrimSpace(f.value), 10, 64)
		if err != nil {
			return storage.SystemRecord{}, apperrors.WrapWithMetadata(
				apperrors.CodeImportRowInvalid,
				"column "+f.name+" is not an integer",
				map[string]string{"line": strconv.Itoa(line), "column": f.name},
				err,
			)
		}
		*f.dst = n
	}
	return record, nil
}
