package exports

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnknownFormat = errors.New("unknown export format")
	ErrUnknownFilter = errors.New("unknown status filter")
)

const sheetName = "Addresses"

// Transform corre el pipeline completo en orden fijo:
// filtro por status -> filtro de dirección (propietarios) -> mapping
// de columnas -> sort por ZIP (avery) -> serialización.
func Transform(eventName string, records []Record, f Format, sf StatusFilter, now time.Time) (Payload, error) {
	spec, ok := specs[f]
	if !ok {
		return Payload{}, ErrUnknownFormat
	}
	if !ValidStatusFilter(sf) {
		return Payload{}, ErrUnknownFilter
	}

	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if sf != FilterAll && r.Status != string(sf) {
			continue
		}
		if spec.requiresAddress && r.AddressLine1 == "" {
			continue
		}
		kept = append(kept, r)
	}

	if spec.sortByZIP {
		sort.SliceStable(kept, func(i, j int) bool {
			return kept[i].ZIP < kept[j].ZIP
		})
	}

	headers := make([]string, len(spec.columns))
	for i, c := range spec.columns {
		headers[i] = c.header
	}

	rows := make([][]string, 0, len(kept))
	for _, r := range kept {
		row := make([]string, len(spec.columns))
		for i, c := range spec.columns {
			row[i] = c.value(r)
		}
		rows = append(rows, row)
	}

	var data []byte
	var err error
	if f == FormatExcel {
		data, err = serializeXLSX(headers, rows)
	} else {
		data = serializeCSV(headers, rows)
	}
	if err != nil {
		return Payload{}, err
	}

	return Payload{
		Data:        data,
		ContentType: spec.contentType,
		Filename:    Filename(eventName, f, now),
	}, nil
}

// serializeCSV arma el texto estilo RFC4180 que esperan los providers:
// todos los campos van entre comillas, comillas internas dobladas,
// filas unidas con \n y header incluido.
func serializeCSV(headers []string, rows [][]string) []byte {
	var b strings.Builder

	b.WriteString(strings.Join(headers, ","))
	for _, row := range rows {
		b.WriteByte('\n')
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		}
	}

	return []byte(b.String())
}

func serializeXLSX(headers []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	hdr := make([]any, len(headers))
	for i, h := range headers {
		hdr[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &hdr); err != nil {
		return nil, err
	}

	for i, row := range rows {
		vals := make([]any, len(row))
		for j, v := range row {
			vals[j] = v
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &vals); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// cityStateZIP arma el campo combinado de Avery: `City, State ZIP`,
// con trim exterior solamente (una city vacía deja la coma).
func cityStateZIP(r Record) string {
	return strings.TrimSpace(r.City + ", " + r.State + " " + r.ZIP)
}

// Filename: `{nombre-saneado}_addresses_{fecha-ISO}.{ext}`.
// Saneado = todo no-alfanumérico a "_", en minúsculas.
func Filename(eventName string, f Format, now time.Time) string {
	var b strings.Builder
	for _, r := range eventName {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
	}

	ext := "csv"
	if spec, ok := specs[f]; ok {
		ext = spec.ext
	}
	return fmt.Sprintf("%s_addresses_%s.%s", b.String(), now.Format("2006-01-02"), ext)
}
