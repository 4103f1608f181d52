package exports

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func record(first, last, line1, zip, status string) Record {
	return Record{
		FirstName:    first,
		LastName:     last,
		AddressLine1: line1,
		City:         "Springfield",
		State:        "IL",
		ZIP:          zip,
		Country:      "US",
		Status:       status,
	}
}

func TestTransform_CSVQuoting(t *testing.T) {
	sub := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	r := record("John \"JJ\"", "Doe", "123 Main St", "62704", "completed")
	r.SubmittedAt = &sub

	p, err := Transform("Wedding", []Record{r}, FormatCSV, FilterAll, testNow)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}

	lines := strings.Split(string(p.Data), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}

	// header sin comillas
	if lines[0] != "First Name,Last Name,Email,Phone,Address Line 1,Address Line 2,City,State,ZIP,Country,Status,Submitted At" {
		t.Fatalf("unexpected header %q", lines[0])
	}

	// celdas siempre entre comillas, comillas internas dobladas
	if !strings.HasPrefix(lines[1], `"John ""JJ""","Doe",`) {
		t.Fatalf("unexpected data row %q", lines[1])
	}
	if !strings.Contains(lines[1], `"3/4/2026"`) {
		t.Fatalf("submitted at not formatted: %q", lines[1])
	}

	if p.ContentType != "text/csv" {
		t.Fatalf("content type %q", p.ContentType)
	}
}

func TestTransform_StatusFilter(t *testing.T) {
	records := []Record{
		record("A", "One", "1 St", "11111", "completed"),
		record("B", "Two", "2 St", "22222", "pending"),
		record("C", "Three", "3 St", "33333", "not_sent"),
	}

	p, err := Transform("Ev", records, FormatCSV, FilterCompleted, testNow)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	body := string(p.Data)
	if !strings.Contains(body, `"A"`) || strings.Contains(body, `"B"`) || strings.Contains(body, `"C"`) {
		t.Fatalf("filter leaked rows: %s", body)
	}

	p, err = Transform("Ev", records, FormatCSV, FilterAll, testNow)
	if err != nil {
		t.Fatalf("transform all: %v", err)
	}
	if got := strings.Count(string(p.Data), "\n"); got != 3 {
		t.Fatalf("all filter rows = %d, want 3", got)
	}
}

func TestTransform_ProprietaryFormatsDropMissingAddresses(t *testing.T) {
	records := []Record{
		record("A", "One", "1 St", "11111", "completed"),
		record("B", "Two", "", "", "pending"),
	}

	for _, f := range []Format{FormatMinted, FormatShutterfly, FormatVistaprint, FormatAvery} {
		p, err := Transform("Ev", records, f, FilterAll, testNow)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		body := string(p.Data)
		if strings.Contains(body, "Two") {
			t.Errorf("%s kept record without address: %s", f, body)
		}
		if !strings.Contains(body, "One") {
			t.Errorf("%s dropped valid record: %s", f, body)
		}
	}

	// el csv genérico exporta todo
	p, err := Transform("Ev", records, FormatCSV, FilterAll, testNow)
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if !strings.Contains(string(p.Data), `"B"`) {
		t.Fatal("generic csv should keep records without address")
	}
}

func TestTransform_AverySortsZIPLexicographically(t *testing.T) {
	records := []Record{
		record("C", "Last", "3 St", "90210", "completed"),
		record("B", "Mid", "2 St", "10001-1234", "completed"),
		record("A", "First", "1 St", "10001", "completed"),
	}

	p, err := Transform("Ev", records, FormatAvery, FilterAll, testNow)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}

	body := string(p.Data)
	i1 := strings.Index(body, "10001\"")
	i2 := strings.Index(body, "10001-1234")
	i3 := strings.Index(body, "90210")
	if i1 == -1 || i2 == -1 || i3 == -1 {
		t.Fatalf("missing zips in %s", body)
	}
	if !(i1 < i2 && i2 < i3) {
		t.Fatalf("zip order wrong: %s", body)
	}

	// campo combinado `City, State ZIP`
	if !strings.Contains(body, `"Springfield, IL 10001"`) {
		t.Fatalf("missing combined city/state/zip field: %s", body)
	}
}

func TestTransform_ExcelRoundTrip(t *testing.T) {
	p, err := Transform("Ev", []Record{record("A", "One", "1 St", "11111", "completed")}, FormatExcel, FilterAll, testNow)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	// xlsx es un zip: magic PK
	if !bytes.HasPrefix(p.Data, []byte("PK")) {
		t.Fatal("xlsx payload is not a zip archive")
	}
	if p.ContentType != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("content type %q", p.ContentType)
	}
	if !strings.HasSuffix(p.Filename, ".xlsx") {
		t.Fatalf("filename %q", p.Filename)
	}
}

func TestTransform_RejectsUnknownFormatAndFilter(t *testing.T) {
	if _, err := Transform("Ev", nil, Format("pdf"), FilterAll, testNow); err != ErrUnknownFormat {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if _, err := Transform("Ev", nil, FormatCSV, StatusFilter("bogus"), testNow); err != ErrUnknownFilter {
		t.Fatalf("expected ErrUnknownFilter, got %v", err)
	}
}

func TestFilename(t *testing.T) {
	got := Filename("Emma's Wedding 2026!", FormatCSV, testNow)
	if got != "emma_s_wedding_2026__addresses_2026-03-15.csv" {
		t.Fatalf("filename = %q", got)
	}

	got = Filename("Reunión", FormatExcel, testNow)
	if !strings.HasSuffix(got, ".xlsx") {
		t.Fatalf("filename = %q", got)
	}
	if strings.ContainsAny(got, "óÓ") {
		t.Fatalf("non-ascii survived: %q", got)
	}
}
