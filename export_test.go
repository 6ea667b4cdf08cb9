package mailcheck

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func sampleRecords() []Record {
	return []Record{
		{
			Domain:     "example.com",
			RecordType: FlavorTXT,
			Server:     "8.8.8.8",
			HasA:       true,
			MX:         "mail.example.com (pref 10, ttl 300)",
			NS:         "ns1.example.com (ttl 3600); ns2.example.com (ttl 3600)",
			SPF:        "v=spf1 mx -all",
			DMARC:      "v=DMARC1; p=none",
			DKIM: DKIMResult{
				Status:   DKIMFound,
				Selector: "selector1",
				Value:    "v=DKIM1; k=rsa; p=MIGf",
			},
		},
		{
			Domain:     "example.com",
			RecordType: FlavorCNAME,
			Server:     "8.8.8.8",
			DKIM:       DKIMResult{Status: DKIMNotFoundAfterProbe},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV back failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if !reflect.DeepEqual(rows[0], csvHeader) {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "example.com" || rows[1][1] != "TXT" {
		t.Errorf("first row = %v", rows[1])
	}
	if rows[2][1] != "CNAME" || rows[2][8] != string(DKIMNotFoundAfterProbe) {
		t.Errorf("second row = %v", rows[2])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded []Record
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(decoded, sampleRecords()) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, sampleRecords())
	}
}

func TestMsgpackRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMsgpack(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteMsgpack failed: %v", err)
	}

	decoded, err := ReadMsgpack(&buf)
	if err != nil {
		t.Fatalf("ReadMsgpack failed: %v", err)
	}
	if !reflect.DeepEqual(decoded, sampleRecords()) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, sampleRecords())
	}
}

func TestExportFile(t *testing.T) {
	dir := t.TempDir()

	path, err := ExportFile(dir, FormatCSV, sampleRecords())
	if err != nil {
		t.Fatalf("ExportFile failed: %v", err)
	}

	name := filepath.Base(path)
	if !strings.HasPrefix(name, "mailcheck-") {
		t.Errorf("file name %q lacks prefix", name)
	}
	if !strings.HasSuffix(name, ".csv") {
		t.Errorf("file name %q lacks extension", name)
	}

	if filepath.Dir(path) != dir {
		t.Errorf("file written to %q, want %q", filepath.Dir(path), dir)
	}
}

func TestExportFileWriteFailure(t *testing.T) {
	_, err := ExportFile(filepath.Join(t.TempDir(), "missing-subdir"), FormatJSON, sampleRecords())
	if !errors.Is(err, ErrExportWrite) {
		t.Errorf("got %v, want ErrExportWrite", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"JSON", FormatJSON, false},
		{" msgpack ", FormatMsgpack, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}
