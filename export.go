package mailcheck

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/tinylib/msgp/msgp"
)

// Format is an export serialization format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatMsgpack:
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// csvHeader is the flat column set, one row per Record.
var csvHeader = []string{
	"DOMAIN", "RECORDTYPE", "SERVER", "A", "MX", "NS",
	"SPF", "DMARC", "DKIM_STATUS", "SELECTOR", "DKIM",
}

// WriteCSV writes records as CSV with a header row.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.Domain,
			string(r.RecordType),
			r.Server,
			strconv.FormatBool(r.HasA),
			r.MX,
			r.NS,
			r.SPF,
			r.DMARC,
			string(r.DKIM.Status),
			r.DKIM.Selector,
			r.DKIM.Value,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(records)
}

// WriteMsgpack writes records as a MessagePack array of maps.
func WriteMsgpack(w io.Writer, records []Record) error {
	mw := msgp.NewWriter(w)
	if err := mw.WriteArrayHeader(uint32(len(records))); err != nil {
		return err
	}
	for i := range records {
		if err := records[i].encodeMsg(mw); err != nil {
			return err
		}
	}
	return mw.Flush()
}

func (r *Record) encodeMsg(mw *msgp.Writer) error {
	if err := mw.WriteMapHeader(9); err != nil {
		return err
	}

	fields := []struct{ key, val string }{
		{"domain", r.Domain},
		{"recordtype", string(r.RecordType)},
		{"server", r.Server},
	}
	for _, f := range fields {
		if err := writeMsgString(mw, f.key, f.val); err != nil {
			return err
		}
	}

	if err := mw.WriteString("a"); err != nil {
		return err
	}
	if err := mw.WriteBool(r.HasA); err != nil {
		return err
	}

	fields = []struct{ key, val string }{
		{"mx", r.MX},
		{"ns", r.NS},
		{"spf", r.SPF},
		{"dmarc", r.DMARC},
	}
	for _, f := range fields {
		if err := writeMsgString(mw, f.key, f.val); err != nil {
			return err
		}
	}

	if err := mw.WriteString("dkim"); err != nil {
		return err
	}
	if err := mw.WriteMapHeader(3); err != nil {
		return err
	}
	if err := writeMsgString(mw, "status", string(r.DKIM.Status)); err != nil {
		return err
	}
	if err := writeMsgString(mw, "selector", r.DKIM.Selector); err != nil {
		return err
	}
	return writeMsgString(mw, "value", r.DKIM.Value)
}

func writeMsgString(mw *msgp.Writer, key, val string) error {
	if err := mw.WriteString(key); err != nil {
		return err
	}
	return mw.WriteString(val)
}

// ReadMsgpack reads records written by WriteMsgpack.
func ReadMsgpack(r io.Reader) ([]Record, error) {
	mr := msgp.NewReader(r)
	n, err := mr.ReadArrayHeader()
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, n)
	for i := uint32(0); i < n; i++ {
		var rec Record
		if err := rec.decodeMsg(mr); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *Record) decodeMsg(mr *msgp.Reader) error {
	sz, err := mr.ReadMapHeader()
	if err != nil {
		return err
	}

	for i := uint32(0); i < sz; i++ {
		key, err := mr.ReadString()
		if err != nil {
			return err
		}

		switch key {
		case "domain":
			r.Domain, err = mr.ReadString()
		case "recordtype":
			var s string
			s, err = mr.ReadString()
			r.RecordType = Flavor(s)
		case "server":
			r.Server, err = mr.ReadString()
		case "a":
			r.HasA, err = mr.ReadBool()
		case "mx":
			r.MX, err = mr.ReadString()
		case "ns":
			r.NS, err = mr.ReadString()
		case "spf":
			r.SPF, err = mr.ReadString()
		case "dmarc":
			r.DMARC, err = mr.ReadString()
		case "dkim":
			err = r.DKIM.decodeMsg(mr)
		default:
			err = mr.Skip()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *DKIMResult) decodeMsg(mr *msgp.Reader) error {
	sz, err := mr.ReadMapHeader()
	if err != nil {
		return err
	}

	for i := uint32(0); i < sz; i++ {
		key, err := mr.ReadString()
		if err != nil {
			return err
		}

		switch key {
		case "status":
			var s string
			s, err = mr.ReadString()
			d.Status = DKIMStatus(s)
		case "selector":
			d.Selector, err = mr.ReadString()
		case "value":
			d.Value, err = mr.ReadString()
		default:
			err = mr.Skip()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Write serializes records to w in the given format.
func Write(w io.Writer, format Format, records []Record) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatMsgpack:
		return WriteMsgpack(w, records)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ExportFile writes records to an auto-named file in dir and returns its
// path. The name embeds a UTC timestamp, a ULID and the format extension,
// e.g. "mailcheck-20260823-141503-01JF....csv". A failed write returns
// ErrExportWrite; the in-memory records stay valid either way.
func ExportFile(dir string, format Format, records []Record) (string, error) {
	var buf bytes.Buffer
	if err := Write(&buf, format, records); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExportWrite, err)
	}

	name := fmt.Sprintf("mailcheck-%s-%s.%s",
		time.Now().UTC().Format("20060102-150405"),
		ulid.Make(),
		format.Ext(),
	)

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExportWrite, err)
	}
	return path, nil
}
