package checkpoint

import (
	"bytes"

	"github.com/npillmayer/folio/core"
	"gopkg.in/yaml.v3"
)

// ToYAML serializes a record.
func ToYAML(rec *LayoutRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return nil, core.WrapError(err, core.EINTERNAL, "cannot serialize checkpoint of page %d", rec.Page)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromYAML deserializes a record. Unknown fields are an error.
func FromYAML(data []byte) (*LayoutRecord, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	rec := &LayoutRecord{}
	if err := dec.Decode(rec); err != nil {
		return nil, core.WrapError(err, core.ECORRUPT, "cannot read checkpoint")
	}
	return rec, nil
}
