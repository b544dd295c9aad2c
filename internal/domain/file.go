package domain

import "time"

// FileRecord tracks one uploaded file through intake.
type FileRecord struct {
	FileID       string
	OriginalName string
	DisplayName  string
	MIMEType     string
	Status       FileStatus
	Payload      []byte
	Err          string
	AddedAt      time.Time
}

// Name returns the display name, falling back to the original filename.
func (f FileRecord) Name() string {
	return FirstNonEmpty(f.DisplayName, f.OriginalName)
}

// Clone returns a copy whose payload slice is not shared with f.
func (f FileRecord) Clone() FileRecord {
	if f.Payload != nil {
		p := make([]byte, len(f.Payload))
		copy(p, f.Payload)
		f.Payload = p
	}
	return f
}

// IntakeMap maps checklist item ids (or CatchAllItemID) to their files in
// insertion order.
type IntakeMap map[string][]FileRecord

// Count returns the total number of records across all buckets.
func (m IntakeMap) Count() int {
	n := 0
	for _, files := range m {
		n += len(files)
	}
	return n
}

// FirstNonEmpty returns the first non-empty value, or "".
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
