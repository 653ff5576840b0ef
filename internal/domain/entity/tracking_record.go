package entity

import "strings"

// TrackingRecord is the per-user list of submission folders, most recently
// added first. Exists is false when the record blob has never been written,
// which readers treat as an empty list.
type TrackingRecord struct {
	UserID  string
	Exists  bool
	Folders []string
}

func (r *TrackingRecord) Contains(folderName string) bool {
	for _, f := range r.Folders {
		if f == folderName {
			return true
		}
	}
	return false
}

// NonBlankFolders returns the folders with blank lines and repeats dropped,
// order preserved.
func (r *TrackingRecord) NonBlankFolders() []string {
	seen := make(map[string]struct{}, len(r.Folders))
	folders := make([]string, 0, len(r.Folders))
	for _, f := range r.Folders {
		if strings.TrimSpace(f) == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		folders = append(folders, f)
	}
	return folders
}

// ParseTrackingRecord decodes the newline-separated record body.
func ParseTrackingRecord(userID string, data []byte) *TrackingRecord {
	record := &TrackingRecord{UserID: userID, Exists: true}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return record
	}

	for _, line := range strings.Split(content, "\n") {
		record.Folders = append(record.Folders, strings.TrimRight(line, "\r"))
	}
	return record
}

func (r *TrackingRecord) Encode() []byte {
	return []byte(strings.Join(r.Folders, "\n"))
}
