package entity

import (
	"strings"
	"time"
)

const (
	usersRoot          = "users"
	recordDirName      = "record"
	trackingRecordName = "tracking_record.txt"
	descriptionName    = "description.txt"
)

// Blob is one stored object as the object store reports it. DownloadToken is
// empty when the object carries no access token and so has no public URL.
type Blob struct {
	Key           string    `json:"key"`
	ContentType   string    `json:"content_type"`
	Size          int64     `json:"size"`
	DownloadToken string    `json:"-"`
	Updated       time.Time `json:"updated"`
}

func (b Blob) Public() bool {
	return b.DownloadToken != ""
}

// UserRoot returns the users/<uid>/ prefix every key owned by uid starts with.
func UserRoot(userID string) string {
	return usersRoot + "/" + userID + "/"
}

func TrackingRecordKey(userID string) string {
	return UserRoot(userID) + recordDirName + "/" + trackingRecordName
}

func DescriptionKey(folderName string) string {
	return folderName + "/" + descriptionName
}

// FolderPrefix is the listing prefix for the blobs of one submission.
func FolderPrefix(folderName string) string {
	return folderName + "/"
}

// OwnsFolder reports whether folderName is a submission folder inside the
// namespace of userID: users/<uid>/<suffix>, with a non-empty suffix that
// neither escapes the namespace nor aliases the tracking record directory.
func OwnsFolder(userID, folderName string) bool {
	if userID == "" || folderName == "" {
		return false
	}

	root := UserRoot(userID)
	if !strings.HasPrefix(folderName, root) {
		return false
	}

	suffix := strings.TrimPrefix(folderName, root)
	if suffix == "" || strings.HasSuffix(suffix, "/") {
		return false
	}

	segments := strings.Split(suffix, "/")
	if segments[0] == recordDirName {
		return false
	}
	for _, segment := range segments {
		if segment == "" || segment == "." || segment == ".." {
			return false
		}
	}
	return true
}
