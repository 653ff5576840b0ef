package entity

// ProcessResult is returned by both description flows, JSON-encoded as is.
// Description is nil when the completion service produced nothing, in which
// case the key is left out of the response.
type ProcessResult struct {
	Message        string   `json:"message"`
	FolderName     string   `json:"folderName"`
	URLs           []string `json:"urls"`
	DescriptionURL string   `json:"descriptionUrl"`
	Description    *string  `json:"description,omitempty"`
}

// DatabaseContent maps each tracked folder to the public URLs of its blobs.
type DatabaseContent map[string][]string
