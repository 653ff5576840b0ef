package service

import "context"

// DescriptionGenerator turns product photos into an HTML listing. It never
// fails outright: ok is false when nothing usable came back, and the cause
// has already been logged.
type DescriptionGenerator interface {
	Generate(ctx context.Context, folderName string, imageURLs []string) (description string, ok bool)
}
