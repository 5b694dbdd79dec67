package domain

import "time"

type UploadStatus string

const (
	UploadStatusIdle      UploadStatus = "idle"
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusSuccess   UploadStatus = "success"
	UploadStatusError     UploadStatus = "error"
)

// UploadState is the user-visible state of the most recent upload.
type UploadState struct {
	Status    UploadStatus
	Message   string
	Filename  string
	UpdatedAt time.Time
}
