package models

import "time"

// JobStatus is the lifecycle state of a processing job.
type JobStatus string

// Job lifecycle states. A job transitions uploaded -> processing ->
// completed|failed; terminal transitions happen exactly once.
const (
	StatusUploaded   JobStatus = "uploaded"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job is a submitted document and its processing state.
type Job struct {
	DocumentID  string    `json:"document_id"`
	FileName    string    `json:"file_name"`
	FilePath    string    `json:"saved_path"`
	Size        int64     `json:"size"`
	Status      JobStatus `json:"status"`
	Error       string    `json:"error,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
	ProcessedAt time.Time `json:"processed_at,omitempty"`
}

// RecognitionStats summarizes one recognition pass over a file.
type RecognitionStats struct {
	TotalPages      int     `json:"total_pages"`
	SuccessfulPages int     `json:"successful_pages"`
	ProcessingSecs  float64 `json:"processing_time"`
}

// ResultMetadata describes a completed pipeline run.
type ResultMetadata struct {
	DocumentID      string    `json:"document_id"`
	FileName        string    `json:"file_name"`
	TotalPages      int       `json:"total_pages"`
	SuccessfulPages int       `json:"successful_ocr_pages"`
	TotalDocuments  int       `json:"total_documents"`
	ProcessedAt     time.Time `json:"processed_at"`
}

// Result is the full structured dump of a completed pipeline run.
type Result struct {
	Metadata    ResultMetadata   `json:"metadata"`
	Recognition RecognitionStats `json:"ocr_stats"`
	Pages       []PageResult     `json:"ocr_pages"`
	ParsedPages []*ParsedPage    `json:"parsed_pages"`
	Segments    []*Segment       `json:"segments"`
	Extractions []*Record        `json:"extractions"`
}
