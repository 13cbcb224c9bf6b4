package models

import "time"

const (
	MaterialSourceFile = "FILE"
	MaterialSourceURL  = "URL"
	MaterialSourceText = "TEXT"
)

type Material struct {
	ID          string    `json:"id" db:"id"`
	CourseID    string    `json:"course_id" db:"course_id"`
	Title       string    `json:"title" db:"title"`
	SourceType  string    `json:"source_type" db:"source_type"`
	SourceURL   *string   `json:"source_url,omitempty" db:"source_url"`
	FileName    *string   `json:"file_name,omitempty" db:"file_name"`
	ContentText string    `json:"content_text" db:"content_text"`
	UploadedAt  time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// CreateMaterialRequest carries already-extracted plain text; PDF/DOCX parsing
// and web scraping happen upstream of this API.
type CreateMaterialRequest struct {
	Title       string  `json:"title"`
	SourceType  string  `json:"source_type"`
	SourceURL   *string `json:"source_url,omitempty"`
	FileName    *string `json:"file_name,omitempty"`
	ContentText string  `json:"content_text"`
}
