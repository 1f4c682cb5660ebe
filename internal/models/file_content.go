package models

// FileContent is a named record whose blob is mandatory
type FileContent struct {
	Model
	Fields
}

func (FileContent) TableName() string { return "file_content" }
