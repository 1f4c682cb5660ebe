package models

// File is a named record with an optional attached blob
type File struct {
	Model
	Fields
}

func (File) TableName() string { return "file" }
