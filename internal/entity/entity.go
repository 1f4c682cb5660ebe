// Package entity holds the client-side shape of the File and FileContent
// records and the descriptors that tie each kind to its API and routes
package entity

import (
	"time"

	"fileupload/internal/blob"
)

// Kind describes one entity type
type Kind struct {
	// Name is the identifier used in alerts and logs
	Name string
	// Label and PluralLabel are shown in menus and headings
	Label       string
	PluralLabel string
	// Segment is the URL segment under /entity/
	Segment string
	// APIPath is the REST collection path
	APIPath string
	// RequireContent is set when the blob is mandatory
	RequireContent bool
}

var (
	File = Kind{
		Name:        "file",
		Label:       "File",
		PluralLabel: "Files",
		Segment:     "file",
		APIPath:     "/api/files",
	}
	FileContent = Kind{
		Name:           "fileContent",
		Label:          "File Content",
		PluralLabel:    "File Contents",
		Segment:        "file-content",
		APIPath:        "/api/file-contents",
		RequireContent: true,
	}
)

// Kinds returns every known kind in menu order
func Kinds() []Kind {
	return []Kind{File, FileContent}
}

// BySegment finds the kind mounted at the given route segment
func BySegment(segment string) (Kind, bool) {
	for _, k := range Kinds() {
		if k.Segment == segment {
			return k, true
		}
	}
	return Kind{}, false
}

// Route is the list route of the kind
func (k Kind) Route() string {
	return "/entity/" + k.Segment
}

// Entity is a File or FileContent as exchanged with the API. Content stays
// base64 encoded on the client
type Entity struct {
	ID                 string     `json:"id,omitempty"`
	Name               string     `json:"name"`
	Content            string     `json:"content,omitempty"`
	ContentContentType string     `json:"contentContentType,omitempty"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

// IsNew reports whether the entity has not been persisted yet
func (e Entity) IsNew() bool {
	return e.ID == ""
}

// Attachment returns the blob of the entity
func (e Entity) Attachment() blob.Attachment {
	return blob.Attachment{Content: e.Content, ContentType: e.ContentContentType}
}

// HasContent reports whether a blob is attached
func (e Entity) HasContent() bool {
	return e.Content != ""
}
