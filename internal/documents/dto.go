package documents

import "time"

type registerRequest struct {
	Title string `json:"title" binding:"required,max=255"`
	Text  string `json:"text"`
}

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID string    `json:"documentId"`
	Title      string    `json:"title"`
	Embedded   bool      `json:"embedded"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID: doc.ID,
		Title:      doc.Title,
		Embedded:   doc.Embedded,
		UploadedAt: doc.CreatedAt,
	}
}
