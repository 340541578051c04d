package httpapi

import (
	"time"

	"docqa-orchestrator/internal/domain"
)

type documentResponse struct {
	DocumentID   string    `json:"document_id"`
	Filename     string    `json:"filename"`
	SourcePath   string    `json:"source_path"`
	Status       string    `json:"status"`
	ChunkCount   int       `json:"chunk_count"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toDocumentResponse(doc *domain.DocumentRecord) documentResponse {
	resp := documentResponse{
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		SourcePath: doc.SourcePath,
		Status:     string(doc.Status),
		ChunkCount: doc.ChunkCount,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
	if doc.Error != nil {
		resp.ErrorMessage = *doc.Error
	}
	return resp
}

type evidenceResponse struct {
	ChunkID    string   `json:"chunk_id"`
	DocumentID string   `json:"document_id"`
	Filename   string   `json:"filename"`
	Content    string   `json:"content"`
	Headings   []string `json:"headings,omitempty"`
	Pages      []int    `json:"pages,omitempty"`
	Score      float32  `json:"score"`
}

type queryResponse struct {
	Answer    string             `json:"answer"`
	Documents []evidenceResponse `json:"documents"`
}

func toQueryResponse(r *domain.AggregatedResponse) queryResponse {
	docs := make([]evidenceResponse, 0, len(r.Documents))
	for _, sc := range r.Documents {
		docs = append(docs, evidenceResponse{
			ChunkID:    sc.ID.String(),
			DocumentID: sc.DocumentID,
			Filename:   sc.OriginFilename,
			Content:    sc.Content,
			Headings:   sc.Headings,
			Pages:      sc.Pages,
			Score:      sc.Score,
		})
	}
	return queryResponse{Answer: r.Answer, Documents: docs}
}
