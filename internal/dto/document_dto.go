package dto

// PublishIngestDocumentMessage is the watermill payload queued per
// uploaded document.
type PublishIngestDocumentMessage struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Source   string `json:"source"`
}

type UploadDocumentResponse struct {
	Filename string `json:"filename"`
	Queued   bool   `json:"queued"`
}

type ReindexResponse struct {
	DocumentCount int    `json:"document_count"`
	ChunkCount    int    `json:"chunk_count"`
	Elapsed       string `json:"elapsed"`
}

type IndexStatusResponse struct {
	Ready          bool  `json:"ready"`
	ChunkCount     int64 `json:"chunk_count"`
	UploadedChunks int64 `json:"uploaded_chunks"`
	LocalChunks    int64 `json:"local_chunks"`
}

// DocumentChunkInfo is one indexed chunk as reported by the inspection
// endpoint.
type DocumentChunkInfo struct {
	ChunkIndex int    `json:"chunk_index"`
	Content    string `json:"content"`
	Source     string `json:"source"`
	CharCount  int    `json:"char_count"`
}
