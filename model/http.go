package model

type UploadResponse struct {
	Metadata SongMetadata `json:"metadata"`
}

type CatalogResponse struct {
	Songs []SongMetadata `json:"songs"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
