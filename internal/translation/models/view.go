package models

// DocumentWithLinks is a document plus time-limited download links. A nil
// link means the file is absent or could not be signed.
type DocumentWithLinks struct {
	*TranslationDocument
	OriginalFileURL   *string `json:"original_file_url"`
	TranslatedFileURL *string `json:"translated_file_url"`
}

// PageWithLinks is a list page whose documents carry download links.
type PageWithLinks struct {
	Documents []DocumentWithLinks `json:"documents"`
	Total     int                 `json:"total"`
	Limit     int                 `json:"limit"`
	Offset    int                 `json:"offset"`
}
