package transkribus

// Collection is a named group of documents, resolved server-side to a
// numeric handle.
type Collection struct {
	ID          int    `json:"colId"`
	Name        string `json:"colName"`
	Description string `json:"description"`
}

// Document is one entry of a collection's document list.
type Document struct {
	ID    int    `json:"docId"`
	Title string `json:"title"`
}

// Page describes a single scanned page of a document together with its
// transcript versions.
type Page struct {
	ImgFileName string         `json:"imgFileName"`
	TsList      TranscriptList `json:"tsList"`
}

// TranscriptList mirrors the wire nesting of the fulldoc response.
type TranscriptList struct {
	Transcripts []Transcript `json:"transcripts"`
}

// Transcript is one version of a page's transcription. Timestamp is
// milliseconds since the epoch; the newest version is authoritative.
type Transcript struct {
	Timestamp int64  `json:"timestamp"`
	URL       string `json:"url"`
	Status    string `json:"status"`
	UserName  string `json:"userName"`
	NrOfLines int    `json:"nrOfLines"`
}
