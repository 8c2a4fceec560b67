package domain

// ArtifactKind identifies an output product of the pipeline.
type ArtifactKind string

const (
	// ArtifactDocument is the word-processor rendering of the text.
	ArtifactDocument ArtifactKind = "document"

	// ArtifactAudio is the synthesised narration.
	ArtifactAudio ArtifactKind = "audio"
)

// Artifact is an in-memory output waiting to be persisted.
type Artifact struct {
	Kind      ArtifactKind
	Extension string
	Data      []byte
}

// StoredArtifact is an artifact that has been written to the output directory.
type StoredArtifact struct {
	Kind ArtifactKind
	Path string
}

// ArtifactPaths picks the document and audio paths out of a stored set.
func ArtifactPaths(stored []StoredArtifact) (documentPath, audioPath string) {
	for _, s := range stored {
		switch s.Kind {
		case ArtifactDocument:
			documentPath = s.Path
		case ArtifactAudio:
			audioPath = s.Path
		}
	}
	return documentPath, audioPath
}
