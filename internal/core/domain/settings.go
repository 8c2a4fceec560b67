package domain

import "time"

const unknownDescription = "Unknown"

// ExtractorKind selects the extraction adapter.
type ExtractorKind string

// Available extractors.
const (
	// ExtractorPlaceholder returns a fixed sentence per chunk.
	ExtractorPlaceholder ExtractorKind = "placeholder"

	// ExtractorPDFText reads the embedded text layer.
	ExtractorPDFText ExtractorKind = "pdftext"

	// ExtractorGemini sends chunks to a Gemini model for transcription.
	ExtractorGemini ExtractorKind = "gemini"
)

// IsValid returns true if the extractor kind is recognised.
func (k ExtractorKind) IsValid() bool {
	switch k {
	case ExtractorPlaceholder, ExtractorPDFText, ExtractorGemini:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k ExtractorKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the extractor.
func (k ExtractorKind) Description() string {
	switch k {
	case ExtractorPlaceholder:
		return "Placeholder (fixed text per chunk)"
	case ExtractorPDFText:
		return "PDF text layer"
	case ExtractorGemini:
		return "Gemini OCR"
	default:
		return unknownDescription
	}
}

// ExtractionErrorPolicy decides what happens when a chunk cannot be extracted.
type ExtractionErrorPolicy string

const (
	// ExtractionAbort fails the whole document.
	ExtractionAbort ExtractionErrorPolicy = "abort"

	// ExtractionPlaceholder substitutes a marker for the missing pages.
	ExtractionPlaceholder ExtractionErrorPolicy = "placeholder"
)

// IsValid returns true if the policy is recognised.
func (p ExtractionErrorPolicy) IsValid() bool {
	return p == ExtractionAbort || p == ExtractionPlaceholder
}

// Description returns a human-readable description of the policy.
func (p ExtractionErrorPolicy) Description() string {
	switch p {
	case ExtractionAbort:
		return "Abort the document"
	case ExtractionPlaceholder:
		return "Insert a placeholder and continue"
	default:
		return unknownDescription
	}
}

// RemoteProvider selects the remote store implementation.
type RemoteProvider string

const (
	RemoteDropbox    RemoteProvider = "dropbox"
	RemoteGDrive     RemoteProvider = "gdrive"
	RemoteFilesystem RemoteProvider = "filesystem"
)

// IsValid returns true if the provider is recognised.
func (p RemoteProvider) IsValid() bool {
	switch p {
	case RemoteDropbox, RemoteGDrive, RemoteFilesystem:
		return true
	default:
		return false
	}
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Remote holds the remote store settings.
	Remote RemoteSettings

	// Pipeline holds processing behaviour settings.
	Pipeline PipelineSettings

	// Extractor holds extraction adapter settings.
	Extractor ExtractorSettings

	// Speech holds narration settings.
	Speech SpeechSettings
}

// RemoteSettings configures where source PDFs are listed and fetched.
type RemoteSettings struct {
	Provider RemoteProvider

	// Folder is the folder listed on each batch.
	Folder string

	// Root is the local directory backing the filesystem provider.
	Root string

	// DropboxToken is the Dropbox access token.
	DropboxToken string

	// GDriveToken is an OAuth2 access token with the drive.readonly scope.
	GDriveToken string
}

// IsConfigured returns true if the provider has what it needs to connect.
func (r RemoteSettings) IsConfigured() bool {
	switch r.Provider {
	case RemoteDropbox:
		return r.DropboxToken != ""
	case RemoteGDrive:
		return r.GDriveToken != ""
	case RemoteFilesystem:
		return r.Root != ""
	default:
		return false
	}
}

// PipelineSettings configures the orchestrator.
type PipelineSettings struct {
	// ChunkPages is the maximum number of pages per chunk.
	ChunkPages int

	// ScratchDir holds temporary chunk files.
	ScratchDir string

	// OutputDir receives the generated artifacts.
	OutputDir string

	// CallTimeout bounds every external call.
	CallTimeout time.Duration

	// RetryAttempts is the maximum number of attempts for retryable calls.
	RetryAttempts int

	// OnExtractionError selects the extraction failure policy.
	OnExtractionError ExtractionErrorPolicy
}

// ExtractorSettings configures the extraction adapter.
type ExtractorSettings struct {
	Kind ExtractorKind

	// GeminiModel is the model used by the gemini extractor.
	GeminiModel string

	// GeminiAPIKey authenticates the gemini extractor.
	GeminiAPIKey string
}

// SpeechSettings configures narration.
type SpeechSettings struct {
	Voice VoiceProfile

	// CredentialsFile is a service account JSON file.
	CredentialsFile string

	// AccessToken is a pre-issued OAuth2 bearer token, used instead of CredentialsFile.
	AccessToken string

	// MaxRequestBytes caps the text sent in a single request.
	MaxRequestBytes int
}

// Defaults for pipeline settings.
const (
	DefaultChunkPages      = 100
	DefaultCallTimeout     = 2 * time.Minute
	DefaultRetryAttempts   = 3
	DefaultMaxRequestBytes = 5000
	DefaultGeminiModel     = "gemini-1.5-flash"
	DefaultRemoteFolder    = ""
)

// DefaultAppSettings returns settings with sensible defaults.
// Directories are left empty and resolved against the data directory.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Remote: RemoteSettings{
			Provider: RemoteDropbox,
			Folder:   DefaultRemoteFolder,
		},
		Pipeline: PipelineSettings{
			ChunkPages:        DefaultChunkPages,
			CallTimeout:       DefaultCallTimeout,
			RetryAttempts:     DefaultRetryAttempts,
			OnExtractionError: ExtractionAbort,
		},
		Extractor: ExtractorSettings{
			Kind:        ExtractorPlaceholder,
			GeminiModel: DefaultGeminiModel,
		},
		Speech: SpeechSettings{
			Voice:           DefaultVoiceProfile(),
			MaxRequestBytes: DefaultMaxRequestBytes,
		},
	}
}

// AllExtractorKinds returns all available extractors.
func AllExtractorKinds() []ExtractorKind {
	return []ExtractorKind{
		ExtractorPlaceholder,
		ExtractorPDFText,
		ExtractorGemini,
	}
}
