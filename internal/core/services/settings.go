package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driven"
	"github.com/custodia-labs/livres/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyRemoteProvider    = "remote.provider"
	KeyRemoteFolder      = "remote.folder"
	KeyRemoteRoot        = "remote.root"
	KeyDropboxToken      = "remote.dropbox_token"
	KeyGDriveToken       = "remote.gdrive_token"
	KeyChunkPages        = "pipeline.chunk_pages"
	KeyScratchDir        = "pipeline.scratch_dir"
	KeyOutputDir         = "pipeline.output_dir"
	KeyCallTimeout       = "pipeline.call_timeout"
	KeyRetryAttempts     = "pipeline.retry_attempts"
	KeyOnExtractionError = "pipeline.on_extraction_error"
	KeyExtractorKind     = "extractor.kind"
	KeyGeminiModel       = "extractor.gemini_model"
	KeyGeminiAPIKey      = "extractor.gemini_api_key"
	KeyVoiceLanguage     = "speech.language"
	KeyVoiceGender       = "speech.gender"
	KeyVoiceName         = "speech.voice"
	KeyVoiceEncoding     = "speech.encoding"
	KeySpeechCredentials = "speech.credentials_file"
	KeySpeechAccessToken = "speech.access_token"
	KeySpeechMaxReqBytes = "speech.max_request_bytes"
)

// Environment variables that override stored secrets.
//
//nolint:gosec // G101: environment variable names.
const (
	EnvDropboxToken      = "DROPBOX_ACCESS_TOKEN"
	EnvGDriveToken       = "GDRIVE_ACCESS_TOKEN"
	EnvGeminiAPIKey      = "GEMINI_API_KEY"
	EnvSpeechCredentials = "GOOGLE_APPLICATION_CREDENTIALS"
	EnvSpeechAccessToken = "GOOGLE_TTS_ACCESS_TOKEN"
)

var envOverrides = map[string]string{
	KeyDropboxToken:      EnvDropboxToken,
	KeyGDriveToken:       EnvGDriveToken,
	KeyGeminiAPIKey:      EnvGeminiAPIKey,
	KeySpeechCredentials: EnvSpeechCredentials,
	KeySpeechAccessToken: EnvSpeechAccessToken,
}

var secretKeys = map[string]bool{
	KeyDropboxToken:      true,
	KeyGDriveToken:       true,
	KeyGeminiAPIKey:      true,
	KeySpeechAccessToken: true,
}

var validGenders = []string{"NEUTRAL", "FEMALE", "MALE"}

var validEncodings = []string{"MP3", "OGG_OPUS", "LINEAR16", "MULAW", "ALAW"}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// SettingsOption configures a SettingsService.
type SettingsOption func(*SettingsService)

// WithEnv replaces the environment lookup.
func WithEnv(getenv func(string) string) SettingsOption {
	return func(s *SettingsService) {
		s.getenv = getenv
	}
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, opts ...SettingsOption) *SettingsService {
	s := &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Remote: domain.RemoteSettings{
			Provider:     s.getRemoteProvider(defaults.Remote.Provider),
			Folder:       s.getString(KeyRemoteFolder, defaults.Remote.Folder),
			Root:         s.configStore.GetString(KeyRemoteRoot),
			DropboxToken: s.getSecret(KeyDropboxToken),
			GDriveToken:  s.getSecret(KeyGDriveToken),
		},
		Pipeline: domain.PipelineSettings{
			ChunkPages:        s.getInt(KeyChunkPages, defaults.Pipeline.ChunkPages),
			ScratchDir:        s.configStore.GetString(KeyScratchDir),
			OutputDir:         s.configStore.GetString(KeyOutputDir),
			CallTimeout:       s.getDuration(KeyCallTimeout, defaults.Pipeline.CallTimeout),
			RetryAttempts:     s.getInt(KeyRetryAttempts, defaults.Pipeline.RetryAttempts),
			OnExtractionError: s.getPolicy(defaults.Pipeline.OnExtractionError),
		},
		Extractor: domain.ExtractorSettings{
			Kind:         s.getExtractorKind(defaults.Extractor.Kind),
			GeminiModel:  s.getString(KeyGeminiModel, defaults.Extractor.GeminiModel),
			GeminiAPIKey: s.getSecret(KeyGeminiAPIKey),
		},
		Speech: domain.SpeechSettings{
			Voice: domain.VoiceProfile{
				LanguageCode: s.getString(KeyVoiceLanguage, defaults.Speech.Voice.LanguageCode),
				Gender:       s.getString(KeyVoiceGender, defaults.Speech.Voice.Gender),
				Name:         s.configStore.GetString(KeyVoiceName),
				Encoding:     s.getString(KeyVoiceEncoding, defaults.Speech.Voice.Encoding),
			},
			CredentialsFile: s.getSecret(KeySpeechCredentials),
			AccessToken:     s.getSecret(KeySpeechAccessToken),
			MaxRequestBytes: s.getInt(KeySpeechMaxReqBytes, defaults.Speech.MaxRequestBytes),
		},
	}

	return settings, nil
}

// Save persists application settings.
// Secrets are only written when set and not supplied by the environment.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyRemoteProvider, string(settings.Remote.Provider)},
		{KeyRemoteFolder, settings.Remote.Folder},
		{KeyRemoteRoot, settings.Remote.Root},
		{KeyChunkPages, settings.Pipeline.ChunkPages},
		{KeyScratchDir, settings.Pipeline.ScratchDir},
		{KeyOutputDir, settings.Pipeline.OutputDir},
		{KeyCallTimeout, settings.Pipeline.CallTimeout.String()},
		{KeyRetryAttempts, settings.Pipeline.RetryAttempts},
		{KeyOnExtractionError, string(settings.Pipeline.OnExtractionError)},
		{KeyExtractorKind, settings.Extractor.Kind.String()},
		{KeyGeminiModel, settings.Extractor.GeminiModel},
		{KeyVoiceLanguage, settings.Speech.Voice.LanguageCode},
		{KeyVoiceGender, settings.Speech.Voice.Gender},
		{KeyVoiceName, settings.Speech.Voice.Name},
		{KeyVoiceEncoding, settings.Speech.Voice.Encoding},
		{KeySpeechMaxReqBytes, settings.Speech.MaxRequestBytes},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	secrets := map[string]string{
		KeyDropboxToken:      settings.Remote.DropboxToken,
		KeyGDriveToken:       settings.Remote.GDriveToken,
		KeyGeminiAPIKey:      settings.Extractor.GeminiAPIKey,
		KeySpeechCredentials: settings.Speech.CredentialsFile,
		KeySpeechAccessToken: settings.Speech.AccessToken,
	}
	for _, key := range sortedKeys(secrets) {
		val := secrets[key]
		if val == "" || val == s.getenv(envOverrides[key]) {
			continue
		}
		if err := s.configStore.Set(key, val); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	return nil
}

// Set validates and stores a single key.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	var stored any = value
	switch key {
	case KeyRemoteProvider:
		if !domain.RemoteProvider(value).IsValid() {
			return fmt.Errorf("%w: remote provider %q", domain.ErrInvalidInput, value)
		}
	case KeyExtractorKind:
		if !domain.ExtractorKind(value).IsValid() {
			return fmt.Errorf("%w: extractor %q", domain.ErrInvalidInput, value)
		}
	case KeyOnExtractionError:
		if !domain.ExtractionErrorPolicy(value).IsValid() {
			return fmt.Errorf("%w: extraction policy %q", domain.ErrInvalidInput, value)
		}
	case KeyChunkPages, KeyRetryAttempts, KeySpeechMaxReqBytes:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		stored = n
	case KeyCallTimeout:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: %s must be a positive duration", domain.ErrInvalidInput, key)
		}
		stored = d.String()
	case KeyVoiceGender:
		value = strings.ToUpper(value)
		if !contains(validGenders, value) {
			return fmt.Errorf("%w: gender %q", domain.ErrInvalidInput, value)
		}
		stored = value
	case KeyVoiceEncoding:
		value = strings.ToUpper(value)
		if !contains(validEncodings, value) {
			return fmt.Errorf("%w: encoding %q", domain.ErrInvalidInput, value)
		}
		stored = value
	case KeyRemoteFolder, KeyRemoteRoot, KeyDropboxToken, KeyGDriveToken, KeyScratchDir, KeyOutputDir,
		KeyGeminiModel, KeyGeminiAPIKey, KeyVoiceLanguage, KeyVoiceName,
		KeySpeechCredentials, KeySpeechAccessToken:
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the settable keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := []string{
		KeyRemoteProvider, KeyRemoteFolder, KeyRemoteRoot, KeyDropboxToken, KeyGDriveToken,
		KeyChunkPages, KeyScratchDir, KeyOutputDir, KeyCallTimeout, KeyRetryAttempts, KeyOnExtractionError,
		KeyExtractorKind, KeyGeminiModel, KeyGeminiAPIKey,
		KeyVoiceLanguage, KeyVoiceGender, KeyVoiceName, KeyVoiceEncoding,
		KeySpeechCredentials, KeySpeechAccessToken, KeySpeechMaxReqBytes,
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the effective value of a key as text.
func (s *SettingsService) Lookup(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}

	var value string
	switch key {
	case KeyRemoteProvider:
		value = string(settings.Remote.Provider)
	case KeyRemoteFolder:
		value = settings.Remote.Folder
	case KeyRemoteRoot:
		value = settings.Remote.Root
	case KeyDropboxToken:
		value = settings.Remote.DropboxToken
	case KeyGDriveToken:
		value = settings.Remote.GDriveToken
	case KeyChunkPages:
		value = strconv.Itoa(settings.Pipeline.ChunkPages)
	case KeyScratchDir:
		value = settings.Pipeline.ScratchDir
	case KeyOutputDir:
		value = settings.Pipeline.OutputDir
	case KeyCallTimeout:
		value = settings.Pipeline.CallTimeout.String()
	case KeyRetryAttempts:
		value = strconv.Itoa(settings.Pipeline.RetryAttempts)
	case KeyOnExtractionError:
		value = string(settings.Pipeline.OnExtractionError)
	case KeyExtractorKind:
		value = settings.Extractor.Kind.String()
	case KeyGeminiModel:
		value = settings.Extractor.GeminiModel
	case KeyGeminiAPIKey:
		value = settings.Extractor.GeminiAPIKey
	case KeyVoiceLanguage:
		value = settings.Speech.Voice.LanguageCode
	case KeyVoiceGender:
		value = settings.Speech.Voice.Gender
	case KeyVoiceName:
		value = settings.Speech.Voice.Name
	case KeyVoiceEncoding:
		value = settings.Speech.Voice.Encoding
	case KeySpeechCredentials:
		value = settings.Speech.CredentialsFile
	case KeySpeechAccessToken:
		value = settings.Speech.AccessToken
	case KeySpeechMaxReqBytes:
		value = strconv.Itoa(settings.Speech.MaxRequestBytes)
	default:
		return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if secretKeys[key] {
		return maskSecret(value), nil
	}
	return value, nil
}

// Validate checks that the configured providers have what they need.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Remote.Provider.IsValid() {
		return fmt.Errorf("%w: remote provider %q", domain.ErrInvalidInput, settings.Remote.Provider)
	}
	if !settings.Remote.IsConfigured() {
		switch settings.Remote.Provider {
		case domain.RemoteDropbox:
			return fmt.Errorf("remote provider dropbox requires %s or %s", KeyDropboxToken, EnvDropboxToken)
		case domain.RemoteGDrive:
			return fmt.Errorf("remote provider gdrive requires %s or %s", KeyGDriveToken, EnvGDriveToken)
		default:
			return fmt.Errorf("remote provider %s requires %s", settings.Remote.Provider, KeyRemoteRoot)
		}
	}

	if !settings.Extractor.Kind.IsValid() {
		return fmt.Errorf("%w: extractor %q", domain.ErrInvalidInput, settings.Extractor.Kind)
	}
	if settings.Extractor.Kind == domain.ExtractorGemini && settings.Extractor.GeminiAPIKey == "" {
		return fmt.Errorf("extractor %q requires %s or %s",
			settings.Extractor.Kind.Description(), KeyGeminiAPIKey, EnvGeminiAPIKey)
	}

	if settings.Pipeline.ChunkPages <= 0 {
		return fmt.Errorf("%w: %s must be positive", domain.ErrInvalidInput, KeyChunkPages)
	}
	if !contains(validEncodings, settings.Speech.Voice.Encoding) {
		return fmt.Errorf("%w: encoding %q", domain.ErrInvalidInput, settings.Speech.Voice.Encoding)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetDuration(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

// getSecret prefers the environment over the config file.
func (s *SettingsService) getSecret(key string) string {
	if env, ok := envOverrides[key]; ok {
		if val := s.getenv(env); val != "" {
			return val
		}
	}
	return s.configStore.GetString(key)
}

func (s *SettingsService) getRemoteProvider(defaultVal domain.RemoteProvider) domain.RemoteProvider {
	provider := domain.RemoteProvider(s.configStore.GetString(KeyRemoteProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getExtractorKind(defaultVal domain.ExtractorKind) domain.ExtractorKind {
	kind := domain.ExtractorKind(s.configStore.GetString(KeyExtractorKind))
	if !kind.IsValid() {
		return defaultVal
	}
	return kind
}

func (s *SettingsService) getPolicy(defaultVal domain.ExtractionErrorPolicy) domain.ExtractionErrorPolicy {
	policy := domain.ExtractionErrorPolicy(s.configStore.GetString(KeyOnExtractionError))
	if !policy.IsValid() {
		return defaultVal
	}
	return policy
}

func maskSecret(val string) string {
	if val == "" {
		return ""
	}
	if len(val) <= 8 {
		return "****"
	}
	return "****" + val[len(val)-4:]
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
