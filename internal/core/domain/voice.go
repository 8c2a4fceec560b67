package domain

// VoiceProfile selects the voice used for narration.
type VoiceProfile struct {
	// LanguageCode is a BCP-47 tag such as "fr-FR".
	LanguageCode string

	// Gender is NEUTRAL, FEMALE or MALE.
	Gender string

	// Name optionally pins a specific voice.
	Name string

	// Encoding is the audio encoding, e.g. MP3, OGG_OPUS or LINEAR16.
	Encoding string
}

// DefaultVoiceProfile returns the narration defaults.
func DefaultVoiceProfile() VoiceProfile {
	return VoiceProfile{
		LanguageCode: "fr-FR",
		Gender:       "NEUTRAL",
		Encoding:     "MP3",
	}
}

// WithDefaults fills empty fields from DefaultVoiceProfile.
func (v VoiceProfile) WithDefaults() VoiceProfile {
	d := DefaultVoiceProfile()
	if v.LanguageCode == "" {
		v.LanguageCode = d.LanguageCode
	}
	if v.Gender == "" {
		v.Gender = d.Gender
	}
	if v.Encoding == "" {
		v.Encoding = d.Encoding
	}
	return v
}

// Extension returns the file extension matching the encoding.
func (v VoiceProfile) Extension() string {
	switch v.Encoding {
	case "OGG_OPUS":
		return "ogg"
	case "LINEAR16":
		return "wav"
	case "MULAW", "ALAW":
		return "wav"
	default:
		return "mp3"
	}
}

// Streamable reports whether separately synthesised segments may be concatenated.
func (v VoiceProfile) Streamable() bool {
	return v.Encoding == "" || v.Encoding == "MP3" || v.Encoding == "OGG_OPUS"
}
