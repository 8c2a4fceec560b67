// Package speech narrates text with the Google Cloud Text-to-Speech API.
//
// This package contains:
//   - Service factory resolving credentials (access token, credentials file, ADC)
//   - Synthesizer implementing driven.SpeechSynthesizer
//   - Segmentation of texts longer than the per-request limit
//   - Error mapping from googleapi.Error to domain causes (401, 403, 429, 5xx)
//   - Rate limiting to respect API quotas
//
// # Usage
//
//	svc, err := speech.NewService(ctx, speech.Credentials{File: "sa.json"})
//	synth := speech.New(svc, speech.WithMaxRequestBytes(5000))
//	audio, err := synth.Synthesize(ctx, text, domain.DefaultVoiceProfile())
package speech
