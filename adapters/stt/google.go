package stt

import (
	"context"
	"fmt"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
	"github.com/madmonkey007/EchoListenultra/domain/repositories"
)

// GoogleTranscriber implements Transcriber using Google Cloud
// Speech-to-Text with word time offsets and speaker diarization enabled,
// so every recognized word carries its own timing and speaker tag.
type GoogleTranscriber struct{}

// Transcribe runs a synchronous recognize call and flattens the result
// into time-ordered word timing records. Audio with no detected speech
// yields an empty slice and no error; the import pipeline treats that as
// the signal to fall back to placeholder segmentation.
func (g *GoogleTranscriber) Transcribe(ctx context.Context, audioData []byte, config repositories.AudioConfig) ([]entities.WordTiming, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	defer client.Close()

	encoding, err := getAudioEncoding(config.Encoding)
	if err != nil {
		return nil, fmt.Errorf("unsupported audio encoding: %s", config.Encoding)
	}

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:              encoding,
			SampleRateHertz:       int32(config.SampleRate),
			LanguageCode:          config.Language,
			EnableWordTimeOffsets: true,
			DiarizationConfig: &speechpb.SpeakerDiarizationConfig{
				EnableSpeakerDiarization: true,
				MinSpeakerCount:          1,
				MaxSpeakerCount:          6,
			},
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audioData},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("recognize failed: %w", err)
	}

	var words []entities.WordTiming
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		for _, info := range result.Alternatives[0].Words {
			words = append(words, entities.WordTiming{
				Word:    info.Word,
				Start:   info.StartTime.AsDuration().Seconds(),
				End:     info.EndTime.AsDuration().Seconds(),
				Speaker: int(info.SpeakerTag),
			})
		}
	}

	return words, nil
}

// getAudioEncoding converts string encoding to Google Speech API enum
func getAudioEncoding(encoding string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	switch encoding {
	case "WAV", "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16, nil
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC, nil
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW, nil
	case "AMR":
		return speechpb.RecognitionConfig_AMR, nil
	case "AMR_WB":
		return speechpb.RecognitionConfig_AMR_WB, nil
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS, nil
	case "SPEEX_WITH_HEADER_BYTE":
		return speechpb.RecognitionConfig_SPEEX_WITH_HEADER_BYTE, nil
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, fmt.Errorf("unsupported encoding: %s", encoding)
	}
}
