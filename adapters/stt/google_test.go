package stt_test

import (
	"github.com/madmonkey007/EchoListenultra/adapters/stt"
	"github.com/madmonkey007/EchoListenultra/domain/repositories"
)

var _ repositories.Transcriber = &stt.GoogleTranscriber{}
