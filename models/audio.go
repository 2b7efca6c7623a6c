package models

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"mime"
	"strconv"
	"strings"
)

const (
	DefaultSampleRate = 24000
	pcmBitsPerSample  = 16
	pcmChannels       = 1
	wavHeaderSize     = 44
)

// AudioResult is the encoded audio returned by speech synthesis, as received.
type AudioResult struct {
	Data     []byte
	MIMEType string
}

func (a *AudioResult) Base64() string {
	return base64.StdEncoding.EncodeToString(a.Data)
}

// IsWAV reports whether the payload already carries a RIFF/WAVE container.
func (a *AudioResult) IsWAV() bool {
	mediaType, _, _ := mime.ParseMediaType(a.MIMEType)
	switch mediaType {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return true
	}
	return bytes.HasPrefix(a.Data, []byte("RIFF"))
}

// SampleRate reads the rate parameter of an audio/L16 style MIME type, falling
// back to DefaultSampleRate.
func (a *AudioResult) SampleRate() int {
	_, params, err := mime.ParseMediaType(a.MIMEType)
	if err != nil {
		return DefaultSampleRate
	}
	rate, err := strconv.Atoi(strings.TrimSpace(params["rate"]))
	if err != nil || rate <= 0 {
		return DefaultSampleRate
	}
	return rate
}

// WAV returns a playable WAV file. Raw PCM (16-bit little-endian mono) gets a
// RIFF header prepended; payloads that are already WAV pass through.
func (a *AudioResult) WAV() []byte {
	if a.IsWAV() {
		return a.Data
	}
	return FrameWAV(a.Data, a.SampleRate())
}

// FrameWAV prepends a RIFF header for 16-bit mono PCM at the given rate.
func FrameWAV(pcm []byte, rate int) []byte {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	blockAlign := pcmChannels * pcmBitsPerSample / 8
	dataLen := uint32(len(pcm))

	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+len(pcm)))
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36)+dataLen)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(pcmChannels))
	binary.Write(buf, binary.LittleEndian, uint32(rate))
	binary.Write(buf, binary.LittleEndian, uint32(rate*blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(pcmBitsPerSample))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataLen)
	buf.Write(pcm)
	return buf.Bytes()
}
