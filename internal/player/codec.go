package player

import (
	"bufio"
	"io"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/wav"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
	extOpus = ".opus"
)

// DecodeFunc starts a streaming decoder on an opened track.
type DecodeFunc func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

// DefaultCodecs returns the decoders known to the player, keyed by extension.
func DefaultCodecs() map[string]DecodeFunc {
	return map[string]DecodeFunc{
		extMP3:  decodeGoMP3,
		extFLAC: decodeFLAC,
		extWAV:  decodeWAV,
		extOGG:  decodeOgg,
		extOpus: decodeOgg,
	}
}

// IsPlayable reports whether a default codec exists for path.
func IsPlayable(path string) bool {
	_, ok := DefaultCodecs()[Ext(path)]
	return ok
}

// Ext returns the lowercased extension of path, dot included.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func decodeFLAC(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	br := bufio.NewReader(rc)
	// Some taggers prepend an ID3v2 tag, which the FLAC decoder rejects
	if err := skipID3v2(br); err != nil {
		return nil, beep.Format{}, err
	}
	return flac.Decode(br)
}

func decodeWAV(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	return wav.Decode(rc)
}

// skipID3v2 discards an ID3v2 tag if one starts the stream.
func skipID3v2(br *bufio.Reader) error {
	header, err := br.Peek(10)
	if len(header) < 10 {
		// Too short to carry a tag; let the decoder report the real problem
		if err == io.EOF {
			return nil
		}
		return err
	}
	if string(header[0:3]) != "ID3" {
		return nil
	}

	// Syncsafe integer: 7 bits per byte
	size := int(header[6])<<21 | int(header[7])<<14 | int(header[8])<<7 | int(header[9])

	_, err = br.Discard(10 + size)
	return err
}
