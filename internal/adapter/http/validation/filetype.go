// Package validation checks uploaded sources before they reach the input tree.
package validation

import (
	"bytes"
	"errors"
	"io"
	"net/http"
)

var ErrDisallowedFileType = errors.New("file type not allowed")

const sniffSize = 512

// DetectVideoType sniffs the container type from the first bytes of r and
// rewinds it.
func DetectVideoType(r io.ReadSeeker) (string, error) {
	buf := make([]byte, sniffSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	if n == 0 {
		return "application/octet-stream", nil
	}
	buf = buf[:n]

	if mime := detectContainer(buf); mime != "" {
		return mime, nil
	}
	return http.DetectContentType(buf), nil
}

// ValidateMagicBytes reports the sniffed type and whether allowed contains it.
func ValidateMagicBytes(r io.ReadSeeker, allowed map[string]bool) (mime string, ok bool, err error) {
	mime, err = DetectVideoType(r)
	if err != nil {
		return "", false, err
	}
	return mime, allowed[mime], nil
}

func detectContainer(buf []byte) string {
	if len(buf) < 4 {
		return ""
	}

	// EBML header; the DocType element tells WebM from generic Matroska.
	if bytes.HasPrefix(buf, []byte{0x1A, 0x45, 0xDF, 0xA3}) {
		if bytes.Contains(buf, []byte("webm")) {
			return "video/webm"
		}
		return "video/x-matroska"
	}

	// MPEG program stream pack header
	if bytes.HasPrefix(buf, []byte{0x00, 0x00, 0x01, 0xBA}) {
		return "video/mpeg"
	}

	if len(buf) < 12 {
		return ""
	}

	if string(buf[0:4]) == "RIFF" && string(buf[8:12]) == "AVI " {
		return "video/x-msvideo"
	}

	// ISO base media: [size]["ftyp"][brand]
	if string(buf[4:8]) == "ftyp" {
		switch string(buf[8:12]) {
		case "qt  ":
			return "video/quicktime"
		case "M4A ", "M4B ":
			return "audio/mp4"
		default:
			return "video/mp4"
		}
	}
	return ""
}
