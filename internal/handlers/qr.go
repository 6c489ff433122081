package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// RoomQR handles GET /api/room/{code}/qr: a PNG QR code encoding the
// room's join URL, for sharing a lobby across devices.
func (h *Handler) RoomQR(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if _, err := h.registry.GetRoom(code); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	url := fmt.Sprintf("%s/room/%s", baseURL(r), code)
	png, err := generateQRCode(url)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// generateQRCode renders url as a PNG QR code with medium error correction.
func generateQRCode(url string) ([]byte, error) {
	qrc, err := qrcode.NewWith(url,
		qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium),
		qrcode.WithEncodingMode(qrcode.EncModeByte),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	var buf bytes.Buffer
	wr := standard.NewWithWriter(nopWriteCloser{&buf},
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
		standard.WithQRWidth(8), // 8 pixels per module
	)
	if err := qrc.Save(wr); err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return buf.Bytes(), nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// baseURL reconstructs the externally visible base URL, honoring
// reverse-proxy forwarding headers.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	host := r.Host
	if forwardedHost := r.Header.Get("X-Forwarded-Host"); forwardedHost != "" {
		host = forwardedHost
	}

	return fmt.Sprintf("%s://%s", scheme, host)
}
