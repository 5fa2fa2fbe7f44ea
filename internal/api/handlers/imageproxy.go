package handlers

import (
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/csquare-club/server/internal/api/respond"
	"github.com/csquare-club/server/internal/metrics"
)

const (
	proxyTimeout      = 10 * time.Second
	proxyMaxRedirects = 5
)

// ImageProxyHandler fetches external images server-side so the frontend
// can display hosts that block hotlinking or lack CORS headers.
type ImageProxyHandler struct {
	client *http.Client
}

func NewImageProxyHandler() *ImageProxyHandler {
	return &ImageProxyHandler{
		client: &http.Client{
			Timeout: proxyTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= proxyMaxRedirects {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
	}
}

func (h *ImageProxyHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	rawURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if rawURL == "" {
		respond.Error(w, r, http.StatusBadRequest, "Image URL is required.", nil)
		return
	}

	target, err := url.Parse(rawURL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		respond.Error(w, r, http.StatusBadRequest, "Invalid image URL.", nil)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target.String(), nil)
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid image URL.", nil)
		return
	}

	// Some image hosts reject requests without browser headers.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
	req.Header.Set("Referer", target.Scheme+"://"+target.Host+"/")

	resp, err := h.client.Do(req)
	if err != nil {
		h.writeFetchError(w, r, err)
		return
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		metrics.ProxiedImagesTotal.WithLabelValues("forbidden").Inc()
		respond.Error(w, r, http.StatusForbidden, "Image host denied access.", nil)
		return
	case resp.StatusCode == http.StatusNotFound:
		metrics.ProxiedImagesTotal.WithLabelValues("not_found").Inc()
		respond.Error(w, r, http.StatusNotFound, "Image not found.", nil)
		return
	case resp.StatusCode >= 400:
		metrics.ProxiedImagesTotal.WithLabelValues("error").Inc()
		respond.Error(w, r, http.StatusInternalServerError, "Failed to fetch image.", nil)
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		contentType = "image/jpeg"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, resp.Body); err != nil {
		// Headers are already out; the client likely went away.
		metrics.ProxiedImagesTotal.WithLabelValues("error").Inc()
		return
	}

	metrics.ProxiedImagesTotal.WithLabelValues("success").Inc()
}

func (h *ImageProxyHandler) writeFetchError(w http.ResponseWriter, r *http.Request, err error) {
	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &dnsErr):
		metrics.ProxiedImagesTotal.WithLabelValues("not_found").Inc()
		respond.Error(w, r, http.StatusNotFound, "Image host not found.", nil)
	case isTimeout(err):
		metrics.ProxiedImagesTotal.WithLabelValues("timeout").Inc()
		respond.Error(w, r, http.StatusRequestTimeout, "Image fetch timed out.", nil)
	default:
		metrics.ProxiedImagesTotal.WithLabelValues("error").Inc()
		respond.Error(w, r, http.StatusInternalServerError, "Failed to fetch image.", err)
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

// Health documents the proxy endpoint for frontend developers.
func (h *ImageProxyHandler) Health(w http.ResponseWriter, r *http.Request) {
	respond.Data(w, http.StatusOK, map[string]any{
		"service": "image-proxy",
		"status":  "ok",
		"usage":   "GET /api/proxy-image?url=https://example.com/image.jpg",
		"limits": map[string]any{
			"timeoutSeconds": int(proxyTimeout.Seconds()),
			"maxRedirects":   proxyMaxRedirects,
		},
	})
}
