package objectstore

import (
	"path"
	"strings"
)

var contentTypes = map[string]string{
	".html":  "text/html",
	".htm":   "text/html",
	".js":    "application/javascript",
	".mjs":   "application/javascript",
	".css":   "text/css",
	".txt":   "text/plain",
	".json":  "application/json",
	".xml":   "application/xml",
	".map":   "application/json",
	".ico":   "image/x-icon",
	".svg":   "image/svg+xml",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".webp":  "image/webp",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".mp3":   "audio/mpeg",
	".mp4":   "video/mp4",
	".webm":  "video/webm",
	".pdf":   "application/pdf",
}

// ContentTypeForKey guesses the served content type of an object from its
// extension. Unknown extensions fall back to application/octet-stream.
func ContentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	if ct, ok := contentTypes[path.Ext(s)]; ok {
		return ct
	}
	return "application/octet-stream"
}
