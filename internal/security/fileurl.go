package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/gatherhall/plugin-trust/internal/config"
)

// FileURLSigner builds expiring signed URLs for stored images. Image
// ids are opaque; the file service validates the signature.
type FileURLSigner struct {
	baseURL string
	secret  []byte
	expiry  time.Duration
	now     func() time.Time
}

// NewFileURLSigner creates a new FileURLSigner instance.
func NewFileURLSigner(cfg *config.FilesConfig) *FileURLSigner {
	return &FileURLSigner{
		baseURL: cfg.BaseURL,
		secret:  []byte(cfg.URLSecret),
		expiry:  cfg.URLExpiry,
		now:     time.Now,
	}
}

// ImageURL returns a signed URL for the image id, or the empty string
// when there is no image.
func (s *FileURLSigner) ImageURL(imageID string) string {
	if imageID == "" {
		return ""
	}
	expires := s.now().Add(s.expiry).Unix()
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s:%d", imageID, expires)
	token := hex.EncodeToString(mac.Sum(nil))
	return s.baseURL + "/files/" + imageID + "?expires=" + strconv.FormatInt(expires, 10) + "&token=" + token
}
