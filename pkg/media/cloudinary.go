package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"
)

// CloudinaryConfig carries injected credentials for the image CDN.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type Cloudinary struct {
	cfg  CloudinaryConfig
	http *http.Client
}

func NewCloudinary(cfg CloudinaryConfig) *Cloudinary {
	return &Cloudinary{
		cfg:  cfg,
		http: &http.Client{Timeout: 60 * time.Second},
	}
}

type SignatureResponse struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	Folder    string `json:"folder"`
}

// Signature produces the SHA-1 signature Cloudinary expects for signed
// browser uploads: sorted key=value pairs joined by '&', secret appended.
func (cl *Cloudinary) Signature(folder string, now time.Time) SignatureResponse {
	if folder == "" {
		folder = cl.cfg.Folder
	}
	timestamp := now.Unix()

	params := map[string]string{
		"timestamp": fmt.Sprintf("%d", timestamp),
		"folder":    folder,
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + cl.cfg.APISecret))

	return SignatureResponse{
		Signature: hex.EncodeToString(sum[:]),
		Timestamp: timestamp,
		APIKey:    cl.cfg.APIKey,
		Folder:    folder,
	}
}

type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type cloudinaryUploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload proxies an image to Cloudinary's signed upload endpoint.
func (cl *Cloudinary) Upload(ctx context.Context, file io.Reader, filename string) (UploadResult, error) {
	sig := cl.Signature(cl.cfg.Folder, time.Now())

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	fields := map[string]string{
		"api_key":   sig.APIKey,
		"timestamp": fmt.Sprintf("%d", sig.Timestamp),
		"signature": sig.Signature,
		"folder":    sig.Folder,
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return UploadResult{}, err
		}
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return UploadResult{}, err
	}
	if err := writer.Close(); err != nil {
		return UploadResult{}, err
	}

	url := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", cl.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, buf)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := cl.http.Do(req)
	if err != nil {
		return UploadResult{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return UploadResult{}, err
	}

	var parsed cloudinaryUploadResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return UploadResult{}, fmt.Errorf("decode cloudinary response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return UploadResult{}, fmt.Errorf("cloudinary status %s: %s", resp.Status, parsed.Error.Message)
	}

	return UploadResult{
		URL:      parsed.SecureURL,
		PublicID: parsed.PublicID,
		Width:    parsed.Width,
		Height:   parsed.Height,
	}, nil
}
