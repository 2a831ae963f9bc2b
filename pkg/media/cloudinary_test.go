package media

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"
	"time"
)

func TestSignatureMatchesCloudinaryScheme(t *testing.T) {
	cl := NewCloudinary(CloudinaryConfig{
		CloudName: "demo",
		APIKey:    "key123",
		APISecret: "shhh",
		Folder:    "unafeed",
	})
	now := time.Unix(1735689600, 0)

	got := cl.Signature("campus", now)

	sum := sha1.Sum([]byte("folder=campus&timestamp=1735689600shhh"))
	if got.Signature != hex.EncodeToString(sum[:]) {
		t.Errorf("signature = %s", got.Signature)
	}
	if got.Timestamp != 1735689600 {
		t.Errorf("timestamp = %d", got.Timestamp)
	}
	if got.APIKey != "key123" {
		t.Errorf("api key = %s", got.APIKey)
	}
	if got.Folder != "campus" {
		t.Errorf("folder = %s", got.Folder)
	}
}

func TestSignatureDefaultsFolder(t *testing.T) {
	cl := NewCloudinary(CloudinaryConfig{APISecret: "shhh", Folder: "unafeed"})
	got := cl.Signature("", time.Unix(100, 0))
	if got.Folder != "unafeed" {
		t.Errorf("folder = %s, want configured default", got.Folder)
	}
}

func TestSignatureDeterministic(t *testing.T) {
	cl := NewCloudinary(CloudinaryConfig{APISecret: "shhh"})
	now := time.Unix(42, 0)
	if cl.Signature("a", now).Signature != cl.Signature("a", now).Signature {
		t.Error("same inputs produced different signatures")
	}
}
