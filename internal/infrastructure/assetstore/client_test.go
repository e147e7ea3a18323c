package assetstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/catalogworks/catalog/internal/core/ports"
)

func TestUploadStreamsMultipartAndDecodesResult(t *testing.T) {
	var (
		gotAuth     string
		gotKey      string
		gotFilename string
		gotBody     string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		gotKey = r.FormValue("key")

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			http.Error(w, "no file", http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotFilename = header.Filename
		data, _ := io.ReadAll(file)
		gotBody = string(data)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"https://assets.example/pic.png","id":"pic-123"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{IngestURL: srv.URL, APIKey: "sekrit"})

	res, err := client.Upload(context.Background(), ports.UploadFile{
		Filename:    "pic.png",
		ContentType: "image/png",
		Body:        strings.NewReader("image-bytes"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.URL != "https://assets.example/pic.png" || res.ID != "pic-123" {
		t.Errorf("unexpected result: %+v", res)
	}
	if gotAuth != "Bearer sekrit" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotKey == "" {
		t.Error("expected a generated asset key field")
	}
	if gotFilename != "pic.png" {
		t.Errorf("expected filename preserved, got %q", gotFilename)
	}
	if gotBody != "image-bytes" {
		t.Errorf("expected file body streamed intact, got %q", gotBody)
	}
}

func TestUploadWithoutAPIKeyOmitsAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("expected no auth header, got %q", auth)
		}
		_, _ = w.Write([]byte(`{"url":"u","id":"i"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{IngestURL: srv.URL})
	if _, err := client.Upload(context.Background(), ports.UploadFile{
		Filename: "a.png",
		Body:     strings.NewReader("x"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUploadSurfacesRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(Config{IngestURL: srv.URL})
	_, err := client.Upload(context.Background(), ports.UploadFile{
		Filename: "a.png",
		Body:     strings.NewReader("x"),
	})
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("expected status and body in error, got %v", err)
	}
}

func TestUploadUnreachableEndpoint(t *testing.T) {
	client := NewClient(Config{IngestURL: "http://127.0.0.1:1/ingest"})
	if _, err := client.Upload(context.Background(), ports.UploadFile{
		Filename: "a.png",
		Body:     strings.NewReader("x"),
	}); err == nil {
		t.Fatal("expected error for unreachable endpoint")
	}
}
