package store

import (
	"context"
	"testing"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

func TestObjectStorePublicURL(t *testing.T) {
	client, err := storage.NewClient(context.Background(), option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("storage client error: %v", err)
	}
	defer client.Close()

	s := NewObjectStore(client, "sas-bucket", "")
	got := s.PublicURL("receipts/tx 1-123.pdf")
	want := "https://storage.googleapis.com/sas-bucket/receipts/tx%201-123.pdf"
	if got != want {
		t.Fatalf("PublicURL = %q, want %q", got, want)
	}

	s = NewObjectStore(client, "sas-bucket", "https://cdn.example.org/")
	if got := s.PublicURL("app-logos/logo.png"); got != "https://cdn.example.org/app-logos/logo.png" {
		t.Fatalf("PublicURL with base = %q", got)
	}
}
