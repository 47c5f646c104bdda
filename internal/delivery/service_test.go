package delivery_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pairtrack/internal/delivery"
	"pairtrack/internal/services"
	"pairtrack/internal/testsupport"
)

func TestDeliverCopiesPairFolder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.SeedPairFolder(t, cfg, 5, "video_a.mp4", "video_b.mp4")

	svc := delivery.NewSimpleService(cfg.Paths.AssetsDir, cfg.Paths.ClientDir)
	result, err := svc.Deliver(context.Background(), 5)
	if err != nil {
		t.Fatalf("Deliver failed: %v", err)
	}
	if result.FolderName != "Pair_05" {
		t.Fatalf("folder name %q", result.FolderName)
	}
	if len(result.Copied) != 2 {
		t.Fatalf("copied %v", result.Copied)
	}
	for _, name := range result.Copied {
		if _, err := os.Stat(filepath.Join(result.Destination, name)); err != nil {
			t.Fatalf("missing copied file %s: %v", name, err)
		}
	}
}

func TestDeliverMissingFolder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc := delivery.NewSimpleService(cfg.Paths.AssetsDir, cfg.Paths.ClientDir)

	_, err := svc.Deliver(context.Background(), 9)
	if !errors.Is(err, delivery.ErrFolderNotFound) {
		t.Fatalf("expected ErrFolderNotFound, got %v", err)
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("folder errors must classify as not found, got %v", err)
	}
}

func TestDeliverEmptyFolder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.SeedPairFolder(t, cfg, 9)

	svc := delivery.NewSimpleService(cfg.Paths.AssetsDir, cfg.Paths.ClientDir)
	_, err := svc.Deliver(context.Background(), 9)
	if !errors.Is(err, delivery.ErrNoFiles) {
		t.Fatalf("expected ErrNoFiles, got %v", err)
	}
}

func TestDeliverRejectsOutOfRangeNumber(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc := delivery.NewSimpleService(cfg.Paths.AssetsDir, cfg.Paths.ClientDir)

	for _, n := range []int{0, -3, 81} {
		if _, err := svc.Deliver(context.Background(), n); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("pair %d: expected validation error, got %v", n, err)
		}
	}
}

func TestSyncDescriptionWritesArtifact(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	folder := testsupport.SeedPairFolder(t, cfg, 12, "video_a.mp4")

	svc := delivery.NewSimpleService(cfg.Paths.AssetsDir, cfg.Paths.ClientDir)
	if err := svc.SyncDescription(context.Background(), 12, "ambient vs music"); err != nil {
		t.Fatalf("SyncDescription failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(folder, "description.txt"))
	if err != nil {
		t.Fatalf("description missing: %v", err)
	}
	if string(data) != "ambient vs music" {
		t.Fatalf("description content %q", data)
	}

	// Second write overwrites.
	if err := svc.SyncDescription(context.Background(), 12, "updated"); err != nil {
		t.Fatalf("SyncDescription failed: %v", err)
	}
	data, _ = os.ReadFile(filepath.Join(folder, "description.txt"))
	if string(data) != "updated" {
		t.Fatalf("description not overwritten: %q", data)
	}
}

func TestSyncDescriptionMissingFolder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc := delivery.NewSimpleService(cfg.Paths.AssetsDir, cfg.Paths.ClientDir)
	if err := svc.SyncDescription(context.Background(), 2, "text"); !errors.Is(err, delivery.ErrFolderNotFound) {
		t.Fatalf("expected ErrFolderNotFound, got %v", err)
	}
}

func TestHTTPServiceDeliver(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"pairNumber":5,"folderName":"Pair_05","filesCopied":["a.mp4"],"destination":"/client/Pair_05"}`))
	}))
	defer server.Close()

	svc := delivery.NewHTTPService(server.URL, "secret", server.Client())
	result, err := svc.Deliver(context.Background(), 5)
	if err != nil {
		t.Fatalf("Deliver failed: %v", err)
	}
	if gotPath != "/deliver" || gotAuth != "Bearer secret" {
		t.Fatalf("request path %q auth %q", gotPath, gotAuth)
	}
	if result.FolderName != "Pair_05" || len(result.Copied) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestHTTPServiceMapsGatewayErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Folder Pair_09 not found"}`))
	}))
	defer server.Close()

	svc := delivery.NewHTTPService(server.URL, "", server.Client())
	_, err := svc.Deliver(context.Background(), 9)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHTTPServiceSyncDescription(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	svc := delivery.NewHTTPService(server.URL, "", server.Client())
	if err := svc.SyncDescription(context.Background(), 3, "shelf with plant"); err != nil {
		t.Fatalf("SyncDescription failed: %v", err)
	}
	if !strings.Contains(body, `"pairNumber":3`) || !strings.Contains(body, `"description":"shelf with plant"`) {
		t.Fatalf("unexpected request body %q", body)
	}
}
