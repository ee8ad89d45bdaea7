package roster

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// mockSSRFGuard はテスト用のSSRFGuardServiceモック。
// httptestのループバックアドレスへ接続するため検証を素通しにする。
type mockSSRFGuard struct {
	validateURLFunc func(rawURL string) error
}

func (m *mockSSRFGuard) NewSafeClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func (m *mockSSRFGuard) ValidateURL(rawURL string) error {
	if m.validateURLFunc != nil {
		return m.validateURLFunc(rawURL)
	}
	return nil
}

const testCSV = `id,user,type,role,active
1,Alice,mentor,Coach,1
2,Bob,student,,1
3,Carol,other,Volunteer,0
`

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.csv")
	if err := os.WriteFile(path, []byte(testCSV), 0o600); err != nil {
		t.Fatalf("failed to write roster file: %v", err)
	}

	loader := NewLoader(&mockSSRFGuard{}, time.Second, 1<<20)
	records, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("expected 3 records, got %d", len(records))
	}
}

func TestLoad_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testCSV))
	}))
	defer srv.Close()

	loader := NewLoader(&mockSSRFGuard{}, time.Second, 1<<20)
	records, err := loader.Load(context.Background(), srv.URL+"/users.csv")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("expected 3 records, got %d", len(records))
	}
}

func TestLoad_URLOversizeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testCSV))
	}))
	defer srv.Close()

	// 上限を1行目の行末に合わせる: 切断が行境界で起きると
	// 3人の名簿が1人の正常な名簿に見えてしまう
	firstRowEnd := strings.Index(testCSV, "2,Bob")
	loader := NewLoader(&mockSSRFGuard{}, time.Second, int64(firstRowEnd))

	records, err := loader.Load(context.Background(), srv.URL+"/users.csv")
	if err == nil {
		t.Fatalf("expected oversize error, got %d records", len(records))
	}
	if !strings.Contains(err.Error(), "サイズ上限") {
		t.Errorf("expected size-limit error, got %v", err)
	}
}

func TestLoad_URLWithinLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testCSV))
	}))
	defer srv.Close()

	// ちょうど上限いっぱいのレスポンスはエラーにならない
	loader := NewLoader(&mockSSRFGuard{}, time.Second, int64(len(testCSV)))
	records, err := loader.Load(context.Background(), srv.URL+"/users.csv")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("expected 3 records, got %d", len(records))
	}
}

func TestLoad_URLNon200Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	loader := NewLoader(&mockSSRFGuard{}, time.Second, 1<<20)
	if _, err := loader.Load(context.Background(), srv.URL+"/missing.csv"); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestLoad_URLValidationFailureRejected(t *testing.T) {
	guard := &mockSSRFGuard{
		validateURLFunc: func(rawURL string) error {
			return errors.New("blocked IP address")
		},
	}

	loader := NewLoader(guard, time.Second, 1<<20)
	if _, err := loader.Load(context.Background(), "http://169.254.169.254/latest"); err == nil {
		t.Error("expected error when URL validation fails")
	}
}
