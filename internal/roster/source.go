package roster

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hitoshi/teamcal/internal/security"
)

// Loader は名簿ソースの取得を担う。
// ソースはローカルのCSVファイルパスまたはHTTP(S) URLのいずれか。
// URLの場合はSSRFガード付きHTTPクライアントで取得する。
type Loader struct {
	guard   security.SSRFGuardService
	timeout time.Duration
	maxSize int64
}

// NewLoader はLoaderを生成する。
// maxSizeはHTTP取得時のレスポンスサイズ上限（バイト）。
func NewLoader(guard security.SSRFGuardService, timeout time.Duration, maxSize int64) *Loader {
	return &Loader{
		guard:   guard,
		timeout: timeout,
		maxSize: maxSize,
	}
}

// Load はソースから名簿を読み込む。
// sourceが http:// または https:// で始まる場合はURL取得、
// それ以外はファイルパスとして扱う。
func (l *Loader) Load(ctx context.Context, source string) (map[int64]ExternalRecord, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return l.loadURL(ctx, source)
	}
	return l.loadFile(source)
}

// loadFile はローカルCSVファイルから名簿を読み込む。
func (l *Loader) loadFile(path string) (map[int64]ExternalRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("名簿ファイルを開けませんでした: %w", err)
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// loadURL はHTTP(S) URLから名簿を取得して読み込む。
// 事前のURL検証とDialerレベルの検証の二段構えでSSRFを防止する。
func (l *Loader) loadURL(ctx context.Context, rawURL string) (map[int64]ExternalRecord, error) {
	if err := l.guard.ValidateURL(rawURL); err != nil {
		return nil, fmt.Errorf("名簿URLの検証に失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("名簿URLのリクエスト生成に失敗しました: %w", err)
	}

	client := l.guard.NewSafeClient(l.timeout)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("名簿URLの取得に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("名簿URLがステータス%dを返しました", resp.StatusCode)
	}

	// サイズ上限+1まで読み、超過を途中切断ではなくエラーとして検出する。
	// 切断されたCSVは行境界で切れると少人数の正常な名簿に見えてしまい、
	// 同期が大量削除を計画する恐れがある。
	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("名簿URLの読み取りに失敗しました: %w", err)
	}
	if int64(len(body)) > l.maxSize {
		return nil, fmt.Errorf("名簿URLのレスポンスがサイズ上限（%dバイト）を超えています", l.maxSize)
	}

	records, err := ReadCSV(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rawURL, err)
	}
	return records, nil
}
