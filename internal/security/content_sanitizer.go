// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService はイベント説明文と出欠回答のメモをサニタイズし、
// フロントエンドでの表示時にXSS攻撃からユーザーを保護する。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// 安全なタグと属性のみを通過させる。
package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はユーザー入力のサニタイズ機能のインターフェースを定義する。
// イベント作成・更新および出欠回答の保存前に使用される。
type ContentSanitizerService interface {
	// SanitizeDescription はイベント説明文をサニタイズして安全なHTMLを返す。
	// 説明文はフロントエンドでリッチテキストとして描画されるため、
	// 基本的な整形タグ（p, br, a, ul, ol, li, strong, em, code）のみを許可する。
	// script, iframe, styleタグおよびon*イベント属性は除去される。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeDescription(raw string) string

	// SanitizeNote は出欠回答のメモをサニタイズしてプレーンテキストを返す。
	// メモは整形なしの短いテキストとして扱うため、全タグを除去する。
	SanitizeNote(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	descriptionPolicy *bluemonday.Policy
	notePolicy        *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// 説明文用ポリシーの内容:
//   - 許可タグ: p, br, a, ul, ol, li, strong, em, code
//   - aタグ: href属性のみ許可、target="_blank" と rel="noopener noreferrer" を自動付与
//   - script, iframe, style等は許可リストに含めないことで自動的に除去される
//
// メモ用ポリシーはStrictPolicy（全タグ除去）。
func NewContentSanitizer() *contentSanitizer {
	desc := bluemonday.NewPolicy()
	desc.AllowElements(
		"p", "br", "ul", "ol", "li",
		"strong", "em", "code",
	)
	desc.AllowAttrs("href").OnElements("a")
	desc.AllowStandardURLs()
	desc.AllowRelativeURLs(false)
	desc.AddTargetBlankToFullyQualifiedLinks(true)
	desc.RequireNoReferrerOnLinks(true)

	return &contentSanitizer{
		descriptionPolicy: desc,
		notePolicy:        bluemonday.StrictPolicy(),
	}
}

// SanitizeDescription はイベント説明文をサニタイズして安全なHTMLを返す。
func (s *contentSanitizer) SanitizeDescription(raw string) string {
	return s.descriptionPolicy.Sanitize(raw)
}

// SanitizeNote は出欠回答のメモをサニタイズしてプレーンテキストを返す。
func (s *contentSanitizer) SanitizeNote(raw string) string {
	return s.notePolicy.Sanitize(raw)
}

// compile-time interface check
var _ ContentSanitizerService = (*contentSanitizer)(nil)
