package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hitoshi/teamcal/internal/model"
)

// requiredColumns は名簿CSVの必須カラム。
var requiredColumns = []string{"id", "user", "type", "role", "active"}

// ReadCSV は名簿CSVを読み込み、IDをキーとするマップを返す。
// 期待するカラム: id（整数・一意）, user（名前・前後空白は除去）,
// type（mentor/student/other）, role, active（0/1）。
// 不正な行は行番号付きのエラーとして報告し、全体を失敗させる。
func ReadCSV(r io.Reader) (map[int64]ExternalRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return map[int64]ExternalRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("名簿CSVのヘッダー読み込みに失敗しました: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	records := make(map[int64]ExternalRecord)
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("名簿CSVの読み込みに失敗しました（%d行目）: %w", line, err)
		}

		rec, err := parseRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("名簿CSVの解析に失敗しました（%d行目）: %w", line, err)
		}

		if _, exists := records[rec.ID]; exists {
			return nil, fmt.Errorf("名簿CSVにIDが重複しています（%d行目）: id=%d", line, rec.ID)
		}
		records[rec.ID] = rec
	}

	return records, nil
}

// columnIndex はヘッダー行から必須カラムの位置を解決する。
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.ToLower(name))] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("名簿CSVに必須カラムがありません: %v", missing)
	}

	return index, nil
}

// parseRow は1行をExternalRecordに変換する。
func parseRow(row []string, index map[string]int) (ExternalRecord, error) {
	get := func(col string) (string, error) {
		i := index[col]
		if i >= len(row) {
			return "", fmt.Errorf("カラムが不足しています: %s", col)
		}
		return row[i], nil
	}

	idStr, err := get("id")
	if err != nil {
		return ExternalRecord{}, err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
	if err != nil {
		return ExternalRecord{}, fmt.Errorf("idが整数ではありません: %q", idStr)
	}

	name, err := get("user")
	if err != nil {
		return ExternalRecord{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ExternalRecord{}, fmt.Errorf("userが空です: id=%d", id)
	}

	categoryStr, err := get("type")
	if err != nil {
		return ExternalRecord{}, err
	}
	category := model.Category(strings.TrimSpace(categoryStr))
	if !category.IsValid() {
		return ExternalRecord{}, fmt.Errorf("typeが不正です: %q (mentor, student, other のいずれか)", categoryStr)
	}

	role, err := get("role")
	if err != nil {
		return ExternalRecord{}, err
	}

	activeStr, err := get("active")
	if err != nil {
		return ExternalRecord{}, err
	}
	activeInt, err := strconv.Atoi(strings.TrimSpace(activeStr))
	if err != nil {
		return ExternalRecord{}, fmt.Errorf("activeが不正です: %q (0または1)", activeStr)
	}

	return ExternalRecord{
		ID:       id,
		Name:     name,
		Category: category,
		Role:     strings.TrimSpace(role),
		Active:   activeInt != 0,
	}, nil
}
