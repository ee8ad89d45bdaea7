package roster

import (
	"sort"

	"github.com/hitoshi/teamcal/internal/model"
)

// Validate は外部名簿と永続化済みメンバーの氏名照合を行う。
// 両方に存在するIDについて氏名が一致しない場合、その全件をMismatchとして返す。
// 1件でも不一致があれば同期全体が中止されるため、部分的な報告ではなく
// 全件を収集してから返す。戻り値はID昇順。
func Validate(external map[int64]ExternalRecord, persisted []*model.Person) []Mismatch {
	var mismatches []Mismatch
	for _, p := range persisted {
		rec, ok := external[p.ID]
		if !ok {
			continue
		}
		if rec.Name != p.Name {
			mismatches = append(mismatches, Mismatch{
				ID:            p.ID,
				ExternalName:  rec.Name,
				PersistedName: p.Name,
			})
		}
	}
	sort.Slice(mismatches, func(i, j int) bool {
		return mismatches[i].ID < mismatches[j].ID
	})
	return mismatches
}
