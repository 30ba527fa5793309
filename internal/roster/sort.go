package roster

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tem1004-eng/chulseuk-7/internal/domain"
)

// SortByName: 교인 목록을 한국어 정렬 규칙에 따라 이름순으로 정렬합니다. (제자리 정렬)
// 이름이 같으면 id 오름차순으로 정렬한다.
func SortByName(members []domain.Member) []domain.Member {
	// Collator는 동시 사용이 안전하지 않아 호출마다 새로 만든다
	c := collate.New(language.Korean)
	sort.SliceStable(members, func(i, j int) bool {
		if cmp := c.CompareString(members[i].Name, members[j].Name); cmp != 0 {
			return cmp < 0
		}
		return members[i].ID < members[j].ID
	})
	return members
}
