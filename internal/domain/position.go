package domain

// Position: 교인의 직분. 고정된 12개 값 중 하나다.
type Position string

// 직분 목록.
const (
	PositionPastor         Position = "목사"
	PositionEvangelist     Position = "전도사"
	PositionElder          Position = "장로"
	PositionKwonsa         Position = "권사"
	PositionOrdainedDeacon Position = "안수집사"
	PositionDeacon         Position = "집사"
	PositionActingDeacon   Position = "서리집사"
	PositionLayMember      Position = "성도"
	PositionYouth          Position = "청년"
	PositionStudent        Position = "학생"
	PositionTeacher        Position = "교사"
	PositionNewcomer       Position = "새가족"
)

// PositionAll: 직분 필터에서 "전체"를 뜻하는 값
const PositionAll Position = "all"

// Positions: 화면 표시 순서대로 정렬된 전체 직분 목록
var Positions = []Position{
	PositionPastor,
	PositionEvangelist,
	PositionElder,
	PositionKwonsa,
	PositionOrdainedDeacon,
	PositionDeacon,
	PositionActingDeacon,
	PositionLayMember,
	PositionYouth,
	PositionStudent,
	PositionTeacher,
	PositionNewcomer,
}

var positionSet = func() map[Position]struct{} {
	set := make(map[Position]struct{}, len(Positions))
	for _, p := range Positions {
		set[p] = struct{}{}
	}
	return set
}()

// Valid: 정의된 12개 직분 중 하나인지 확인합니다.
func (p Position) Valid() bool {
	_, ok := positionSet[p]
	return ok
}

// IsPosition: 문자열이 유효한 직분 이름인지 확인합니다.
func IsPosition(s string) bool {
	return Position(s).Valid()
}
