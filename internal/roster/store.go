package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/tem1004-eng/chulseuk-7/internal/domain"
)

// Persister: 명단 전체를 하나의 값으로 읽고 쓰는 외부 저장소
type Persister interface {
	// Read: 저장된 명단 JSON을 읽는다. 값이 없으면 ok=false.
	Read(ctx context.Context) (payload []byte, ok bool, err error)
	// Write: 명단 JSON 전체를 덮어쓴다.
	Write(ctx context.Context, payload []byte) error
}

// Recorder: 저장소 변경/저장 실패를 관측하는 훅 (메트릭 수집용)
type Recorder interface {
	MutationApplied(op string)
	PersistFailed(op string)
}

type nopRecorder struct{}

func (nopRecorder) MutationApplied(string) {}
func (nopRecorder) PersistFailed(string) {}

// 변경 작업 이름. 로그와 메트릭 라벨로 사용된다.
const (
	OpAdd           = "add"
	OpEdit          = "edit"
	OpDelete        = "delete"
	OpSetAttendance = "set_attendance"
	OpBulkReplace   = "bulk_replace"
	OpMigrate       = "migrate"
)

// 출석 기록 변경 시 입력 오류.
var (
	ErrInvalidDate   = errors.New("invalid attendance date")
	ErrInvalidStatus = errors.New("invalid attendance status")
)

const defaultPersistTimeout = 3 * time.Second

// Options: Store 생성 옵션
type Options struct {
	Logger         *slog.Logger
	Recorder       Recorder
	Clock          domain.Clock
	PersistTimeout time.Duration
}

// Store: 교인 명단의 유일한 인메모리 원본
// 모든 변경 후 명단 전체를 Persister에 기록하며, 기록 실패는 로그만 남기고 메모리 상태를 되돌리지 않는다.
type Store struct {
	mu      sync.RWMutex
	members []domain.Member

	persister      Persister
	logger         *slog.Logger
	recorder       Recorder
	clock          domain.Clock
	persistTimeout time.Duration

	onDelete       []func(id int)
	lastPersistErr error
}

// NewStore: 주어진 명단으로 저장소를 만듭니다. (Persister에서 읽지 않음)
func NewStore(members []domain.Member, persister Persister, opts Options) *Store {
	s := &Store{
		members:        normalize(domain.CloneMembers(members)),
		persister:      persister,
		logger:         opts.Logger,
		recorder:       opts.Recorder,
		clock:          opts.Clock,
		persistTimeout: opts.PersistTimeout,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}
	if s.clock == nil {
		s.clock = domain.NowKST
	}
	if s.persistTimeout <= 0 {
		s.persistTimeout = defaultPersistTimeout
	}
	SortByName(s.members)
	return s
}

// Open: Persister에서 저장된 명단을 읽어 저장소를 초기화합니다.
// 예전 형식 레코드는 변환 후 다시 저장하며, 저장된 값이 스키마에 맞지 않으면 에러를 반환한다.
func Open(ctx context.Context, persister Persister, opts Options) (*Store, error) {
	if persister == nil {
		return nil, errors.New("roster persister is nil")
	}

	s := NewStore(nil, persister, opts)

	payload, ok, err := persister.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	if !ok {
		s.logger.Info("roster_empty_on_open")
		return s, nil
	}

	raw, err := decodeStored(payload)
	if err != nil {
		return nil, fmt.Errorf("decode stored roster: %w", err)
	}
	raw, migrated := MigrateLegacy(raw, domain.TodayKST(s.clock()))

	members, err := Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("validate stored roster: %w", err)
	}

	s.members = SortByName(members)
	s.logger.Info("roster_loaded", slog.Int("members", len(members)))

	if migrated > 0 {
		s.logger.Info("roster_legacy_migrated", slog.Int("records", migrated))
		s.persistLocked(ctx, OpMigrate)
	}
	return s, nil
}

// OnDelete: 교인 삭제 시 호출될 콜백을 등록합니다. (선택 목록 정리 등)
func (s *Store) OnDelete(fn func(id int)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDelete = append(s.onDelete, fn)
}

// Snapshot: 현재 명단의 깊은 복사본을 반환합니다.
func (s *Store) Snapshot() []domain.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneMembers(s.members)
}

// Get: id로 교인을 조회합니다.
func (s *Store) Get(id int) (domain.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.members[i].Clone(), true
	}
	return domain.Member{}, false
}

// Len: 등록된 교인 수
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members)
}

// LastPersistError: 가장 최근 저장 시도의 에러. 성공했으면 nil.
func (s *Store) LastPersistError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastPersistErr
}

// Add: 새 교인을 등록합니다. id는 기존 최대 id + 1 (비어 있으면 1)이 된다.
func (s *Store) Add(ctx context.Context, name string, position domain.Position, phone string) domain.Member {
	s.mu.Lock()
	defer s.mu.Unlock()

	member := domain.Member{
		ID:         nextID(s.members),
		Name:       name,
		Position:   position,
		Phone:      phone,
		Attendance: map[string]domain.AttendanceStatus{},
	}
	s.members = append(s.members, member)
	SortByName(s.members)

	s.logger.Info("member_added", slog.Int("id", member.ID), slog.String("position", string(position)))
	s.applied(ctx, OpAdd)
	return member.Clone()
}

// Edit: 교인의 이름/직분/전화번호를 바꿉니다. 출석 기록은 유지된다.
// 해당 id가 없으면 아무것도 하지 않고 false를 반환한다.
func (s *Store) Edit(ctx context.Context, id int, name string, position domain.Position, phone string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.members[i].Name = name
	s.members[i].Position = position
	s.members[i].Phone = phone
	SortByName(s.members)

	s.logger.Info("member_edited", slog.Int("id", id))
	s.applied(ctx, OpEdit)
	return true
}

// Delete: 교인을 삭제합니다. 해당 id가 없으면 false.
// 등록된 OnDelete 콜백이 호출된다.
func (s *Store) Delete(ctx context.Context, id int) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.members = append(s.members[:i], s.members[i+1:]...)
	s.logger.Info("member_deleted", slog.Int("id", id))
	s.applied(ctx, OpDelete)
	hooks := append([]func(int){}, s.onDelete...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(id)
	}
	return true
}

// SetAttendance: 특정 날짜의 출석 상태를 기록합니다.
// status가 StatusUnset이면 해당 날짜 기록을 지운다. 해당 id가 없으면 false.
// 상태가 바뀌지 않으면 저장하지 않는다.
func (s *Store) SetAttendance(ctx context.Context, id int, date string, status domain.AttendanceStatus) (bool, error) {
	if !domain.IsDateKey(date) {
		return false, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	if status != domain.StatusUnset && !status.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	member := &s.members[i]
	current, exists := member.Attendance[date]
	switch {
	case status == domain.StatusUnset && !exists:
		return true, nil
	case status == domain.StatusUnset:
		delete(member.Attendance, date)
	case exists && current == status:
		return true, nil
	default:
		if member.Attendance == nil {
			member.Attendance = map[string]domain.AttendanceStatus{}
		}
		member.Attendance[date] = status
	}

	s.logger.Debug("attendance_set",
		slog.Int("id", id),
		slog.String("date", date),
		slog.String("status", string(status)),
	)
	s.applied(ctx, OpSetAttendance)
	return true, nil
}

// BulkReplace: 명단 전체를 주어진 목록으로 교체합니다.
// 검증을 통과한 데이터에만 호출해야 하며, 되돌릴 수 없다.
func (s *Store) BulkReplace(ctx context.Context, members []domain.Member) {
	next := SortByName(normalize(domain.CloneMembers(members)))

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := len(s.members)
	s.members = next
	s.logger.Warn("roster_replaced", slog.Int("previous", previous), slog.Int("members", len(next)))
	s.applied(ctx, OpBulkReplace)
}

func (s *Store) applied(ctx context.Context, op string) {
	s.recorder.MutationApplied(op)
	s.persistLocked(ctx, op)
}

// persistLocked: 명단 전체를 직렬화하여 Persister에 기록한다. 호출자가 락을 잡고 있어야 한다.
func (s *Store) persistLocked(ctx context.Context, op string) {
	if s.persister == nil {
		return
	}

	payload, err := Marshal(s.members)
	if err == nil {
		// 요청이 취소되어도 기록은 끝까지 시도한다
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
		err = s.persister.Write(writeCtx, payload)
		cancel()
	}

	s.lastPersistErr = err
	if err != nil {
		s.recorder.PersistFailed(op)
		s.logger.Error("roster_persist_failed", slog.String("op", op), slog.Any("error", err))
	}
}

func (s *Store) indexOf(id int) int {
	for i := range s.members {
		if s.members[i].ID == id {
			return i
		}
	}
	return -1
}

func nextID(members []domain.Member) int {
	maxID := 0
	for _, m := range members {
		if m.ID > maxID {
			maxID = m.ID
		}
	}
	return maxID + 1
}

// normalize: nil 출석 맵을 빈 맵으로 바꾼다. (직렬화 시 null 방지)
func normalize(members []domain.Member) []domain.Member {
	if members == nil {
		return []domain.Member{}
	}
	for i := range members {
		if members[i].Attendance == nil {
			members[i].Attendance = map[string]domain.AttendanceStatus{}
		}
	}
	return members
}

// Marshal: 명단을 저장용 JSON 배열로 직렬화합니다.
func Marshal(members []domain.Member) ([]byte, error) {
	if members == nil {
		members = []domain.Member{}
	}
	payload, err := json.Marshal(members)
	if err != nil {
		return nil, fmt.Errorf("marshal roster: %w", err)
	}
	return payload, nil
}

// Export: 명단을 사람이 읽기 좋은 들여쓰기 JSON으로 직렬화합니다. (내보내기 파일 내용)
func Export(members []domain.Member) ([]byte, error) {
	if members == nil {
		members = []domain.Member{}
	}
	payload, err := json.MarshalIndent(members, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export roster: %w", err)
	}
	return payload, nil
}
