package server

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/tem1004-eng/chulseuk-7/internal/domain"
)

var phonePattern = regexp.MustCompile(`^[0-9+\-() ]{2,20}$`)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators: gin 바인딩 검증기에 출석부 전용 태그를 등록한다.
//
//	roster_position         12개 직분 중 하나
//	roster_position_filter  직분 또는 "all"
//	roster_phone            전화번호 형식
//	roster_status           출석/결석 또는 빈 값(기록 삭제)
//	roster_status_filter    출석/결석 또는 "all"
//	roster_date             YYYY-MM-DD
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}

		validations := map[string]validator.Func{
			"roster_position": func(fl validator.FieldLevel) bool {
				return domain.IsPosition(fl.Field().String())
			},
			"roster_position_filter": func(fl validator.FieldLevel) bool {
				p := domain.Position(fl.Field().String())
				return p == domain.PositionAll || p.Valid()
			},
			"roster_phone": func(fl validator.FieldLevel) bool {
				return phonePattern.MatchString(fl.Field().String())
			},
			"roster_status": func(fl validator.FieldLevel) bool {
				s := domain.AttendanceStatus(fl.Field().String())
				return s == domain.StatusUnset || s.Valid()
			},
			"roster_status_filter": func(fl validator.FieldLevel) bool {
				s := domain.AttendanceStatus(fl.Field().String())
				return s == domain.StatusAll || s.Valid()
			},
			"roster_date": func(fl validator.FieldLevel) bool {
				return domain.IsDateKey(fl.Field().String())
			},
		}
		for tag, fn := range validations {
			if err := v.RegisterValidation(tag, fn); err != nil {
				registerErr = fmt.Errorf("register validation %s: %w", tag, err)
				return
			}
		}
	})
	return registerErr
}
