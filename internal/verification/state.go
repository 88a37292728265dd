// Package verification models the broker verification lifecycle:
// pending → verified | rejected, with a reset back to pending whenever the
// broker edits the profile. Transitions are explicit functions returning a
// change-set to persist; nothing happens implicitly on save.
package verification

import (
	"strings"
	"time"

	"github.com/arnabdutta04/estate-backend/internal/apperr"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusVerified || s == StatusRejected
}

// Change — что нужно записать в профиль брокера после перехода.
type Change struct {
	Status          Status
	RejectionReason string // пустая строка = причина очищена
	VerifiedAt      *time.Time
	VerifiedBy      string
}

// Review — решение админа по заявке брокера. verified очищает причину
// отказа, rejected требует непустую причину. Роль admin проверяется
// на маршруте, сюда приходит уже авторизованный вызов.
func Review(decision Status, reason, adminID string, now time.Time) (Change, error) {
	switch decision {
	case StatusVerified:
		return Change{
			Status:     StatusVerified,
			VerifiedAt: &now,
			VerifiedBy: adminID,
		}, nil
	case StatusRejected:
		if strings.TrimSpace(reason) == "" {
			return Change{}, apperr.BadRequest("Rejection reason is required when rejecting a broker")
		}
		return Change{
			Status:          StatusRejected,
			RejectionReason: reason,
			VerifiedAt:      &now,
			VerifiedBy:      adminID,
		}, nil
	default:
		return Change{}, apperr.BadRequest(`Invalid verification status. Must be "verified" or "rejected"`)
	}
}

// EditReset — правка профиля самим брокером отправляет его на повторную
// проверку: любой статус → pending, причина отказа очищается.
func EditReset() Change {
	return Change{Status: StatusPending, RejectionReason: ""}
}
