package workflow

import (
	"strings"
	"time"

	"campaignhub_backend/internal/models"
)

// StageForStatus определяет фазу workflow по статусу заявки или выплаты
func StageForStatus(status string) models.Stage {
	switch models.ApplicationStatus(status) {
	case models.ApplicationStatusApplied, models.ApplicationStatusApproved, models.ApplicationStatusRejected:
		return models.StageApplication
	case models.ApplicationStatusOrderSubmitted, models.ApplicationStatusOrderFormApproved, models.ApplicationStatusOrderFormRejected:
		return models.StageOrder
	case models.ApplicationStatusCompleted, models.ApplicationStatusPartialPaymentProcessed, models.ApplicationStatusFullPaymentProcessed:
		return models.StagePayment
	}
	// Все статусы выплаты относятся к фазе payment
	if models.PaymentStatus(status).Valid() {
		return models.StagePayment
	}
	return models.StageApplication
}

// AppendComment добавляет запись в конец журнала. Пустой текст - no-op.
func AppendComment(ledger []models.CommentEntry, stage models.Stage, text string, author models.Actor, now time.Time) []models.CommentEntry {
	text = strings.TrimSpace(text)
	if text == "" {
		return ledger
	}
	return append(ledger, models.CommentEntry{
		Stage:     stage,
		Comment:   text,
		By:        author.ID,
		ByName:    author.Name,
		CreatedAt: now,
	})
}

// LatestForStage - последняя запись журнала для указанной фазы
func LatestForStage(ledger []models.CommentEntry, stage models.Stage) *models.CommentEntry {
	for i := len(ledger) - 1; i >= 0; i-- {
		if ledger[i].Stage == stage {
			entry := ledger[i]
			return &entry
		}
	}
	return nil
}

// Latest - последняя запись журнала вне зависимости от фазы
func Latest(ledger []models.CommentEntry) *models.CommentEntry {
	if len(ledger) == 0 {
		return nil
	}
	entry := ledger[len(ledger)-1]
	return &entry
}

// AuthorIDs собирает уникальные id авторов в порядке первого появления
func AuthorIDs(ledgers ...[]models.CommentEntry) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, ledger := range ledgers {
		for _, entry := range ledger {
			if entry.By == "" || seen[entry.By] {
				continue
			}
			seen[entry.By] = true
			ids = append(ids, entry.By)
		}
	}
	return ids
}

// WithAuthorNames возвращает копию журнала с заполненными by_name.
// Уже заполненные имена не перезаписываются.
func WithAuthorNames(ledger []models.CommentEntry, names map[string]string) []models.CommentEntry {
	out := models.CloneComments(ledger)
	for i := range out {
		if out[i].ByName != "" {
			continue
		}
		if name, ok := names[out[i].By]; ok {
			out[i].ByName = name
		}
	}
	return out
}
