package workflow

import (
	"context"
	"fmt"

	"campaignhub_backend/internal/logger"
)

// Policy - допустимость сбоя побочного эффекта
type Policy string

const (
	// PolicyRequired - сбой прерывает операцию и возвращается вызывающему
	PolicyRequired Policy = "required"
	// PolicyBestEffort - сбой логируется, основная мутация не откатывается
	PolicyBestEffort Policy = "best_effort"
)

// Effect - побочный эффект, выполняемый после сохранения основной мутации
type Effect struct {
	Name   string
	Policy Policy
	Run    func(ctx context.Context) error
}

// EffectResult - итог выполнения эффекта
type EffectResult struct {
	Name   string `json:"name"`
	Policy Policy `json:"policy"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

func BestEffort(name string, run func(ctx context.Context) error) Effect {
	return Effect{Name: name, Policy: PolicyBestEffort, Run: run}
}

func Required(name string, run func(ctx context.Context) error) Effect {
	return Effect{Name: name, Policy: PolicyRequired, Run: run}
}

// RunEffects выполняет эффекты по порядку.
// Сбой required-эффекта останавливает выполнение и возвращается как ошибка.
// Паника внутри эффекта считается сбоем этого эффекта.
func RunEffects(ctx context.Context, effects []Effect) ([]EffectResult, error) {
	results := make([]EffectResult, 0, len(effects))
	for _, effect := range effects {
		err := runSafely(ctx, effect)
		res := EffectResult{Name: effect.Name, Policy: effect.Policy, OK: err == nil}
		if err != nil {
			res.Error = err.Error()
		}
		results = append(results, res)

		logger.EffectLog(effect.Name, string(effect.Policy), err, "request_id", logger.GetRequestID(ctx))

		if err != nil && effect.Policy == PolicyRequired {
			return results, fmt.Errorf("effect %s: %w", effect.Name, err)
		}
	}
	return results, nil
}

func runSafely(ctx context.Context, effect Effect) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if effect.Run == nil {
		return nil
	}
	return effect.Run(ctx)
}
