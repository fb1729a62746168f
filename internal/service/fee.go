package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Rounding определяет, как неполные сутки проката учитываются в стоимости.
type Rounding string

const (
	// RoundFloor считает только полные прошедшие сутки.
	RoundFloor Rounding = "floor"
	// RoundCeil считает начатые сутки полными.
	RoundCeil Rounding = "ceil"
)

const day = 24 * time.Hour

// ParseRounding разбирает название режима округления.
func ParseRounding(s string) (Rounding, error) {
	switch r := Rounding(strings.ToLower(strings.TrimSpace(s))); r {
	case RoundFloor, RoundCeil:
		return r, nil
	}
	return "", fmt.Errorf("unknown fee rounding %q", s)
}

// FeePolicy рассчитывает стоимость проката: число суток, умноженное на
// суточную ставку из снимка фильма.
type FeePolicy struct {
	Rounding Rounding
	MinDays  int64
}

// DefaultFeePolicy: полные сутки, минимум одни сутки.
func DefaultFeePolicy() FeePolicy {
	return FeePolicy{Rounding: RoundFloor, MinDays: 1}
}

// Days возвращает число оплачиваемых суток между выдачей и возвратом.
func (p FeePolicy) Days(out, returned time.Time) int64 {
	elapsed := returned.Sub(out)
	if elapsed < 0 {
		elapsed = 0
	}

	days := int64(elapsed / day)
	if p.Rounding == RoundCeil && elapsed%day != 0 {
		days++
	}
	if days < p.MinDays {
		days = p.MinDays
	}
	return days
}

// Fee возвращает стоимость проката, округлённую до копеек.
func (p FeePolicy) Fee(out, returned time.Time, dailyRate float64) float64 {
	days := decimal.NewFromInt(p.Days(out, returned))
	return days.Mul(decimal.NewFromFloat(dailyRate)).Round(2).InexactFloat64()
}
