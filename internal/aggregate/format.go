// Package aggregate 將人員紀錄折疊成組織統計與單一員工明細；全部為純函式。
package aggregate

import (
	"math"
	"math/big"
	"strings"
	"time"

	"trac/internal/core"
)

const (
	// DefaultVelocity 沒有任何非零 velocity 報告時使用的團隊速度
	DefaultVelocity = 100
	// NoTopApp 沒有可用的應用程式時顯示的佔位字串
	NoTopApp = "---"
	// IdleApp 閒置時間在 liveBreakdown 中的鍵
	IdleApp = "Idle"
)

// FormatHours 秒數轉為固定小數位數的小時字串，剛好落在一半時進位（0.25 → "0.3"）
func FormatHours(seconds float64, decimals int) string {
	h := seconds / 3600
	if math.IsNaN(h) || math.IsInf(h, 0) {
		h = 0
	}
	return toFixed(h, decimals)
}

// toFixed 以 x 的精確值四捨五入，.5 一律進位
func toFixed(x float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	neg := x < 0
	if neg {
		x = -x
	}
	scaled := new(big.Rat).SetFloat64(x)
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	scaled.Mul(scaled, new(big.Rat).SetInt(scale))
	scaled.Add(scaled, big.NewRat(1, 2))
	digits := new(big.Int).Quo(scaled.Num(), scaled.Denom())

	out := digits.String()
	if decimals > 0 {
		if len(out) <= decimals {
			out = strings.Repeat("0", decimals-len(out)+1) + out
		}
		out = out[:len(out)-decimals] + "." + out[len(out)-decimals:]
	}
	if neg && digits.Sign() != 0 {
		out = "-" + out
	}
	return out
}

// Humanize "visual_studio_code" → "Visual Studio Code"
func Humanize(name string) string {
	replaced := strings.ReplaceAll(name, "_", " ")
	out := make([]byte, 0, len(replaced))
	prevWord := false
	for i := 0; i < len(replaced); i++ {
		c := replaced[i]
		word := isWordByte(c)
		if word && !prevWord && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out = append(out, c)
		prevWord = word
	}
	return string(out)
}

// DisplayAppName "visual_studio_code" → "VISUAL STUDIO CODE"
func DisplayAppName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "_", " "))
}

// round 與常見前端 Math.round 相同：.5 往正無限大進位
func round(x float64) int {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return int(math.Floor(x + 0.5))
}

func ratio(part, total float64) int {
	if total <= 0 {
		return 0
	}
	return round(part / total * 100)
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// DayKey t 在 loc 下的 yyyy-MM-dd
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(core.DateLayout)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
