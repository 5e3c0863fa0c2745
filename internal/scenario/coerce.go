package scenario

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// toFloat coerces a loosely-typed document value to a number. Anything that
// does not parse becomes 0.
func toFloat(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case bool:
		if t {
			f = 1
		}
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// toInt coerces like toFloat and truncates toward zero.
func toInt(v any) int {
	return int(toFloat(v))
}

// present reports whether v carries a value (not absent, null, or NaN).
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case float64:
		return !math.IsNaN(t)
	case string:
		return strings.TrimSpace(t) != ""
	default:
		return true
	}
}

// floatOr coerces v, using def when v is absent.
func floatOr(v any, def float64) float64 {
	if !present(v) {
		return def
	}
	return toFloat(v)
}

// intOr coerces v, using def when v is absent.
func intOr(v any, def int) int {
	if !present(v) {
		return def
	}
	return toInt(v)
}

// toBool coerces v to a flag, using def when v is absent or unrecognized.
func toBool(v any, def bool) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "sim", "yes", "verdadeiro":
			return true
		case "false", "0", "não", "nao", "no", "falso":
			return false
		}
		return def
	case nil:
		return def
	default:
		if !present(v) {
			return def
		}
		return toFloat(v) != 0
	}
}

// toString coerces v to text, using def when v is absent.
func toString(v any, def string) string {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return def
		}
		return t
	case nil:
		return def
	case float64:
		if math.IsNaN(t) {
			return def
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		return def
	}
}

// normalizeMode maps any casing of CLT/PJ to the canonical spelling.
func normalizeMode(v any) EmploymentMode {
	mode := strings.ToUpper(strings.TrimSpace(toString(v, "")))
	switch mode {
	case string(ModeContractor):
		return ModeContractor
	case string(ModeSalaried):
		return ModeSalaried
	case "":
		return DefaultEmploymentMode
	default:
		return EmploymentMode(strings.TrimSpace(toString(v, "")))
	}
}

// normalizeChannel maps any casing of the known channels to the canonical spelling.
func normalizeChannel(v any) Channel {
	channel := strings.TrimSpace(toString(v, ""))
	switch {
	case channel == "":
		return DefaultPriceChannel
	case strings.EqualFold(channel, string(ChannelTaproom)):
		return ChannelTaproom
	case strings.EqualFold(channel, string(ChannelRetail)):
		return ChannelRetail
	default:
		return Channel(channel)
	}
}
