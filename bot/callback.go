package bot

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback operations. Payloads are ":"-delimited with the operation first,
// so decoding never depends on how many "_" a meal key or field name
// contains.
const (
	OpConfirm       = "confirm"
	OpCancel        = "cancel"
	OpPortionMenu   = "portion"
	OpPortionSet    = "pset"
	OpPortionCustom = "pcustom"
	OpNutrientMenu  = "adjust"
	OpNutrientField = "field"
	OpNudge         = "nudge"
	OpBack          = "back"
	OpDeleteMeal    = "del"
	OpApprove       = "appr"
	OpDeny          = "deny"
	OpRevoke        = "revoke"
	OpReinstate     = "reinstate"
	OpRequestAccess = "reqaccess"
)

// CallbackEvent is a decoded button press.
type CallbackEvent struct {
	Op      string
	MealKey string  // meal-flow ops
	Field   string  // nutrient ops
	Value   float64 // multiplier or delta
	MealID  uint    // stored-meal ops
	UserID  string  // admin ops
}

func encodeCallback(parts ...string) string {
	return strings.Join(parts, ":")
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// decodeCallback parses raw callback data into a typed event.
func decodeCallback(data string) (*CallbackEvent, error) {
	parts := strings.Split(data, ":")
	ev := &CallbackEvent{Op: parts[0]}

	argErr := func() error {
		return fmt.Errorf("malformed callback %q", data)
	}

	switch ev.Op {
	case OpConfirm, OpCancel, OpPortionMenu, OpPortionCustom, OpNutrientMenu, OpBack:
		if len(parts) != 2 {
			return nil, argErr()
		}
		ev.MealKey = parts[1]

	case OpPortionSet:
		if len(parts) != 3 {
			return nil, argErr()
		}
		ev.MealKey = parts[1]
		v, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, argErr()
		}
		ev.Value = v

	case OpNutrientField:
		if len(parts) != 3 {
			return nil, argErr()
		}
		ev.MealKey = parts[1]
		ev.Field = parts[2]

	case OpNudge:
		if len(parts) != 4 {
			return nil, argErr()
		}
		ev.MealKey = parts[1]
		ev.Field = parts[2]
		v, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return nil, argErr()
		}
		ev.Value = v

	case OpDeleteMeal:
		if len(parts) != 2 {
			return nil, argErr()
		}
		id, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			return nil, argErr()
		}
		ev.MealID = uint(id)

	case OpApprove, OpDeny, OpRevoke:
		if len(parts) != 2 {
			return nil, argErr()
		}
		ev.UserID = parts[1]

	case OpReinstate, OpRequestAccess:
		if len(parts) != 1 {
			return nil, argErr()
		}

	default:
		return nil, fmt.Errorf("unknown callback op %q", parts[0])
	}

	return ev, nil
}
