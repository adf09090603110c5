package models

// Nutrition is a value-type snapshot of nutrient totals. Methods return new
// values, never mutate, so a raw baseline can always be kept alongside a
// scaled copy.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
}

func (n Nutrition) Scale(factor float64) Nutrition {
	return Nutrition{
		Calories: n.Calories * factor,
		Protein:  n.Protein * factor,
		Carbs:    n.Carbs * factor,
		Fat:      n.Fat * factor,
		Fiber:    n.Fiber * factor,
		Sugar:    n.Sugar * factor,
		Sodium:   n.Sodium * factor,
	}
}

func (n Nutrition) Add(other Nutrition) Nutrition {
	return Nutrition{
		Calories: n.Calories + other.Calories,
		Protein:  n.Protein + other.Protein,
		Carbs:    n.Carbs + other.Carbs,
		Fat:      n.Fat + other.Fat,
		Fiber:    n.Fiber + other.Fiber,
		Sugar:    n.Sugar + other.Sugar,
		Sodium:   n.Sodium + other.Sodium,
	}
}

// Sub is an unfloored difference, used when adjusting a summary for an
// edited meal.
func (n Nutrition) Sub(other Nutrition) Nutrition {
	return Nutrition{
		Calories: n.Calories - other.Calories,
		Protein:  n.Protein - other.Protein,
		Carbs:    n.Carbs - other.Carbs,
		Fat:      n.Fat - other.Fat,
		Fiber:    n.Fiber - other.Fiber,
		Sugar:    n.Sugar - other.Sugar,
		Sodium:   n.Sodium - other.Sodium,
	}
}

// SubFloor subtracts with every field floored at zero, used when removing
// a deleted meal from a summary.
func (n Nutrition) SubFloor(other Nutrition) Nutrition {
	floor := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	}
	return Nutrition{
		Calories: floor(n.Calories - other.Calories),
		Protein:  floor(n.Protein - other.Protein),
		Carbs:    floor(n.Carbs - other.Carbs),
		Fat:      floor(n.Fat - other.Fat),
		Fiber:    floor(n.Fiber - other.Fiber),
		Sugar:    floor(n.Sugar - other.Sugar),
		Sodium:   floor(n.Sodium - other.Sodium),
	}
}
