package metadata

import "fmt"

type Condition int

const (
	ConditionGood             Condition = 1
	ConditionMinorDamage      Condition = 2
	ConditionMajorDamage      Condition = 3
	ConditionUnRepairable     Condition = 4
	ConditionNeedsMaintenance Condition = 5
)

var conditionLabels = map[Condition]string{
	ConditionGood:             "Good Condition",
	ConditionMinorDamage:      "Minor Damage",
	ConditionMajorDamage:      "Major Damage",
	ConditionUnRepairable:     "Un-Repairable",
	ConditionNeedsMaintenance: "Needs Maintenance",
}

func NewCondition(value int) (Condition, error) {
	c := Condition(value)
	if !c.IsValid() {
		return 0, fmt.Errorf("invalid condition: %d", value)
	}
	return c, nil
}

func (c Condition) IsValid() bool {
	_, ok := conditionLabels[c]
	return ok
}

func (c Condition) Label() string {
	if label, ok := conditionLabels[c]; ok {
		return label
	}
	return "Unknown"
}
