package repository

import "github.com/doug-martin/goqu/v9"

// QueryBuilder collects equality filters for list queries.
type QueryBuilder interface {
	AddCondition(key string, value interface{})
	BuildConditions(aliases map[string]string) goqu.Ex
}

type conditionSet map[string]interface{}

func NewQueryBuilder() QueryBuilder {
	return conditionSet{}
}

// AddCondition filters on key = value. A nil value filters on IS NULL.
func (q conditionSet) AddCondition(key string, value interface{}) {
	q[key] = value
}

// BuildConditions renames keys found in aliases, typically to qualify them
// with a table alias.
func (q conditionSet) BuildConditions(aliases map[string]string) goqu.Ex {
	conditions := make(goqu.Ex, len(q))
	for key, value := range q {
		column := key
		if alias, ok := aliases[key]; ok {
			column = alias
		}
		if value == nil {
			conditions[column] = goqu.Op{"is": nil}
			continue
		}
		conditions[column] = value
	}
	return conditions
}
