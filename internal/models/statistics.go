package models

type UserStatistics struct {
	Total       int     `db:"total"`
	Programmers int     `db:"programmers"`
	AverageAge  float64 `db:"average_age"`
}

type GroupCount struct {
	Key   string `db:"group_key"`
	Count int    `db:"group_count"`
}
