package psqlbuilder

import "github.com/Masterminds/squirrel"

// builder squirrel-билдер с плейсхолдерами PostgreSQL ($1, $2, ...)
var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Select начинает построение SELECT запроса
func Select(columns ...string) squirrel.SelectBuilder {
	return builder.Select(columns...)
}

// Insert начинает построение INSERT запроса
func Insert(table string) squirrel.InsertBuilder {
	return builder.Insert(table)
}

// Update начинает построение UPDATE запроса
func Update(table string) squirrel.UpdateBuilder {
	return builder.Update(table)
}

// Delete начинает построение DELETE запроса
func Delete(table string) squirrel.DeleteBuilder {
	return builder.Delete(table)
}
