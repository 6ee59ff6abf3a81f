// Package postgres implements the store using pgx/v5 with raw SQL.
// Features: sequence-backed document ID allocation, transactional
// compound writes, embedded SQL migrations.
package postgres
