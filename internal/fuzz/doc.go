// Package fuzztests holds Go fuzz harnesses for the checking pipeline
// (source -> lexer -> parser -> resolver -> type checker). They guard against
// panics, hangs and internal checker errors on arbitrary input.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
