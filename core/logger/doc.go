// Package logger records interpreter events as newline delimited JSON so
// sessions can be reviewed and summarized later.
package logger
