// Package id provides unique identifier generation for handlers and history
// entries.
package id
