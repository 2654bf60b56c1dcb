// Package services contains application services of the paperkeeper client
// that sit between the CLI and the lower layers: paper submission (upload and
// edit) and the session's email verification.
package services
